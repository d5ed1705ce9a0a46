package sqlight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Sql represents a SQL query, specified either as literal text or as a
// reference to a named template file on disk.
//
// Values are immutable and safe to reuse across handles. A template
// without an explicit directory inherits the handle's configured
// template directory at resolution time.
type Sql struct {
	raw       string
	filename  string
	dir       string
	templated bool
}

// Raw creates a Sql from literal query text. The text is passed to the
// engine unchanged.
func Raw(query string) Sql {
	return Sql{raw: query}
}

// Template creates a Sql referencing a named template file. The
// directory is deferred: it is taken from the handle's configuration
// when the query is resolved.
func Template(filename string) Sql {
	return Sql{filename: filename, templated: true}
}

// TemplateIn creates a Sql referencing a named template file in an
// explicit directory. The explicit directory takes precedence over any
// handle configuration.
func TemplateIn(filename, dir string) Sql {
	return Sql{filename: filename, dir: dir, templated: true}
}

// IsTemplate reports whether the query is loaded from a template file.
func (s Sql) IsTemplate() bool {
	return s.templated
}

// Resolve produces the literal SQL text to execute.
//
// Raw queries return their text unchanged. Template queries read the
// file fresh from disk on every call (no caching) and return its
// contents with surrounding whitespace trimmed. The template directory
// is the explicit one if set, otherwise fallbackDir; if neither is
// present, Resolve fails with ErrNoTemplateDir. A missing file fails
// with ErrTemplateNotFound.
//
// Template files contain plain SQL. Only the engine's own parameter
// placeholders are supported; no interpolation happens at this layer.
func (s Sql) Resolve(fallbackDir string) (string, error) {
	if !s.templated {
		return s.raw, nil
	}

	dir := s.dir
	if dir == "" {
		dir = fallbackDir
	}
	if dir == "" {
		return "", ErrNoTemplateDir
	}

	path := filepath.Join(dir, s.filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return "", fmt.Errorf("reading template %s: %w", path, err)
	}

	return strings.TrimSpace(string(data)), nil
}
