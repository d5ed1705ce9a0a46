package sqlight

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeTemplate writes a SQL template file for testing.
func writeTemplate(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
}

// TestRawResolve verifies raw SQL resolves to its exact input text.
func TestRawResolve(t *testing.T) {
	queries := []string{
		"SELECT 1;",
		"SELECT id, name FROM users WHERE id = ?;",
		"  SELECT 1;  ", // raw text is never trimmed
		"",
	}

	for _, query := range queries {
		got, err := Raw(query).Resolve("")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got != query {
			t.Errorf("Resolve() = %q, want %q", got, query)
		}
	}
}

// TestTemplateResolve verifies template file resolution.
func TestTemplateResolve(t *testing.T) {
	t.Run("no directory available", func(t *testing.T) {
		_, err := Template("test.sql").Resolve("")
		if !errors.Is(err, ErrNoTemplateDir) {
			t.Errorf("Resolve() error = %v, want ErrNoTemplateDir", err)
		}
	})

	t.Run("fallback directory", func(t *testing.T) {
		dir := t.TempDir()
		writeTemplate(t, dir, "test.sql", "SELECT 1;")

		got, err := Template("test.sql").Resolve(dir)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got != "SELECT 1;" {
			t.Errorf("Resolve() = %q, want %q", got, "SELECT 1;")
		}
	})

	t.Run("explicit directory wins over fallback", func(t *testing.T) {
		explicit := t.TempDir()
		fallback := t.TempDir()
		writeTemplate(t, explicit, "test.sql", "SELECT 'explicit';")
		writeTemplate(t, fallback, "test.sql", "SELECT 'fallback';")

		got, err := TemplateIn("test.sql", explicit).Resolve(fallback)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got != "SELECT 'explicit';" {
			t.Errorf("Resolve() = %q, want explicit directory contents", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		dir := t.TempDir()

		_, err := Template("missing.sql").Resolve(dir)
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("Resolve() error = %v, want ErrTemplateNotFound", err)
		}
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		dir := t.TempDir()
		writeTemplate(t, dir, "test.sql", "\nSELECT 1;\n\n")

		got, err := Template("test.sql").Resolve(dir)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got != "SELECT 1;" {
			t.Errorf("Resolve() = %q, want trimmed contents", got)
		}
	})

	t.Run("reads fresh on every resolution", func(t *testing.T) {
		dir := t.TempDir()
		writeTemplate(t, dir, "test.sql", "SELECT 1;")

		src := Template("test.sql")
		if _, err := src.Resolve(dir); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}

		writeTemplate(t, dir, "test.sql", "SELECT 2;")
		got, err := src.Resolve(dir)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got != "SELECT 2;" {
			t.Errorf("Resolve() = %q, want fresh file contents", got)
		}
	})
}

// TestIsTemplate verifies the template flag.
func TestIsTemplate(t *testing.T) {
	if Raw("SELECT 1;").IsTemplate() {
		t.Error("Raw() IsTemplate() = true, want false")
	}
	if !Template("test.sql").IsTemplate() {
		t.Error("Template() IsTemplate() = false, want true")
	}
}
