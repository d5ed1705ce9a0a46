package sqlight

import "errors"

// Sentinel errors for the sqlight package.
// Use errors.Is() to check for these errors in calling code:
//
//	if errors.Is(err, sqlight.ErrTemplateNotFound) {
//	    // handle missing template
//	}
//
// Engine-level failures keep their original cause in the chain, so
// errors.As() still reaches the driver's own error type when needed.
var (
	// ErrNoTemplateDir indicates a template query was resolved without a
	// template directory, either explicit or configured on the handle.
	ErrNoTemplateDir = errors.New("sqlight: no template directory available")

	// ErrTemplateNotFound indicates the named template file does not exist
	// in the resolved template directory.
	ErrTemplateNotFound = errors.New("sqlight: template not found")

	// ErrConnection indicates the database could not be opened, or an
	// operation was attempted on a closed handle.
	ErrConnection = errors.New("sqlight: connection failed")

	// ErrQuery indicates an execution-time failure reported by the engine
	// (syntax error, constraint violation, lock timeout). The engine's
	// native error is wrapped and remains inspectable.
	ErrQuery = errors.New("sqlight: query failed")
)
