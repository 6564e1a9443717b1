package collection

import (
	"fmt"

	"github.com/vovakirdan/pushbox/internal/engine"
)

// ErrNoActiveLevel is returned by level accessors when no level is active.
var ErrNoActiveLevel = fmt.Errorf("%w: no active level", engine.ErrInvalidOperation)

// ErrNotInitialised is returned by Save before a successful Initialise.
var ErrNotInitialised = fmt.Errorf("%w: collection is not initialised", engine.ErrInvalidOperation)

// IOError reports a collection file that could not be read or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("collection: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports malformed collection content.
type ParseError struct {
	Path   string
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("collection: parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("collection: parse %s as %s: %v", e.Path, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
