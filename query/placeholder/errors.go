package placeholder

import (
	"errors"
	"fmt"
)

var (
	// ErrMixedPlaceholderStyle indicates a template uses both ? and :name placeholders.
	ErrMixedPlaceholderStyle = errors.New("mixed placeholder styles")

	// ErrMalformedTemplate indicates a quoted literal is never closed.
	ErrMalformedTemplate = errors.New("malformed template")
)

// ParseError reports where a template failed to rewrite.
type ParseError struct {
	Offset    int    // byte offset of the offending token
	Token     string // the offending token text
	Committed Mode   // style already committed to when the error occurred
	Err       error  // one of the sentinel errors above
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if errors.Is(e.Err, ErrMixedPlaceholderStyle) {
		return fmt.Sprintf("%v: %q at offset %d after %s placeholders", e.Err, e.Token, e.Offset, e.Committed)
	}
	return fmt.Sprintf("%v: %s at offset %d", e.Err, e.Token, e.Offset)
}

// Unwrap returns the sentinel error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
