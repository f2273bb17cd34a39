package schema

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps one of them.
var (
	// ErrMalformedAttribute reports a key used as a bare word where a value is
	// required, or the other way around.
	ErrMalformedAttribute = errors.New("malformed attribute")
	// ErrInvalidEncoding reports a string attribute that is not UTF-8 text.
	ErrInvalidEncoding = errors.New("invalid encoding")
	// ErrNumericParse reports a numeric attribute that is not a number or
	// cannot be represented exactly as a float64.
	ErrNumericParse = errors.New("numeric parse error")
	// ErrUnsupportedShape reports a declaration that has no schema.
	ErrUnsupportedShape = errors.New("unsupported shape")
)

// DerivationError is returned by Builder.Derive and names the declaration that
// failed.
type DerivationError struct {
	Type string
	Err  error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("deriving BsonSchema for %s: %v", e.Type, e.Err)
}

func (e *DerivationError) Unwrap() error {
	return e.Err
}
