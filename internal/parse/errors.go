package parse

import (
	"errors"
	"fmt"
)

// ErrFieldOrder is returned when a marker is present but appears before the
// field that should precede it.
var ErrFieldOrder = errors.New("parse: fields out of order")

// MarkerError reports a field whose `name=` marker could not be found.
type MarkerError struct {
	Field string
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("parse: missing %q marker", e.Field+"=")
}

// NumberError reports a numeric field whose value is not a float.
type NumberError struct {
	Field string
	Value string
	Err   error
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("parse: field %s: invalid number %q: %v", e.Field, e.Value, e.Err)
}

func (e *NumberError) Unwrap() error { return e.Err }

// MissingFieldError reports a required key absent from a structured object.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("parse: structured output missing field %q", e.Field)
}
