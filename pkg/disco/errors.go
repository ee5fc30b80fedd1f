package disco

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is matched by FieldErrors for absent required fields
	ErrMissingField = errors.New("missing field")
	// ErrMalformedField is matched by FieldErrors for badly formatted fields
	ErrMalformedField = errors.New("malformed field")
	// ErrMissingCallback is returned when a query has no callback
	ErrMissingCallback = errors.New("missing callback")
)

// FieldError is a local validation failure on a request field.
type FieldError struct {
	Field string
	Err   error // ErrMissingField or ErrMalformedField
}

func missingField(name string) *FieldError {
	return &FieldError{Field: name, Err: ErrMissingField}
}

func malformedField(name string) *FieldError {
	return &FieldError{Field: name, Err: ErrMalformedField}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %q", e.Err, e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// description renders err the way the owner sees it in a ClientError.
func description(err error) string {
	var fe *FieldError
	switch {
	case errors.As(err, &fe) && errors.Is(fe.Err, ErrMissingField):
		return fmt.Sprintf("Missing '%s' key", fe.Field)
	case errors.As(err, &fe) && errors.Is(fe.Err, ErrMalformedField):
		return fmt.Sprintf("Badly formatted '%s' key", fe.Field)
	case errors.Is(err, ErrMissingCallback):
		return "Missing callback"
	}
	return err.Error()
}

// errorField names the field a validation error refers to, for metrics.
func errorField(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	if errors.Is(err, ErrMissingCallback) {
		return "callback"
	}
	return "request"
}
