package gfm2html

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrMissingInput     = errors.New("no markdown provided")
	ErrMalformedRequest = errors.New("invalid request")
	ErrInternal         = errors.New("internal conversion error")
)

// ErrorKind classifies why a conversion did not produce HTML.
type ErrorKind int

// Error kinds, in the order callers usually check them.
const (
	KindInternal ErrorKind = iota
	KindMissingInput
	KindMalformedRequest
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindMissingInput:
		return "MissingInput"
	case KindMalformedRequest:
		return "MalformedRequest"
	default:
		return "InternalError"
	}
}

// sentinel returns the package-level error matching the kind.
func (k ErrorKind) sentinel() error {
	switch k {
	case KindMissingInput:
		return ErrMissingInput
	case KindMalformedRequest:
		return ErrMalformedRequest
	default:
		return ErrInternal
	}
}

// ConversionError reports a failed conversion. Its message is the message
// of the underlying cause; errors.Is matches both the kind's sentinel and
// the cause.
type ConversionError struct {
	Kind ErrorKind
	Err  error
}

func (e *ConversionError) Error() string {
	if e.Err == nil {
		return e.Kind.sentinel().Error()
	}
	return e.Err.Error()
}

// Unwrap returns the kind sentinel and the cause.
func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// NewMalformedRequestError reports a request envelope that could not be
// decoded, such as invalid JSON or a non-string markdown field.
func NewMalformedRequestError(detail string) *ConversionError {
	return &ConversionError{Kind: KindMalformedRequest, Err: fmt.Errorf("%w: %s", ErrMalformedRequest, detail)}
}

// KindOf returns the kind of a conversion error. Errors that are not a
// *ConversionError are internal.
func KindOf(err error) ErrorKind {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	if errors.Is(err, ErrMissingInput) {
		return KindMissingInput
	}
	if errors.Is(err, ErrMalformedRequest) {
		return KindMalformedRequest
	}
	return KindInternal
}

func missingInput() *ConversionError {
	return &ConversionError{Kind: KindMissingInput, Err: ErrMissingInput}
}

func internalError(err error) *ConversionError {
	return &ConversionError{Kind: KindInternal, Err: err}
}
