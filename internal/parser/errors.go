package parser

import (
	"errors"
	"fmt"

	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
)

// FieldError carries the context of a failed field extraction: which field,
// the raw snippet that was read (if any) and the underlying sentinel error.
// errors.Is matches the sentinel from apperrors.
type FieldError struct {
	Field string
	Raw   string
	Err   error
}

func (e *FieldError) Error() string {
	msg := e.Err.Error()
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Raw != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Raw)
	}
	return msg
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Missing reports a mandatory field whose anchor line could not be located.
func Missing(field string) error {
	return &FieldError{Field: field, Err: apperrors.ErrMissingRequiredField}
}

// WithField names the field of a FieldError that was produced without one,
// e.g. by ParseDecimal. Other errors are returned unchanged.
func WithField(err error, field string) error {
	var fe *FieldError
	if errors.As(err, &fe) && fe.Field == "" {
		return &FieldError{Field: field, Raw: fe.Raw, Err: fe.Err}
	}
	return err
}
