package services

import "errors"

var (
	ErrInconsistentUnitPrice = errors.New("inconsistent unit price")
	ErrAmountMismatch        = errors.New("amount does not equal quantity × rate")
	ErrHeaderAmount          = errors.New("header item carries an amount")
	ErrDuplicateSection      = errors.New("duplicate section title")
	ErrMissingSummary        = errors.New("section summary out of date")
	ErrConfidentialLeak      = errors.New("client workbook exposes contractor figures")
)

// ValidationError describes invalid input to the BOQ engine. It wraps one
// of the sentinel errors above so callers can use errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(sentinel error, field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: sentinel}
}
