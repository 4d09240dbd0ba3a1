package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so handlers can pick an HTTP status and clients
// can decide whether the request is retryable.
type Kind string

const (
	KindNotFound                   Kind = "not_found"
	KindInactive                   Kind = "inactive"
	KindInvalidSelection           Kind = "invalid_selection"
	KindMissingRequiredComplement  Kind = "missing_required_complement"
	KindBelowMinimum               Kind = "below_minimum"
	KindAboveMaximum               Kind = "above_maximum"
	KindInvalidTransition          Kind = "invalid_transition"
	KindConflict                   Kind = "conflict"
	KindInvalidInput               Kind = "invalid_input"
	KindInvariantViolation         Kind = "invariant_violation"
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(format string, args ...interface{}) *AppError {
	return New(KindNotFound, format, args...)
}

func Inactive(format string, args ...interface{}) *AppError {
	return New(KindInactive, format, args...)
}

func InvalidSelection(format string, args ...interface{}) *AppError {
	return New(KindInvalidSelection, format, args...)
}

func InvalidTransition(format string, args ...interface{}) *AppError {
	return New(KindInvalidTransition, format, args...)
}

func Conflict(format string, args ...interface{}) *AppError {
	return New(KindConflict, format, args...)
}

func InvalidInput(format string, args ...interface{}) *AppError {
	return New(KindInvalidInput, format, args...)
}

func Invariant(format string, args ...interface{}) *AppError {
	return New(KindInvariantViolation, format, args...)
}

// KindOf returns the Kind of err, or KindInvariantViolation when err is not
// an AppError (unknown internal failures are treated as fatal).
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInvariantViolation
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps the taxonomy to HTTP statuses: validation classes to 400,
// NotFound to 404, Conflict to 409, everything internal to 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInactive, KindInvalidSelection, KindMissingRequiredComplement,
		KindBelowMinimum, KindAboveMaximum, KindInvalidTransition, KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
