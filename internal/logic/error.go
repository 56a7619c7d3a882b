package logic

import (
	"errors"
	"fmt"

	"rental_billing/pkg/bsdate"
)

var (
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrNegativeAmount     = errors.New("amount must not be negative")
	ErrMissingRemarks     = errors.New("remarks are required for WORK payments")
	ErrInvalidRate        = errors.New("rates must be non-negative numbers")
	ErrInvalidDueDay      = errors.New("due day must be within 1-32")
	ErrInvalidPeriod      = bsdate.ErrInvalidPeriod
	ErrInvalidUnits       = errors.New("meter units must be a non-negative number")
	ErrInvalidPaymentType = errors.New("payment type must be CASH or WORK")
	ErrInvalidDeviceCount = errors.New("device count must not be negative")
	ErrInvalidName        = errors.New("name is required")
	ErrEmptyCorrection    = errors.New("correction names no component")
	ErrEmptyUpdate        = errors.New("update names no field")
	ErrInvalidEvent       = errors.New("billing event has no action")

	ErrDuplicateReading = errors.New("reading already exists for this room and period")
	ErrDuplicateBill    = errors.New("bill already exists for this room and period")

	ErrRoomNotFound    = errors.New("room not found")
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrBillNotFound    = errors.New("bill not found")
	ErrReadingNotFound = errors.New("reading not found")
)

// Kind classifies an engine error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRange:
		return "range"
	default:
		return "internal"
	}
}

// Error is a classified engine error. Err wraps one of the sentinels above.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, sentinel error, format string, args ...interface{}) error {
	if format == "" {
		return &Error{Kind: kind, Err: sentinel}
	}
	return &Error{Kind: kind, Err: fmt.Errorf("%w: "+format, append([]interface{}{sentinel}, args...)...)}
}

func invalid(sentinel error, format string, args ...interface{}) error {
	return newError(KindValidation, sentinel, format, args...)
}

func notFound(sentinel error, format string, args ...interface{}) error {
	return newError(KindNotFound, sentinel, format, args...)
}

func conflict(sentinel error, format string, args ...interface{}) error {
	return newError(KindConflict, sentinel, format, args...)
}

// KindOf reports the class of err. Calendar range failures are KindRange
// even when they were not wrapped by the engine.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	switch {
	case errors.Is(err, bsdate.ErrOutOfRange), errors.Is(err, bsdate.ErrInvalidDate):
		return KindRange
	case errors.Is(err, bsdate.ErrInvalidPeriod):
		return KindValidation
	}
	return KindInternal
}

// validatePeriod wraps period errors as validation errors.
func validatePeriod(p bsdate.Period) error {
	if err := p.Validate(); err != nil {
		return &Error{Kind: KindValidation, Err: err}
	}
	return nil
}
