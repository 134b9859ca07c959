package domain

import (
	"errors"
)

// Rejection kinds. Every refused operation matches exactly one of them via errors.Is.
var (
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrConflict       = errors.New("conflict")
)

// ErrMalformedTime is returned when stored time-of-day data cannot be parsed.
// It is an internal fault, not a rejection of the caller's request.
var ErrMalformedTime = errors.New("malformed time")

// Causes shared by the booking checks
var (
	ErrNotMember            = errors.New("domain: user is not an active member of the club")
	ErrNotOwner             = errors.New("domain: booking belongs to another user")
	ErrNotManager           = errors.New("domain: user cannot manage club facilities")
	ErrBookingInPast        = errors.New("domain: booking starts in the past")
	ErrInvalidRange         = errors.New("domain: end time must be after start time")
	ErrCrossesMidnight      = errors.New("domain: booking spans more than one day")
	ErrFacilityClosed       = errors.New("domain: facility is closed on this date")
	ErrClosedOnDay          = errors.New("domain: facility is closed on this day")
	ErrOutsideOpeningHours  = errors.New("domain: booking is outside opening hours")
	ErrMaxDurationExceeded  = errors.New("domain: booking exceeds maximum duration")
	ErrWithinCancelWindow   = errors.New("domain: too close to start time")
	ErrSlotTaken            = errors.New("domain: facility is already booked for this time slot")
	ErrBookingNotActive     = errors.New("domain: booking is not active")
	ErrFacilityNotFound     = errors.New("domain: facility not found")
	ErrFacilityTypeNotFound = errors.New("domain: facility type not found")
	ErrBookingNotFound      = errors.New("domain: booking not found")
	ErrClosureNotFound      = errors.New("domain: closure not found")
	ErrInvalidParticipant   = errors.New("domain: invalid participant")
	ErrInvalidRule          = errors.New("domain: invalid booking rule")
	ErrDuplicateRule        = errors.New("domain: booking rule kind listed twice")
	ErrInvalidOpeningHours  = errors.New("domain: invalid opening hours")
	ErrInvalidClosure       = errors.New("domain: invalid closure")
	ErrInvalidBookingType   = errors.New("domain: invalid booking type")
	ErrInvalidInterval      = errors.New("domain: invalid booking interval")
	ErrInvalidStatus        = errors.New("domain: invalid booking status")
)

// RejectionError carries the kind of a refusal, its precise cause and a message for the caller
type RejectionError struct {
	Kind   error
	Cause  error
	Reason string
}

// Reject builds a RejectionError
func Reject(kind, cause error, reason string) error {
	return &RejectionError{Kind: kind, Cause: cause, Reason: reason}
}

func (e *RejectionError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Kind.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is
func (e *RejectionError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// ReasonOf returns the caller-facing reason of a rejection, or fallback for any other error
func ReasonOf(err error, fallback string) string {
	var rej *RejectionError
	if errors.As(err, &rej) && rej.Reason != "" {
		return rej.Reason
	}
	return fallback
}

// IsRejection reports whether err is a refusal rather than an internal failure
func IsRejection(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej)
}

// OutcomeOf names the result of an operation for metrics: accepted, the rejection kind, or error
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
