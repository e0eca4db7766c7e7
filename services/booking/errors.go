package booking

import (
	"errors"
	"fmt"
)

// Error codes for the booking domain. Business-rule violations are returned
// as *DomainError values so callers can tell "your request was invalid" apart
// from a true fault (storage unreachable), which travels as a plain error.
const (
	CodeValidation          = "validationError"
	CodeInvalidDuration     = "invalidDuration"
	CodeInvalidStateChange  = "invalidStateTransition"
	CodeSlotAlreadyTaken    = "slotAlreadyTaken"
	CodeAuthorization       = "authorizationError"
	CodeNotFound            = "notFound"
	CodePolicyViolation     = "policyViolation"
	CodeConcurrencyConflict = "concurrencyConflict"
	CodeInvalidPromoCode    = "invalidPromoCode"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is lets errors.Is match two domain errors by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

func NewValidationError(format string, args ...any) error {
	return &DomainError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidDurationError(minutes int) error {
	return &DomainError{Code: CodeInvalidDuration, Message: fmt.Sprintf("duration must be positive, got %d", minutes)}
}

func NewInvalidStateTransitionError(current, requested string) error {
	return &DomainError{
		Code:    CodeInvalidStateChange,
		Message: fmt.Sprintf("cannot %s a booking in status %s", requested, current),
	}
}

func NewSlotAlreadyTakenError(msg string) error {
	return &DomainError{Code: CodeSlotAlreadyTaken, Message: msg}
}

func NewAuthorizationError(msg string) error {
	return &DomainError{Code: CodeAuthorization, Message: msg}
}

func NewNotFoundError(kind, id string) error {
	return &DomainError{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", kind, id)}
}

func NewPolicyViolationError(msg string) error {
	return &DomainError{Code: CodePolicyViolation, Message: msg}
}

func NewConcurrencyConflictError(msg string) error {
	return &DomainError{Code: CodeConcurrencyConflict, Message: msg}
}

func NewInvalidPromoCodeError(code string) error {
	return &DomainError{Code: CodeInvalidPromoCode, Message: fmt.Sprintf("promo code %q is unknown or expired", code)}
}

// CodeOf returns the domain error code, or "" for non-domain errors.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
