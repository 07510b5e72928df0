package service

import (
	"errors"
	"fmt"
)

// Lifecycle errors. Validation failures are field-scoped and carry their own
// type; these sentinels cover illegal state transitions and the payment
// invariant.
var (
	// ErrTerminalState rejects edits of completed orders.
	ErrTerminalState = errors.New("completed orders cannot be edited")
	// ErrInvalidTransition rejects transitions out of completed/cancelled,
	// and ready-for-pickup from anything but pending.
	ErrInvalidTransition = errors.New("order status does not allow this transition")
	// ErrOverpayment rejects payments that would push the paid sum past the
	// order total.
	ErrOverpayment = errors.New("payment exceeds order total")
)

// ValidationError is a field-level input failure. Handlers surface it inline
// at the offending field with a 400; it never reaches the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a field-level validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
