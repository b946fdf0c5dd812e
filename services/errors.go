package services

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable machine-readable classification of a workflow error.
type ErrorKind string

const (
	KindValidation             ErrorKind = "validation_error"
	KindInvalidTransition      ErrorKind = "invalid_transition"
	KindAuthorization          ErrorKind = "authorization_error"
	KindPaymentRequired        ErrorKind = "payment_required"
	KindConcurrentModification ErrorKind = "concurrent_modification"
	KindDuplicateInvitation    ErrorKind = "duplicate_invitation"
	KindInvalidState           ErrorKind = "invalid_state"
	KindNotFound               ErrorKind = "not_found"
	KindExternalService        ErrorKind = "external_service_error"
)

// WorkflowError pairs a kind with a human-readable message. Callers branch on
// the kind; the message is for logs and API responses.
type WorkflowError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *WorkflowError) Error() string {
	return e.Message
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// KindOf extracts the kind from err, or empty string for non-workflow errors.
func KindOf(err error) ErrorKind {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

func newError(kind ErrorKind, format string, args ...interface{}) *WorkflowError {
	return &WorkflowError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...interface{}) error {
	return newError(KindValidation, format, args...)
}

func NewInvalidTransitionError(format string, args ...interface{}) error {
	return newError(KindInvalidTransition, format, args...)
}

func NewAuthorizationError(format string, args ...interface{}) error {
	return newError(KindAuthorization, format, args...)
}

func NewPaymentRequiredError(format string, args ...interface{}) error {
	return newError(KindPaymentRequired, format, args...)
}

func NewConcurrentModificationError(format string, args ...interface{}) error {
	return newError(KindConcurrentModification, format, args...)
}

func NewDuplicateInvitationError(format string, args ...interface{}) error {
	return newError(KindDuplicateInvitation, format, args...)
}

func NewInvalidStateError(format string, args ...interface{}) error {
	return newError(KindInvalidState, format, args...)
}

func NewNotFoundError(format string, args ...interface{}) error {
	return newError(KindNotFound, format, args...)
}

// NewExternalServiceError wraps a gateway or mail failure; the cause stays
// reachable through errors.Unwrap for transient-retry decisions by callers.
func NewExternalServiceError(err error, format string, args ...interface{}) error {
	we := newError(KindExternalService, format, args...)
	we.Err = err
	return we
}
