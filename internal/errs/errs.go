// Package errs defines the error taxonomy shared by all helpdesk
// operations. Each kind is a distinct type carrying only the fields
// relevant to that kind, so callers can branch with errors.As instead
// of string matching.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError reports bad or missing caller input. It is never
// retried and is raised before any network activity.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation creates a ValidationError for the given field.
func Validation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// TransportError reports a network or HTTP failure from the upstream
// service, surfaced only after the retry policy is exhausted. Status is
// zero for pure connection failures.
type TransportError struct {
	Op        string
	Status    int
	Body      string
	Retriable bool
	Err       error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream returned %d: %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Temporary reports whether the failure classifies as "temporarily
// unavailable" rather than a terminal upstream rejection.
func (e *TransportError) Temporary() bool { return e.Retriable }

// NotFoundError reports a referenced resource that does not exist
// upstream. Terminal, never retried.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// NotFound creates a NotFoundError for a resource identified by ID.
func NotFound(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nferr *NotFoundError
	return errors.As(err, &nferr)
}

// IsTemporary reports whether err is a retriable transport failure.
func IsTemporary(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr) && terr.Retriable
}

// WrapOp annotates a transport error with higher-level operation
// context (which query, which page) without losing the typed kind.
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	var terr *TransportError
	if errors.As(err, &terr) {
		return &TransportError{
			Op:        op,
			Status:    terr.Status,
			Body:      terr.Body,
			Retriable: terr.Retriable,
			Err:       err,
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
