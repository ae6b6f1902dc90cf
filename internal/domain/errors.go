package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when proposal or vote data cannot be classified
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamRead is returned when a contract or storage read fails
	ErrUpstreamRead = errors.New("upstream read failed")

	// ErrUnknownTenant is returned when a tenant namespace has no configuration
	ErrUnknownTenant = errors.New("unknown tenant")
)

// InputError reports malformed or missing proposal/vote fields. It is never retried.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// NewInputError builds an InputError with a formatted reason
func NewInputError(field, format string, args ...any) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// UpstreamReadError wraps a failed collaborator read (contract call, database query).
type UpstreamReadError struct {
	Op  string
	Err error
}

func (e *UpstreamReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamReadError) Unwrap() []error { return []error{ErrUpstreamRead, e.Err} }

// NewUpstreamReadError wraps err as an UpstreamReadError for op.
// A nil err yields nil.
func NewUpstreamReadError(op string, err error) error {
	if err == nil {
		return nil
	}
	var upstream *UpstreamReadError
	if errors.As(err, &upstream) {
		return err
	}
	return &UpstreamReadError{Op: op, Err: err}
}

// NotFoundError reports an absent proposal or vote set
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

type UnknownTenantErr struct {
	Namespace string
	Known     []string
}

func (e UnknownTenantErr) Error() string {
	return fmt.Sprintf("unknown tenant %q (configured: %v)", e.Namespace, e.Known)
}

func (e UnknownTenantErr) Unwrap() error { return ErrUnknownTenant }
