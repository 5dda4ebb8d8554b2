package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAllocationConflict = errors.New("sequence allocation conflict")
	ErrMalformedSequence  = errors.New("malformed sequence id")
	ErrNotFound           = errors.New("not found")
	ErrLinkUsed           = errors.New("approval link already used")
)

// ValidationError is a client fault in a submission; it is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("missing field: %s", e.Field)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type AuthorizationError struct {
	Principal  string
	Capability string
	Err        error
}

func (e *AuthorizationError) Error() string {
	who := e.Principal
	if who == "" {
		who = "anonymous caller"
	}
	return fmt.Sprintf("%s is not allowed to %s: %v", who, e.Capability, e.Err)
}

func (e *AuthorizationError) Is(target error) bool { return target == ErrUnauthorized }
func (e *AuthorizationError) Unwrap() error        { return e.Err }

// AllocationConflictError is returned once the bounded allocation retries are spent.
type AllocationConflictError struct {
	Requester string
	Attempts  int
	Err       error
}

func (e *AllocationConflictError) Error() string {
	return fmt.Sprintf("could not allocate a sequence id for %s after %d attempts: %v", e.Requester, e.Attempts, e.Err)
}

func (e *AllocationConflictError) Is(target error) bool { return target == ErrAllocationConflict }
func (e *AllocationConflictError) Unwrap() error        { return e.Err }

// MalformedSequenceError flags an existing record whose sequence id cannot be parsed.
// It is surfaced as is and never repaired automatically.
type MalformedSequenceError struct {
	SequenceID string
}

func (e *MalformedSequenceError) Error() string {
	return fmt.Sprintf("malformed sequence id %q (expected <prefix>-<integer>)", e.SequenceID)
}

func (e *MalformedSequenceError) Is(target error) bool { return target == ErrMalformedSequence }

type NotFoundError struct {
	Ref string
	Err error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s not found: %v", e.Ref, e.Err)
	}
	return fmt.Sprintf("%s not found", e.Ref)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
func (e *NotFoundError) Unwrap() error        { return e.Err }
