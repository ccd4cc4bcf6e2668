package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("task not found")
	ErrInvalidTask        = errors.New("invalid task")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
)

// FieldError is an ErrInvalidTask that names the offending field and the
// rule it broke. Rule uses the binding tag names (notblank, max, taskstatus,
// min) so transports can phrase it the same way as a binding failure.
type FieldError struct {
	Field string
	Rule  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s failed %s", ErrInvalidTask, e.Field, e.Rule)
}

func (e *FieldError) Unwrap() error { return ErrInvalidTask }

func invalid(field, rule string) error {
	return &FieldError{Field: field, Rule: rule}
}
