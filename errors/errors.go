/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"context"
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrArgumentNil is returned when a required argument is nil
	ErrArgumentNil = errors.New("argument is nil")

	// ErrCanceled is returned when a sequence is drained under a done context
	ErrCanceled = errors.New("operation canceled")

	// ErrInvalidCast is returned when an element cannot be cast to the target type
	ErrInvalidCast = errors.New("invalid cast")

	// ErrNotFound is returned when a stored sequence is not found
	ErrNotFound = errors.New("sequence not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoCodec is returned when no codec is registered for an element type
	ErrNoCodec = errors.New("no codec registered for type")
)

// ArgumentNilError reports a nil argument passed to a query operator
type ArgumentNilError struct {
	Operation string
	Param     string
}

func (e *ArgumentNilError) Error() string {
	return fmt.Sprintf("%s: argument %q is nil", e.Operation, e.Param)
}

func (e *ArgumentNilError) Is(target error) bool {
	return target == ErrArgumentNil
}

// CanceledError reports that a query stopped because its context was done.
// Cause is the context error.
type CanceledError struct {
	Operation string
	Cause     error
}

func (e *CanceledError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: operation canceled: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: operation canceled", e.Operation)
}

func (e *CanceledError) Is(target error) bool {
	return target == ErrCanceled
}

func (e *CanceledError) Unwrap() error {
	return e.Cause
}

// InvalidCastError reports an element that does not have the requested type
type InvalidCastError struct {
	Operation string
	From      string
	To        string
}

func (e *InvalidCastError) Error() string {
	return fmt.Sprintf("%s: cannot cast %s to %s", e.Operation, e.From, e.To)
}

func (e *InvalidCastError) Is(target error) bool {
	return target == ErrInvalidCast
}

// NotFoundError represents an error when a sequence is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewArgumentNilError creates a new ArgumentNilError
func NewArgumentNilError(operation, param string) error {
	return &ArgumentNilError{Operation: operation, Param: param}
}

// NewCanceledError creates a new CanceledError
func NewCanceledError(operation string, cause error) error {
	return &CanceledError{Operation: operation, Cause: cause}
}

// NewInvalidCastError creates a new InvalidCastError
func NewInvalidCastError(operation, from, to string) error {
	return &InvalidCastError{Operation: operation, From: from, To: to}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsArgumentNil checks if an error is an argument-nil error
func IsArgumentNil(err error) bool {
	return errors.Is(err, ErrArgumentNil)
}

// IsCanceled checks if an error stems from cancellation, either a
// CanceledError or a bare context error.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// IsInvalidCast checks if an error is an invalid cast error
func IsInvalidCast(err error) bool {
	return errors.Is(err, ErrInvalidCast)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
