/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when attempting to create an entity that already exists
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrHasDependents is returned when deleting a parent entity that still has children
	ErrHasDependents = errors.New("entity has dependents")

	// ErrInvalidState is returned when an operation would produce an invalid transition,
	// such as decrementing a dependent count below zero
	ErrInvalidState = errors.New("invalid state transition")

	// ErrInvalidCursor is returned when a pagination token cannot be decoded
	ErrInvalidCursor = errors.New("invalid pagination cursor")

	// ErrConflict is returned when a conditional write loses a version race
	ErrConflict = errors.New("version conflict")

	// ErrConditionFailed is returned when a conditional storage operation fails
	ErrConditionFailed = errors.New("condition check failed")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorage wraps transient or infrastructure failures from the storage engine
	ErrStorage = errors.New("storage error")
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %q not found", e.Type, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Type string
	ID   string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with id %q already exists", e.Type, e.ID)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// HasDependentsError is returned when a parent entity cannot be deleted
// because dependent entities still reference it. Count carries the
// dependent count observed at the time of the rejected delete so callers
// can report it.
type HasDependentsError struct {
	Type  string
	ID    string
	Count int
}

func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("%s with id %q still has %d dependent(s)", e.Type, e.ID, e.Count)
}

func (e *HasDependentsError) Is(target error) bool {
	return target == ErrHasDependents
}

// InvalidStateError represents a rejected state transition
type InvalidStateError struct {
	Type    string
	ID      string
	Message string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s with id %q: %s", e.Type, e.ID, e.Message)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// InvalidCursorError represents a malformed or foreign pagination token.
// Callers must treat it as a bad request and restart pagination.
type InvalidCursorError struct {
	Reason string
}

func (e *InvalidCursorError) Error() string {
	return fmt.Sprintf("invalid cursor: %s", e.Reason)
}

func (e *InvalidCursorError) Is(target error) bool {
	return target == ErrInvalidCursor
}

// ConflictError represents a lost optimistic-concurrency race on update
type ConflictError struct {
	Type            string
	ID              string
	ExpectedVersion int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with id %q was modified concurrently (expected version %d)", e.Type, e.ID, e.ExpectedVersion)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ConditionFailedError represents a failed conditional storage operation
type ConditionFailedError struct {
	Operation string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation", e.Operation)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
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

// StorageError wraps a raw storage-engine failure. The repository layer
// neither retries nor classifies these; they propagate to the caller.
type StorageError struct {
	Operation string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Operation, e.Err)
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, id string) error {
	return &NotFoundError{Type: entityType, ID: id}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(entityType, id string) error {
	return &AlreadyExistsError{Type: entityType, ID: id}
}

// NewHasDependentsError creates a new HasDependentsError
func NewHasDependentsError(entityType, id string, count int) error {
	return &HasDependentsError{Type: entityType, ID: id, Count: count}
}

// NewInvalidStateError creates a new InvalidStateError
func NewInvalidStateError(entityType, id, message string) error {
	return &InvalidStateError{Type: entityType, ID: id, Message: message}
}

// NewInvalidCursorError creates a new InvalidCursorError
func NewInvalidCursorError(reason string) error {
	return &InvalidCursorError{Reason: reason}
}

// NewConflictError creates a new ConflictError
func NewConflictError(entityType, id string, expectedVersion int64) error {
	return &ConflictError{Type: entityType, ID: id, ExpectedVersion: expectedVersion}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation string) error {
	return &ConditionFailedError{Operation: operation}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewStorageError creates a new StorageError wrapping err
func NewStorageError(operation string, err error) error {
	return &StorageError{Operation: operation, Err: err}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsHasDependents checks if an error is a blocked-delete error
func IsHasDependents(err error) bool {
	return errors.Is(err, ErrHasDependents)
}

// IsInvalidState checks if an error is an invalid state error
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsInvalidCursor checks if an error is an invalid cursor error
func IsInvalidCursor(err error) bool {
	return errors.Is(err, ErrInvalidCursor)
}

// IsConflict checks if an error is a version conflict error
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}

// IsStorage checks if an error is a wrapped storage-engine error
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}

// DependentCount extracts the reported dependent count from a blocked
// delete, returning false when err is not a HasDependentsError.
func DependentCount(err error) (int, bool) {
	var hd *HasDependentsError
	if errors.As(err, &hd) {
		return hd.Count, true
	}
	return 0, false
}
