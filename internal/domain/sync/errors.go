package sync

import (
	"errors"
	"fmt"
)

var (
	ErrSourceNotConfigured = errors.New("sync: source not configured")
	ErrUnknownSource       = errors.New("sync: unknown source")
	ErrSyncInProgress      = errors.New("sync: a run for this tenant and source is already in progress")
	ErrSessionNotConnected = errors.New("sync: session is not connected")
	ErrRecordMissingSKU    = errors.New("sync: record has no SKU")
	ErrRecordMissingName   = errors.New("sync: record has no name")
	ErrRecordWrongSource   = errors.New("sync: record does not belong to this source")
)

// FailureClass classifies a connection-level failure. The session
// controller turns each class into a user-facing message.
type FailureClass string

const (
	FailureInvalidCredentials FailureClass = "INVALID_CREDENTIALS"
	FailureDatabaseNotFound   FailureClass = "DATABASE_NOT_FOUND"
	FailureTimeout            FailureClass = "TIMEOUT"
	FailureUnreachable        FailureClass = "UNREACHABLE"
	FailureUnknown            FailureClass = "UNKNOWN"
)

// UserMessage returns the message shown to the user for this class
func (c FailureClass) UserMessage() string {
	switch c {
	case FailureInvalidCredentials:
		return "The source rejected the supplied credentials"
	case FailureDatabaseNotFound:
		return "The requested source database does not exist"
	case FailureTimeout:
		return "The source did not respond in time"
	case FailureUnreachable:
		return "The source could not be reached"
	default:
		return "Connecting to the source failed"
	}
}

// ConnectionError is a batch-fatal failure: the adapter could not
// authenticate or the fetch itself failed before any items were
// obtained. It aborts the whole run with a single top-level error.
type ConnectionError struct {
	Source SourceCode
	Class  FailureClass
	Err    error
}

// Error implements the error interface
func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Class.UserMessage(), e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Class.UserMessage())
}

// Unwrap returns the underlying cause
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NewConnectionError creates a classified connection error
func NewConnectionError(source SourceCode, class FailureClass, err error) *ConnectionError {
	return &ConnectionError{Source: source, Class: class, Err: err}
}

// AsConnectionError extracts a *ConnectionError from an error chain.
// Everything else is wrapped as FailureUnknown so callers can rely on
// the classification being present.
func AsConnectionError(source SourceCode, err error) *ConnectionError {
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return connErr
	}
	return NewConnectionError(source, FailureUnknown, err)
}

// ItemErrorKind classifies an item-fatal failure
type ItemErrorKind string

const (
	// ItemErrorMapping: the native record could not be normalized
	ItemErrorMapping ItemErrorKind = "mapping"
	// ItemErrorValidation: the normalized DTO violated an aggregate invariant
	ItemErrorValidation ItemErrorKind = "validation"
	// ItemErrorPersistence: the catalog store rejected the write
	ItemErrorPersistence ItemErrorKind = "persistence"
)

// ItemError is an item-fatal failure: one record is recorded and
// skipped while the batch continues.
type ItemError struct {
	Kind ItemErrorKind
	Ref  string
	Err  error
}

// Error implements the error interface
func (e *ItemError) Error() string {
	return fmt.Sprintf("%s error for %q: %v", e.Kind, e.Ref, e.Err)
}

// Unwrap returns the underlying cause
func (e *ItemError) Unwrap() error {
	return e.Err
}

// NewMappingError creates an item error for a record that cannot be normalized
func NewMappingError(ref string, err error) *ItemError {
	return &ItemError{Kind: ItemErrorMapping, Ref: ref, Err: err}
}

// NewValidationItemError creates an item error for an invariant violation
func NewValidationItemError(ref string, err error) *ItemError {
	return &ItemError{Kind: ItemErrorValidation, Ref: ref, Err: err}
}

// NewPersistenceError creates an item error for a rejected store write
func NewPersistenceError(ref string, err error) *ItemError {
	return &ItemError{Kind: ItemErrorPersistence, Ref: ref, Err: err}
}
