// Package errors provides error handling for bmt-lite.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing messages
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrSchemaFormat) {
//	    // handle malformed schema
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint       = crdb.WithHint
	WithHintf      = crdb.WithHintf
	WithDetail     = crdb.WithDetail
	WithDetailf    = crdb.WithDetailf
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Sentinel errors for use across bmt-lite.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrSchemaFormat indicates the schema document does not have the
	// expected two-category mapping-of-mappings shape. Construction-fatal:
	// no index is produced.
	ErrSchemaFormat = New("malformed schema document")

	// ErrNameConflict indicates two categories define the same element name
	// while strict name checking is enabled.
	ErrNameConflict = New("element name conflict")

	// ErrCycleDetected indicates the is_a relation contains a cycle, which
	// violates the forest invariant.
	ErrCycleDetected = New("cycle in is_a hierarchy")

	// ErrNotFound indicates the requested resource does not exist.
	// Service-layer sentinel; taxonomy queries report absence through their
	// return values instead.
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid.
	ErrInvalidRequest = New("invalid request")
)

// IsSchemaFormatError checks if an error is or wraps ErrSchemaFormat.
func IsSchemaFormatError(err error) bool {
	return err != nil && Is(err, ErrSchemaFormat)
}

// IsNameConflictError checks if an error is or wraps ErrNameConflict.
func IsNameConflictError(err error) bool {
	return err != nil && Is(err, ErrNameConflict)
}

// IsCycleDetectedError checks if an error is or wraps ErrCycleDetected.
func IsCycleDetectedError(err error) bool {
	return err != nil && Is(err, ErrCycleDetected)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest.
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// NewSchemaFormatError creates a schema-format error with a formatted message.
func NewSchemaFormatError(format string, args ...interface{}) error {
	return Wrap(ErrSchemaFormat, Newf(format, args...).Error())
}

// NewNameConflictError creates a name-conflict error with a formatted message.
func NewNameConflictError(format string, args ...interface{}) error {
	return Wrap(ErrNameConflict, Newf(format, args...).Error())
}

// NewCycleDetectedError creates a cycle error with a formatted message.
func NewCycleDetectedError(format string, args ...interface{}) error {
	return Wrap(ErrCycleDetected, Newf(format, args...).Error())
}

// NewNotFoundError creates a not-found error with a formatted message.
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message.
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}

// WrapSchemaFormat wraps an error as a schema-format error with context.
func WrapSchemaFormat(err error, context string) error {
	return Wrap(Wrap(ErrSchemaFormat, err.Error()), context)
}

// WrapInvalidRequest wraps an error as an invalid-request error with context.
func WrapInvalidRequest(err error, context string) error {
	return Wrap(Wrap(ErrInvalidRequest, err.Error()), context)
}
