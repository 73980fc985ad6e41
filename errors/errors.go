// Package errors provides error handling for fabric.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing diagnostics
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := resolve(file); err != nil {
//	    return errors.Wrap(err, "failed to add file")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "give the base name an extension such as .ts")
//
//	// Check errors
//	if errors.Is(err, errors.ErrInvalidFile) {
//	    // handle malformed file
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
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors shared across fabric packages.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrInvalidFile indicates a file declaration cannot be resolved (e.g. no extension)
	ErrInvalidFile = New("invalid file")

	// ErrSanityCheck indicates persisted bytes differ from what was written
	ErrSanityCheck = New("sanity check failed")

	// ErrCapabilityNotFound indicates no installed plugin injected the requested capability
	ErrCapabilityNotFound = New("capability not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")
)

// IsInvalidFileError checks if an error is or wraps ErrInvalidFile
func IsInvalidFileError(err error) bool {
	return err != nil && Is(err, ErrInvalidFile)
}

// IsSanityCheckError checks if an error is or wraps ErrSanityCheck
func IsSanityCheckError(err error) bool {
	return err != nil && Is(err, ErrSanityCheck)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}
