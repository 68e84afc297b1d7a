package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSchemaMismatch indicates a worksheet header does not match the
	// canonical field order. Fatal in strict mode; no artifacts are produced.
	ErrSchemaMismatch = errors.New("worksheet header does not match canonical schema")

	// ErrAlreadyProcessed indicates a submission has already been fully
	// processed. This is a no-op short-circuit, not a failure.
	ErrAlreadyProcessed = errors.New("submission already processed")

	// ErrValidationFailed indicates one or more fields failed their format
	// constraints under strict validation.
	ErrValidationFailed = errors.New("submission validation failed")

	// ErrUploadFailed indicates a remote store upload failed.
	// Fatal for primary artifacts, recorded for secondary ones.
	ErrUploadFailed = errors.New("upload failed")

	// ErrNotificationFailed indicates an email notification failed.
	// Always best-effort; never propagated as fatal.
	ErrNotificationFailed = errors.New("notification failed")
)
