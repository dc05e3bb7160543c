package service

import "errors"

// Error taxonomy shared by the services. Handlers map these to HTTP codes
// with errors.Is; anything else is a store error and propagates unmodified —
// the services never mask or retry persistence failures, recovery is the
// caller's job (safe, because every write is idempotent by key).
var (
	// ErrValidation: required input missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound: a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrNoActivePlan: a day was submitted with no active plan of either
	// kind. Distinct from validation — the input is fine, the workflow
	// ordering is not.
	ErrNoActivePlan = errors.New("no active meal or workout plan")

	// ErrConflict: the requested transition is not allowed in the entity's
	// current state (e.g. rebasing a plan that already has progress).
	ErrConflict = errors.New("conflict")
)
