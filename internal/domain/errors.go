// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a uniqueness or concurrent-modification conflict.
var ErrConflict = errors.New("conflict")

// ErrValidation indicates invalid input supplied by the caller.
var ErrValidation = errors.New("validation")

// ErrForbidden indicates the caller lacks the role required for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrLimitReached indicates the tenant's plan quota is exhausted.
var ErrLimitReached = errors.New("plan limit reached")

// ErrTrialExpired indicates the tenant's trial ended without payment.
var ErrTrialExpired = errors.New("trial expired")
