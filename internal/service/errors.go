package service

import "errors"

// Domain error taxonomy. Handlers map each of these to a distinct
// user-facing message; generic fallbacks are a last resort.
var (
	// ErrAlreadyVerified: begin requested for an account that has already
	// proven ownership.
	ErrAlreadyVerified = errors.New("account is already verified")
	// ErrSanctioned: the account is banned and may not start verification.
	ErrSanctioned = errors.New("account is sanctioned")
	// ErrStateMismatch: the operation is not valid in the current
	// verification state. No state is mutated.
	ErrStateMismatch = errors.New("operation not valid in current verification state")
	// ErrExternalAccountNotFound: the identity provider explicitly reported
	// no such account. Retryable with a different handle.
	ErrExternalAccountNotFound = errors.New("external account not found")
	// ErrExternalServiceUnavailable: timeout or provider-side failure.
	// Retryable; must never be recorded as a failed proof attempt.
	ErrExternalServiceUnavailable = errors.New("external service unavailable")
	// ErrCodeNotFound: the challenge code is missing from the fetched
	// profile text. The session stays open for retry.
	ErrCodeNotFound = errors.New("challenge code not found in profile")
	// ErrAlreadyLinked: the external identity is claimed by another account.
	ErrAlreadyLinked = errors.New("external account already linked")
	// ErrPermissionDenied: the authorization policy rejected the action.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound: unknown account or target.
	ErrNotFound = errors.New("account not found")
)
