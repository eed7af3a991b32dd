package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDeliveryChannel means the subject has no usable phone or email
	// destination for any channel in the priority list.
	ErrNoDeliveryChannel = errors.New("no usable delivery channel for subject")

	// ErrDispatchFailed means the code could not be delivered. The
	// challenge is rolled back, so a retry starts clean.
	ErrDispatchFailed = errors.New("failed to dispatch one-time code")

	// ErrChallengeNotFound covers expired, never-issued and
	// already-consumed challenges alike.
	ErrChallengeNotFound = errors.New("no live challenge for this payload")

	// ErrTooManyAttempts is terminal for a challenge: it stays locked until
	// natural expiry, and only issuing a fresh challenge recovers.
	ErrTooManyAttempts = errors.New("challenge locked after too many attempts")

	// ErrInvalidCode reports a wrong code; retryable up to the attempt
	// limit. Returned wrapped in InvalidCodeError which carries the
	// remaining budget.
	ErrInvalidCode = errors.New("invalid code")

	// ErrSealingFailed means rendering or persisting the sealed document
	// failed without partial commit; safe to retry verification from a
	// fresh challenge.
	ErrSealingFailed = errors.New("failed to seal document")

	// ErrDocumentNotFound covers both genuinely missing documents and
	// documents owned by someone else, so existence never leaks.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrArtifactMissing is a data-loss signal: the sealed record exists
	// but its artifact bytes are gone. Not retryable, and deliberately
	// distinct from a hash mismatch.
	ErrArtifactMissing = errors.New("artifact bytes missing for sealed document")
)

// InvalidCodeError wraps ErrInvalidCode with the remaining attempt budget so
// the API can tell the signer how many tries are left.
type InvalidCodeError struct {
	AttemptsRemaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid code (%d attempts remaining)", e.AttemptsRemaining)
}

func (e *InvalidCodeError) Unwrap() error { return ErrInvalidCode }
