package signsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/sigil/pkg/httpx"
)

// Error codes returned by the signing service.
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeInvalidToken      = "invalid_token"
	ErrorCodeInsufficientScope = "insufficient_scope"
	ErrorCodeInvalidCode       = "invalid_code"
	ErrorCodeChallengeNotFound = "challenge_not_found"
	ErrorCodeDocumentNotFound  = "document_not_found"
	ErrorCodeNoDeliveryChannel = "no_delivery_channel"
	ErrorCodeTooManyAttempts   = "too_many_attempts"
	ErrorCodeDispatchFailed    = "dispatch_failed"
	ErrorCodeSealingFailed     = "sealing_failed"
	ErrorCodeArtifactMissing   = "artifact_missing"
	ErrorCodeServerError       = "server_error"
	ErrorCodeRateLimitExceeded = "rate_limit_exceeded"
)

// APIError is the wire-level error shape. It is shared between the server
// (handlers write it) and the SDK client (callers unwrap it), so both sides
// always agree on what an error looks like.
type APIError struct {
	// StatusCode is the HTTP status, never serialized in the body.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code.
	Code string `json:"error"`

	// Description is a human-readable explanation.
	Description string `json:"error_description"`

	// AttemptsRemaining is set only on invalid_code responses.
	AttemptsRemaining *int `json:"attempts_remaining,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// WithAttemptsRemaining returns a copy carrying the remaining attempt budget.
func (e *APIError) WithAttemptsRemaining(n int) *APIError {
	out := *e
	out.AttemptsRemaining = &n
	return &out
}

var (
	// ErrInvalidRequest is returned for malformed JSON bodies, missing
	// fields or unparseable parameters.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidToken is returned when bearer authentication fails.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "invalid or missing access token",
	}

	// ErrInsufficientScope is returned when the token lacks a required scope.
	ErrInsufficientScope = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeInsufficientScope,
		Description: "token does not carry the required scope",
	}

	// ErrInvalidCode is returned for a wrong one-time code. Handlers attach
	// the remaining budget via WithAttemptsRemaining.
	ErrInvalidCode = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidCode,
		Description: "the submitted code is incorrect",
	}

	// ErrChallengeNotFound covers expired, consumed and never-issued
	// challenges alike.
	ErrChallengeNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeChallengeNotFound,
		Description: "no live signing challenge for this content",
	}

	// ErrDocumentNotFound covers missing documents and documents owned by
	// another subject.
	ErrDocumentNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeDocumentNotFound,
		Description: "document not found",
	}

	// ErrNoDeliveryChannel means the subject has no phone or email on record.
	ErrNoDeliveryChannel = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeNoDeliveryChannel,
		Description: "no usable delivery channel on record for this subject",
	}

	// ErrTooManyAttempts means the challenge is locked until it expires.
	ErrTooManyAttempts = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeTooManyAttempts,
		Description: "too many incorrect codes; request a new challenge after the current one expires",
	}

	// ErrDispatchFailed means the code could not be delivered. Retryable.
	ErrDispatchFailed = &APIError{
		StatusCode:  http.StatusBadGateway,
		Code:        ErrorCodeDispatchFailed,
		Description: "failed to deliver the one-time code",
	}

	// ErrSealingFailed means the verified signature could not be sealed.
	// Retryable from a fresh challenge.
	ErrSealingFailed = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeSealingFailed,
		Description: "failed to seal the signed document",
	}

	// ErrArtifactMissing means the document record exists but its artifact
	// bytes are gone.
	ErrArtifactMissing = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeArtifactMissing,
		Description: "artifact bytes are missing for this document",
	}

	// ErrServerError is the generic internal failure.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)
