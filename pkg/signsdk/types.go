package signsdk

import (
	"encoding/json"
	"time"
)

// ChallengeRequest starts a signing challenge for a piece of content.
type ChallengeRequest struct {
	// Payload is the exact JSON content to be signed. The service hashes
	// these bytes verbatim; re-serializing on the caller side changes the
	// identity of the content.
	Payload json.RawMessage `json:"payload"`

	// Channel optionally prefers "phone" or "email" delivery. Empty means
	// phone-first with email fallback.
	Channel string `json:"channel,omitempty"`
}

// ChallengeResponse reports where the one-time code went. The code itself is
// never returned over this API.
type ChallengeResponse struct {
	Channel           string    `json:"channel"`
	DestinationMasked string    `json:"destination_masked"`
	ExpiresAt         time.Time `json:"expires_at"`
}

// VerifyRequest submits a one-time code against the live challenge for the
// given payload.
type VerifyRequest struct {
	Payload json.RawMessage `json:"payload"`
	Code    string          `json:"code"`
}

// VerifyResponse is returned when verification and sealing both succeed.
type VerifyResponse struct {
	DocumentID   string    `json:"document_id"`
	SignedAt     time.Time `json:"signed_at"`
	ArtifactSize int64     `json:"artifact_size"`
}

// IntegrityResponse is the composite verdict of re-verifying a sealed
// document.
type IntegrityResponse struct {
	Valid       bool   `json:"valid"`
	HashMatches bool   `json:"hash_matches"`
	Status      string `json:"status"`
	Expired     bool   `json:"expired"`
}

// RevokeResponse confirms a revocation.
type RevokeResponse struct {
	Status string `json:"status"`
}

// HealthChecks reports the state of critical dependencies.
type HealthChecks struct {
	Database  string `json:"database,omitempty"`
	Artifacts string `json:"artifacts,omitempty"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
