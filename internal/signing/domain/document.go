package domain

import (
	"encoding/json"
	"time"
)

// MethodOTPv1 identifies the signing scheme: out-of-band numeric OTP proven
// against an argon2id hash, sealed with a SHA-256 artifact digest. Bump the
// suffix if the scheme ever changes so old documents stay interpretable.
const MethodOTPv1 = "otp-v1"

// DocumentStatus is the lifecycle state of a sealed document.
type DocumentStatus string

const (
	DocumentActive  DocumentStatus = "active"
	DocumentRevoked DocumentStatus = "revoked"
	DocumentExpired DocumentStatus = "expired"
)

// SignerIdentity is a snapshot of who signed, taken at sign time. It is
// deliberately not a live reference: the signer's directory record may change
// later, the sealed document must not.
type SignerIdentity struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// AuditTrail documents how the one-time code was delivered and proven. It is
// captured at challenge creation, not at sealing, because it describes the
// verification event.
type AuditTrail struct {
	IP                string  `json:"ip"`
	Agent             string  `json:"agent"`
	Channel           Channel `json:"channel"`
	DestinationMasked string  `json:"destination_masked"`
}

// SignedDocument is the durable record of a sealed signature. Content fields
// are immutable after creation; only Status and ExpiresAt may change.
type SignedDocument struct {
	ID              string // ULID
	SubjectID       string
	Signer          SignerIdentity
	Payload         json.RawMessage // original structured content, stored in clear
	PayloadHash     string          // canonical digest of Payload
	ArtifactHash    string          // digest of the rendered bytes, computed once at creation
	ArtifactLocator string          // opaque reference into the blob store
	ArtifactSize    int64
	SignedAt        time.Time
	Method          string
	Audit           AuditTrail
	Status          DocumentStatus
	ExpiresAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Expired reports whether the document's optional expiry has passed.
func (d SignedDocument) Expired(now time.Time) bool {
	return d.ExpiresAt != nil && !now.Before(*d.ExpiresAt)
}

// IntegrityVerdict is the composite result of re-verifying a sealed document.
// Valid is the conjunction of the sub-checks; the parts are reported
// individually so callers can tell tampering from routine invalidation.
type IntegrityVerdict struct {
	Valid       bool           `json:"valid"`
	HashMatches bool           `json:"hash_matches"`
	Status      DocumentStatus `json:"status"`
	Expired     bool           `json:"expired"`
}
