package domain

import (
	"errors"
	"strings"
	"time"
)

// Channel identifies how a one-time code is delivered to a subject.
type Channel string

const (
	ChannelPhone Channel = "phone"
	ChannelEmail Channel = "email"
)

// ErrUnknownChannel reports a channel value outside the supported set.
var ErrUnknownChannel = errors.New("domain: unknown delivery channel")

// ParseChannel validates a wire-level channel string.
func ParseChannel(s string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case ChannelPhone:
		return ChannelPhone, nil
	case ChannelEmail:
		return ChannelEmail, nil
	}
	return "", ErrUnknownChannel
}

// ChannelPriority returns the channel resolution order for a preference.
// The fallback is deterministic: phone falls back to email and vice versa.
// An empty preference defaults to phone-first.
func ChannelPriority(preferred Channel) []Channel {
	if preferred == ChannelEmail {
		return []Channel{ChannelEmail, ChannelPhone}
	}
	return []Channel{ChannelPhone, ChannelEmail}
}

// DefaultMaxAttempts is how many wrong codes a challenge tolerates before it
// locks until natural expiry.
const DefaultMaxAttempts = 5

// DefaultChallengeTTL is the absolute lifetime of a challenge. The window is
// fixed at creation; nothing extends it.
const DefaultChallengeTTL = 10 * time.Minute

// Challenge is a short-lived OTP record binding a subject and a payload's
// hash to a one-way-hashed secret code. At most one live challenge exists per
// (SubjectID, PayloadHash) pair.
type Challenge struct {
	ID           string  // ULID
	SubjectID    string  // owner identity
	PayloadHash  string  // canonical digest of the exact content being signed
	CodeHash     string  // argon2id PHC hash of the code, never the code itself
	Channel      Channel // delivery channel actually used
	Destination  string  // normalized delivery address
	AttemptsUsed int
	AttemptsMax  int
	RequestIP    string // captured at issuance, flows into the audit trail
	RequestAgent string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Locked reports whether the challenge has burned through its attempt budget.
// A locked challenge stays locked until natural expiry; reissuing a fresh
// challenge is the only recovery path.
func (c Challenge) Locked() bool {
	return c.AttemptsUsed >= c.AttemptsMax
}

// Expired reports whether the challenge's TTL has passed at the given time.
func (c Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// MaskDestination partially redacts a delivery address for display. Enough
// survives for the signer to recognise their own phone/email, nothing more.
func MaskDestination(ch Channel, destination string) string {
	switch ch {
	case ChannelEmail:
		at := strings.LastIndex(destination, "@")
		if at <= 0 {
			return "***"
		}
		local, dom := destination[:at], destination[at:]
		if len(local) <= 2 {
			return strings.Repeat("*", len(local)) + dom
		}
		return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + dom
	default:
		if len(destination) <= 3 {
			return strings.Repeat("*", len(destination))
		}
		return strings.Repeat("*", len(destination)-3) + destination[len(destination)-3:]
	}
}
