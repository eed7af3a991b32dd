// Package identity resolves subject contact details. The practice platform
// owns the client records; the signing service only needs a name for the
// signer snapshot and phone/email destinations for code delivery.
package identity

import (
	"context"
	"errors"
)

// ErrNotFound reports an unknown subject.
var ErrNotFound = errors.New("identity: subject not found")

// Subject is the slice of a client record the signing pipeline needs.
type Subject struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Destination returns the subject's address for a given channel kind, or
// empty when the subject has none.
func (s Subject) Destination(channel string) string {
	switch channel {
	case "phone":
		return s.Phone
	case "email":
		return s.Email
	}
	return ""
}

// Resolver looks up subjects by id.
type Resolver interface {
	Resolve(ctx context.Context, subjectID string) (Subject, error)
}
