// Package delivery abstracts how one-time codes reach a subject. The signing
// service never talks to SMS or email providers directly; the platform's
// messaging gateway does, and this package is the seam.
package delivery

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/sigil/internal/signing/domain"
)

var (
	// ErrDispatchFailed reports the gateway rejected or could not deliver
	// the message. Retryable from the caller's point of view.
	ErrDispatchFailed = errors.New("delivery: dispatch failed")

	// ErrDispatchTimeout reports the gateway did not answer in time. Kept
	// distinct from ErrDispatchFailed so callers can tell a dead gateway
	// from a rejected message.
	ErrDispatchTimeout = errors.New("delivery: dispatch timed out")
)

// Message is a one-time code en route to a subject.
type Message struct {
	SubjectID   string
	Channel     domain.Channel
	Destination string
	Code        string
}

// Sender dispatches a one-time code. Implementations must return within the
// context deadline and surface timeouts as ErrDispatchTimeout.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
