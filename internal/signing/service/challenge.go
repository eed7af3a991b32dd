package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/sigil/internal/signing/delivery"
	"github.com/aussiebroadwan/sigil/internal/signing/domain"
	"github.com/aussiebroadwan/sigil/internal/signing/identity"
	"github.com/aussiebroadwan/sigil/internal/signing/store"
	"github.com/aussiebroadwan/sigil/pkg/cryptox"
	"github.com/aussiebroadwan/sigil/pkg/digestx"
	"github.com/aussiebroadwan/sigil/pkg/idx"
	"github.com/aussiebroadwan/sigil/pkg/slogx"
)

// ChallengeService issues OTP challenges and dispatches codes. Creation rate
// limiting happens at the HTTP layer; this service assumes it is applied
// upstream.
type ChallengeService struct {
	Store     store.Store
	Directory identity.Resolver
	Sender    delivery.Sender

	TTL         time.Duration // challenge lifetime, default domain.DefaultChallengeTTL
	MaxAttempts int           // default domain.DefaultMaxAttempts
	CodeLength  int           // default cryptox.DefaultCodeLength
}

// StartRequest captures everything a challenge issuance needs. RequestIP and
// RequestAgent are recorded on the challenge so the eventual audit trail
// documents how the code was delivered and proven.
type StartRequest struct {
	SubjectID        string
	Payload          json.RawMessage
	PreferredChannel domain.Channel // zero value means phone-first default
	RequestIP        string
	RequestAgent     string
}

// StartResult is what the caller may see: where the code went, partially
// redacted, and when the window closes. Never the code.
type StartResult struct {
	Channel           domain.Channel
	DestinationMasked string
	ExpiresAt         time.Time
}

// Start issues a challenge for (subject, payload). Any prior live challenge
// for the same pair is invalidated: at most one outstanding code per payload.
func (s *ChallengeService) Start(ctx context.Context, req StartRequest) (StartResult, error) {
	log := slogx.FromContext(ctx)
	payloadHash := digestx.FromBytes(req.Payload).String()

	subject, err := s.Directory.Resolve(ctx, req.SubjectID)
	if err != nil {
		return StartResult{}, fmt.Errorf("failed to resolve subject: %w", err)
	}

	channel, destination, err := resolveChannel(subject, req.PreferredChannel)
	if err != nil {
		return StartResult{}, err
	}

	code, err := cryptox.NumericCode(s.codeLength())
	if err != nil {
		return StartResult{}, fmt.Errorf("failed to generate code: %w", err)
	}
	codeHash, err := cryptox.HashCode(code)
	if err != nil {
		return StartResult{}, fmt.Errorf("failed to hash code: %w", err)
	}

	now := time.Now().UTC()
	challenge := domain.Challenge{
		ID:           idx.New().String(),
		SubjectID:    req.SubjectID,
		PayloadHash:  payloadHash,
		CodeHash:     codeHash,
		Channel:      channel,
		Destination:  destination,
		AttemptsUsed: 0,
		AttemptsMax:  s.maxAttempts(),
		RequestIP:    req.RequestIP,
		RequestAgent: req.RequestAgent,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl()),
	}

	// Replace-then-insert in one transaction: reissuance atomically
	// invalidates the previous code for this pair, and two concurrent
	// starts serialize so exactly one challenge row survives.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Challenges().Delete(ctx, req.SubjectID, payloadHash); err != nil {
			return fmt.Errorf("failed to invalidate prior challenge: %w", err)
		}
		if err := tx.Challenges().Create(ctx, challenge); err != nil {
			return fmt.Errorf("failed to persist challenge: %w", err)
		}
		return nil
	})
	if err != nil {
		return StartResult{}, err
	}

	// Dispatch outside the transaction; a challenge nobody received a code
	// for must not stay live, so roll back on failure. Two concurrent
	// successful starts can still dispatch in the opposite order of their
	// commits, leaving the caller holding a code for the superseded
	// challenge; that code simply fails as InvalidCode.
	sendErr := s.Sender.Send(ctx, delivery.Message{
		SubjectID:   req.SubjectID,
		Channel:     channel,
		Destination: destination,
		Code:        code,
	})
	if sendErr != nil {
		// Keyed by ID: a concurrent reissue may have replaced this row
		// already, and its challenge must survive our rollback.
		if _, delErr := s.Store.Challenges().DeleteByID(ctx, challenge.ID); delErr != nil {
			// Orphaned challenge will still die at TTL; log and move on.
			log.Error("failed to roll back challenge after dispatch failure",
				"subject_id", req.SubjectID, "err", delErr)
		}
		return StartResult{}, fmt.Errorf("%w: %w", ErrDispatchFailed, sendErr)
	}

	log.Info("challenge issued",
		"subject_id", req.SubjectID,
		"channel", channel,
		"expires_at", challenge.ExpiresAt,
	)

	return StartResult{
		Channel:           channel,
		DestinationMasked: domain.MaskDestination(channel, destination),
		ExpiresAt:         challenge.ExpiresAt,
	}, nil
}

// resolveChannel walks the priority list and picks the first channel the
// subject has a destination for.
func resolveChannel(subject identity.Subject, preferred domain.Channel) (domain.Channel, string, error) {
	for _, ch := range domain.ChannelPriority(preferred) {
		if dest := subject.Destination(string(ch)); dest != "" {
			return ch, dest, nil
		}
	}
	return "", "", ErrNoDeliveryChannel
}

func (s *ChallengeService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return domain.DefaultChallengeTTL
}

func (s *ChallengeService) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return domain.DefaultMaxAttempts
}

func (s *ChallengeService) codeLength() int {
	if s.CodeLength > 0 {
		return s.CodeLength
	}
	return cryptox.DefaultCodeLength
}
