package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/sigil/internal/signing/domain"
	"github.com/aussiebroadwan/sigil/internal/signing/store"
	"github.com/aussiebroadwan/sigil/pkg/cryptox"
	"github.com/aussiebroadwan/sigil/pkg/digestx"
	"github.com/aussiebroadwan/sigil/pkg/slogx"
)

// SignatureService proves possession of a dispatched code against a live
// challenge.
type SignatureService struct {
	Store store.Store
}

// VerifiedSignature is the verifier's token: proof that the subject received
// and returned the code for exactly this payload. It is the only accepted
// input to sealing, and it carries the audit context captured at challenge
// creation, not at verification time, because it documents how the code was
// delivered.
type VerifiedSignature struct {
	SubjectID   string
	Payload     json.RawMessage
	PayloadHash string
	Audit       domain.AuditTrail
	VerifiedAt  time.Time
}

// Verify checks a submitted code against the live challenge for
// (subject, payload). On success the challenge is consumed: the guarded
// delete is the single-use gate, so even two racing correct submissions can
// produce at most one VerifiedSignature.
func (s *SignatureService) Verify(ctx context.Context, subjectID string, payload json.RawMessage, code string) (VerifiedSignature, error) {
	log := slogx.FromContext(ctx)
	payloadHash := digestx.FromBytes(payload).String()

	challenge, err := s.Store.Challenges().GetLive(ctx, subjectID, payloadHash)
	if errors.Is(err, store.ErrNotFound) {
		return VerifiedSignature{}, ErrChallengeNotFound
	}
	if err != nil {
		return VerifiedSignature{}, fmt.Errorf("failed to load challenge: %w", err)
	}

	// Attempt budget is checked before the code so a locked challenge stays
	// locked even when the correct code finally arrives.
	if challenge.Locked() {
		return VerifiedSignature{}, ErrTooManyAttempts
	}

	if err := cryptox.VerifyCode(code, challenge.CodeHash); err != nil {
		if !errors.Is(err, cryptox.ErrCodeMismatch) {
			return VerifiedSignature{}, fmt.Errorf("failed to verify code: %w", err)
		}

		updated, incErr := s.Store.Challenges().IncrementAttempts(ctx, challenge.ID)
		if incErr != nil {
			return VerifiedSignature{}, fmt.Errorf("failed to record attempt: %w", incErr)
		}

		remaining := updated.AttemptsMax - updated.AttemptsUsed
		if remaining < 0 {
			remaining = 0
		}

		log.Warn("invalid signing code submitted",
			"subject_id", subjectID,
			"attempts_used", updated.AttemptsUsed,
			"attempts_max", updated.AttemptsMax,
		)
		return VerifiedSignature{}, &InvalidCodeError{AttemptsRemaining: remaining}
	}

	// Consume the challenge. Keyed by ID, not by pair: if a reissue landed
	// after the lookup, the superseded code must not consume the successor.
	// If another request got here first the delete reports zero rows and
	// this verification loses the race.
	deleted, err := s.Store.Challenges().DeleteByID(ctx, challenge.ID)
	if err != nil {
		return VerifiedSignature{}, fmt.Errorf("failed to consume challenge: %w", err)
	}
	if !deleted {
		return VerifiedSignature{}, ErrChallengeNotFound
	}

	log.Info("signing code verified", "subject_id", subjectID)

	return VerifiedSignature{
		SubjectID:   subjectID,
		Payload:     payload,
		PayloadHash: payloadHash,
		Audit: domain.AuditTrail{
			IP:                challenge.RequestIP,
			Agent:             challenge.RequestAgent,
			Channel:           challenge.Channel,
			DestinationMasked: domain.MaskDestination(challenge.Channel, challenge.Destination),
		},
		VerifiedAt: time.Now().UTC(),
	}, nil
}
