package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/sigil/internal/signing/delivery"
	"github.com/aussiebroadwan/sigil/internal/signing/domain"
	"github.com/aussiebroadwan/sigil/internal/signing/store"
	"github.com/aussiebroadwan/sigil/pkg/digestx"
	"github.com/stretchr/testify/require"
)

func TestChallengeStart(t *testing.T) {
	ctx := context.Background()
	payload := json.RawMessage(`{"form":"intake","version":3}`)

	t.Run("issues challenge and dispatches code", func(t *testing.T) {
		st := newTestStore(t)
		sender := &fakeSender{}
		svc := &ChallengeService{Store: st, Directory: testDirectory(), Sender: sender}

		res, err := svc.Start(ctx, StartRequest{
			SubjectID:    "subj-full",
			Payload:      payload,
			RequestIP:    "203.0.113.9",
			RequestAgent: "health-app/2.1",
		})
		require.NoError(t, err)

		// Phone wins by default priority; masked, never raw.
		require.Equal(t, domain.ChannelPhone, res.Channel)
		require.Equal(t, "*********222", res.DestinationMasked)
		require.WithinDuration(t, time.Now().Add(domain.DefaultChallengeTTL), res.ExpiresAt, 5*time.Second)

		msg := sender.last(t)
		require.Equal(t, "+61400111222", msg.Destination)
		require.Len(t, msg.Code, 6)

		hash := digestx.FromBytes(payload).String()
		ch, err := st.Challenges().GetLive(ctx, "subj-full", hash)
		require.NoError(t, err)
		require.Equal(t, "203.0.113.9", ch.RequestIP)
		require.NotContains(t, ch.CodeHash, msg.Code)
	})

	t.Run("honours email preference and falls back to phone", func(t *testing.T) {
		st := newTestStore(t)
		sender := &fakeSender{}
		svc := &ChallengeService{Store: st, Directory: testDirectory(), Sender: sender}

		res, err := svc.Start(ctx, StartRequest{
			SubjectID:        "subj-full",
			Payload:          payload,
			PreferredChannel: domain.ChannelEmail,
		})
		require.NoError(t, err)
		require.Equal(t, domain.ChannelEmail, res.Channel)
		require.Equal(t, "a**x@example.com", res.DestinationMasked)

		// Preferred phone but only email on record: fall back.
		res, err = svc.Start(ctx, StartRequest{
			SubjectID:        "subj-email",
			Payload:          payload,
			PreferredChannel: domain.ChannelPhone,
		})
		require.NoError(t, err)
		require.Equal(t, domain.ChannelEmail, res.Channel)
	})

	t.Run("rejects subject with no destinations", func(t *testing.T) {
		st := newTestStore(t)
		svc := &ChallengeService{Store: st, Directory: testDirectory(), Sender: &fakeSender{}}

		_, err := svc.Start(ctx, StartRequest{SubjectID: "subj-bare", Payload: payload})
		require.ErrorIs(t, err, ErrNoDeliveryChannel)
	})

	t.Run("reissue invalidates the previous code", func(t *testing.T) {
		st := newTestStore(t)
		sender := &fakeSender{}
		svc := &ChallengeService{Store: st, Directory: testDirectory(), Sender: sender}

		_, err := svc.Start(ctx, StartRequest{SubjectID: "subj-full", Payload: payload})
		require.NoError(t, err)
		firstCode := sender.last(t).Code

		_, err = svc.Start(ctx, StartRequest{SubjectID: "subj-full", Payload: payload})
		require.NoError(t, err)
		secondCode := sender.last(t).Code

		verifier := &SignatureService{Store: st}
		if firstCode != secondCode {
			_, err = verifier.Verify(ctx, "subj-full", payload, firstCode)
			require.ErrorIs(t, err, ErrInvalidCode)
		}

		_, err = verifier.Verify(ctx, "subj-full", payload, secondCode)
		require.NoError(t, err)
	})

	t.Run("different payloads get independent challenges", func(t *testing.T) {
		st := newTestStore(t)
		sender := &fakeSender{}
		svc := &ChallengeService{Store: st, Directory: testDirectory(), Sender: sender}

		other := json.RawMessage(`{"form":"consent","version":1}`)
		_, err := svc.Start(ctx, StartRequest{SubjectID: "subj-full", Payload: payload})
		require.NoError(t, err)
		_, err = svc.Start(ctx, StartRequest{SubjectID: "subj-full", Payload: other})
		require.NoError(t, err)

		_, err = st.Challenges().GetLive(ctx, "subj-full", digestx.FromBytes(payload).String())
		require.NoError(t, err)
		_, err = st.Challenges().GetLive(ctx, "subj-full", digestx.FromBytes(other).String())
		require.NoError(t, err)
	})

	t.Run("dispatch failure rolls the challenge back", func(t *testing.T) {
		st := newTestStore(t)
		sender := &fakeSender{err: context.DeadlineExceeded}
		svc := &ChallengeService{Store: st, Directory: testDirectory(), Sender: sender}

		_, err := svc.Start(ctx, StartRequest{SubjectID: "subj-full", Payload: payload})
		require.ErrorIs(t, err, ErrDispatchFailed)

		_, err = st.Challenges().GetLive(ctx, "subj-full", digestx.FromBytes(payload).String())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("dispatch failure rollback spares a reissued challenge", func(t *testing.T) {
		st := newTestStore(t)
		dir := testDirectory()

		// The reissue commits and dispatches while the first issuance is
		// still stuck in its failing Send. Its rollback must only remove its
		// own challenge, never the successor's.
		reissueSender := &fakeSender{}
		reissuer := &ChallengeService{Store: st, Directory: dir, Sender: reissueSender}

		sender := &hookSender{fn: func(msg delivery.Message) error {
			_, err := reissuer.Start(ctx, StartRequest{SubjectID: "subj-full", Payload: payload})
			require.NoError(t, err)
			return context.DeadlineExceeded
		}}
		svc := &ChallengeService{Store: st, Directory: dir, Sender: sender}

		_, err := svc.Start(ctx, StartRequest{SubjectID: "subj-full", Payload: payload})
		require.ErrorIs(t, err, ErrDispatchFailed)

		verifier := &SignatureService{Store: st}
		sig, err := verifier.Verify(ctx, "subj-full", payload, reissueSender.last(t).Code)
		require.NoError(t, err)
		require.Equal(t, "subj-full", sig.SubjectID)
	})
}

// hookSender runs a callback inside Send so tests can interleave store
// operations with a dispatch in flight.
type hookSender struct {
	fn func(msg delivery.Message) error
}

func (h *hookSender) Send(ctx context.Context, msg delivery.Message) error {
	return h.fn(msg)
}
