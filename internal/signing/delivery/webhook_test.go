package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/sigil/internal/signing/domain"
	"github.com/stretchr/testify/require"
)

func TestWebhookSenderPostsToChannelEndpoint(t *testing.T) {
	t.Parallel()

	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewWebhookSender(srv.URL, "", time.Second)
	err := s.Send(context.Background(), Message{
		SubjectID:   "subj-1",
		Channel:     domain.ChannelPhone,
		Destination: "+61412345678",
		Code:        "123456",
	})
	require.NoError(t, err)
	require.Equal(t, "+61412345678", got.Destination)
	require.Equal(t, "123456", got.Code)
}

func TestWebhookSenderFailsOnGatewayError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewWebhookSender(srv.URL, srv.URL, time.Second)
	err := s.Send(context.Background(), Message{Channel: domain.ChannelEmail, Destination: "a@b.c"})
	require.ErrorIs(t, err, ErrDispatchFailed)
}

func TestWebhookSenderDistinguishesTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	s := NewWebhookSender(srv.URL, "", 50*time.Millisecond)
	err := s.Send(context.Background(), Message{Channel: domain.ChannelPhone, Destination: "+614"})
	require.ErrorIs(t, err, ErrDispatchTimeout)
	require.NotErrorIs(t, err, ErrDispatchFailed)
}

func TestWebhookSenderFailsWhenChannelUnconfigured(t *testing.T) {
	t.Parallel()

	s := NewWebhookSender("", "", time.Second)
	err := s.Send(context.Background(), Message{Channel: domain.ChannelPhone})
	require.ErrorIs(t, err, ErrDispatchFailed)
}
