package signing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/sigil/pkg/httpx"
	"github.com/aussiebroadwan/sigil/pkg/signsdk"
	"github.com/stretchr/testify/require"
)

func TestChallengeRateLimiting(t *testing.T) {
	ctx := context.Background()

	// Pin a tiny budget for this server only; routes capture the config at
	// registration time, so restoring afterwards cannot race other tests.
	saved := httpx.StrictLimit
	httpx.StrictLimit = httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}
	t.Cleanup(func() { httpx.StrictLimit = saved })

	env := setupServer(t)
	client := env.client(t, testSubject, allScopes)

	for i := 0; i < 3; i++ {
		_, err := client.StartChallenge(ctx, signsdk.ChallengeRequest{Payload: testPayload})
		require.NoError(t, err)
	}

	_, err := client.StartChallenge(ctx, signsdk.ChallengeRequest{Payload: testPayload})
	var apiErr *signsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 429, apiErr.StatusCode)
	require.Equal(t, signsdk.ErrorCodeRateLimitExceeded, apiErr.Code)

	// Another subject is unaffected: limits key on the authenticated
	// subject, not the shared client IP.
	other := env.client(t, "client-0002", allScopes)
	_, err = other.StartChallenge(ctx, signsdk.ChallengeRequest{Payload: testPayload})
	require.Error(t, err)
	require.True(t, errors.As(err, &apiErr))
	require.NotEqual(t, 429, apiErr.StatusCode)
}
