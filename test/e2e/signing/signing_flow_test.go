package signing_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aussiebroadwan/sigil/pkg/signsdk"
	"github.com/stretchr/testify/require"
)

var testPayload = json.RawMessage(`{"form":"treatment-consent","version":7,"accepted":true}`)

func TestFullSigningFlow(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t)
	client := env.client(t, testSubject, allScopes)

	// Start a challenge; the code goes out via the (captured) gateway.
	challenge, err := client.StartChallenge(ctx, signsdk.ChallengeRequest{Payload: testPayload})
	require.NoError(t, err)
	require.Equal(t, "phone", challenge.Channel)
	require.Equal(t, "*********222", challenge.DestinationMasked)

	// Verify the code; the content is sealed into a document.
	sealed, err := client.VerifyAndSeal(ctx, signsdk.VerifyRequest{
		Payload: testPayload,
		Code:    env.sender.lastCode(t),
	})
	require.NoError(t, err)
	require.NotEmpty(t, sealed.DocumentID)
	require.Positive(t, sealed.ArtifactSize)

	// The artifact is retrievable and carries the signed content.
	artifact, err := client.Artifact(ctx, sealed.DocumentID)
	require.NoError(t, err)
	require.Contains(t, string(artifact), "SIGNED DECLARATION")
	require.Contains(t, string(artifact), "treatment-consent")
	require.Contains(t, string(artifact), "Alex Doyle")
	require.Len(t, artifact, int(sealed.ArtifactSize))

	// Integrity holds.
	verdict, err := client.CheckIntegrity(ctx, sealed.DocumentID)
	require.NoError(t, err)
	require.True(t, verdict.Valid)
	require.True(t, verdict.HashMatches)
	require.Equal(t, "active", verdict.Status)

	// The consumed challenge cannot be replayed.
	_, err = client.VerifyAndSeal(ctx, signsdk.VerifyRequest{
		Payload: testPayload,
		Code:    env.sender.lastCode(t),
	})
	var apiErr *signsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, signsdk.ErrorCodeChallengeNotFound, apiErr.Code)
}

func TestLockoutAndRecovery(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t)
	client := env.client(t, testSubject, allScopes)

	_, err := client.StartChallenge(ctx, signsdk.ChallengeRequest{Payload: testPayload})
	require.NoError(t, err)
	code := env.sender.lastCode(t)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	// Burn the whole attempt budget on wrong codes.
	var apiErr *signsdk.APIError
	for i := 5; i >= 1; i-- {
		_, err = client.VerifyAndSeal(ctx, signsdk.VerifyRequest{Payload: testPayload, Code: wrong})
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, signsdk.ErrorCodeInvalidCode, apiErr.Code)
		require.NotNil(t, apiErr.AttemptsRemaining)
		require.Equal(t, i-1, *apiErr.AttemptsRemaining)
	}

	// Locked now, even for the genuine code.
	_, err = client.VerifyAndSeal(ctx, signsdk.VerifyRequest{Payload: testPayload, Code: code})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, signsdk.ErrorCodeTooManyAttempts, apiErr.Code)

	// A fresh challenge recovers the flow end to end.
	_, err = client.StartChallenge(ctx, signsdk.ChallengeRequest{Payload: testPayload})
	require.NoError(t, err)

	sealed, err := client.VerifyAndSeal(ctx, signsdk.VerifyRequest{
		Payload: testPayload,
		Code:    env.sender.lastCode(t),
	})
	require.NoError(t, err)
	require.NotEmpty(t, sealed.DocumentID)
}

func TestRevocation(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t)
	client := env.client(t, testSubject, allScopes)

	_, err := client.StartChallenge(ctx, signsdk.ChallengeRequest{Payload: testPayload})
	require.NoError(t, err)
	sealed, err := client.VerifyAndSeal(ctx, signsdk.VerifyRequest{
		Payload: testPayload,
		Code:    env.sender.lastCode(t),
	})
	require.NoError(t, err)

	revoked, err := client.Revoke(ctx, sealed.DocumentID)
	require.NoError(t, err)
	require.Equal(t, "revoked", revoked.Status)

	verdict, err := client.CheckIntegrity(ctx, sealed.DocumentID)
	require.NoError(t, err)
	require.False(t, verdict.Valid)
	require.True(t, verdict.HashMatches)
	require.Equal(t, "revoked", verdict.Status)

	// The artifact itself stays readable after revocation.
	artifact, err := client.Artifact(ctx, sealed.DocumentID)
	require.NoError(t, err)
	require.NotEmpty(t, artifact)
}

func TestOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t)
	owner := env.client(t, testSubject, allScopes)

	_, err := owner.StartChallenge(ctx, signsdk.ChallengeRequest{Payload: testPayload})
	require.NoError(t, err)
	sealed, err := owner.VerifyAndSeal(ctx, signsdk.VerifyRequest{
		Payload: testPayload,
		Code:    env.sender.lastCode(t),
	})
	require.NoError(t, err)

	// Another authenticated subject sees nothing.
	stranger := env.client(t, "client-0002", allScopes)

	var apiErr *signsdk.APIError
	_, err = stranger.Artifact(ctx, sealed.DocumentID)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, signsdk.ErrorCodeDocumentNotFound, apiErr.Code)

	_, err = stranger.CheckIntegrity(ctx, sealed.DocumentID)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, signsdk.ErrorCodeDocumentNotFound, apiErr.Code)

	_, err = stranger.Revoke(ctx, sealed.DocumentID)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, signsdk.ErrorCodeDocumentNotFound, apiErr.Code)
}

func TestAuthenticationAndScopes(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t)

	t.Run("missing token is rejected", func(t *testing.T) {
		anon := signsdk.NewClient(env.server.URL, "")
		_, err := anon.StartChallenge(ctx, signsdk.ChallengeRequest{Payload: testPayload})
		require.Error(t, err)

		var apiErr *signsdk.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, 401, apiErr.StatusCode)
	})

	t.Run("token without the scope is rejected", func(t *testing.T) {
		readOnly := env.client(t, testSubject, []string{"documents:read"})
		_, err := readOnly.StartChallenge(ctx, signsdk.ChallengeRequest{Payload: testPayload})
		require.Error(t, err)

		var apiErr *signsdk.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, 403, apiErr.StatusCode)
	})

	t.Run("health probes need no token", func(t *testing.T) {
		anon := signsdk.NewClient(env.server.URL, "")
		health, err := anon.Livez(ctx)
		require.NoError(t, err)
		require.Equal(t, "ok", health.Status)
	})
}
