package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newKeypair(t *testing.T) (*Signer, ed25519.PublicKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := NewSigner(priv)
	require.NoError(t, err)
	return signer, pub
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer, pub := newKeypair(t)
	verifier, err := NewVerifier(pub, "sigil-test", nil)
	require.NoError(t, err)

	claims := NewClaims("subj-1", "sigil-test", []string{"signing:write"}, time.Minute, time.Now().UTC())
	raw, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "subj-1", got.Subject)
	require.Equal(t, []string{"signing:write"}, got.Scopes)
	require.NoError(t, got.ValidateExpiry())
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	t.Parallel()

	signer, _ := newKeypair(t)
	_, otherPub := newKeypair(t)

	verifier, err := NewVerifier(otherPub, "", nil)
	require.NoError(t, err)

	raw, err := signer.Sign(NewClaims("subj-1", "sigil-test", nil, time.Minute, time.Now().UTC()))
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, ErrSignature)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signer, pub := newKeypair(t)
	verifier, err := NewVerifier(pub, "expected-issuer", nil)
	require.NoError(t, err)

	raw, err := signer.Sign(NewClaims("subj-1", "someone-else", nil, time.Minute, time.Now().UTC()))
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestValidateExpiry(t *testing.T) {
	t.Parallel()

	past := NewClaims("s", "i", nil, -time.Minute, time.Now().UTC().Add(-2*time.Minute))
	require.ErrorIs(t, past.ValidateExpiry(), ErrExpired)

	future := NewClaims("s", "i", nil, time.Minute, time.Now().UTC().Add(time.Hour))
	require.ErrorIs(t, future.ValidateExpiry(), ErrNotYetValid)
}
