package render

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/sigil/internal/signing/domain"
	"github.com/aussiebroadwan/sigil/pkg/digestx"
	"github.com/stretchr/testify/require"
)

func testInput() Input {
	payload := []byte(`{"bp":"120/80"}`)
	return Input{
		DocumentID:  "01JDOC000000000000000000001",
		Payload:     payload,
		PayloadHash: digestx.FromBytes(payload).String(),
		Signer: domain.SignerIdentity{
			Name:  "Alice Practitioner",
			Email: "alice@example.com",
		},
		SignedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Method:   domain.MethodOTPv1,
		Audit: domain.AuditTrail{
			IP:                "203.0.113.7",
			Agent:             "health-app/2.1",
			Channel:           domain.ChannelEmail,
			DestinationMasked: "a***e@example.com",
		},
	}
}

func TestArtifactIsDeterministic(t *testing.T) {
	t.Parallel()

	first, err := Artifact(testInput())
	require.NoError(t, err)

	for range 5 {
		again, err := Artifact(testInput())
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestArtifactEmbedsAllSealedFields(t *testing.T) {
	t.Parallel()

	in := testInput()
	out, err := Artifact(in)
	require.NoError(t, err)

	text := string(out)
	require.Contains(t, text, in.DocumentID)
	require.Contains(t, text, in.PayloadHash)
	require.Contains(t, text, `"bp": "120/80"`)
	require.Contains(t, text, "Alice Practitioner")
	require.Contains(t, text, "2026-03-14T09:26:53Z")
	require.Contains(t, text, domain.MethodOTPv1)
	require.Contains(t, text, "a***e@example.com")
	require.Contains(t, text, "203.0.113.7")
	require.Contains(t, text, "health-app/2.1")
}

func TestArtifactRejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Payload = []byte(`{"broken"`)
	_, err := Artifact(in)
	require.Error(t, err)
}
