package digestx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromBytesIsDeterministic(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"bp":"120/80"}`)
	first := FromBytes(payload)
	for range 10 {
		require.Equal(t, first, FromBytes(payload))
	}

	// Known-answer check so a digest algorithm change cannot slip through
	// silently: stored documents carry these strings forever.
	require.Equal(t,
		"sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		FromString("hello").String(),
	)
}

func TestDistinctInputsDistinctDigests(t *testing.T) {
	t.Parallel()

	require.NotEqual(t, FromBytes([]byte("a")), FromBytes([]byte("b")))
	require.NotEqual(t, FromBytes([]byte{}), FromBytes([]byte{0}))
}

func TestVerify(t *testing.T) {
	t.Parallel()

	b := []byte("signed artifact bytes")
	d := FromBytes(b)

	require.True(t, Verify(b, d))

	// One flipped byte must fail.
	mutated := append([]byte(nil), b...)
	mutated[0] ^= 0x01
	require.False(t, Verify(mutated, d))

	require.False(t, Verify(b, "sha256:notvalid"))
	require.False(t, Verify(b, ""))
}

func TestParse(t *testing.T) {
	t.Parallel()

	d := FromString("content")
	parsed, err := Parse(d.String())
	require.NoError(t, err)
	require.Equal(t, d, parsed)

	_, err = Parse("garbage")
	require.Error(t, err)
}
