// Package digestx wraps opencontainers/go-digest with the small surface the
// signing pipeline needs: deterministic SHA-256 content digests used for both
// payload identity and artifact integrity. Digests are identity fingerprints,
// not secrets, so there is no salt anywhere here.
package digestx

import (
	"github.com/opencontainers/go-digest"
)

// Algorithm is the single digest algorithm used across the service. Payload
// hashes and artifact hashes must be comparable, so everything goes through
// SHA-256.
const Algorithm = digest.SHA256

// FromBytes returns the canonical digest of the exact bytes given, in
// "sha256:<hex>" form.
func FromBytes(b []byte) digest.Digest {
	return Algorithm.FromBytes(b)
}

// FromString is FromBytes for string content.
func FromString(s string) digest.Digest {
	return Algorithm.FromString(s)
}

// Parse validates a digest string and returns it in typed form.
func Parse(s string) (digest.Digest, error) {
	d, err := digest.Parse(s)
	if err != nil {
		return "", err
	}
	return d, nil
}

// Verify reports whether the given bytes hash to the expected digest.
func Verify(b []byte, expected digest.Digest) bool {
	if err := expected.Validate(); err != nil {
		return false
	}
	return FromBytes(b) == expected
}
