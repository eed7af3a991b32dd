package jwtx

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates JWTs signed with EdDSA (Ed25519) against a single
// trusted public key plus issuer/audience expectations.
type Verifier struct {
	pub    ed25519.PublicKey
	issuer string
	aud    []string
}

// NewVerifier creates a verifier for the given Ed25519 public key.
func NewVerifier(pub ed25519.PublicKey, issuer string, aud []string) (*Verifier, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, errors.New("jwtx: invalid Ed25519 public key size")
	}
	return &Verifier{pub: pub, issuer: issuer, aud: aud}, nil
}

// NewVerifierFromPEM loads an Ed25519 public key from PKIX PEM bytes.
func NewVerifierFromPEM(pemKey []byte, issuer string, aud []string) (*Verifier, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM for Ed25519 public key")
	}

	if block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("jwtx: expected PUBLIC KEY, got %q", block.Type)
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse PKIX: %w", err)
	}

	pub, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("jwtx: not Ed25519 public key")
	}

	return NewVerifier(pub, issuer, aud)
}

// Verify parses and validates a raw JWT string, returning the claims on
// success. Signature, algorithm, issuer, audience and expiry are all checked.
func (v *Verifier) Verify(raw string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodEdDSA.Alg() {
			return nil, fmt.Errorf("jwtx: unexpected alg %q", t.Method.Alg())
		}
		return v.pub, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrSignature, err)
	}
	if !token.Valid {
		return Claims{}, ErrSignature
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.aud); err != nil {
		return Claims{}, err
	}

	return claims, nil
}
