package app

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aussiebroadwan/sigil/pkg/jwtx"
)

// InitVerifier sets up token verification. Production deployments point
// SIGNING_PUBLIC_KEY_FILE at the auth service's Ed25519 public key; without
// it the service runs in dev mode with an ephemeral keypair and logs a
// ready-made token so the API can be exercised immediately.
func InitVerifier(cfg Config, logger *slog.Logger) (*jwtx.Verifier, error) {
	var aud []string
	if cfg.Audience != "" {
		aud = []string{cfg.Audience}
	}

	if cfg.PublicKeyFile != "" {
		pemBytes, err := os.ReadFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read public key file: %w", err)
		}
		verifier, err := jwtx.NewVerifierFromPEM(pemBytes, cfg.Issuer, aud)
		if err != nil {
			return nil, fmt.Errorf("failed to load public key: %w", err)
		}
		logger.Info("token verifier configured", "public_key_file", cfg.PublicKeyFile, "issuer", cfg.Issuer)
		return verifier, nil
	}

	if cfg.Env != "dev" {
		return nil, fmt.Errorf("SIGNING_PUBLIC_KEY_FILE is required outside dev mode")
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dev keypair: %w", err)
	}

	signer, err := jwtx.NewSigner(priv)
	if err != nil {
		return nil, err
	}

	token, err := signer.Sign(jwtx.NewClaims(
		"dev-subject",
		cfg.Issuer,
		[]string{"signatures:write", "documents:read", "documents:write"},
		24*time.Hour,
		time.Now().UTC(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to mint dev token: %w", err)
	}

	logger.Warn("no public key configured; running with an ephemeral dev keypair")
	logger.Info("dev access token minted", "subject", "dev-subject", "token", token)

	return jwtx.NewVerifier(pub, cfg.Issuer, aud)
}
