package signing_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/sigil/internal/signing/blob"
	"github.com/aussiebroadwan/sigil/internal/signing/delivery"
	httpapi "github.com/aussiebroadwan/sigil/internal/signing/http"
	"github.com/aussiebroadwan/sigil/internal/signing/identity"
	"github.com/aussiebroadwan/sigil/internal/signing/service"
	"github.com/aussiebroadwan/sigil/internal/signing/store/drivers/sqlite"
	"github.com/aussiebroadwan/sigil/pkg/cryptox"
	"github.com/aussiebroadwan/sigil/pkg/httpx"
	"github.com/aussiebroadwan/sigil/pkg/jwtx"
	"github.com/aussiebroadwan/sigil/pkg/signsdk"
	"github.com/stretchr/testify/require"
)

/*
 * End-to-end tests drive the full HTTP surface through the signsdk client
 * against an in-process server: real router, middleware, services, sqlite
 * store and filesystem artifact storage. Only code delivery and the subject
 * directory are faked.
 */

const (
	testIssuer  = "bartab-auth"
	testSubject = "client-0001"
)

var allScopes = []string{
	httpapi.ScopeSignaturesWrite,
	httpapi.ScopeDocumentsRead,
	httpapi.ScopeDocumentsWrite,
}

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "signing-e2e")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	// Flow tests hammer the strict endpoints deliberately; raise the limits
	// so only the dedicated rate limit test exercises 429s.
	httpx.StrictLimit = httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
	httpx.ModerateLimit = httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// captureSender records every dispatched code so tests can play the subject's
// part of the flow.
type captureSender struct {
	mu    sync.Mutex
	codes []string
}

func (c *captureSender) Send(ctx context.Context, msg delivery.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codes = append(c.codes, msg.Code)
	return nil
}

func (c *captureSender) lastCode(t *testing.T) string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.codes)
	return c.codes[len(c.codes)-1]
}

type testEnv struct {
	server *httptest.Server
	sender *captureSender
	signer *jwtx.Signer
}

// setupServer wires the whole service in-process and returns its base URL
// plus hooks for minting tokens and reading dispatched codes.
func setupServer(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	blobs, err := blob.NewFSStore(t.TempDir())
	require.NoError(t, err)

	directory := identity.NewMemoryResolver(
		identity.Subject{ID: testSubject, Name: "Alex Doyle", Phone: "+61400111222", Email: "alex@example.com"},
	)
	sender := &captureSender{}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSigner(priv)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifier(pub, testIssuer, nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	router := httpapi.NewRouter(verifier, "test", st, blobs, logger)
	router.ChallengeService = &service.ChallengeService{
		Store:     st,
		Directory: directory,
		Sender:    sender,
	}
	router.SignatureService = &service.SignatureService{Store: st}
	router.SealService = &service.SealService{
		Store:     st,
		Blobs:     blobs,
		Directory: directory,
	}
	router.IntegrityService = &service.IntegrityService{Store: st, Blobs: blobs}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, sender: sender, signer: signer}
}

// mintToken signs an access token the way the platform's auth service would.
func (env *testEnv) mintToken(t *testing.T, subject string, scopes []string) string {
	t.Helper()

	token, err := env.signer.Sign(jwtx.NewClaims(
		subject, testIssuer, scopes, time.Hour, time.Now().UTC(),
	))
	require.NoError(t, err)
	return token
}

// client returns a signsdk client authenticated for the given subject.
func (env *testEnv) client(t *testing.T, subject string, scopes []string) *signsdk.Client {
	t.Helper()
	return signsdk.NewClient(env.server.URL, env.mintToken(t, subject, scopes))
}
