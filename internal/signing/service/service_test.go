package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aussiebroadwan/sigil/internal/signing/delivery"
	"github.com/aussiebroadwan/sigil/internal/signing/identity"
	"github.com/aussiebroadwan/sigil/internal/signing/store"
	"github.com/aussiebroadwan/sigil/internal/signing/store/drivers/sqlite"
	"github.com/aussiebroadwan/sigil/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func testDirectory() *identity.MemoryResolver {
	return identity.NewMemoryResolver(
		identity.Subject{ID: "subj-full", Name: "Alex Doyle", Phone: "+61400111222", Email: "alex@example.com"},
		identity.Subject{ID: "subj-email", Name: "Sam Reid", Email: "sam@example.com"},
		identity.Subject{ID: "subj-bare", Name: "No Contact"},
	)
}

// fakeSender records dispatched messages and can be told to fail.
type fakeSender struct {
	mu   sync.Mutex
	sent []delivery.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg delivery.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) last(t *testing.T) delivery.Message {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}
