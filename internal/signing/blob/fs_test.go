package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFSStorePutGetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	data := []byte("rendered artifact")
	require.NoError(t, s.Put(ctx, "doc-1.txt", data))

	got, err := s.Get(ctx, "doc-1.txt")
	require.NoError(t, err)
	require.Equal(t, data, got)

	require.NoError(t, s.Delete(ctx, "doc-1.txt"))
	_, err = s.Get(ctx, "doc-1.txt")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing locator is not an error (rollback must be retryable).
	require.NoError(t, s.Delete(ctx, "doc-1.txt"))
}

func TestFSStorePutRefusesOverwrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "doc-1.txt", []byte("original")))
	require.Error(t, s.Put(ctx, "doc-1.txt", []byte("replacement")))

	got, err := s.Get(ctx, "doc-1.txt")
	require.NoError(t, err)
	require.Equal(t, []byte("original"), got)
}

func TestFSStoreRejectsEscapingLocators(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	for _, locator := range []string{"", "../escape", "a/b", `a\b`, ".hidden"} {
		require.ErrorIs(t, s.Put(ctx, locator, []byte("x")), ErrInvalidLocator)
		_, err := s.Get(ctx, locator)
		require.ErrorIs(t, err, ErrInvalidLocator)
	}
}
