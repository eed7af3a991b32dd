// Package blob stores rendered artifact bytes. Locators handed out by the
// sealer are opaque to everything else; only this package knows how they map
// to storage.
package blob

import (
	"context"
	"errors"
)

var (
	// ErrNotFound reports a locator with no bytes behind it. For a sealed
	// document this is a data-loss signal, distinct from a hash mismatch.
	ErrNotFound = errors.New("blob: not found")

	// ErrInvalidLocator reports a locator that does not name a valid entry.
	ErrInvalidLocator = errors.New("blob: invalid locator")
)

// Store persists artifact byte streams keyed by locator.
type Store interface {
	// Put writes data under the given locator. Locators are written once;
	// overwriting an existing locator is an error.
	Put(ctx context.Context, locator string, data []byte) error

	// Get returns the exact bytes previously written under locator.
	Get(ctx context.Context, locator string) ([]byte, error)

	// Delete removes the bytes under locator. Deleting a missing locator is
	// not an error; the sealer uses Delete for rollback and must be able to
	// retry it.
	Delete(ctx context.Context, locator string) error

	// Check verifies the backing storage is reachable and writable.
	Check(ctx context.Context) error
}
