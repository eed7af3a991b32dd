package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/sigil/internal/signing/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories keep concerns tidy and testable, and make
// it harder to accidentally nest transactions.
type Store interface {
	Challenges() Challenges
	Documents() Documents

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed. This
	// is the recommended way to handle multi-step operations that must be
	// atomic (e.g., reissuing a challenge).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Challenges is the persistence contract for OTP challenges. Lookups only
// ever return live (non-expired) rows; expired rows are invisible to callers
// and reclaimed by housekeeping.
type Challenges interface {
	// Create inserts a new challenge (id is provided by app via ULID).
	// Reissuance must pair this with Delete inside one transaction so at
	// most one live challenge exists per (subject, payload hash).
	Create(ctx context.Context, ch domain.Challenge) error

	// GetLive returns the live challenge for a (subject, payload hash)
	// pair, or ErrNotFound when none exists or it has expired.
	GetLive(ctx context.Context, subjectID, payloadHash string) (domain.Challenge, error)

	// IncrementAttempts atomically bumps attempts_used and returns the
	// updated challenge. It must be a single increment-and-fetch statement
	// so concurrent wrong guesses cannot exceed the limit.
	IncrementAttempts(ctx context.Context, id string) (domain.Challenge, error)

	// Delete removes whatever challenge is live for a pair and reports
	// whether a row was actually deleted. Only the reissue path uses it,
	// inside the same transaction as the replacement Create.
	Delete(ctx context.Context, subjectID, payloadHash string) (bool, error)

	// DeleteByID removes one specific challenge and reports whether the row
	// still existed. The verifier uses it as the single-use gate (only the
	// caller that observes deleted=true may seal) and the dispatch rollback
	// uses it so a failed issuance can never remove a successor that a
	// concurrent reissue already committed.
	DeleteByID(ctx context.Context, id string) (bool, error)

	// DeleteExpired reclaims challenges past their TTL (housekeeping).
	DeleteExpired(ctx context.Context) error
}

// Documents is the persistence contract for sealed documents. Content
// columns are written once at creation; only status and expiry mutate.
type Documents interface {
	// Create inserts a sealed document record.
	Create(ctx context.Context, doc domain.SignedDocument) error

	// GetOwned fetches a document scoped to its owning subject. A document
	// owned by someone else is indistinguishable from a missing one.
	GetOwned(ctx context.Context, id, subjectID string) (domain.SignedDocument, error)

	// UpdateStatus flips the lifecycle status (e.g., revocation) and bumps
	// updated_at. Scoped to the owning subject.
	UpdateStatus(ctx context.Context, id, subjectID string, status domain.DocumentStatus) error

	// SetExpiry sets or replaces the optional expiry. Scoped to the owning
	// subject.
	SetExpiry(ctx context.Context, id, subjectID string, expiresAt time.Time) error
}
