package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/aussiebroadwan/sigil/internal/signing/blob"
	"github.com/aussiebroadwan/sigil/internal/signing/domain"
	"github.com/aussiebroadwan/sigil/internal/signing/store"
	"github.com/aussiebroadwan/sigil/pkg/digestx"
	"github.com/aussiebroadwan/sigil/pkg/slogx"
)

// IntegrityService re-verifies sealed documents after the fact and serves
// their artifacts. All lookups are owner-scoped: a document belonging to
// someone else behaves exactly like one that does not exist.
type IntegrityService struct {
	Store store.Store
	Blobs blob.Store
}

// Verify re-checks a sealed document: the stored artifact bytes are re-hashed
// and compared to the hash recorded at sealing time, and the lifecycle state
// is folded in. A hash mismatch means the artifact changed since sealing;
// revocation or expiry invalidate the document without implying tampering.
func (s *IntegrityService) Verify(ctx context.Context, docID, subjectID string) (domain.IntegrityVerdict, error) {
	doc, err := s.Store.Documents().GetOwned(ctx, docID, subjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.IntegrityVerdict{}, ErrDocumentNotFound
		}
		return domain.IntegrityVerdict{}, fmt.Errorf("failed to load document: %w", err)
	}

	artifact, err := s.Blobs.Get(ctx, doc.ArtifactLocator)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return domain.IntegrityVerdict{}, ErrArtifactMissing
		}
		return domain.IntegrityVerdict{}, fmt.Errorf("failed to load artifact: %w", err)
	}

	hashMatches := digestx.Verify(artifact, digest.Digest(doc.ArtifactHash))
	expired := doc.Expired(time.Now().UTC())

	verdict := domain.IntegrityVerdict{
		Valid:       hashMatches && doc.Status == domain.DocumentActive && !expired,
		HashMatches: hashMatches,
		Status:      doc.Status,
		Expired:     expired,
	}

	if !hashMatches {
		slogx.FromContext(ctx).Warn("artifact hash mismatch",
			"document_id", doc.ID,
			"subject_id", subjectID,
		)
	}

	return verdict, nil
}

// Document returns the sealed document record, owner-scoped.
func (s *IntegrityService) Document(ctx context.Context, docID, subjectID string) (domain.SignedDocument, error) {
	doc, err := s.Store.Documents().GetOwned(ctx, docID, subjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.SignedDocument{}, ErrDocumentNotFound
		}
		return domain.SignedDocument{}, fmt.Errorf("failed to load document: %w", err)
	}
	return doc, nil
}

// Artifact returns the raw sealed artifact bytes, owner-scoped.
func (s *IntegrityService) Artifact(ctx context.Context, docID, subjectID string) ([]byte, error) {
	doc, err := s.Store.Documents().GetOwned(ctx, docID, subjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	artifact, err := s.Blobs.Get(ctx, doc.ArtifactLocator)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, ErrArtifactMissing
		}
		return nil, fmt.Errorf("failed to load artifact: %w", err)
	}
	return artifact, nil
}

// Revoke marks a document as revoked. Revocation is permanent and does not
// touch the artifact; integrity checks keep reporting on the stored bytes.
func (s *IntegrityService) Revoke(ctx context.Context, docID, subjectID string) error {
	err := s.Store.Documents().UpdateStatus(ctx, docID, subjectID, domain.DocumentRevoked)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to revoke document: %w", err)
	}

	slogx.FromContext(ctx).Info("document revoked",
		"document_id", docID,
		"subject_id", subjectID,
	)
	return nil
}
