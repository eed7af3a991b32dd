package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/sigil/internal/signing/blob"
	"github.com/aussiebroadwan/sigil/internal/signing/domain"
	"github.com/aussiebroadwan/sigil/internal/signing/identity"
	"github.com/aussiebroadwan/sigil/internal/signing/render"
	"github.com/aussiebroadwan/sigil/internal/signing/store"
	"github.com/aussiebroadwan/sigil/pkg/digestx"
	"github.com/aussiebroadwan/sigil/pkg/idx"
	"github.com/aussiebroadwan/sigil/pkg/slogx"
)

// SealService turns a verified signature into a durable sealed document plus
// its rendered artifact.
type SealService struct {
	Store     store.Store
	Blobs     blob.Store
	Directory identity.Resolver

	// DocumentTTL optionally bounds how long sealed documents stay valid.
	// Zero means documents never expire.
	DocumentTTL time.Duration
}

// SealResult is the caller-visible outcome. The verified signature and the
// code never leave the service.
type SealResult struct {
	DocumentID   string
	SignedAt     time.Time
	ArtifactSize int64
}

// Seal renders and persists the sealed document for a verified signature.
// The artifact write and the document row are one logical unit: if the row
// insert fails the artifact is removed again, so neither side ever exists
// without the other.
func (s *SealService) Seal(ctx context.Context, sig VerifiedSignature) (SealResult, error) {
	log := slogx.FromContext(ctx)

	subject, err := s.Directory.Resolve(ctx, sig.SubjectID)
	if err != nil {
		return SealResult{}, fmt.Errorf("%w: failed to resolve signer: %w", ErrSealingFailed, err)
	}

	docID := idx.New().String()
	signedAt := time.Now().UTC()
	signer := domain.SignerIdentity{
		Name:  subject.Name,
		Phone: subject.Phone,
		Email: subject.Email,
	}

	artifact, err := render.Artifact(render.Input{
		DocumentID:  docID,
		Payload:     sig.Payload,
		PayloadHash: sig.PayloadHash,
		Signer:      signer,
		SignedAt:    signedAt,
		Method:      domain.MethodOTPv1,
		Audit:       sig.Audit,
	})
	if err != nil {
		return SealResult{}, fmt.Errorf("%w: %w", ErrSealingFailed, err)
	}

	locator := docID + ".txt"
	if err := s.Blobs.Put(ctx, locator, artifact); err != nil {
		return SealResult{}, fmt.Errorf("%w: failed to store artifact: %w", ErrSealingFailed, err)
	}

	// The artifact hash is computed exactly once, from the exact bytes just
	// persisted. Integrity checks forever compare against this value.
	artifactHash := digestx.FromBytes(artifact).String()

	doc := domain.SignedDocument{
		ID:              docID,
		SubjectID:       sig.SubjectID,
		Signer:          signer,
		Payload:         sig.Payload,
		PayloadHash:     sig.PayloadHash,
		ArtifactHash:    artifactHash,
		ArtifactLocator: locator,
		ArtifactSize:    int64(len(artifact)),
		SignedAt:        signedAt,
		Method:          domain.MethodOTPv1,
		Audit:           sig.Audit,
		Status:          domain.DocumentActive,
		CreatedAt:       signedAt,
		UpdatedAt:       signedAt,
	}
	if s.DocumentTTL > 0 {
		expiresAt := signedAt.Add(s.DocumentTTL)
		doc.ExpiresAt = &expiresAt
	}

	if err := s.Store.Documents().Create(ctx, doc); err != nil {
		// Roll the artifact back so no bytes exist without a record.
		if delErr := s.Blobs.Delete(ctx, locator); delErr != nil {
			log.Error("failed to remove artifact after document insert failure",
				"locator", locator, "err", delErr)
		}
		return SealResult{}, fmt.Errorf("%w: failed to persist document: %w", ErrSealingFailed, err)
	}

	log.Info("document sealed",
		"document_id", docID,
		"subject_id", sig.SubjectID,
		"artifact_size", doc.ArtifactSize,
	)

	return SealResult{
		DocumentID:   docID,
		SignedAt:     signedAt,
		ArtifactSize: doc.ArtifactSize,
	}, nil
}
