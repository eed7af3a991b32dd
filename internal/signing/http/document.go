package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/sigil/internal/signing/domain"
	"github.com/aussiebroadwan/sigil/internal/signing/service"
	"github.com/aussiebroadwan/sigil/pkg/httpx"
	"github.com/aussiebroadwan/sigil/pkg/signsdk"
	"github.com/aussiebroadwan/sigil/pkg/slogx"
)

// DocumentHandler serves sealed documents: artifact retrieval, integrity
// re-verification and revocation. Everything is scoped to the authenticated
// subject; other subjects' documents look missing.
type DocumentHandler struct {
	IntegrityService *service.IntegrityService
}

// HandleArtifact handles GET /v1/documents/{id}
//
//	@Summary		Fetch a sealed artifact
//	@Description	Returns the rendered artifact bytes for an owned document.
//	@Tags			Documents
//	@Security		BearerAuth
//	@Produce		plain
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{string}	string	"Artifact text"
//	@Failure		401	{object}	signsdk.APIError	"Invalid or missing access token"
//	@Failure		404	{object}	signsdk.APIError	"Document not found"
//	@Router			/v1/documents/{id} [get].
func (h *DocumentHandler) HandleArtifact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	subjectID := httpx.SubjectID(ctx)
	if subjectID == "" {
		signsdk.ErrInvalidToken.WriteError(w)
		return
	}
	docID := r.PathValue("id")

	artifact, err := h.IntegrityService.Artifact(ctx, docID, subjectID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			signsdk.ErrDocumentNotFound.WriteError(w)
		case errors.Is(err, service.ErrArtifactMissing):
			log.Error("artifact missing for sealed document", "document_id", docID)
			signsdk.ErrArtifactMissing.WriteError(w)
		default:
			log.Error("failed to load artifact", "document_id", docID, "err", err)
			signsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(artifact)
}

// HandleIntegrity handles POST /v1/documents/{id}/integrity
//
//	@Summary		Re-verify a sealed document
//	@Description	Recomputes the artifact hash and folds in lifecycle state. A hash
//	@Description	mismatch means the stored bytes changed since sealing; revocation or
//	@Description	expiry invalidate the document without implying tampering.
//	@Tags			Documents
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"Document ID"
//	@Success		200	{object}	signsdk.IntegrityResponse	"Composite verdict"
//	@Failure		401	{object}	signsdk.APIError			"Invalid or missing access token"
//	@Failure		404	{object}	signsdk.APIError			"Document not found"
//	@Failure		500	{object}	signsdk.APIError			"Artifact bytes missing"
//	@Router			/v1/documents/{id}/integrity [post].
func (h *DocumentHandler) HandleIntegrity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	subjectID := httpx.SubjectID(ctx)
	if subjectID == "" {
		signsdk.ErrInvalidToken.WriteError(w)
		return
	}
	docID := r.PathValue("id")

	verdict, err := h.IntegrityService.Verify(ctx, docID, subjectID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			signsdk.ErrDocumentNotFound.WriteError(w)
		case errors.Is(err, service.ErrArtifactMissing):
			log.Error("artifact missing for sealed document", "document_id", docID)
			signsdk.ErrArtifactMissing.WriteError(w)
		default:
			log.Error("integrity check failed", "document_id", docID, "err", err)
			signsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, signsdk.IntegrityResponse{
		Valid:       verdict.Valid,
		HashMatches: verdict.HashMatches,
		Status:      string(verdict.Status),
		Expired:     verdict.Expired,
	})
}

// HandleRevoke handles POST /v1/documents/{id}/revoke
//
//	@Summary		Revoke a sealed document
//	@Description	Permanently marks an owned document as revoked. The artifact and its
//	@Description	hash are untouched; only the lifecycle status changes.
//	@Tags			Documents
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string					true	"Document ID"
//	@Success		200	{object}	signsdk.RevokeResponse	"New status"
//	@Failure		401	{object}	signsdk.APIError		"Invalid or missing access token"
//	@Failure		404	{object}	signsdk.APIError		"Document not found"
//	@Router			/v1/documents/{id}/revoke [post].
func (h *DocumentHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	subjectID := httpx.SubjectID(ctx)
	if subjectID == "" {
		signsdk.ErrInvalidToken.WriteError(w)
		return
	}
	docID := r.PathValue("id")

	if err := h.IntegrityService.Revoke(ctx, docID, subjectID); err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			signsdk.ErrDocumentNotFound.WriteError(w)
		default:
			log.Error("failed to revoke document", "document_id", docID, "err", err)
			signsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, signsdk.RevokeResponse{
		Status: string(domain.DocumentRevoked),
	})
}
