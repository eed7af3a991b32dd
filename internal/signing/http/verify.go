package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/sigil/internal/signing/service"
	"github.com/aussiebroadwan/sigil/pkg/httpx"
	"github.com/aussiebroadwan/sigil/pkg/signsdk"
	"github.com/aussiebroadwan/sigil/pkg/slogx"
)

// VerifyHandler proves a one-time code and seals the signed content in one
// request. Sealing happens immediately after verification because a verified
// signature has no independent life: it either becomes a document or it is
// lost.
type VerifyHandler struct {
	SignatureService *service.SignatureService
	SealService      *service.SealService
}

// HandleVerify handles POST /v1/signatures/verify
//
//	@Summary		Verify a code and seal the document
//	@Description	Checks the submitted one-time code against the live challenge for the
//	@Description	given content. On success the challenge is consumed and the content is
//	@Description	sealed into a durable signed document.
//	@Tags			Signatures
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		signsdk.VerifyRequest	true	"Content and submitted code"
//	@Success		200		{object}	signsdk.VerifyResponse	"Sealed document reference"
//	@Failure		400		{object}	signsdk.APIError		"Wrong code (includes attempts_remaining)"
//	@Failure		401		{object}	signsdk.APIError		"Invalid or missing access token"
//	@Failure		403		{object}	signsdk.APIError		"Challenge locked after too many attempts"
//	@Failure		404		{object}	signsdk.APIError		"No live challenge for this content"
//	@Failure		500		{object}	signsdk.APIError		"Sealing failed; retry from a fresh challenge"
//	@Router			/v1/signatures/verify [post].
func (h *VerifyHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	subjectID := httpx.SubjectID(ctx)
	if subjectID == "" {
		signsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req signsdk.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		signsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if len(req.Payload) == 0 || req.Code == "" {
		signsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	sig, err := h.SignatureService.Verify(ctx, subjectID, req.Payload, req.Code)
	if err != nil {
		var invalid *service.InvalidCodeError
		switch {
		case errors.As(err, &invalid):
			signsdk.ErrInvalidCode.WithAttemptsRemaining(invalid.AttemptsRemaining).WriteError(w)
		case errors.Is(err, service.ErrTooManyAttempts):
			signsdk.ErrTooManyAttempts.WriteError(w)
		case errors.Is(err, service.ErrChallengeNotFound):
			signsdk.ErrChallengeNotFound.WriteError(w)
		default:
			log.Error("verification failed", "subject_id", subjectID, "err", err)
			signsdk.ErrServerError.WriteError(w)
		}
		return
	}

	res, err := h.SealService.Seal(ctx, sig)
	if err != nil {
		// The challenge is already consumed; the caller must start over.
		log.Error("failed to seal verified signature", "subject_id", subjectID, "err", err)
		signsdk.ErrSealingFailed.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, signsdk.VerifyResponse{
		DocumentID:   res.DocumentID,
		SignedAt:     res.SignedAt,
		ArtifactSize: res.ArtifactSize,
	})
}
