package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/sigil/internal/signing/domain"
	"github.com/aussiebroadwan/sigil/internal/signing/identity"
	"github.com/aussiebroadwan/sigil/internal/signing/service"
	"github.com/aussiebroadwan/sigil/pkg/httpx"
	"github.com/aussiebroadwan/sigil/pkg/signsdk"
	"github.com/aussiebroadwan/sigil/pkg/slogx"
)

// ChallengeHandler issues signing challenges.
type ChallengeHandler struct {
	ChallengeService *service.ChallengeService
}

// HandleStart handles POST /v1/signatures/challenge
//
//	@Summary		Start a signing challenge
//	@Description	Issues a one-time code for the given content and dispatches it to the
//	@Description	authenticated subject's phone or email. Reissuing for the same content
//	@Description	invalidates any previous code.
//	@Tags			Signatures
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		signsdk.ChallengeRequest	true	"Content to sign and optional channel preference"
//	@Success		200		{object}	signsdk.ChallengeResponse	"Masked destination and expiry"
//	@Failure		400		{object}	signsdk.APIError			"Malformed request"
//	@Failure		401		{object}	signsdk.APIError			"Invalid or missing access token"
//	@Failure		409		{object}	signsdk.APIError			"No usable delivery channel"
//	@Failure		502		{object}	signsdk.APIError			"Code could not be delivered"
//	@Router			/v1/signatures/challenge [post].
func (h *ChallengeHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	subjectID := httpx.SubjectID(ctx)
	if subjectID == "" {
		signsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req signsdk.ChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		signsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if len(req.Payload) == 0 || !json.Valid(req.Payload) {
		signsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	var preferred domain.Channel
	if req.Channel != "" {
		var err error
		if preferred, err = domain.ParseChannel(req.Channel); err != nil {
			signsdk.ErrInvalidRequest.WriteError(w)
			return
		}
	}

	res, err := h.ChallengeService.Start(ctx, service.StartRequest{
		SubjectID:        subjectID,
		Payload:          req.Payload,
		PreferredChannel: preferred,
		RequestIP:        httpx.IPKeyExtractor(r),
		RequestAgent:     r.UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoDeliveryChannel):
			signsdk.ErrNoDeliveryChannel.WriteError(w)
		case errors.Is(err, service.ErrDispatchFailed):
			log.Error("code dispatch failed", "subject_id", subjectID, "err", err)
			signsdk.ErrDispatchFailed.WriteError(w)
		case errors.Is(err, identity.ErrNotFound):
			// Authenticated but unknown to the directory; treat as a bad
			// request rather than leaking directory state.
			log.Warn("subject not in directory", "subject_id", subjectID)
			signsdk.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("failed to start challenge", "subject_id", subjectID, "err", err)
			signsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, signsdk.ChallengeResponse{
		Channel:           string(res.Channel),
		DestinationMasked: res.DestinationMasked,
		ExpiresAt:         res.ExpiresAt,
	})
}
