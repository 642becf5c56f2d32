package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/parlons/parlons-api/internal/api/shared"
	"github.com/parlons/parlons-api/internal/domain"
	"github.com/parlons/parlons-api/internal/service/revision"
	"github.com/parlons/parlons-api/internal/store"
)

// RevisionHandler exposes the read side of the record store and the
// revision pass flow to the revision-browsing collaborator.
type RevisionHandler struct {
	revision revision.Service
	logger   *slog.Logger
}

// NewRevisionHandler creates a RevisionHandler.
func NewRevisionHandler(revisionService revision.Service, log *slog.Logger) *RevisionHandler {
	if log == nil {
		log = slog.Default()
	}
	return &RevisionHandler{
		revision: revisionService,
		logger:   log.With(slog.String("component", "revision_handler")),
	}
}

// GetProgress handles GET /api/revision/progress.
func (h *RevisionHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.revision.Progress(r.Context()))
}

// StartPass handles POST /api/revision/pass. It returns the shuffled,
// capped working set for one revision pass.
func (h *RevisionHandler) StartPass(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.revision.StartPass(r.Context()))
}

// RecordResult handles POST /api/revision/result.
func (h *RevisionHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	var req RevisionResultRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "original and correct are required")
		return
	}

	key := domain.RecordKey{Original: req.Original, Category: req.Category}
	if err := h.revision.RecordResult(r.Context(), key, *req.Correct); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "no record for sentence")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "failed to record result", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
