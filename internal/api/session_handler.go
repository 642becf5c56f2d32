package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/parlons/parlons-api/internal/api/shared"
	"github.com/parlons/parlons-api/internal/domain"
	"github.com/parlons/parlons-api/internal/service/revision"
	"github.com/parlons/parlons-api/internal/service/session"
)

// SessionHandler exposes the session lifecycle to the exercise-UI
// collaborator: start, submit attempts, finish, abandon.
type SessionHandler struct {
	sessions session.Manager
	revision revision.Service
	logger   *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(
	sessions session.Manager,
	revisionService revision.Service,
	log *slog.Logger,
) *SessionHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SessionHandler{
		sessions: sessions,
		revision: revisionService,
		logger:   log.With(slog.String("component", "session_handler")),
	}
}

// StartSession handles POST /api/sessions.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "language is required")
		return
	}

	id, err := h.sessions.Start(r.Context(), domain.LanguageCode(req.Language), req.Category)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "failed to start session", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, StartSessionResponse{SessionID: id.String()})
}

// AddAttempt handles POST /api/sessions/attempts.
func (h *SessionHandler) AddAttempt(w http.ResponseWriter, r *http.Request) {
	var req AttemptRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "original, french and correct are required")
		return
	}

	item := session.AttemptItem{
		Original: req.Original,
		French:   req.French,
		Audio:    req.Audio,
		Category: req.Category,
		Words:    req.Words,
	}

	result, err := h.sessions.AddAttempt(r.Context(), item, *req.Correct)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoActiveSession):
			// Caller contract violation: attempts require an active session.
			shared.RespondWithErrorAndLog(w, r, http.StatusConflict, "no active session", err)
		case errors.Is(err, session.ErrInvalidItem):
			shared.RespondWithError(w, r, http.StatusBadRequest, "invalid attempt item")
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "failed to record attempt", err)
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AttemptResponse{
		TotalAttempts:       result.Verdict.TotalAttempts,
		FirstAttemptCorrect: result.Verdict.FirstAttemptCorrect,
		Mastered:            result.Verdict.Mastered,
		Completed:           result.Completed,
		Stats:               result.Stats,
	})
}

// FinishSession handles POST /api/sessions/finish. The finalized session is
// folded into the durable store before the response is written; a sync
// failure behind that merge never blocks the response.
func (h *SessionHandler) FinishSession(w http.ResponseWriter, r *http.Request) {
	finished, err := h.sessions.Finish(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "failed to finish session", err)
		return
	}
	if finished == nil {
		// Finishing is idempotent; nothing was active.
		shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
		return
	}

	result, err := h.revision.MergeSession(r.Context(), finished)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "failed to merge session", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FinishSessionResponse{
		Session: finished,
		Merged:  result.Merged,
	})
}

// AbandonSession handles DELETE /api/sessions. It discards the active
// session and clears any pending sync timers.
func (h *SessionHandler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Reset(r.Context())
	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
