package handlers

import (
	"errors"
	"net/http"

	"github.com/ideakiln/ideakiln/internal/service"
	"github.com/ideakiln/ideakiln/internal/store"
)

type CandidateHandler struct {
	svc *service.InterviewService
}

func NewCandidateHandler(svc *service.InterviewService) *CandidateHandler {
	return &CandidateHandler{svc: svc}
}

func (h *CandidateHandler) Capture(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	candidate, err := h.svc.CaptureCandidate(r.Context(), sessionID)
	if err != nil {
		writeCandidateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}

func (h *CandidateHandler) Discard(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	candidate, err := h.svc.DiscardCandidate(r.Context(), sessionID)
	if err != nil {
		writeCandidateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}

func writeCandidateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoCandidate):
		writeError(w, http.StatusNotFound, "no candidate for session")
	case errors.Is(err, service.ErrSessionClosed):
		writeError(w, http.StatusConflict, "candidate already resolved")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	default:
		writeError(w, http.StatusInternalServerError, "failed to update candidate")
	}
}
