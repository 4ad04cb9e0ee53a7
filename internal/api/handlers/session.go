package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ideakiln/ideakiln/internal/service"
	"github.com/ideakiln/ideakiln/internal/store"
)

type SessionHandler struct {
	svc    *service.InterviewService
	memory *service.MemoryService
}

func NewSessionHandler(svc *service.InterviewService, memory *service.MemoryService) *SessionHandler {
	return &SessionHandler{svc: svc, memory: memory}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.CreateSession(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

type postMessageRequest struct {
	Message string `json:"message"`
}

func (h *SessionHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	result, err := h.svc.ProcessMessage(r.Context(), sessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionBusy):
			writeError(w, http.StatusConflict, "a message is already being processed for this session")
		case errors.Is(err, service.ErrSessionClosed):
			writeError(w, http.StatusConflict, "session is closed")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "session not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to process message")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	state, err := h.svc.GetState(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load session state")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *SessionHandler) GetMemory(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	docs, err := h.memory.Recall(r.Context(), sessionID, query, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load memory documents")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func sessionIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}
