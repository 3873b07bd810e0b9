package session

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/standin-ai/meeting-backend/internal/model/profile"
	"github.com/standin-ai/meeting-backend/internal/model/session"
	chatservice "github.com/standin-ai/meeting-backend/internal/service/chat"
	"github.com/standin-ai/meeting-backend/pkg/utils"
)

// Handler serves meeting session CRUD, status updates and the synchronous
// chat endpoint.
type Handler struct {
	sessions session.Store
	profiles profile.Store
	chatSvc  *chatservice.Service
}

// New creates the session handler. chatSvc may be nil when the AI service is
// not configured; chat requests then return 503.
func New(sessions session.Store, profiles profile.Store, chatSvc *chatservice.Service) *Handler {
	return &Handler{
		sessions: sessions,
		profiles: profiles,
		chatSvc:  chatSvc,
	}
}

// RegisterRoutes mounts the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreate)
	r.Get("/sessions", h.handleList)
	r.Get("/sessions/{sessionID}", h.handleGet)
	r.Put("/sessions/{sessionID}/status", h.handleUpdateStatus)
	r.Post("/sessions/{sessionID}/chat", h.handleChat)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title        string   `json:"title"`
		ProfileID    string   `json:"profile_id"`
		Participants []string `json:"participants"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	if payload.Title == "" || payload.ProfileID == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, "title and profile_id are required")
		return
	}

	if _, ok := h.profiles.FindByID(payload.ProfileID); !ok {
		utils.RespondError(w, http.StatusNotFound, "Profile not found")
		return
	}

	participants := payload.Participants
	if participants == nil {
		participants = []string{}
	}

	sess := session.Session{
		ID:                  uuid.NewString(),
		Title:               payload.Title,
		ProfileID:           payload.ProfileID,
		Participants:        participants,
		Status:              session.StatusActive,
		ConversationHistory: []session.Turn{},
		CreatedAt:           time.Now().UTC(),
		UserID:              profile.DefaultUserID,
	}
	h.sessions.Insert(sess)

	utils.RespondJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.sessions.List(profile.DefaultUserID))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.FindByID(chi.URLParam(r, "sessionID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "Session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, sess)
}

// handleUpdateStatus accepts only the known status values. The store keeps
// status as an open string; the boundary is where the enum is enforced.
func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if !session.ValidStatus(status) {
		utils.RespondError(w, http.StatusUnprocessableEntity, "status must be one of active, paused, ended")
		return
	}

	if !h.sessions.UpdateStatus(chi.URLParam(r, "sessionID"), status) {
		utils.RespondError(w, http.StatusNotFound, "Session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	if message == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, "message query parameter is required")
		return
	}

	if h.chatSvc == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "AI service unavailable")
		return
	}

	result, err := h.chatSvc.SubmitTurn(r.Context(), chi.URLParam(r, "sessionID"), message)
	switch {
	case errors.Is(err, chatservice.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, chatservice.ErrProfileNotFound):
		utils.RespondError(w, http.StatusNotFound, "Profile not found")
	case err != nil:
		log.Printf("[chat] error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate response")
	default:
		utils.RespondJSON(w, http.StatusOK, result)
	}
}
