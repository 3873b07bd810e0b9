package profile

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/standin-ai/meeting-backend/internal/model/profile"
	"github.com/standin-ai/meeting-backend/pkg/utils"
)

// Handler serves meeting profile CRUD.
type Handler struct {
	profiles profile.Store
}

// New creates the profile handler.
func New(profiles profile.Store) *Handler {
	return &Handler{profiles: profiles}
}

// RegisterRoutes mounts the profile routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/profiles", h.handleCreate)
	r.Get("/profiles", h.handleList)
	r.Get("/profiles/{profileID}", h.handleGet)
	r.Delete("/profiles/{profileID}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name          string   `json:"name"`
		Role          string   `json:"role"`
		Personality   string   `json:"personality"`
		ResponseStyle string   `json:"response_style"`
		MeetingTopics []string `json:"meeting_topics"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	if payload.Name == "" || payload.Role == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, "name and role are required")
		return
	}

	topics := payload.MeetingTopics
	if topics == nil {
		topics = []string{}
	}

	p := profile.Profile{
		ID:            uuid.NewString(),
		Name:          payload.Name,
		Role:          payload.Role,
		Personality:   payload.Personality,
		ResponseStyle: payload.ResponseStyle,
		MeetingTopics: topics,
		CreatedAt:     time.Now().UTC(),
		UserID:        profile.DefaultUserID,
	}
	h.profiles.Insert(p)

	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.profiles.List(profile.DefaultUserID))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profiles.FindByID(chi.URLParam(r, "profileID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "Profile not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.profiles.Delete(chi.URLParam(r, "profileID")) {
		utils.RespondError(w, http.StatusNotFound, "Profile not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Profile deleted"})
}
