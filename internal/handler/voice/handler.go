package voice

import (
	"encoding/base64"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/standin-ai/meeting-backend/internal/model/profile"
	"github.com/standin-ai/meeting-backend/internal/model/voice"
	"github.com/standin-ai/meeting-backend/pkg/utils"
)

const maxUploadBytes = 10 << 20

// Duration analysis is not implemented; uploads are stamped with this value.
const placeholderDuration = 10.0

// Handler serves voice sample upload and the synthesis placeholder.
type Handler struct {
	voices voice.Store
}

// New creates the voice handler.
func New(voices voice.Store) *Handler {
	return &Handler{voices: voices}
}

// RegisterRoutes mounts the voice routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/voice/upload", h.handleUpload)
	r.Get("/voice/profiles", h.handleList)
	r.Post("/voice/synthesize", h.handleSynthesize)
}

// handleUpload stores a voice sample for future voice cloning.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, "invalid multipart form")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}

	file, _, err := r.FormFile("audio_file")
	if err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, "audio_file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		log.Printf("[voice] upload read error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to upload voice")
		return
	}

	p := voice.Profile{
		ID:        uuid.NewString(),
		Name:      name,
		AudioData: base64.StdEncoding.EncodeToString(audio),
		Duration:  placeholderDuration,
		CreatedAt: time.Now().UTC(),
		UserID:    profile.DefaultUserID,
	}
	h.voices.Insert(p)

	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.voices.List(profile.DefaultUserID))
}

// handleSynthesize echoes the text for browser-side TTS. Server-side
// synthesis is an unimplemented capability; the audio URL is always null.
func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, "text query parameter is required")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"text":      text,
		"voice_id":  r.URL.Query().Get("voice_profile_id"),
		"audio_url": nil,
		"message":   "Text ready for browser TTS. Upgrade to ElevenLabs for voice cloning.",
	})
}
