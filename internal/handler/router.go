package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	liveHandler "github.com/standin-ai/meeting-backend/internal/handler/live"
	profileHandler "github.com/standin-ai/meeting-backend/internal/handler/profile"
	sessionHandler "github.com/standin-ai/meeting-backend/internal/handler/session"
	voiceHandler "github.com/standin-ai/meeting-backend/internal/handler/voice"
	middlewarePkg "github.com/standin-ai/meeting-backend/internal/middleware"
	profileModel "github.com/standin-ai/meeting-backend/internal/model/profile"
	sessionModel "github.com/standin-ai/meeting-backend/internal/model/session"
	voiceModel "github.com/standin-ai/meeting-backend/internal/model/voice"
	chatService "github.com/standin-ai/meeting-backend/internal/service/chat"
	"github.com/standin-ai/meeting-backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. chatSvc is nil when the AI
// service is not configured; chat and live endpoints then report 503.
func NewRouter(profiles profileModel.Store, sessions sessionModel.Store, voices voiceModel.Store, chatSvc *chatService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		api.Get("/", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "AI Meeting Assistant API"})
		})

		profileHandler.New(profiles).RegisterRoutes(api)
		sessionHandler.New(sessions, profiles, chatSvc).RegisterRoutes(api)
		voiceHandler.New(voices).RegisterRoutes(api)
		liveHandler.New(chatSvc).RegisterRoutes(api)
	})

	return r
}
