package live

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/standin-ai/meeting-backend/internal/model/profile"
	chatservice "github.com/standin-ai/meeting-backend/internal/service/chat"
)

// Handler runs the per-session live channel: one websocket connection bound
// to one session, with a small JSON frame protocol on top of the turn
// processor.
type Handler struct {
	chatSvc  *chatservice.Service
	upgrader websocket.Upgrader
}

// New creates the live channel handler. chatSvc may be nil when the AI
// service is not configured.
func New(chatSvc *chatservice.Service) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the live channel route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{sessionID}/live", h.handleLive)
}

type inboundFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Speaker string `json:"speaker"`
}

type outboundFrame struct {
	Type      string `json:"type"`
	Message   string `json:"message,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Content   string `json:"content,omitempty"`
	Speaker   string `json:"speaker,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// handleLive accepts the connection, resolves the session and its profile
// once, then serves the frame loop. A resolution failure produces a single
// error frame and closes; a generation failure mid-conversation produces an
// error frame and the loop continues.
func (h *Handler) handleLive(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] new connection for session: %s", sessionID)

	if h.chatSvc == nil {
		h.sendError(conn, "AI service unavailable")
		return
	}

	_, p, err := h.chatSvc.Resolve(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, chatservice.ErrSessionNotFound):
			h.sendError(conn, "Session not found")
		case errors.Is(err, chatservice.ErrProfileNotFound):
			h.sendError(conn, "Profile not found")
		default:
			h.sendError(conn, "failed to resolve session")
		}
		return
	}

	h.send(conn, outboundFrame{
		Type:      "connected",
		Message:   "Connected to meeting as " + p.Name,
		SessionID: sessionID,
	})

	h.serveLoop(r.Context(), conn, sessionID, p)
}

// serveLoop is strictly sequential: one inbound frame is fully handled
// before the next read, so turns submitted on this connection append to the
// session history in submission order.
func (h *Handler) serveLoop(ctx context.Context, conn *websocket.Conn, sessionID string, p profile.Profile) {
	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[websocket] read error for session %s: %v", sessionID, err)
			} else {
				log.Printf("[websocket] disconnected from session %s", sessionID)
			}
			return
		}

		switch frame.Type {
		case "message":
			h.handleMessage(ctx, conn, sessionID, p, frame)
		case "ping":
			h.send(conn, outboundFrame{Type: "pong"})
		default:
			// Unknown frame types are ignored without a response.
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, sessionID string, p profile.Profile, frame inboundFrame) {
	speaker := frame.Speaker
	if speaker == "" {
		speaker = "Unknown"
	}

	result, err := h.chatSvc.RespondAs(ctx, sessionID, p, speaker, frame.Content)
	if err != nil {
		log.Printf("[websocket] generation failed for session %s: %v", sessionID, err)
		h.sendError(conn, "Failed to generate response")
		return
	}

	h.send(conn, outboundFrame{
		Type:      "ai_response",
		Content:   result.Message,
		Speaker:   p.Name,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// send writes a frame, logging write failures. Secondary failures while
// reporting an error are swallowed; the read loop notices the dead
// connection on its next iteration.
func (h *Handler) send(conn *websocket.Conn, frame outboundFrame) {
	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("[websocket] write failed: %v", err)
	}
}

func (h *Handler) sendError(conn *websocket.Conn, message string) {
	h.send(conn, outboundFrame{Type: "error", Message: message})
}
