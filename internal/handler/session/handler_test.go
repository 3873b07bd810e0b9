package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	profileModel "github.com/standin-ai/meeting-backend/internal/model/profile"
	sessionModel "github.com/standin-ai/meeting-backend/internal/model/session"
	chatservice "github.com/standin-ai/meeting-backend/internal/service/chat"
)

type fakeGenerator struct {
	reply string
	err   error
}

func (g *fakeGenerator) Generate(context.Context, string, profileModel.Profile, string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type env struct {
	router   *chi.Mux
	profiles profileModel.Store
	sessions sessionModel.Store
}

func setupEnv(gen chatservice.Generator) env {
	profiles := profileModel.NewMemoryStore()
	sessions := sessionModel.NewMemoryStore()
	chatSvc := chatservice.NewService(sessions, profiles, gen)
	handler := New(sessions, profiles, chatSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return env{router: r, profiles: profiles, sessions: sessions}
}

func (e env) seedProfile(t *testing.T) profileModel.Profile {
	t.Helper()
	p := profileModel.Profile{
		ID:            "p1",
		Name:          "Sarah",
		Role:          "PM",
		Personality:   "analytical",
		ResponseStyle: "concise",
		MeetingTopics: []string{"Roadmap"},
		CreatedAt:     time.Now().UTC(),
		UserID:        profileModel.DefaultUserID,
	}
	e.profiles.Insert(p)
	return p
}

func (e env) createSession(t *testing.T, profileID string) sessionModel.Session {
	t.Helper()
	payload, _ := json.Marshal(map[string]any{
		"title":        "roadmap sync",
		"profile_id":   profileID,
		"participants": []string{"Bob"},
	})

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var created sessionModel.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return created
}

func TestCreateSession(t *testing.T) {
	e := setupEnv(&fakeGenerator{reply: "ok"})
	e.seedProfile(t)

	created := e.createSession(t, "p1")
	if created.Status != sessionModel.StatusActive {
		t.Fatalf("expected active status, got %s", created.Status)
	}
	if len(created.ConversationHistory) != 0 {
		t.Fatal("expected empty history")
	}
}

func TestCreateSessionProfileMissing(t *testing.T) {
	e := setupEnv(&fakeGenerator{reply: "ok"})

	payload, _ := json.Marshal(map[string]any{"title": "sync", "profile_id": "nope"})
	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	e := setupEnv(&fakeGenerator{reply: "ok"})
	e.seedProfile(t)

	base := time.Now().UTC()
	for i, id := range []string{"old", "mid", "new"} {
		e.sessions.Insert(sessionModel.Session{
			ID:        id,
			Title:     id,
			ProfileID: "p1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UserID:    profileModel.DefaultUserID,
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)

	var listed []sessionModel.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if listed[i].ID != id {
			t.Fatalf("position %d: got %s want %s", i, listed[i].ID, id)
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	e := setupEnv(&fakeGenerator{reply: "ok"})
	e.seedProfile(t)
	created := e.createSession(t, "p1")

	req := httptest.NewRequest(http.MethodPut, "/sessions/"+created.ID+"/status?status=paused", nil)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	got, _ := e.sessions.FindByID(created.ID)
	if got.Status != sessionModel.StatusPaused {
		t.Fatalf("unexpected status: %s", got.Status)
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	e := setupEnv(&fakeGenerator{reply: "ok"})
	e.seedProfile(t)
	created := e.createSession(t, "p1")

	req := httptest.NewRequest(http.MethodPut, "/sessions/"+created.ID+"/status?status=archived", nil)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}

	got, _ := e.sessions.FindByID(created.ID)
	if got.Status != sessionModel.StatusActive {
		t.Fatalf("status must be unchanged, got %s", got.Status)
	}
}

func TestUpdateStatusMissingSession(t *testing.T) {
	e := setupEnv(&fakeGenerator{reply: "ok"})

	req := httptest.NewRequest(http.MethodPut, "/sessions/missing/status?status=paused", nil)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestChatEndToEnd(t *testing.T) {
	e := setupEnv(&fakeGenerator{reply: "Happy to walk through the roadmap."})
	e.seedProfile(t)
	created := e.createSession(t, "p1")

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+created.ID+"/chat?message=Hi", nil)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result chatservice.Result
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Message == "" {
		t.Fatal("expected non-empty message")
	}
	if result.Confidence != 0.9 {
		t.Fatalf("unexpected confidence: %v", result.Confidence)
	}
	if result.ResponseType != "answer" {
		t.Fatalf("unexpected response type: %s", result.ResponseType)
	}

	got, _ := e.sessions.FindByID(created.ID)
	if len(got.ConversationHistory) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(got.ConversationHistory))
	}
	if got.ConversationHistory[0].UserMessage != "Hi" {
		t.Fatalf("unexpected stored utterance: %q", got.ConversationHistory[0].UserMessage)
	}
}

func TestChatMissingMessage(t *testing.T) {
	e := setupEnv(&fakeGenerator{reply: "ok"})

	req := httptest.NewRequest(http.MethodPost, "/sessions/any/chat", nil)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestChatSessionMissing(t *testing.T) {
	e := setupEnv(&fakeGenerator{reply: "ok"})

	req := httptest.NewRequest(http.MethodPost, "/sessions/missing/chat?message=Hi", nil)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestChatProfileDeleted(t *testing.T) {
	e := setupEnv(&fakeGenerator{reply: "ok"})
	e.seedProfile(t)
	created := e.createSession(t, "p1")
	e.profiles.Delete("p1")

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+created.ID+"/chat?message=Hi", nil)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	got, _ := e.sessions.FindByID(created.ID)
	if len(got.ConversationHistory) != 0 {
		t.Fatal("history must be unchanged")
	}
}

func TestChatGenerationFailure(t *testing.T) {
	e := setupEnv(&fakeGenerator{err: errors.New("model unreachable")})
	e.seedProfile(t)
	created := e.createSession(t, "p1")

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+created.ID+"/chat?message=Hi", nil)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["detail"] != "Failed to generate response" {
		t.Fatalf("unexpected detail: %q", body["detail"])
	}

	got, _ := e.sessions.FindByID(created.ID)
	if len(got.ConversationHistory) != 0 {
		t.Fatal("failed turn must not reach history")
	}
}

func TestChatUnavailableWithoutAI(t *testing.T) {
	profiles := profileModel.NewMemoryStore()
	sessions := sessionModel.NewMemoryStore()
	handler := New(sessions, profiles, nil)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/sessions/any/chat?message=Hi", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
