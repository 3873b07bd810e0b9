package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/standin-ai/meeting-backend/internal/model/profile"
	"github.com/standin-ai/meeting-backend/internal/model/session"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrGenerationFailed = errors.New("failed to generate response")
)

// The source fixes confidence rather than computing it; kept as a constant
// placeholder until a real signal exists.
const (
	answerConfidence   = 0.9
	responseTypeAnswer = "answer"
)

// Generator produces an in-character reply within a session's conversation
// context. Implemented by the AI service.
type Generator interface {
	Generate(ctx context.Context, sessionID string, p profile.Profile, utterance string) (string, error)
}

// Result is the outcome of one processed turn.
type Result struct {
	Message      string  `json:"message"`
	Confidence   float64 `json:"confidence"`
	ResponseType string  `json:"response_type"`
}

// Service is the turn processor: it resolves the session and its profile,
// drives the generator, and appends the exchange to the session history.
type Service struct {
	sessions  session.Store
	profiles  profile.Store
	generator Generator
}

// NewService wires the turn processor to its stores and generator.
func NewService(sessions session.Store, profiles profile.Store, generator Generator) *Service {
	return &Service{
		sessions:  sessions,
		profiles:  profiles,
		generator: generator,
	}
}

// Resolve looks up a session and the profile it references. The profile may
// have been deleted after session creation; that surfaces as
// ErrProfileNotFound, not a crash.
func (s *Service) Resolve(_ context.Context, sessionID string) (session.Session, profile.Profile, error) {
	sess, ok := s.sessions.FindByID(sessionID)
	if !ok {
		return session.Session{}, profile.Profile{}, ErrSessionNotFound
	}

	p, ok := s.profiles.FindByID(sess.ProfileID)
	if !ok {
		return session.Session{}, profile.Profile{}, ErrProfileNotFound
	}

	return sess, p, nil
}

// SubmitTurn processes one utterance against the session, with no speaker
// label. Used by the synchronous chat endpoint.
func (s *Service) SubmitTurn(ctx context.Context, sessionID, utterance string) (Result, error) {
	_, p, err := s.Resolve(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}
	return s.RespondAs(ctx, sessionID, p, "", utterance)
}

// RespondAs processes one utterance with a pre-resolved profile, optionally
// labelled with the speaker's name. The label is prefixed onto what the
// generator sees but the stored turn keeps the raw utterance. The history
// append happens only after generation succeeds: a failed turn leaves
// conversation_history untouched.
func (s *Service) RespondAs(ctx context.Context, sessionID string, p profile.Profile, speaker, utterance string) (Result, error) {
	prompt := utterance
	if speaker != "" {
		prompt = speaker + ": " + utterance
	}

	reply, err := s.generator.Generate(ctx, sessionID, p, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	turn := session.Turn{
		UserMessage: utterance,
		AIResponse:  reply,
		Timestamp:   time.Now().UTC(),
	}
	if !s.sessions.AppendTurn(sessionID, turn) {
		log.Printf("[chat] session %s vanished before history append", sessionID)
	}

	return Result{
		Message:      reply,
		Confidence:   answerConfidence,
		ResponseType: responseTypeAnswer,
	}, nil
}
