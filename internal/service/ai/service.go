package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/standin-ai/meeting-backend/internal/config"
	"github.com/standin-ai/meeting-backend/internal/model/profile"
)

// Service generates in-character meeting replies. It owns the conversation
// context registry, so all callers for one session share the same dialogue
// memory.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
	contexts  *registry
}

// NewService builds the chat model and compiles the generation chain.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		chain:     runnable,
		contexts:  newRegistry(cfg.MaxContexts),
	}, nil
}

// Generate produces a reply to the utterance within the session's
// conversation context, creating the context from the profile on first use.
// The context's own lock serializes turns for one session; other sessions
// proceed in parallel. The context history grows only when the model call
// succeeds.
func (s *Service) Generate(ctx context.Context, sessionID string, p profile.Profile, utterance string) (string, error) {
	conv := s.contexts.getOrCreate(sessionID, p)

	conv.mu.Lock()
	defer conv.mu.Unlock()

	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	history := make([]*schema.Message, len(conv.history))
	copy(history, conv.history)

	response, err := s.chain.Invoke(ctx, map[string]any{
		"system":  conv.system,
		"history": history,
		"query":   utterance,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	conv.history = append(conv.history,
		schema.UserMessage(utterance),
		schema.AssistantMessage(response.Content, nil),
	)

	log.Printf("[ai] generated response for session=%s profile=%s length=%d", sessionID, p.ID, len(response.Content))
	return response.Content, nil
}

// ContextCount reports how many conversation contexts are live.
func (s *Service) ContextCount() int {
	return s.contexts.len()
}
