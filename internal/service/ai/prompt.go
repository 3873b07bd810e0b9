package ai

import (
	"fmt"
	"strings"

	"github.com/standin-ai/meeting-backend/internal/model/profile"
)

// buildSystemPrompt derives the seed instruction for a session's conversation
// context from the meeting profile. It is built once per context; later
// profile edits do not reach an existing context.
func buildSystemPrompt(p profile.Profile) string {
	return fmt.Sprintf(`You are %s, a %s.
Personality: %s
Response style: %s

You are attending a meeting on behalf of someone. Your responses should be:
- Professional and contextual
- Brief but meaningful (2-3 sentences max)
- Appropriate for the meeting context
- Reflect the personality and role described

Meeting topics you're familiar with: %s

Important: Always respond as if you're the person attending the meeting, not an AI assistant.`,
		p.Name,
		p.Role,
		p.Personality,
		p.ResponseStyle,
		strings.Join(p.MeetingTopics, ", "),
	)
}
