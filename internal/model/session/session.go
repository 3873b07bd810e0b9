package session

import "time"

// Session status values accepted at the API boundary. The store itself keeps
// status as an open string.
const (
	StatusActive = "active"
	StatusPaused = "paused"
	StatusEnded  = "ended"
)

// ValidStatus reports whether the value is one of the recognized states.
func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusPaused, StatusEnded:
		return true
	}
	return false
}

// Turn is one utterance/reply exchange appended to a session's history.
type Turn struct {
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Timestamp   time.Time `json:"timestamp"`
}

// Session is a meeting instance bound to one profile. The profile may be
// deleted after creation; ProfileID is not revalidated afterwards.
type Session struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	ProfileID           string    `json:"profile_id"`
	Participants        []string  `json:"participants"`
	Status              string    `json:"status"`
	ConversationHistory []Turn    `json:"conversation_history"`
	CreatedAt           time.Time `json:"created_at"`
	UserID              string    `json:"user_id"`
}
