package profile

import "time"

// DefaultUserID tags records for the single implicit user. Multi-tenant
// callers pass their own identifier instead.
const DefaultUserID = "default"

// Profile captures the meeting persona a session's AI stands in for.
type Profile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	Personality   string    `json:"personality"`
	ResponseStyle string    `json:"response_style"`
	MeetingTopics []string  `json:"meeting_topics"`
	CreatedAt     time.Time `json:"created_at"`
	UserID        string    `json:"user_id"`
}
