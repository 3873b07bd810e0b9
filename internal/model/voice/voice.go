package voice

import "time"

// Profile holds an uploaded voice sample kept for future voice cloning.
// AudioData is base64-encoded.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AudioData string    `json:"audio_data"`
	Duration  float64   `json:"duration"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
}
