package chat

import "time"

// Turn pairs one user message with the assistant reply. Turns are
// append-only; once stored they are never edited.
type Turn struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	Intent    string    `json:"intent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
