package models

import "time"

// Conversation is one subject-scoped tutoring session owning an ordered
// message log. The subject never changes after creation.
type Conversation struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}
