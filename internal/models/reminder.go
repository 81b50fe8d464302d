package models

import "time"

// Reminder is a registered, not-yet-delivered anniversary notification.
type Reminder struct {
	ID         string         `json:"id"`
	QuestionID int            `json:"question_id"`
	FiresAt    time.Time      `json:"fires_at"`
	Payload    map[string]any `json:"payload,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
