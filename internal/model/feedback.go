package model

import (
	"encoding/json"
	"time"
)

// Feedback is a free-form farmer feedback submission.
type Feedback struct {
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	ClientIP  string          `json:"client_ip,omitempty"`
	CreatedAt time.Time       `json:"timestamp"`
}
