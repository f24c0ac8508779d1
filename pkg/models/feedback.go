package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackEvent records one observed user-paper interaction. Each event
// must be applied to the weight store at most once: adaptation compounds
// multiplicatively and re-applying the same event double-adjusts weights.
type FeedbackEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	UserID    string    `json:"user_id"`
	PaperID   string    `json:"paper_id"`
	Action    string    `json:"action"` // click, collect
	Timestamp time.Time `json:"timestamp"`
}

const (
	ActionClick   = "click"
	ActionCollect = "collect"
)
