package domain

import "time"

// ChatEvent records one chat resolution, regardless of its source.
type ChatEvent struct {
	UserID    string
	Message   string
	Response  string
	Source    Source
	Timestamp time.Time
}

// AccessEvent records one material view by a user.
type AccessEvent struct {
	UserID     string
	MaterialID string
	Timestamp  time.Time
}

// InteractionEvent records a material view together with the material's tags
// as resolved from the catalog at record time.
type InteractionEvent struct {
	UserID     string
	MaterialID string
	Tags       []string
	Timestamp  time.Time
}
