package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/edulab-cloud/mentor/internal/domain"
)

// Wire shapes for persisted events. Timestamps are stored in UTC.

type chatEventDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

type accessEventDTO struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	MaterialID string    `json:"material_id"`
	Timestamp  time.Time `json:"timestamp"`
}

type interactionEventDTO struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	MaterialID string    `json:"material_id"`
	Tags       []string  `json:"tags"`
	Timestamp  time.Time `json:"timestamp"`
}

func newChatDTO(ev domain.ChatEvent) chatEventDTO {
	return chatEventDTO{
		ID:        uuid.NewString(),
		UserID:    ev.UserID,
		Message:   ev.Message,
		Response:  ev.Response,
		Source:    string(ev.Source),
		Timestamp: ev.Timestamp.UTC(),
	}
}

func newAccessDTO(ev domain.AccessEvent) accessEventDTO {
	return accessEventDTO{
		ID:         uuid.NewString(),
		UserID:     ev.UserID,
		MaterialID: ev.MaterialID,
		Timestamp:  ev.Timestamp.UTC(),
	}
}

func newInteractionDTO(ev domain.InteractionEvent) interactionEventDTO {
	return interactionEventDTO{
		ID:         uuid.NewString(),
		UserID:     ev.UserID,
		MaterialID: ev.MaterialID,
		Tags:       ev.Tags,
		Timestamp:  ev.Timestamp.UTC(),
	}
}
