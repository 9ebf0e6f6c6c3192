package chat

import (
	"context"

	"github.com/edulab-cloud/mentor/internal/domain"
)

// ChatLogger appends chat events to the interaction ledger.
type ChatLogger interface {
	AppendChat(ctx context.Context, ev domain.ChatEvent) error
}
