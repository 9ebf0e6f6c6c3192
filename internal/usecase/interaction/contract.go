package interaction

import (
	"context"

	"github.com/edulab-cloud/mentor/internal/domain"
)

// Recorder appends material-view events to the interaction ledger.
type Recorder interface {
	AppendAccess(ctx context.Context, ev domain.AccessEvent) error
	AppendInteraction(ctx context.Context, ev domain.InteractionEvent) error
}

// TagResolver resolves a material id to its catalog tags.
type TagResolver interface {
	MaterialTags(id string) []string
}
