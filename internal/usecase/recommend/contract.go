package recommend

import "context"

// TagReader reads a user's aggregated tag profile from the ledger.
type TagReader interface {
	UserTags(ctx context.Context, userID string) ([]string, error)
}

// PopularityReader reads the global popularity ranking from the ledger.
type PopularityReader interface {
	Popularity(ctx context.Context) ([]string, error)
}
