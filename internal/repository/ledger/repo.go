// Package ledger persists interaction events and derives the aggregates the
// recommendation path reads: per-user tag profiles and global popularity.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/edulab-cloud/mentor/internal/db"
	"github.com/edulab-cloud/mentor/internal/domain"
)

// Stream names, prefixed with the configured key prefix.
const (
	streamChat         = "chat"
	streamAccess       = "access"
	streamInteractions = "interactions"
)

// Repo is the interaction ledger over an append-only stream store.
type Repo struct {
	store  db.StreamStore
	prefix string
}

// New creates a ledger repository. prefix namespaces the streams in the store.
func New(store db.StreamStore, prefix string) *Repo {
	return &Repo{store: store, prefix: prefix}
}

func (r *Repo) key(stream string) string { return r.prefix + stream }

func (r *Repo) append(ctx context.Context, stream string, dto any) error {
	data, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", stream, err)
	}
	if err := r.store.Append(ctx, r.key(stream), data); err != nil {
		return fmt.Errorf("append %s event: %w: %v", stream, domain.ErrUnavailable, err)
	}
	return nil
}

// AppendChat records one chat resolution.
func (r *Repo) AppendChat(ctx context.Context, ev domain.ChatEvent) error {
	return r.append(ctx, streamChat, newChatDTO(ev))
}

// AppendAccess records one material view.
func (r *Repo) AppendAccess(ctx context.Context, ev domain.AccessEvent) error {
	return r.append(ctx, streamAccess, newAccessDTO(ev))
}

// AppendInteraction records one tagged material interaction.
func (r *Repo) AppendInteraction(ctx context.Context, ev domain.InteractionEvent) error {
	return r.append(ctx, streamInteractions, newInteractionDTO(ev))
}

// UserTags aggregates the tag profile of one user from the interaction
// stream. Tags are deduplicated and returned in first-seen order so repeated
// reads over the same ledger yield the same sequence.
func (r *Repo) UserTags(ctx context.Context, userID string) ([]string, error) {
	entries, err := r.store.Range(ctx, r.key(streamInteractions))
	if err != nil {
		return nil, fmt.Errorf("user tags: %w: %v", domain.ErrUnavailable, err)
	}

	seen := make(map[string]struct{})
	var tags []string
	for _, entry := range entries {
		var dto interactionEventDTO
		if err := json.Unmarshal(entry, &dto); err != nil {
			continue // corrupt entry, skip
		}
		if dto.UserID != userID {
			continue
		}
		for _, t := range dto.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags, nil
}

// Popularity aggregates the access stream into material ids ordered by
// descending view count. Ties keep the order in which the ids first appear
// in the stream; no secondary sort key is applied.
func (r *Repo) Popularity(ctx context.Context) ([]string, error) {
	entries, err := r.store.Range(ctx, r.key(streamAccess))
	if err != nil {
		return nil, fmt.Errorf("popularity: %w: %v", domain.ErrUnavailable, err)
	}

	counts := make(map[string]int)
	var order []string
	for _, entry := range entries {
		var dto accessEventDTO
		if err := json.Unmarshal(entry, &dto); err != nil {
			continue // corrupt entry, skip
		}
		if dto.MaterialID == "" {
			continue
		}
		if _, ok := counts[dto.MaterialID]; !ok {
			order = append(order, dto.MaterialID)
		}
		counts[dto.MaterialID]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order, nil
}
