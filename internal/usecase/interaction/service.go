// Package interaction records per-user material views.
package interaction

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/edulab-cloud/mentor/internal/domain"
	"github.com/edulab-cloud/mentor/internal/metrics"
)

// Service records material views as one access event plus one tagged
// interaction event.
type Service struct {
	ledger Recorder
	tags   TagResolver
	logger *zap.Logger
}

// New creates an interaction service.
func New(ledger Recorder, tags TagResolver, logger *zap.Logger) *Service {
	return &Service{ledger: ledger, tags: tags, logger: logger}
}

// Record registers that a user viewed a material. The material's tags are
// resolved from the catalog at record time; unknown ids record empty tags.
// Ledger failures are logged and swallowed so a transient outage never
// surfaces to the caller.
func (s *Service) Record(ctx context.Context, userID, materialID string) error {
	if materialID == "" {
		return fmt.Errorf("material_id is required: %w", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()

	if err := s.ledger.AppendAccess(ctx, domain.AccessEvent{
		UserID:     userID,
		MaterialID: materialID,
		Timestamp:  now,
	}); err != nil {
		s.logger.Warn("access event append failed", zap.Error(err))
		metrics.LedgerFailuresTotal.WithLabelValues("access_append").Inc()
		return nil
	}

	if err := s.ledger.AppendInteraction(ctx, domain.InteractionEvent{
		UserID:     userID,
		MaterialID: materialID,
		Tags:       s.tags.MaterialTags(materialID),
		Timestamp:  now,
	}); err != nil {
		s.logger.Warn("interaction event append failed", zap.Error(err))
		metrics.LedgerFailuresTotal.WithLabelValues("interaction_append").Inc()
	}

	return nil
}
