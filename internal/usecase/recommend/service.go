// Package recommend ranks learning materials for a user, blending the
// personalized tag profile with popularity and catalog fallbacks.
package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/edulab-cloud/mentor/internal/domain"
	"github.com/edulab-cloud/mentor/internal/metrics"
)

// Service produces recommendations over the immutable material catalog.
type Service struct {
	materials []domain.Material
	tags      TagReader
	popular   PopularityReader
	logger    *zap.Logger
}

// New creates a recommendation service.
func New(materials []domain.Material, tags TagReader, popular PopularityReader, logger *zap.Logger) *Service {
	return &Service{materials: materials, tags: tags, popular: popular, logger: logger}
}

// Recommend returns up to num materials for the user. Ledger reads that fail
// degrade to empty aggregates; the result list itself never fails.
func (s *Service) Recommend(ctx context.Context, userID string, num int) ([]domain.Material, error) {
	if num < 1 {
		return nil, fmt.Errorf("num must be positive: %w", domain.ErrInvalidInput)
	}

	userTags, err := s.tags.UserTags(ctx, userID)
	if err != nil {
		s.logger.Warn("user tag profile unavailable", zap.String("user_id", userID), zap.Error(err))
		metrics.LedgerFailuresTotal.WithLabelValues("user_tags").Inc()
		userTags = nil
	}

	popularity, err := s.popular.Popularity(ctx)
	if err != nil {
		s.logger.Warn("popularity ranking unavailable", zap.Error(err))
		metrics.LedgerFailuresTotal.WithLabelValues("popularity").Inc()
		popularity = nil
	}

	return rank(userTags, s.materials, popularity, num), nil
}
