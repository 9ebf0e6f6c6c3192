// Package chat answers free-text messages against the knowledge base.
package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/edulab-cloud/mentor/internal/domain"
	"github.com/edulab-cloud/mentor/internal/metrics"
)

// Fallback responses.
const (
	apologyResponse = "Sorry, I couldn't find an answer."
	suggestResponse = "I couldn't find a direct match in the knowledge base. " +
		"Try rephrasing, or here are related KB questions you can check."
)

// topMatchCount is how many ranked candidates a resolution carries.
const topMatchCount = 3

// Resolution is the outcome of answering one message.
type Resolution struct {
	Response   string
	Source     domain.Source
	TopMatches []domain.MatchResult
}

// Service resolves chat messages against the similarity index and logs every
// resolution to the ledger.
type Service struct {
	index     *Index
	entries   []domain.KnowledgeEntry
	threshold float64
	chats     ChatLogger
	logger    *zap.Logger
}

// New creates a chat service. entries must be the same corpus the index was
// built from, in the same order.
func New(index *Index, entries []domain.KnowledgeEntry, threshold float64, chats ChatLogger, logger *zap.Logger) *Service {
	return &Service{
		index:     index,
		entries:   entries,
		threshold: threshold,
		chats:     chats,
		logger:    logger,
	}
}

// Chat resolves a message and appends the chat event to the ledger. A failed
// append never affects the returned resolution.
func (s *Service) Chat(ctx context.Context, userID, message string) Resolution {
	res := s.Resolve(message)
	metrics.ChatResponsesTotal.WithLabelValues(string(res.Source)).Inc()

	ev := domain.ChatEvent{
		UserID:    userID,
		Message:   message,
		Response:  res.Response,
		Source:    res.Source,
		Timestamp: time.Now().UTC(),
	}
	if err := s.chats.AppendChat(ctx, ev); err != nil {
		s.logger.Warn("chat event append failed", zap.Error(err))
		metrics.LedgerFailuresTotal.WithLabelValues("chat_append").Inc()
	}

	return res
}

// Resolve answers a message from the knowledge base, or falls back.
//
// With a non-empty index the top min(3, |kb|) matches are always returned,
// whatever the threshold decides. The knowledge-base answer is used iff the
// best score reaches the threshold (a score equal to the threshold counts).
func (s *Service) Resolve(message string) Resolution {
	if s.index.Size() == 0 {
		return Resolution{Response: apologyResponse, Source: domain.SourceFallback}
	}

	matches, err := s.index.Query(message)
	if err != nil {
		s.logger.Warn("query vectorization failed", zap.Error(err))
		return Resolution{Response: apologyResponse, Source: domain.SourceFallback}
	}

	top := make([]domain.MatchResult, 0, topMatchCount)
	for _, m := range matches[:min(topMatchCount, len(matches))] {
		top = append(top, domain.MatchResult{
			Question: s.entries[m.Position].Question,
			Score:    m.Score,
		})
	}

	best := matches[0]
	if best.Score >= s.threshold {
		return Resolution{
			Response:   s.entries[best.Position].Answer,
			Source:     domain.SourceKB,
			TopMatches: top,
		}
	}
	return Resolution{
		Response:   suggestResponse,
		Source:     domain.SourceFallback,
		TopMatches: top,
	}
}
