package mentor

import (
	"github.com/edulab-cloud/mentor/internal/domain"
	chatuc "github.com/edulab-cloud/mentor/internal/usecase/chat"
)

// ChatResult is the outcome of answering one message.
type ChatResult struct {
	Response   string
	Source     string // "kb" or "fallback"
	TopMatches []Match
}

// Match is one ranked knowledge-base candidate.
type Match struct {
	Question string
	Score    float64
}

// Material is one entry of the learning-material catalog.
type Material struct {
	ID          string
	Title       string
	Description string
	Tags        []string
}

func chatResultFrom(res chatuc.Resolution) ChatResult {
	matches := make([]Match, len(res.TopMatches))
	for i, m := range res.TopMatches {
		matches[i] = Match{Question: m.Question, Score: m.Score}
	}
	return ChatResult{
		Response:   res.Response,
		Source:     string(res.Source),
		TopMatches: matches,
	}
}

func materialsFrom(ms []domain.Material) []Material {
	out := make([]Material, len(ms))
	for i, m := range ms {
		out[i] = Material{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Tags:        m.Tags,
		}
	}
	return out
}
