package domain

// KnowledgeEntry is one question/answer pair in the knowledge base.
// Entries are identified by their position in the loaded corpus; positions
// are stable for the process lifetime.
type KnowledgeEntry struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags,omitempty"`
}

// MatchResult is one ranked knowledge-base candidate for a chat message.
type MatchResult struct {
	Question string  `json:"question"`
	Score    float64 `json:"score"`
}

// Source labels where a chat response came from.
type Source string

const (
	// SourceKB marks a response taken from the knowledge base.
	SourceKB Source = "kb"
	// SourceFallback marks a generic fallback response.
	SourceFallback Source = "fallback"
)
