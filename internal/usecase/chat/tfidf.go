package chat

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/edulab-cloud/mentor/internal/domain"
)

// Index is a frozen TF-IDF vector space over the knowledge-base questions.
// Vocabulary, document frequencies, and document vectors are fixed at build
// time; query terms outside the vocabulary are ignored, never added.
type Index struct {
	vocab map[string]int // term -> dimension
	idf   []float64      // per-dimension inverse document frequency
	docs  []vector       // one L2-normalized vector per question, corpus order
}

// vector is a sparse L2-normalized term-weight vector.
type vector map[int]float64

// Match is one scored index position. Scores are cosine similarities in [0,1].
type Match struct {
	Position int
	Score    float64
}

// BuildIndex constructs the index from the knowledge-base questions in
// corpus order. An empty question list yields a valid empty index.
func BuildIndex(questions []string) *Index {
	idx := &Index{vocab: make(map[string]int)}

	tokenized := make([][]string, len(questions))
	for i, q := range questions {
		toks := tokenize(q)
		tokenized[i] = toks
		for _, t := range toks {
			if _, ok := idx.vocab[t]; !ok {
				idx.vocab[t] = len(idx.vocab)
			}
		}
	}

	// Smoothed idf, as if one extra document contained every term.
	df := make([]int, len(idx.vocab))
	for _, toks := range tokenized {
		seen := make(map[int]struct{}, len(toks))
		for _, t := range toks {
			seen[idx.vocab[t]] = struct{}{}
		}
		for dim := range seen {
			df[dim]++
		}
	}
	n := len(questions)
	idx.idf = make([]float64, len(idx.vocab))
	for dim, d := range df {
		idx.idf[dim] = math.Log(float64(1+n)/float64(1+d)) + 1
	}

	idx.docs = make([]vector, len(questions))
	for i, toks := range tokenized {
		idx.docs[i] = idx.vectorize(toks)
	}
	return idx
}

// Size returns the number of indexed questions.
func (idx *Index) Size() int { return len(idx.docs) }

// Query scores the message against every indexed question and returns the
// ranking in descending score order, ties broken by corpus position.
// Querying an empty index returns an empty ranking.
func (idx *Index) Query(message string) ([]Match, error) {
	if idx.Size() == 0 {
		return nil, nil
	}
	if !utf8.ValidString(message) {
		return nil, fmt.Errorf("query message: %w", domain.ErrInvalidText)
	}

	qv := idx.vectorize(tokenize(message))

	matches := make([]Match, idx.Size())
	for i, dv := range idx.docs {
		matches[i] = Match{Position: i, Score: cosine(qv, dv)}
	}
	// Stable sort over corpus order keeps lower positions first on ties.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}

// vectorize maps tokens into the frozen space: tf * idf, L2-normalized.
// Tokens outside the vocabulary are dropped.
func (idx *Index) vectorize(tokens []string) vector {
	v := make(vector)
	for _, t := range tokens {
		if dim, ok := idx.vocab[t]; ok {
			v[dim]++
		}
	}
	var norm float64
	for dim := range v {
		v[dim] *= idx.idf[dim]
		norm += v[dim] * v[dim]
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for dim := range v {
		v[dim] /= norm
	}
	return v
}

// cosine is the dot product of two L2-normalized sparse vectors.
// All term weights are non-negative, so the result stays in [0,1].
func cosine(a, b vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for dim, w := range a {
		dot += w * b[dim]
	}
	return dot
}

// tokenize lowercases and splits on non-alphanumeric runes, dropping
// single-rune tokens and English stop words. The same tokenizer runs at
// build and query time.
func tokenize(s string) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	toks := words[:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) < 2 || stopWords[w] {
			continue
		}
		toks = append(toks, w)
	}
	return toks
}
