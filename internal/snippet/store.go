// Package snippet persists and searches the retrieval corpus: short text
// passages scoped to a namespace, ranked by naive term overlap. It backs the
// "rag.search" tool used by the ask flow.
package snippet

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Snippet is one retrievable passage.
type Snippet struct {
	ID        string    `json:"id"`
	Namespace string    `json:"namespace"`
	Source    string    `json:"source,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Store defines the persistence interface for the retrieval corpus.
type Store interface {
	Add(ctx context.Context, snippets []Snippet) error
	Search(ctx context.Context, query, namespace string, k int) ([]Snippet, error)
	Count(ctx context.Context, namespace string) (int, error)
	Migrate(ctx context.Context) error
	Close() error
}

// scoreOverlap ranks text against query terms by counting distinct query
// terms present in the text, with a small bonus per extra occurrence. Zero
// means no overlap.
func scoreOverlap(query, text string) float64 {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	var score float64
	for _, term := range terms {
		n := strings.Count(lower, term)
		if n == 0 {
			continue
		}
		score += 1 + 0.1*float64(n-1)
	}
	return score
}

// rank orders candidates by overlap score descending and returns the top k
// with non-zero score. Ties keep insertion order.
func rank(query string, candidates []Snippet, k int) []Snippet {
	type scored struct {
		snip  Snippet
		score float64
	}
	matches := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if s := scoreOverlap(query, c.Text); s > 0 {
			matches = append(matches, scored{snip: c, score: s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	out := make([]Snippet, len(matches))
	for i, m := range matches {
		out[i] = m.snip
	}
	return out
}
