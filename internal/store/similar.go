// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"math"
	"sort"
)

// Match is a record scored against a query vector.
type Match struct {
	ID      string  `json:"id" yaml:"id"`
	Score   float64 `json:"score" yaml:"score"`
	Content string  `json:"content" yaml:"content"`
}

// Similar returns up to n records of collection ranked by cosine
// similarity to vector, best first. n <= 0 uses the store default.
func (s *Store) Similar(ctx context.Context, collection string, vector []float32, n int) ([]Match, error) {
	if n <= 0 {
		n = s.maxResults
	}

	records, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(records))
	for _, r := range records {
		matches = append(matches, Match{
			ID:      r.ID,
			Score:   cosine(vector, r.Vector),
			Content: r.Content,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches, nil
}

// cosine returns the cosine similarity of a and b, or 0 when the lengths
// differ or either vector is zero.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
