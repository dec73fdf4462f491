package filtering

import (
	"slices"

	"github.com/spigell/jobswap/internal/swap"
)

// Matches is the candidate list passed through the filters.
type Matches struct {
	Items []swap.Match
}

// NewMatches wraps a copy of items.
func NewMatches(items []swap.Match) *Matches {
	return &Matches{Items: slices.Clone(items)}
}

// Len returns the number of matches.
func (m *Matches) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Items)
}

// Exclude removes every match for which drop returns true and returns the removed ids.
func (m *Matches) Exclude(drop func(swap.Match) bool) []string {
	var excluded []string
	kept := m.Items[:0]
	for _, match := range m.Items {
		if drop(match) {
			excluded = append(excluded, match.ID)
			continue
		}
		kept = append(kept, match)
	}
	m.Items = kept
	return excluded
}
