package recommend

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/jobswap/internal/ai/fallback"
	"github.com/spigell/jobswap/internal/commute"
	"github.com/spigell/jobswap/internal/compat"
	"github.com/spigell/jobswap/internal/swap"
)

// titleScorer scores a match by looking up its job title.
type titleScorer struct {
	scores map[string]int
	err    error
}

func (s *titleScorer) Score(_ context.Context, in compat.Input) (compat.Result, error) {
	if s.err != nil {
		return compat.Result{}, s.err
	}
	return compat.Result{Score: s.scores[in.Match.JobTitle]}, nil
}

func matches(titles ...string) []swap.Match {
	out := make([]swap.Match, len(titles))
	for i, title := range titles {
		out[i] = swap.Match{ID: title, JobTitle: title}
	}
	return out
}

func ids(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = rec.Match.ID
	}
	return out
}

func recommendedCount(recs []Recommendation) int {
	var n int
	for _, rec := range recs {
		if rec.IsRecommended {
			n++
		}
	}
	return n
}

func TestRankOrdersAndFlagsTop(t *testing.T) {
	scorer := &titleScorer{scores: map[string]int{"a": 40, "b": 90, "c": 70, "d": 90, "e": 10}}
	ranker, err := New(scorer, Options{}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recs, err := ranker.Rank(context.Background(), compat.Party{}, matches("a", "b", "c", "d", "e"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"b", "d", "c", "a", "e"}
	got := ids(recs)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got %v want %v", got, want)
		}
	}

	for i, rec := range recs {
		if rec.IsRecommended != (i < 3) {
			t.Fatalf("unexpected recommended flag at %d: %+v", i, rec)
		}
	}
}

func TestRankRecommendedCount(t *testing.T) {
	scorer := &titleScorer{scores: map[string]int{}}
	ranker, err := New(scorer, Options{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, n := range []int{0, 1, 2, 3, 7} {
		titles := make([]string, n)
		for i := range titles {
			titles[i] = string(rune('a' + i))
		}

		recs, err := ranker.Rank(context.Background(), compat.Party{}, matches(titles...))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if len(recs) != n {
			t.Fatalf("n=%d: expected %d recommendations, got %d", n, n, len(recs))
		}
		if got := recommendedCount(recs); got != min(n, 3) {
			t.Fatalf("n=%d: expected %d recommended, got %d", n, min(n, 3), got)
		}

		// Equal scores keep input order.
		for i, rec := range recs {
			if rec.Match.ID != titles[i] {
				t.Fatalf("n=%d: tie order changed: %v", n, ids(recs))
			}
		}
	}
}

func TestRankCustomTop(t *testing.T) {
	scorer := &titleScorer{scores: map[string]int{"a": 1, "b": 2}}
	ranker, err := New(scorer, Options{Top: 1, Concurrency: 1}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recs, err := ranker.Rank(context.Background(), compat.Party{}, matches("a", "b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recommendedCount(recs) != 1 || !recs[0].IsRecommended || recs[0].Match.ID != "b" {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}
}

func TestRankScorerError(t *testing.T) {
	boom := errors.New("boom")
	ranker, err := New(&titleScorer{err: boom}, Options{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ranker.Rank(context.Background(), compat.Party{}, matches("a")); !errors.Is(err, boom) {
		t.Fatalf("expected scorer error, got %v", err)
	}
}

func TestRankWithFallbackScorer(t *testing.T) {
	scorer, err := compat.New(fallback.NewHashEmbedder(), nil, compat.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ranker, err := New(scorer, Options{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store, err := swap.Demo()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	candidates, err := store.Matches("user-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := compat.Party{JobTitle: "Senior Software Engineer", Skills: []string{"React", "TypeScript"}}
	first, err := ranker.Rank(context.Background(), user, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ranker.Rank(context.Background(), user, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range first {
		if first[i].Match.ID != second[i].Match.ID || first[i].Score != second[i].Score {
			t.Fatalf("ranking is not deterministic at %d", i)
		}
		if i > 0 && first[i].Score > first[i-1].Score {
			t.Fatalf("ranking is not sorted at %d", i)
		}
		if !first[i].Degraded {
			t.Fatalf("expected degraded recommendation at %d", i)
		}
	}
	if recommendedCount(first) != 3 {
		t.Fatalf("expected 3 recommended matches")
	}
}

func TestReasoning(t *testing.T) {
	tests := []struct {
		name      string
		breakdown compat.Breakdown
		commute   commute.Pair
		want      string
	}{
		{
			name:      "everything",
			breakdown: compat.Breakdown{SkillSimilarity: 85, RoleSimilarity: 90, SalaryMatch: 100},
			commute:   commute.Pair{Before: 75, After: 25},
			want:      "Excellent skill match • Similar role level • Saves 50 min/day • Salary band compatible",
		},
		{
			name:      "strong skills and moderate commute",
			breakdown: compat.Breakdown{SkillSimilarity: 65, RoleSimilarity: 50},
			commute:   commute.Pair{Before: 55, After: 30},
			want:      "Strong skill alignment • Moderate commute reduction",
		},
		{
			name:      "nothing notable",
			breakdown: compat.Breakdown{SkillSimilarity: 59, RoleSimilarity: 79},
			commute:   commute.Pair{Before: 30, After: 20},
			want:      "Good overall compatibility",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reasoning(tt.breakdown, swap.Match{Commute: tt.commute})
			if got != tt.want {
				t.Fatalf("Reasoning() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewRequiresScorer(t *testing.T) {
	if _, err := New(nil, Options{}, nil); err == nil {
		t.Fatalf("expected error for nil scorer")
	}
}
