// Package recommend ranks candidate matches for an employee and flags the best ones.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/jobswap/internal/compat"
	"github.com/spigell/jobswap/internal/logger"
	"github.com/spigell/jobswap/internal/swap"
)

const (
	defaultTop         = 3
	defaultConcurrency = 4
)

// Scorer computes a compatibility result. Implemented by *compat.Scorer.
type Scorer interface {
	Score(ctx context.Context, in compat.Input) (compat.Result, error)
}

// Options tunes the ranker.
type Options struct {
	Top         int `mapstructure:"top"`
	Concurrency int `mapstructure:"concurrency"`
}

// Recommendation is one ranked candidate.
type Recommendation struct {
	Match         swap.Match       `json:"match"`
	Score         int              `json:"score"`
	Breakdown     compat.Breakdown `json:"breakdown"`
	Reasoning     string           `json:"reasoning"`
	IsRecommended bool             `json:"is_recommended"`
	Degraded      bool             `json:"degraded"`
}

// Ranker scores and orders matches.
type Ranker struct {
	scorer      Scorer
	top         int
	concurrency int
	logger      *zap.Logger
}

// New creates a Ranker. Zero options select the top 3 and 4 concurrent scoring calls.
func New(scorer Scorer, opts Options, log *zap.Logger) (*Ranker, error) {
	if scorer == nil {
		return nil, errors.New("scorer is required")
	}
	if opts.Top <= 0 {
		opts.Top = defaultTop
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}

	return &Ranker{
		scorer:      scorer,
		top:         opts.Top,
		concurrency: opts.Concurrency,
		logger:      logger.WithFields(log),
	}, nil
}

// Rank scores every match against the employee profile, sorts by score
// descending keeping input order among equal scores, and flags the first Top entries.
func (r *Ranker) Rank(ctx context.Context, user compat.Party, matches []swap.Match) ([]Recommendation, error) {
	recs := make([]Recommendation, len(matches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, match := range matches {
		g.Go(func() error {
			result, err := r.scorer.Score(gctx, compat.Input{
				User:             user,
				Match:            compat.Party{JobTitle: match.JobTitle, Skills: match.Skills},
				Commute:          match.Commute,
				SalaryCompatible: match.SalaryCompatible,
			})
			if err != nil {
				return fmt.Errorf("score match %s: %w", match.ID, err)
			}

			recs[i] = Recommendation{
				Match:     match,
				Score:     result.Score,
				Breakdown: result.Breakdown,
				Reasoning: Reasoning(result.Breakdown, match),
				Degraded:  result.Degraded,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	for i := 0; i < len(recs) && i < r.top; i++ {
		recs[i].IsRecommended = true
	}

	r.logger.Debug("matches ranked",
		zap.Int("candidates", len(recs)),
		zap.Int("recommended", min(len(recs), r.top)),
	)

	return recs, nil
}

// Reasoning explains a recommendation from its breakdown and the commute of the match.
func Reasoning(b compat.Breakdown, match swap.Match) string {
	var reasons []string

	switch {
	case b.SkillSimilarity >= 80:
		reasons = append(reasons, "Excellent skill match")
	case b.SkillSimilarity >= 60:
		reasons = append(reasons, "Strong skill alignment")
	}

	if b.RoleSimilarity >= 80 {
		reasons = append(reasons, "Similar role level")
	}

	savings := match.Commute.Savings()
	switch {
	case savings >= 40:
		reasons = append(reasons, "Saves "+strconv.FormatFloat(savings, 'f', -1, 64)+" min/day")
	case savings >= 20:
		reasons = append(reasons, "Moderate commute reduction")
	}

	if b.SalaryMatch == 100 {
		reasons = append(reasons, "Salary band compatible")
	}

	if len(reasons) == 0 {
		return "Good overall compatibility"
	}
	return strings.Join(reasons, " • ")
}
