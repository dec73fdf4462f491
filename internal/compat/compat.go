// Package compat scores how well two employees fit a location swap.
package compat

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/jobswap/internal/ai"
	"github.com/spigell/jobswap/internal/commute"
	"github.com/spigell/jobswap/internal/logger"
	"github.com/spigell/jobswap/internal/utils"
	"github.com/spigell/jobswap/internal/vector"
)

// Weights of the four sub-scores in the overall score.
type Weights struct {
	Skills  float64 `mapstructure:"skills"`
	Role    float64 `mapstructure:"role"`
	Commute float64 `mapstructure:"commute"`
	Salary  float64 `mapstructure:"salary"`
}

// Config tunes the scorer.
type Config struct {
	Weights           Weights `mapstructure:"weights"`
	CommuteCapMinutes float64 `mapstructure:"commute-cap-minutes"`
	// LegacyRounding rounds the fractional weighted sum before scaling to 100,
	// which only ever yields 0 or 100. Kept for parity with older scores.
	LegacyRounding bool `mapstructure:"legacy-rounding"`
}

// DefaultConfig returns weights 0.5/0.2/0.2/0.1 and a 60 minute commute cap.
func DefaultConfig() Config {
	return Config{
		Weights:           Weights{Skills: 0.5, Role: 0.2, Commute: 0.2, Salary: 0.1},
		CommuteCapMinutes: 60,
	}
}

// Party is the profile fragment of one side of a swap.
type Party struct {
	JobTitle string
	Skills   []string
}

// Input is everything a single scoring call needs.
type Input struct {
	User             Party
	Match            Party
	Commute          commute.Pair
	SalaryCompatible bool
}

// Breakdown holds the sub-scores, each in [0,100].
type Breakdown struct {
	SkillSimilarity int `json:"skill_similarity"`
	RoleSimilarity  int `json:"role_similarity"`
	CommuteGain     int `json:"commute_gain"`
	SalaryMatch     int `json:"salary_match"`
}

// Result is the outcome of one scoring call.
type Result struct {
	Score     int       `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
	// Degraded is set when the fallback embeddings were used.
	Degraded bool `json:"degraded"`
}

// Scorer computes compatibility results.
type Scorer struct {
	embedder ai.Embedder
	fallback ai.Embedder
	config   Config
	logger   *zap.Logger
}

// New creates a Scorer. The fallback embedder is used to recompute a call whose
// embeddings came from different providers, since their vectors are not comparable.
func New(embedder, fallback ai.Embedder, config Config, log *zap.Logger) (*Scorer, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if config.CommuteCapMinutes <= 0 {
		config.CommuteCapMinutes = DefaultConfig().CommuteCapMinutes
	}
	if config.Weights == (Weights{}) {
		config.Weights = DefaultConfig().Weights
	}

	return &Scorer{
		embedder: embedder,
		fallback: fallback,
		config:   config,
		logger:   logger.WithFields(log),
	}, nil
}

// Score embeds the skills and titles of both parties and combines their
// similarities with the commute gain and the salary flag.
func (s *Scorer) Score(ctx context.Context, in Input) (Result, error) {
	texts := [4]string{
		strings.Join(in.User.Skills, ", "),
		strings.Join(in.Match.Skills, ", "),
		in.User.JobTitle,
		in.Match.JobTitle,
	}

	embeddings, err := s.embedAll(ctx, texts)
	if err != nil {
		return Result{}, err
	}

	skill, err := vector.Cosine(embeddings[0].Vector, embeddings[1].Vector)
	if err != nil {
		return Result{}, fmt.Errorf("skill similarity: %w", err)
	}
	role, err := vector.Cosine(embeddings[2].Vector, embeddings[3].Vector)
	if err != nil {
		return Result{}, fmt.Errorf("role similarity: %w", err)
	}

	fractions := [4]float64{
		clampFraction(skill),
		clampFraction(role),
		clampFraction(in.Commute.Savings() / s.config.CommuteCapMinutes),
		0,
	}
	if in.SalaryCompatible {
		fractions[3] = 1
	}

	result := Result{
		Score: s.overall(fractions),
		Breakdown: Breakdown{
			SkillSimilarity: percent(fractions[0]),
			RoleSimilarity:  percent(fractions[1]),
			CommuteGain:     percent(fractions[2]),
			SalaryMatch:     percent(fractions[3]),
		},
		Degraded: degraded(embeddings),
	}

	s.logger.Debug("compatibility scored",
		zap.Int("score", result.Score),
		zap.Int("skill_similarity", result.Breakdown.SkillSimilarity),
		zap.Int("role_similarity", result.Breakdown.RoleSimilarity),
		zap.Int("commute_gain", result.Breakdown.CommuteGain),
		zap.Bool("degraded", result.Degraded),
	)

	return result, nil
}

func (s *Scorer) embedAll(ctx context.Context, texts [4]string) ([4]ai.Embedding, error) {
	var embeddings [4]ai.Embedding

	g, gctx := errgroup.WithContext(ctx)
	for i, text := range texts {
		g.Go(func() error {
			embedding, err := s.embedder.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("embed %q: %w", utils.TruncateForLog(text, 40), err)
			}
			embeddings[i] = embedding
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return embeddings, err
	}

	if !mixed(embeddings) || s.fallback == nil {
		return embeddings, nil
	}

	s.logger.Warn("embeddings of one scoring call have mixed provenance, recomputing with fallback")
	for i, text := range texts {
		embedding, err := s.fallback.Embed(ctx, text)
		if err != nil {
			return embeddings, fmt.Errorf("fallback embed: %w", err)
		}
		embedding.Source = ai.SourceFallback
		embeddings[i] = embedding
	}

	return embeddings, nil
}

func (s *Scorer) overall(fractions [4]float64) int {
	w := s.config.Weights
	sum := fractions[0]*w.Skills + fractions[1]*w.Role + fractions[2]*w.Commute + fractions[3]*w.Salary

	var score float64
	if s.config.LegacyRounding {
		score = utils.RoundHalfUp(sum) * 100
	} else {
		score = utils.RoundHalfUp(sum * 100)
	}

	return int(math.Max(0, math.Min(score, 100)))
}

func mixed(embeddings [4]ai.Embedding) bool {
	for _, e := range embeddings[1:] {
		if e.Degraded() != embeddings[0].Degraded() {
			return true
		}
	}
	return false
}

func degraded(embeddings [4]ai.Embedding) bool {
	for _, e := range embeddings {
		if e.Degraded() {
			return true
		}
	}
	return false
}

func clampFraction(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(v, 1))
}

func percent(fraction float64) int {
	return int(utils.RoundHalfUp(fraction * 100))
}
