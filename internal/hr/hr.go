// Package hr produces approval guidance for swap requests waiting on HR.
package hr

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobswap/internal/commute"
	"github.com/spigell/jobswap/internal/compat"
	"github.com/spigell/jobswap/internal/logger"
	"github.com/spigell/jobswap/internal/swap"
	"github.com/spigell/jobswap/internal/utils"
)

// Recommendation is the suggested HR decision.
type Recommendation string

const (
	Approve Recommendation = "approve"
	Review  Recommendation = "review"
	Reject  Recommendation = "reject"
)

const (
	productivityCeiling = 30
	costCeiling         = 5000
)

// Scorer computes a compatibility result. Implemented by *compat.Scorer.
type Scorer interface {
	Score(ctx context.Context, in compat.Input) (compat.Result, error)
}

// Analysis is the guidance for one request.
type Analysis struct {
	RequestID      string         `json:"request_id"`
	Recommendation Recommendation `json:"recommendation"`
	Confidence     int            `json:"confidence"`
	Reasoning      string         `json:"reasoning"`
	RiskFactors    []string       `json:"risk_factors"`
	Benefits       []string       `json:"benefits"`
	Score          int            `json:"score"`
	Compatibility  compat.Result  `json:"compatibility"`
	Impact         commute.Impact `json:"impact"`
	Degraded       bool           `json:"degraded"`
}

// Advisor analyses HR requests.
type Advisor struct {
	scorer Scorer
	rates  commute.Rates
	logger *zap.Logger
}

// New creates an Advisor.
func New(scorer Scorer, rates commute.Rates, log *zap.Logger) (*Advisor, error) {
	if scorer == nil {
		return nil, errors.New("scorer is required")
	}

	return &Advisor{
		scorer: scorer,
		rates:  rates,
		logger: logger.WithFields(log),
	}, nil
}

// ImpliedCommute rebuilds a before/after pair from the single one-way savings
// figure a request carries: before = 1.5 × savings, after = 0.5 × savings.
// The real commute times are not recorded on requests.
func ImpliedCommute(savingsMinutes float64) commute.Pair {
	return commute.Pair{
		Before: savingsMinutes * 1.5,
		After:  savingsMinutes * 0.5,
	}
}

// counterpartSkills returns the skills compared against the requester's. Requests
// do not carry the counterpart's skills, so the requester's own are used.
func counterpartSkills(req swap.Request) []string {
	return req.FromUserSkills
}

// Analyze scores the request and derives risks, benefits and a recommendation.
func (a *Advisor) Analyze(ctx context.Context, req swap.Request) (Analysis, error) {
	pair := ImpliedCommute(req.CommuteSavingsMinutes)

	result, err := a.scorer.Score(ctx, compat.Input{
		User:    compat.Party{JobTitle: req.FromUserJobTitle, Skills: req.FromUserSkills},
		Match:   compat.Party{JobTitle: req.ToUserJobTitle, Skills: counterpartSkills(req)},
		Commute: pair,
		// Requests reach HR only after both peers agreed, salary bands included.
		SalaryCompatible: true,
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("score request %s: %w", req.ID, err)
	}

	impact := commute.Estimate(pair, a.rates)

	var risks []string
	if result.Breakdown.SkillSimilarity < 60 {
		risks = append(risks, "Low skill overlap")
	}
	if result.Breakdown.RoleSimilarity < 70 {
		risks = append(risks, "Role level mismatch")
	}
	if req.CommuteSavingsMinutes < 20 {
		risks = append(risks, "Minimal commute improvement")
	}

	var benefits []string
	if result.Breakdown.SkillSimilarity >= 80 {
		benefits = append(benefits, "Strong skill alignment")
	}
	if impact.MonthlyHoursSaved >= 10 {
		benefits = append(benefits, "Saves "+formatNumber(impact.MonthlyHoursSaved)+" hours/month")
	}
	if impact.CO2SavedKg >= 5 {
		benefits = append(benefits, "Reduces "+formatNumber(impact.CO2SavedKg)+"kg CO₂/month")
	}
	if req.EstimatedCostSavings >= 2000 {
		benefits = append(benefits, "Estimated $"+formatNumber(req.EstimatedCostSavings)+"/month savings")
	}

	score := int(utils.RoundHalfUp(
		float64(result.Score)*0.6 +
			float64(impact.ProductivityGain)/productivityCeiling*100*0.2 +
			req.EstimatedCostSavings/costCeiling*100*0.2,
	))

	recommendation, confidence := Decide(score, len(risks))

	analysis := Analysis{
		RequestID:      req.ID,
		Recommendation: recommendation,
		Confidence:     confidence,
		Reasoning:      reasoning(recommendation, result.Score, risks, benefits),
		RiskFactors:    nonNil(risks),
		Benefits:       nonNil(benefits),
		Score:          min(score, 100),
		Compatibility:  result,
		Impact:         impact,
		Degraded:       result.Degraded,
	}

	a.logger.Debug("hr request analysed",
		zap.String("request_id", req.ID),
		zap.String("recommendation", string(recommendation)),
		zap.Int("score", analysis.Score),
		zap.Int("risk_factors", len(risks)),
	)

	return analysis, nil
}

// Decide applies the decision rule to an unclamped score and the number of risk factors.
func Decide(score, risks int) (Recommendation, int) {
	switch {
	case score >= 80 && risks == 0:
		return Approve, 85 + min(score-80, 15)
	case score < 50 || risks >= 3:
		return Reject, 70
	default:
		return Review, 60
	}
}

func reasoning(rec Recommendation, compatibility int, risks, benefits []string) string {
	var parts []string

	switch rec {
	case Approve:
		parts = append(parts, fmt.Sprintf("Strong match (%d%% compatibility).", compatibility))
		parts = appendSentence(parts, benefits)
		parts = append(parts, "Low risk factors.")
	case Reject:
		parts = append(parts, fmt.Sprintf("Weak match (%d%% compatibility).", compatibility))
		parts = appendSentence(parts, risks)
		parts = append(parts, "Limited benefits.")
	default:
		parts = append(parts, fmt.Sprintf("Moderate match (%d%% compatibility).", compatibility))
		parts = appendSentence(parts, benefits[:min(len(benefits), 2)])
		if len(risks) > 0 {
			parts = append(parts, "Review required due to: "+risks[0]+".")
		} else {
			parts = append(parts, "Review required.")
		}
	}

	return strings.Join(parts, " ")
}

func appendSentence(parts, items []string) []string {
	if len(items) == 0 {
		return parts
	}
	return append(parts, strings.Join(items, ", ")+".")
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
