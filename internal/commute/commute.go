// Package commute estimates the time, money, CO₂ and wellbeing impact of a shorter commute.
package commute

import (
	"math"
	"strconv"
	"strings"

	"github.com/spigell/jobswap/internal/utils"
)

// Pair is a one-way commute before and after a swap, in minutes.
type Pair struct {
	Before float64 `json:"before_minutes" yaml:"before"`
	After  float64 `json:"after_minutes" yaml:"after"`
}

// Savings is the one-way reduction in minutes. Negative when the commute gets longer.
func (p Pair) Savings() float64 {
	return p.Before - p.After
}

// Rates holds the constants of the estimate. Zero fields take the defaults.
type Rates struct {
	WorkingDays        float64 `mapstructure:"working-days"`
	HourlyValue        float64 `mapstructure:"hourly-value"`
	FuelCostPerMinute  float64 `mapstructure:"fuel-cost-per-minute"`
	CO2KgPer30Minutes  float64 `mapstructure:"co2-kg-per-30-minutes"`
	ProductivityFactor float64 `mapstructure:"productivity-factor"`
	ProductivityCap    float64 `mapstructure:"productivity-cap"`
}

// DefaultRates returns 22 working days, $25/hour, $0.15/minute fuel,
// 0.5kg CO₂ per 30 minutes and productivity gain of 0.8 per percent reduction capped at 30.
func DefaultRates() Rates {
	return Rates{
		WorkingDays:        22,
		HourlyValue:        25,
		FuelCostPerMinute:  0.15,
		CO2KgPer30Minutes:  0.5,
		ProductivityFactor: 0.8,
		ProductivityCap:    30,
	}
}

func (r Rates) withDefaults() Rates {
	d := DefaultRates()
	if r.WorkingDays == 0 {
		r.WorkingDays = d.WorkingDays
	}
	if r.HourlyValue == 0 {
		r.HourlyValue = d.HourlyValue
	}
	if r.FuelCostPerMinute == 0 {
		r.FuelCostPerMinute = d.FuelCostPerMinute
	}
	if r.CO2KgPer30Minutes == 0 {
		r.CO2KgPer30Minutes = d.CO2KgPer30Minutes
	}
	if r.ProductivityFactor == 0 {
		r.ProductivityFactor = d.ProductivityFactor
	}
	if r.ProductivityCap == 0 {
		r.ProductivityCap = d.ProductivityCap
	}
	return r
}

// Stress is the categorical stress reduction level.
type Stress string

const (
	StressLow    Stress = "low"
	StressMedium Stress = "medium"
	StressHigh   Stress = "high"
)

// Impact is the derived metrics of a commute change.
type Impact struct {
	DailySavingsMinutes float64 `json:"daily_savings_minutes"`
	MonthlyMinutesSaved float64 `json:"monthly_minutes_saved"`
	MonthlyHoursSaved   float64 `json:"monthly_hours_saved"`
	YearlyHoursSaved    float64 `json:"yearly_hours_saved"`
	CO2SavedKg          float64 `json:"co2_saved_kg"`
	ReductionPercentage float64 `json:"reduction_percentage"`
	StressReduction     Stress  `json:"stress_reduction_level"`
	CostSavingsMonthly  int     `json:"cost_savings_monthly"`
	CostSavingsYearly   int     `json:"cost_savings_yearly"`
	ProductivityGain    int     `json:"productivity_gain"`
}

// Estimate computes the impact of going from p.Before to p.After minutes one way.
// Hours, CO₂ and the reduction percentage are rounded to one decimal, money and
// productivity to integers. A zero Before yields a zero reduction.
func Estimate(p Pair, r Rates) Impact {
	r = r.withDefaults()

	daily := p.Savings() * 2
	monthlyMinutes := daily * r.WorkingDays
	monthlyHours := monthlyMinutes / 60
	yearlyHours := monthlyHours * 12
	co2 := monthlyMinutes / 30 * r.CO2KgPer30Minutes

	var reduction float64
	if p.Before > 0 {
		reduction = daily / (p.Before * 2) * 100
	}

	costMonthly := monthlyHours*r.HourlyValue + monthlyMinutes*r.FuelCostPerMinute
	productivity := math.Min(reduction*r.ProductivityFactor, r.ProductivityCap)

	return Impact{
		DailySavingsMinutes: daily,
		MonthlyMinutesSaved: monthlyMinutes,
		MonthlyHoursSaved:   utils.RoundTenth(monthlyHours),
		YearlyHoursSaved:    utils.RoundTenth(yearlyHours),
		CO2SavedKg:          utils.RoundTenth(co2),
		ReductionPercentage: utils.RoundTenth(reduction),
		StressReduction:     stressLevel(reduction),
		CostSavingsMonthly:  int(utils.RoundHalfUp(costMonthly)),
		CostSavingsYearly:   int(utils.RoundHalfUp(costMonthly * 12)),
		ProductivityGain:    int(utils.RoundHalfUp(productivity)),
	}
}

func stressLevel(reduction float64) Stress {
	switch {
	case reduction >= 50:
		return StressHigh
	case reduction >= 25:
		return StressMedium
	default:
		return StressLow
	}
}

// Describe renders the notable parts of an impact as a short line.
func Describe(impact Impact) string {
	var parts []string

	if impact.MonthlyHoursSaved >= 10 {
		parts = append(parts, "Save "+formatNumber(impact.MonthlyHoursSaved)+" hours/month")
	}
	if impact.CO2SavedKg >= 5 {
		parts = append(parts, "Reduce "+formatNumber(impact.CO2SavedKg)+"kg CO₂/month")
	}
	if impact.StressReduction == StressHigh {
		parts = append(parts, "Significant stress reduction")
	}

	if len(parts) == 0 {
		return "Moderate commute improvement"
	}
	return strings.Join(parts, " • ")
}

// formatNumber prints 440 as "440" and 36.7 as "36.7".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
