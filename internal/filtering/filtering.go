// Package filtering drops candidate matches before they are ranked.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/jobswap/internal/logger"
	"github.com/spigell/jobswap/internal/swap"
)

// Filter is one candidate filtering step. Disabled filters stay in the pipeline so they can be reported.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, m *Matches) (*Matches, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
	Store  swap.Store
	// UserID is the employee the matches were found for.
	UserID string
}

// Step counts what a filter did to the candidate list.
type Step struct {
	Initial int
	Dropped int
	Left    int
	// Excluded holds the match IDs the step removed.
	Excluded []string
}

func newStep(initial int, excluded []string, m *Matches) Step {
	return Step{Initial: initial, Dropped: len(excluded), Left: m.Len(), Excluded: excluded}
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	SalaryCompatibleOnly bool     `mapstructure:"salary-compatible-only"`
	MinCommuteSavings    float64  `mapstructure:"min-commute-savings"`
	Sectors              []string `mapstructure:"sectors"`
	ExcludeRequested     bool     `mapstructure:"exclude-requested"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status() Status
}

// Default returns every filter in the order they run.
func Default() []Filter {
	return []Filter{
		NewSalaryCompatible(),
		NewMinCommuteSavings(),
		NewSectors(),
		NewAlreadyRequested(),
	}
}

// DisableByName disables the named filter in place.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run validates every enabled filter up front, then applies them in order.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, m *Matches) (*Matches, error) {
	if err := validate(cfg, steps); err != nil {
		return nil, err
	}

	log := logger.WithFields(deps.Logger, zap.String("user_id", deps.UserID))
	deps.Logger = log

	for _, f := range steps {
		if !f.IsEnabled() {
			log.Info("filter disabled", zap.String("name", f.Name()))
			continue
		}

		next, step, err := f.Apply(ctx, deps, m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}
		log.Info("filter step",
			zap.String("name", f.Name()),
			zap.Int("initial", step.Initial),
			zap.Int("dropped", step.Dropped),
			zap.Int("left", step.Left),
		)
		if len(step.Excluded) > 0 {
			log.Debug("matches excluded", zap.String("name", f.Name()), zap.Strings("match_ids", step.Excluded))
		}
		m = next
	}

	return m, nil
}

func validate(cfg *Config, steps []Filter) error {
	for _, f := range steps {
		if !f.IsEnabled() {
			continue
		}
		if err := f.Validate(cfg); err != nil {
			return fmt.Errorf("%s: %w", f.Name(), err)
		}
	}
	return nil
}

// Describe reports the state of each filter, preferring the filter's own Status when it has one.
func Describe(steps []Filter) []Status {
	out := make([]Status, 0, len(steps))
	for _, f := range steps {
		status := Status{Name: f.Name(), Enabled: f.IsEnabled()}
		if sp, ok := f.(statusProvider); ok {
			status = sp.Status()
		}
		out = append(out, status)
	}
	return out
}
