package filtering

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobswap/internal/swap"
)

// toggle carries the enabled state shared by every step.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

type salaryCompatibleFilter struct {
	toggle
	only bool
}

// NewSalaryCompatible creates a filter that removes matches outside the employee's salary band.
func NewSalaryCompatible() Filter {
	return &salaryCompatibleFilter{}
}

func (f *salaryCompatibleFilter) Name() string { return "salary_compatible" }

func (f *salaryCompatibleFilter) Validate(cfg *Config) error {
	f.only = cfg != nil && cfg.SalaryCompatibleOnly
	return nil
}

func (f *salaryCompatibleFilter) Apply(_ context.Context, deps Deps, m *Matches) (*Matches, Step, error) {
	initial := m.Len()
	if !f.only {
		return m, newStep(initial, nil, m), nil
	}

	excluded := m.Exclude(func(match swap.Match) bool { return !match.SalaryCompatible })
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding matches outside the salary band",
			zap.Strings("excluded_matches", excluded),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, newStep(initial, excluded, m), nil
}

func (f *salaryCompatibleFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"salary_compatible_only": strconv.FormatBool(f.only)},
	}
}

type minCommuteSavingsFilter struct {
	toggle
	minimum float64
}

// NewMinCommuteSavings creates a filter that removes matches saving fewer one-way minutes than configured.
func NewMinCommuteSavings() Filter {
	return &minCommuteSavingsFilter{}
}

func (f *minCommuteSavingsFilter) Name() string { return "min_commute_savings" }

func (f *minCommuteSavingsFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		f.minimum = cfg.MinCommuteSavings
	}
	if f.minimum < 0 {
		return errors.New("minimum commute savings must not be negative")
	}
	return nil
}

func (f *minCommuteSavingsFilter) Apply(_ context.Context, deps Deps, m *Matches) (*Matches, Step, error) {
	initial := m.Len()
	if f.minimum == 0 {
		return m, newStep(initial, nil, m), nil
	}

	excluded := m.Exclude(func(match swap.Match) bool { return match.Commute.Savings() < f.minimum })
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding matches with small commute savings",
			zap.Float64("minimum_minutes", f.minimum),
			zap.Strings("excluded_matches", excluded),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, newStep(initial, excluded, m), nil
}

func (f *minCommuteSavingsFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum_minutes": strconv.FormatFloat(f.minimum, 'f', -1, 64)},
	}
}

type sectorsFilter struct {
	toggle
	sectors []string
}

// NewSectors creates a filter that keeps only matches from the configured sectors.
func NewSectors() Filter {
	return &sectorsFilter{}
}

func (f *sectorsFilter) Name() string { return "sectors" }

func (f *sectorsFilter) Validate(cfg *Config) error {
	f.sectors = nil
	if cfg == nil {
		return nil
	}
	for _, sector := range cfg.Sectors {
		if sector = strings.TrimSpace(sector); sector != "" {
			f.sectors = append(f.sectors, sector)
		}
	}
	return nil
}

func (f *sectorsFilter) Apply(_ context.Context, deps Deps, m *Matches) (*Matches, Step, error) {
	initial := m.Len()
	if len(f.sectors) == 0 {
		return m, newStep(initial, nil, m), nil
	}

	excluded := m.Exclude(func(match swap.Match) bool {
		for _, sector := range f.sectors {
			if strings.EqualFold(sector, match.Sector) {
				return false
			}
		}
		return true
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding matches by sector",
			zap.Strings("sectors", f.sectors),
			zap.Strings("excluded_matches", excluded),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, newStep(initial, excluded, m), nil
}

func (f *sectorsFilter) Status() Status {
	details := map[string]string{}
	if len(f.sectors) > 0 {
		details["sectors"] = strings.Join(f.sectors, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type alreadyRequestedFilter struct {
	toggle
	exclude bool
}

// NewAlreadyRequested creates a filter that removes matches with a request in either direction.
func NewAlreadyRequested() Filter {
	return &alreadyRequestedFilter{}
}

func (f *alreadyRequestedFilter) Name() string { return "already_requested" }

func (f *alreadyRequestedFilter) Validate(cfg *Config) error {
	f.exclude = cfg != nil && cfg.ExcludeRequested
	return nil
}

func (f *alreadyRequestedFilter) Apply(_ context.Context, deps Deps, m *Matches) (*Matches, Step, error) {
	initial := m.Len()
	if !f.exclude {
		return m, newStep(initial, nil, m), nil
	}

	if deps.Store == nil {
		return m, Step{}, errors.New("swap store is required")
	}

	requestedMatches := make(map[string]struct{})
	for _, req := range deps.Store.Outgoing(deps.UserID) {
		requestedMatches[req.MatchID] = struct{}{}
	}
	requestingUsers := make(map[string]struct{})
	for _, req := range deps.Store.Incoming(deps.UserID) {
		requestingUsers[req.FromUserID] = struct{}{}
	}

	excluded := m.Exclude(func(match swap.Match) bool {
		_, sent := requestedMatches[match.ID]
		_, received := requestingUsers[match.UserID]
		return sent || received
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding matches with existing requests",
			zap.Strings("excluded_matches", excluded),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, newStep(initial, excluded, m), nil
}

func (f *alreadyRequestedFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"exclude_requested": strconv.FormatBool(f.exclude)},
	}
}
