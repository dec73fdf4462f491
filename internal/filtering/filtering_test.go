package filtering

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/jobswap/internal/swap"
)

func demoMatches(t *testing.T) (*swap.Memory, *Matches) {
	t.Helper()

	store, err := swap.Demo()
	if err != nil {
		t.Fatalf("load demo: %v", err)
	}
	items, err := store.Matches("user-001")
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	return store, NewMatches(items)
}

func ids(m *Matches) []string {
	out := make([]string, 0, m.Len())
	for _, item := range m.Items {
		out = append(out, item.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{
			name: "nothing configured",
			cfg:  Config{},
			want: []string{"match-001", "match-002", "match-003", "match-004", "match-005"},
		},
		{
			name: "salary compatible only",
			cfg:  Config{SalaryCompatibleOnly: true},
			want: []string{"match-001", "match-002", "match-004", "match-005"},
		},
		{
			name: "minimum commute savings",
			cfg:  Config{MinCommuteSavings: 30},
			want: []string{"match-001", "match-002", "match-004"},
		},
		{
			name: "sector case insensitive",
			cfg:  Config{Sectors: []string{"technology"}},
			want: []string{"match-001", "match-002", "match-003", "match-004", "match-005"},
		},
		{
			name: "unknown sector",
			cfg:  Config{Sectors: []string{"Finance"}},
			want: []string{},
		},
		{
			name: "already requested",
			cfg:  Config{ExcludeRequested: true},
			want: []string{"match-003", "match-005"},
		},
		{
			name: "combined",
			cfg:  Config{SalaryCompatibleOnly: true, ExcludeRequested: true},
			want: []string{"match-005"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, matches := demoMatches(t)
			deps := Deps{Logger: zap.NewNop(), Store: store, UserID: "user-001"}

			got, err := Run(context.Background(), &tt.cfg, deps, Default(), matches)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equal(ids(got), tt.want) {
				t.Fatalf("unexpected matches: got %v want %v", ids(got), tt.want)
			}
		})
	}
}

func TestRunLogsSteps(t *testing.T) {
	store, matches := demoMatches(t)
	core, logs := observer.New(zap.InfoLevel)
	deps := Deps{Logger: zap.New(core), Store: store, UserID: "user-001"}

	steps := Default()
	DisableByName(steps, "sectors", "not needed")

	if _, err := Run(context.Background(), &Config{SalaryCompatibleOnly: true}, deps, steps, matches); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := logs.FilterMessage("filter step").Len(); got != 3 {
		t.Fatalf("expected 3 filter step entries, got %d", got)
	}
	if got := logs.FilterMessage("filter disabled").Len(); got != 1 {
		t.Fatalf("expected 1 disabled entry, got %d", got)
	}

	salary := logs.FilterMessage("filter step").All()[0].ContextMap()
	if salary["name"] != "salary_compatible" || salary["dropped"] != int64(1) || salary["left"] != int64(4) {
		t.Fatalf("unexpected salary step fields: %v", salary)
	}
}

func TestRunValidationError(t *testing.T) {
	_, matches := demoMatches(t)

	if _, err := Run(context.Background(), &Config{MinCommuteSavings: -1}, Deps{}, Default(), matches); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestAlreadyRequestedRequiresStore(t *testing.T) {
	_, matches := demoMatches(t)

	if _, err := Run(context.Background(), &Config{ExcludeRequested: true}, Deps{}, Default(), matches); err == nil {
		t.Fatalf("expected error without store")
	}
}

func TestDescribe(t *testing.T) {
	steps := Default()
	for _, step := range steps {
		if err := step.Validate(&Config{Sectors: []string{" Technology ", ""}}); err != nil {
			t.Fatalf("validate %s: %v", step.Name(), err)
		}
	}
	DisableByName(steps, "already_requested", "manual")

	statuses := Describe(steps)
	if len(statuses) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(statuses))
	}
	if statuses[2].Details["sectors"] != "Technology" {
		t.Fatalf("unexpected sectors details: %v", statuses[2].Details)
	}
	if statuses[3].Enabled || statuses[3].Reason != "manual" {
		t.Fatalf("expected already_requested to be disabled: %+v", statuses[3])
	}
}

func TestMatchesExclude(t *testing.T) {
	m := NewMatches([]swap.Match{{ID: "a"}, {ID: "b", Sector: "x"}, {ID: "c"}})

	excluded := m.Exclude(func(match swap.Match) bool { return match.Sector == "x" })

	if !equal(excluded, []string{"b"}) || !equal(ids(m), []string{"a", "c"}) {
		t.Fatalf("unexpected exclude result: %v / %v", excluded, ids(m))
	}
}

func TestStepReportsExcludedIDs(t *testing.T) {
	_, matches := demoMatches(t)
	f := NewSalaryCompatible()
	if err := f.Validate(&Config{SalaryCompatibleOnly: true}); err != nil {
		t.Fatalf("validate: %v", err)
	}

	_, step, err := f.Apply(context.Background(), Deps{}, matches)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if step.Initial != 5 || step.Dropped != 1 || step.Left != 4 {
		t.Fatalf("unexpected counts: %+v", step)
	}
	if !equal(step.Excluded, []string{"match-003"}) {
		t.Fatalf("unexpected excluded ids: %v", step.Excluded)
	}
}

func TestRunLogsExcludedAtDebug(t *testing.T) {
	store, matches := demoMatches(t)
	core, logs := observer.New(zap.DebugLevel)
	deps := Deps{Logger: zap.New(core), Store: store, UserID: "user-001"}

	if _, err := Run(context.Background(), &Config{MinCommuteSavings: 30}, deps, Default(), matches); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("matches excluded").All()
	if len(entries) != 1 {
		t.Fatalf("expected one debug entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["name"] != "min_commute_savings" || ctx["user_id"] != "user-001" {
		t.Fatalf("unexpected context: %v", ctx)
	}
}
