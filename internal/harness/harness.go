package harness

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"

	"github.com/BCalow/engine-initial-variables/internal/engine"
	"github.com/BCalow/engine-initial-variables/internal/relation"
	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

// Harness is the test execution engine.
type Harness struct {
	engine *engine.Engine
	logger *slog.Logger
}

// New creates a harness over the library the scenario selects.
func New(scenario *Scenario, logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	}
	var opts []relation.Option
	if scenario.Library.StagnantChamber {
		opts = append(opts, relation.WithStagnantChamber())
	}
	return &Harness{
		engine: engine.New(relation.Default(opts...), engine.WithLogger(logger)),
		logger: logger,
	}
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Decode the input document
// 2. Solve and record the resolution trace
// 3. Run the dry-run constraint check
// 4. Compare against the expect clause and evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	return New(scenario, nil).Run(scenario)
}

// Run executes scenario on the harness engine.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	result := NewResult()
	expect := scenario.Expect
	if expect == nil {
		expect = &ExpectClause{}
	}

	h.logger.Debug("running scenario", "name", scenario.Name)

	inputs, err := engine.DecodeInputs(map[string]interface{}(scenario.Inputs))
	if err != nil {
		return h.finishWithError(result, expect, err)
	}

	report, err := h.engine.SolveReport(inputs)
	if err != nil {
		return h.finishWithError(result, expect, err)
	}
	constraints, err := h.engine.CheckConstraints(inputs)
	if err != nil {
		return h.finishWithError(result, expect, err)
	}

	for _, step := range report.Steps {
		result.AddTrace(step.Pass, string(step.Relation), string(step.Symbol), step.Value)
	}
	for s, v := range report.Derived {
		result.Derived[string(s)] = v
	}
	result.Derivable = symbolStrings(constraints.Derivable)
	result.Redundant = symbolStrings(constraints.Redundant)
	result.Passes = report.Passes
	result.FixedPoint = report.FixedPoint
	result.Failures = len(report.Failures)

	if expect.Error != "" {
		result.AddError(fmt.Sprintf("expected error %s, got success", expect.Error))
		return result, nil
	}

	tol := scenario.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	h.compareExpect(result, expect, tol)

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// finishWithError records an engine error. Invalid arguments are an
// expected outcome when the scenario asks for them; anything else fails
// the run.
func (h *Harness) finishWithError(result *Result, expect *ExpectClause, err error) (*Result, error) {
	if !engine.IsInvalidArgument(err) {
		return nil, fmt.Errorf("engine failed: %w", err)
	}
	result.Err = ErrorInvalidArgument
	if expect.Error != ErrorInvalidArgument {
		result.AddError(fmt.Sprintf("unexpected error: %v", err))
	}
	return result, nil
}

func (h *Harness) compareExpect(result *Result, expect *ExpectClause, tol float64) {
	for _, s := range sortedKeys(expect.Derived) {
		want := expect.Derived[s]
		got, ok := result.Derived[s]
		if !ok {
			result.AddError(fmt.Sprintf("derived: expected %s = %g, not derived", s, want))
			continue
		}
		if !withinTolerance(want, got, tol) {
			result.AddError(fmt.Sprintf("derived: expected %s = %g, got %g", s, want, got))
		}
	}

	for _, s := range expect.Absent {
		if got, ok := result.Derived[s]; ok {
			result.AddError(fmt.Sprintf("absent: expected %s not derived, got %g", s, got))
		}
	}

	if expect.Derivable != nil && !sameSet(expect.Derivable, result.Derivable) {
		result.AddError(fmt.Sprintf("derivable: expected %v, got %v", sorted(expect.Derivable), result.Derivable))
	}
	if expect.Redundant != nil && !sameSet(expect.Redundant, result.Redundant) {
		result.AddError(fmt.Sprintf("redundant: expected %v, got %v", sorted(expect.Redundant), result.Redundant))
	}
}

func withinTolerance(want, got, tol float64) bool {
	return math.Abs(want-got) <= math.Max(tol*math.Max(math.Abs(want), math.Abs(got)), engine.DefaultAbsTol)
}

func sameSet(want, got []string) bool {
	a, b := sorted(want), sorted(got)
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

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func symbolStrings(syms []symbol.Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = string(s)
	}
	return out
}
