package engine

import (
	"github.com/BCalow/engine-initial-variables/internal/relation"
	"github.com/BCalow/engine-initial-variables/internal/rootfind"
	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

// Step records one resolution: relation ID solved for Symbol in Pass.
type Step struct {
	Pass     int
	Relation relation.ID
	Symbol   symbol.Symbol
	Value    float64
}

// Failure records a relation whose root find failed in Pass. The relation
// is retried in later passes.
type Failure struct {
	Pass     int
	Relation relation.ID
	Symbol   symbol.Symbol
	Err      error
}

// Report is the full outcome of one Solve call.
type Report struct {
	// Derived holds every symbol resolved by propagation, keyed by its
	// qualified name. Inputs and constants are not included.
	Derived Values

	// Steps lists resolutions in the order they happened.
	Steps []Step

	// Failures lists root finds that did not converge.
	Failures []Failure

	// Passes is the number of library scans started.
	Passes int

	// FixedPoint is false when propagation stopped at the pass cap.
	FixedPoint bool
}

// Solve derives every value reachable from inputs and returns only the
// derived ones. Symbols that cannot be resolved are absent from the result.
func (e *Engine) Solve(inputs Inputs) (Values, error) {
	r, err := e.SolveReport(inputs)
	if err != nil {
		return nil, err
	}
	return r.Derived, nil
}

// SolveRaw decodes a loosely typed document and solves it.
func (e *Engine) SolveRaw(raw any) (Values, error) {
	inputs, err := DecodeInputs(raw)
	if err != nil {
		return nil, err
	}
	return e.Solve(inputs)
}

// SolveReport is Solve with the resolution trace attached.
func (e *Engine) SolveReport(inputs Inputs) (*Report, error) {
	if err := inputs.Validate(); err != nil {
		return nil, err
	}
	present := inputs.Values()
	report := &Report{Derived: make(Values)}
	quota := newPassQuota(e.maxPasses)

	for {
		if err := quota.Check(); err != nil {
			e.logger.Debug("propagation stopped", "reason", err.Error(), "derived", len(report.Derived))
			break
		}
		pass := quota.Current()
		report.Passes = pass

		progress := false
		for i := 0; i < e.lib.Len(); i++ {
			rel := e.lib.At(i)
			known := e.snapshot(present, report.Derived)
			unknown := rel.Unknown(func(s symbol.Symbol) bool {
				_, ok := known[s]
				return ok
			})
			if len(unknown) != 1 {
				continue
			}
			u := unknown[0]

			v, err := e.solveFor(rel, known, u)
			if err != nil {
				if !rootfind.IsRootFindError(err) {
					panic(err)
				}
				e.logger.Debug("root find failed", "pass", pass, "relation", rel.ID, "symbol", u, "error", err)
				report.Failures = append(report.Failures, Failure{Pass: pass, Relation: rel.ID, Symbol: u, Err: err})
				continue
			}

			if prev, ok := report.Derived[u]; ok && e.sameValue(prev, v) {
				continue
			}
			report.Derived[u] = v
			report.Steps = append(report.Steps, Step{Pass: pass, Relation: rel.ID, Symbol: u, Value: v})
			e.logger.Debug("resolved", "pass", pass, "relation", rel.ID, "symbol", u, "value", v)
			progress = true
		}
		e.logger.Debug("pass complete", "pass", pass, "progress", progress, "derived", len(report.Derived))

		if !progress {
			report.FixedPoint = true
			break
		}
	}
	return report, nil
}

// snapshot builds inputs ∪ derived ∪ constants. Constants override both.
func (e *Engine) snapshot(present, derived Values) Values {
	known := make(Values, len(present)+len(derived)+len(e.constants))
	for s, v := range present {
		known[s] = v
	}
	for s, v := range derived {
		known[s] = v
	}
	for s, v := range e.constants {
		known[s] = v
	}
	return known
}

// solveFor root-finds rel for its single unknown u, in the relation's own
// symbol namespace, and returns the value for the qualified symbol u.
func (e *Engine) solveFor(rel relation.Relation, known Values, u symbol.Symbol) (float64, error) {
	projected := make(Values, len(rel.Vars))
	for _, s := range rel.Vars {
		if v, ok := known[s]; ok {
			projected[s] = v
		}
	}
	args := must(e.lib.Normalize(rel.ID, projected))
	target := must(e.lib.NormalizeSymbol(rel.ID, u))
	if q := must(e.lib.Denormalize(rel.ID, target)); q != u {
		panic(&relation.MissingVariableError{ID: rel.ID, Symbol: u})
	}

	f := func(x float64) float64 {
		args[target] = x
		return must(e.lib.Residual(rel.ID, args))
	}
	opts := make([]rootfind.Option, 0, len(e.rootOpts)+1)
	opts = append(opts, e.rootOpts...)
	opts = append(opts, rootfind.WithPositive(symbol.Positive(u)))
	return rootfind.Solve(f, e.lib.Guess(u, target), opts...)
}
