package engine

import (
	"github.com/BCalow/engine-initial-variables/internal/relation"
	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

// Constraints is the outcome of a dry run.
type Constraints struct {
	// Derivable lists symbols propagation would resolve, sorted.
	Derivable []symbol.Symbol

	// Redundant lists symbols already implied by the rest of the known set,
	// sorted. Entering one of them as an independent value would
	// overconstrain the system.
	Redundant []symbol.Symbol

	// Passes is the number of library scans the derivable phase used.
	Passes int
}

// CheckConstraints reports, without solving anything numerically, which
// symbols would become derivable from inputs and which are redundant.
//
// A symbol c is redundant when some relation becomes fully known by adding
// c to the known set it would have without c. Inputs are tested against the
// known set built from the other inputs alone, so an input implied by the
// remaining inputs is flagged. Every derivable symbol is redundant by the
// same rule.
func (e *Engine) CheckConstraints(inputs Inputs) (*Constraints, error) {
	if err := inputs.Validate(); err != nil {
		return nil, err
	}
	present := inputs.Present()
	derivable, passes := e.derivable(present)

	redundant := symbol.NewSet()
	for _, c := range e.lib.Symbols() {
		if e.lib.IsConstant(c) {
			continue
		}
		base, placeholders := present, derivable
		if present.Has(c) {
			base = without(present, c)
			placeholders, _ = e.derivable(base)
		}
		before := e.knownSet(base, placeholders)
		delete(before, c)
		if e.completes(before, c) {
			redundant.Add(c)
		}
	}

	return &Constraints{
		Derivable: derivable.Sorted(),
		Redundant: redundant.Sorted(),
		Passes:    passes,
	}, nil
}

// CheckRaw decodes a loosely typed document and checks it.
func (e *Engine) CheckRaw(raw any) (*Constraints, error) {
	inputs, err := DecodeInputs(raw)
	if err != nil {
		return nil, err
	}
	return e.CheckConstraints(inputs)
}

// derivable runs symbolic propagation from present. A relation with a
// single unknown contributes that unknown as a placeholder. It returns the
// placeholders and the number of passes used.
func (e *Engine) derivable(present symbol.Set) (symbol.Set, int) {
	placeholders := symbol.NewSet()
	quota := newPassQuota(e.maxPasses)
	for {
		if err := quota.Check(); err != nil {
			e.logger.Debug("dry run stopped", "reason", err.Error(), "derivable", len(placeholders))
			break
		}
		progress := false
		for i := 0; i < e.lib.Len(); i++ {
			rel := e.lib.At(i)
			known := e.knownSet(present, placeholders)
			unknown := rel.Unknown(known.Has)
			if len(unknown) != 1 {
				continue
			}
			for _, s := range e.expand(rel, unknown[0]) {
				if !known.Has(s) {
					placeholders.Add(s)
					progress = true
				}
			}
		}
		if !progress {
			break
		}
	}
	return placeholders, quota.Current()
}

// expand lists the qualified symbols a resolved unknown stands for. For a
// normalize-flagged relation that is every variant of the unknown's alias
// group the relation itself declares, which is the unknown alone.
func (e *Engine) expand(rel relation.Relation, u symbol.Symbol) []symbol.Symbol {
	generic := must(e.lib.NormalizeSymbol(rel.ID, u))
	if generic == u {
		return []symbol.Symbol{u}
	}
	var out []symbol.Symbol
	for _, v := range e.lib.Aliases().Variants(generic) {
		if rel.Declares(v) {
			out = append(out, v)
		}
	}
	return out
}

// completes reports whether adding c to before leaves some relation with no
// unknowns that still had an unknown without it.
func (e *Engine) completes(before symbol.Set, c symbol.Symbol) bool {
	after := symbol.NewSet(c)
	for s := range before {
		after.Add(s)
	}
	for i := 0; i < e.lib.Len(); i++ {
		rel := e.lib.At(i)
		if !rel.Declares(c) {
			continue
		}
		if len(rel.Unknown(after.Has)) == 0 && len(rel.Unknown(before.Has)) > 0 {
			return true
		}
	}
	return false
}

func (e *Engine) knownSet(present, placeholders symbol.Set) symbol.Set {
	known := symbol.NewSet()
	for s := range present {
		known.Add(s)
	}
	for s := range placeholders {
		known.Add(s)
	}
	for s := range e.constants {
		known.Add(s)
	}
	return known
}

func without(set symbol.Set, c symbol.Symbol) symbol.Set {
	out := symbol.NewSet()
	for s := range set {
		if s != c {
			out.Add(s)
		}
	}
	return out
}
