package engine

import (
	"github.com/BCalow/engine-initial-variables/internal/relation"
	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

// SpecificImpulse returns F / (mdot · g0) when both thrust and mass flow are
// known from inputs or derived values. Derived values win over inputs.
func SpecificImpulse(inputs Inputs, derived Values) (float64, bool) {
	lookup := func(s symbol.Symbol) (float64, bool) {
		if v, ok := derived[s]; ok {
			return v, true
		}
		if v := inputs[s]; v != nil {
			return *v, true
		}
		return 0, false
	}
	thrust, ok := lookup(symbol.Thrust)
	if !ok {
		return 0, false
	}
	massFlow, ok := lookup(symbol.MassFlow)
	if !ok || massFlow == 0 {
		return 0, false
	}
	return relation.SpecificImpulse(thrust, massFlow), true
}
