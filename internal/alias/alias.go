package alias

import (
	"fmt"

	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

// Group binds a generic symbol to its qualified variants, in order.
type Group struct {
	Generic  symbol.Symbol
	Variants []symbol.Symbol
}

// Table is an immutable set of alias groups.
type Table struct {
	groups    []Group
	toGeneric map[symbol.Symbol]symbol.Symbol
}

// NewTable builds a table. A qualified symbol may appear in one group only.
func NewTable(groups ...Group) (*Table, error) {
	t := &Table{
		groups:    make([]Group, 0, len(groups)),
		toGeneric: make(map[symbol.Symbol]symbol.Symbol),
	}
	seenGeneric := make(map[symbol.Symbol]bool, len(groups))
	for _, g := range groups {
		if g.Generic == "" {
			return nil, fmt.Errorf("alias group has empty generic symbol")
		}
		if seenGeneric[g.Generic] {
			return nil, fmt.Errorf("duplicate alias group %q", g.Generic)
		}
		seenGeneric[g.Generic] = true
		for _, v := range g.Variants {
			if prev, ok := t.toGeneric[v]; ok {
				return nil, fmt.Errorf("symbol %q aliased by both %q and %q", v, prev, g.Generic)
			}
			t.toGeneric[v] = g.Generic
		}
		variants := make([]symbol.Symbol, len(g.Variants))
		copy(variants, g.Variants)
		t.groups = append(t.groups, Group{Generic: g.Generic, Variants: variants})
	}
	return t, nil
}

var defaultTable = mustTable(
	Group{Generic: symbol.Mach, Variants: []symbol.Symbol{symbol.MachThroat, symbol.MachExit, symbol.MachChamber}},
	Group{Generic: symbol.Pressure, Variants: []symbol.Symbol{symbol.PressureThroat, symbol.PressureExit, symbol.PressureChamber}},
	Group{Generic: symbol.Temperature, Variants: []symbol.Symbol{symbol.TemperatureThroat, symbol.TemperatureExit, symbol.TemperatureChamber}},
)

// Default returns the nozzle alias table.
func Default() *Table {
	return defaultTable
}

func mustTable(groups ...Group) *Table {
	t, err := NewTable(groups...)
	if err != nil {
		panic(err)
	}
	return t
}

// Groups returns a copy of the alias groups in declaration order.
func (t *Table) Groups() []Group {
	out := make([]Group, len(t.groups))
	for i, g := range t.groups {
		variants := make([]symbol.Symbol, len(g.Variants))
		copy(variants, g.Variants)
		out[i] = Group{Generic: g.Generic, Variants: variants}
	}
	return out
}

// GenericOf returns the generic symbol that aliases s.
func (t *Table) GenericOf(s symbol.Symbol) (symbol.Symbol, bool) {
	g, ok := t.toGeneric[s]
	return g, ok
}

// Variants returns the qualified variants of a generic symbol.
func (t *Table) Variants(generic symbol.Symbol) []symbol.Symbol {
	for _, g := range t.groups {
		if g.Generic == generic {
			out := make([]symbol.Symbol, len(g.Variants))
			copy(out, g.Variants)
			return out
		}
	}
	return nil
}

// Normalize returns a copy of values with every aliased key replaced by its
// generic symbol. Keys outside all groups are kept as-is.
func (t *Table) Normalize(values map[symbol.Symbol]float64) map[symbol.Symbol]float64 {
	out := make(map[symbol.Symbol]float64, len(values))
	for k, v := range values {
		out[t.NormalizeSymbol(k)] = v
	}
	return out
}

// NormalizeSymbol maps s to its generic alias, or returns s unchanged.
func (t *Table) NormalizeSymbol(s symbol.Symbol) symbol.Symbol {
	if g, ok := t.toGeneric[s]; ok {
		return g
	}
	return s
}

// Denormalize maps a generic symbol back to the variant present in declared.
// Symbols that are not generic come back unchanged. It reports false when a
// generic symbol has no variant in declared.
func (t *Table) Denormalize(generic symbol.Symbol, declared []symbol.Symbol) (symbol.Symbol, bool) {
	isGeneric := false
	for _, g := range t.groups {
		if g.Generic != generic {
			continue
		}
		isGeneric = true
		for _, v := range g.Variants {
			for _, d := range declared {
				if d == v {
					return v, true
				}
			}
		}
	}
	if isGeneric {
		return "", false
	}
	return generic, true
}
