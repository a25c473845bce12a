package relation

import (
	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

// ID names a relation instance, e.g. "temperature-ratio@throat".
type ID string

// Relation is one algebraic constraint of the library.
type Relation struct {
	ID ID

	// Name is the physical law shared by every station instance.
	Name string

	// Station qualifies station-generic instances. Empty otherwise.
	Station symbol.Station

	// Vars is the declared variable set, in qualified form.
	Vars []symbol.Symbol

	// Normalize marks residual functions written in generic symbols.
	Normalize bool

	// Residual evaluates the relation.
	Residual ResidualFunc

	// params are the symbols Residual reads: Vars rewritten through the alias
	// table when Normalize is set, Vars otherwise. Filled by NewLibrary.
	params []symbol.Symbol
}

// Params returns the symbols the residual function reads.
func (r Relation) Params() []symbol.Symbol {
	out := make([]symbol.Symbol, len(r.params))
	copy(out, r.params)
	return out
}

// Declares reports whether s is in the declared variable set.
func (r Relation) Declares(s symbol.Symbol) bool {
	for _, v := range r.Vars {
		if v == s {
			return true
		}
	}
	return false
}

// Unknown returns the declared variables missing from known, in declaration
// order.
func (r Relation) Unknown(known func(symbol.Symbol) bool) []symbol.Symbol {
	var out []symbol.Symbol
	for _, v := range r.Vars {
		if !known(v) {
			out = append(out, v)
		}
	}
	return out
}

func (r Relation) clone() Relation {
	c := r
	c.Vars = append([]symbol.Symbol(nil), r.Vars...)
	c.params = append([]symbol.Symbol(nil), r.params...)
	return c
}

func stationID(name string, station symbol.Station) ID {
	if station == symbol.StationNone {
		return ID(name)
	}
	return ID(name + "@" + string(station))
}
