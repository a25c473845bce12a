package relation

import (
	"fmt"

	"github.com/BCalow/engine-initial-variables/internal/alias"
	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

// DefaultGuess is the root finder's starting point for symbols without an
// entry in the guess table.
const DefaultGuess = 1.0

// Library is an immutable, ordered table of relations together with the
// alias table, fixed constants and initial guesses the engine needs.
type Library struct {
	relations []Relation
	index     map[ID]int
	aliases   *alias.Table
	constants map[symbol.Symbol]float64
	guesses   map[symbol.Symbol]float64
}

// Option adjusts a library under construction.
type Option func(*builder)

type builder struct {
	relations []Relation
	constants map[symbol.Symbol]float64
	guesses   map[symbol.Symbol]float64
}

// WithStagnantChamber adds the chamber ≡ stagnation equivalences
// T_c = T_s and P_c = P_s, treating the chamber as a plenum at rest.
func WithStagnantChamber() Option {
	return func(b *builder) {
		b.relations = append(b.relations,
			Relation{
				ID:       "temperature-equivalence",
				Name:     "temperature-equivalence",
				Vars:     []symbol.Symbol{symbol.TemperatureChamber, symbol.TemperatureStagnation},
				Residual: temperatureEquivalence,
			},
			Relation{
				ID:       "pressure-equivalence",
				Name:     "pressure-equivalence",
				Vars:     []symbol.Symbol{symbol.PressureChamber, symbol.PressureStagnation},
				Residual: pressureEquivalence,
			},
		)
	}
}

// WithGuess overrides the initial root-finder guess for one symbol.
func WithGuess(s symbol.Symbol, guess float64) Option {
	return func(b *builder) {
		b.guesses[s] = guess
	}
}

// WithConstant fixes s to value for every solve.
func WithConstant(s symbol.Symbol, value float64) Option {
	return func(b *builder) {
		b.constants[s] = value
	}
}

// WithRelations appends relations after the built-in ones.
func WithRelations(rels ...Relation) Option {
	return func(b *builder) {
		b.relations = append(b.relations, rels...)
	}
}

// NewLibrary validates rels and builds a library over the given alias table.
// Every configuration problem (duplicate id, nil residual, a station
// instance declaring two variants of one alias group) is reported here so
// that lookups never fail at solve time.
func NewLibrary(aliases *alias.Table, rels []Relation, opts ...Option) (*Library, error) {
	if aliases == nil {
		return nil, fmt.Errorf("relation library: nil alias table")
	}
	b := &builder{
		relations: append([]Relation(nil), rels...),
		constants: make(map[symbol.Symbol]float64),
		guesses:   make(map[symbol.Symbol]float64),
	}
	for _, opt := range opts {
		opt(b)
	}

	lib := &Library{
		relations: make([]Relation, 0, len(b.relations)),
		index:     make(map[ID]int, len(b.relations)),
		aliases:   aliases,
		constants: b.constants,
		guesses:   b.guesses,
	}
	for _, r := range b.relations {
		if r.ID == "" {
			return nil, fmt.Errorf("relation library: relation with empty id")
		}
		if _, dup := lib.index[r.ID]; dup {
			return nil, fmt.Errorf("relation library: duplicate relation %q", r.ID)
		}
		if r.Residual == nil {
			return nil, fmt.Errorf("relation library: relation %q has no residual function", r.ID)
		}
		if len(r.Vars) == 0 {
			return nil, fmt.Errorf("relation library: relation %q declares no variables", r.ID)
		}
		params, err := paramsFor(aliases, r)
		if err != nil {
			return nil, err
		}
		r = r.clone()
		r.params = params
		lib.index[r.ID] = len(lib.relations)
		lib.relations = append(lib.relations, r)
	}
	return lib, nil
}

func paramsFor(aliases *alias.Table, r Relation) ([]symbol.Symbol, error) {
	seen := make(map[symbol.Symbol]symbol.Symbol, len(r.Vars))
	params := make([]symbol.Symbol, 0, len(r.Vars))
	for _, v := range r.Vars {
		p := v
		if r.Normalize {
			p = aliases.NormalizeSymbol(v)
		}
		if prev, dup := seen[p]; dup {
			return nil, fmt.Errorf("relation library: relation %q declares both %q and %q as %q", r.ID, prev, v, p)
		}
		seen[p] = v
		params = append(params, p)
	}
	return params, nil
}

// Relations returns the relations in scan order.
func (l *Library) Relations() []Relation {
	out := make([]Relation, len(l.relations))
	for i, r := range l.relations {
		out[i] = r.clone()
	}
	return out
}

// Len returns the number of relations.
func (l *Library) Len() int {
	return len(l.relations)
}

// At returns the i-th relation in scan order without copying its slices.
// Callers must not modify the result.
func (l *Library) At(i int) Relation {
	return l.relations[i]
}

// Lookup returns the relation registered under id.
func (l *Library) Lookup(id ID) (Relation, error) {
	i, ok := l.index[id]
	if !ok {
		return Relation{}, &UnknownRelationError{ID: id}
	}
	return l.relations[i].clone(), nil
}

// DeclaredVariables returns the declared variable set of id.
func (l *Library) DeclaredVariables(id ID) ([]symbol.Symbol, error) {
	r, err := l.Lookup(id)
	if err != nil {
		return nil, err
	}
	return r.Vars, nil
}

// Residual evaluates relation id. values must hold every parameter the
// residual function reads; extra keys are ignored.
func (l *Library) Residual(id ID, values Values) (float64, error) {
	i, ok := l.index[id]
	if !ok {
		return 0, &UnknownRelationError{ID: id}
	}
	r := l.relations[i]
	for _, p := range r.params {
		if _, ok := values[p]; !ok {
			return 0, &MissingVariableError{ID: id, Symbol: p}
		}
	}
	return r.Residual(values), nil
}

// Normalize rewrites qualified keys of values into generic form for
// normalize-flagged relations. It returns a copy of values otherwise.
func (l *Library) Normalize(id ID, values Values) (Values, error) {
	i, ok := l.index[id]
	if !ok {
		return nil, &UnknownRelationError{ID: id}
	}
	if !l.relations[i].Normalize {
		out := make(Values, len(values))
		for k, v := range values {
			out[k] = v
		}
		return out, nil
	}
	return l.aliases.Normalize(values), nil
}

// NormalizeSymbol maps s to the name relation id's residual reads it under.
func (l *Library) NormalizeSymbol(id ID, s symbol.Symbol) (symbol.Symbol, error) {
	i, ok := l.index[id]
	if !ok {
		return "", &UnknownRelationError{ID: id}
	}
	if !l.relations[i].Normalize {
		return s, nil
	}
	return l.aliases.NormalizeSymbol(s), nil
}

// Denormalize maps a generic symbol solved by relation id back to the
// qualified variant that relation declares.
func (l *Library) Denormalize(id ID, generic symbol.Symbol) (symbol.Symbol, error) {
	i, ok := l.index[id]
	if !ok {
		return "", &UnknownRelationError{ID: id}
	}
	r := l.relations[i]
	if !r.Normalize {
		return generic, nil
	}
	q, ok := l.aliases.Denormalize(generic, r.Vars)
	if !ok {
		return "", &MissingVariableError{ID: id, Symbol: generic}
	}
	return q, nil
}

// Aliases returns the alias table the library normalizes through.
func (l *Library) Aliases() *alias.Table {
	return l.aliases
}

// Constants returns a copy of the fixed physical constants.
func (l *Library) Constants() map[symbol.Symbol]float64 {
	out := make(map[symbol.Symbol]float64, len(l.constants))
	for k, v := range l.constants {
		out[k] = v
	}
	return out
}

// IsConstant reports whether s is fixed by the library.
func (l *Library) IsConstant(s symbol.Symbol) bool {
	_, ok := l.constants[s]
	return ok
}

// Guess returns the initial root-finder guess for solving s. The qualified
// symbol is looked up first, then its generic form.
func (l *Library) Guess(qualified, target symbol.Symbol) float64 {
	if g, ok := l.guesses[qualified]; ok {
		return g
	}
	if g, ok := l.guesses[target]; ok {
		return g
	}
	return DefaultGuess
}

// Symbols returns the union of all declared variables, in first-seen order.
func (l *Library) Symbols() []symbol.Symbol {
	seen := make(map[symbol.Symbol]bool)
	var out []symbol.Symbol
	for _, r := range l.relations {
		for _, v := range r.Vars {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}
