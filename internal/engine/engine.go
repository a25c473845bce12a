package engine

import (
	"io"
	"log/slog"
	"math"

	"github.com/BCalow/engine-initial-variables/internal/relation"
	"github.com/BCalow/engine-initial-variables/internal/rootfind"
	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

// Defaults for engine options.
const (
	// DefaultMaxPasses caps full scans of the relation library per call.
	DefaultMaxPasses = 50

	// DefaultRelTol and DefaultAbsTol decide whether a newly solved value
	// differs from a stored one.
	DefaultRelTol = 1e-6
	DefaultAbsTol = 1e-9
)

// Values maps symbols to resolved numeric values.
type Values = map[symbol.Symbol]float64

// Engine propagates known values through a relation library.
//
// INVARIANTS:
//   - lib is never mutated after construction
//   - constants is a private copy of lib.Constants()
type Engine struct {
	lib       *relation.Library
	constants Values
	maxPasses int
	relTol    float64
	absTol    float64
	rootOpts  []rootfind.Option
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxPasses sets the pass cap. Values below 1 are ignored.
func WithMaxPasses(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPasses = n
		}
	}
}

// WithTolerance sets the relative and absolute tolerance used to compare a
// newly solved value against a stored one.
func WithTolerance(rel, abs float64) Option {
	return func(e *Engine) {
		e.relTol = rel
		e.absTol = abs
	}
}

// WithRootFindOptions passes bounds through to the root finder.
func WithRootFindOptions(opts ...rootfind.Option) Option {
	return func(e *Engine) {
		e.rootOpts = append(e.rootOpts, opts...)
	}
}

// WithLogger sets the logger used for per-pass debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine over lib. A nil lib selects relation.Default().
func New(lib *relation.Library, opts ...Option) *Engine {
	if lib == nil {
		lib = relation.Default()
	}
	e := &Engine{
		lib:       lib,
		constants: lib.Constants(),
		maxPasses: DefaultMaxPasses,
		relTol:    DefaultRelTol,
		absTol:    DefaultAbsTol,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Library returns the relation library the engine scans.
func (e *Engine) Library() *relation.Library {
	return e.lib
}

// MaxPasses returns the configured pass cap.
func (e *Engine) MaxPasses() int {
	return e.maxPasses
}

// RootFindOptions returns the root finder bounds after the configured
// options are applied. Positivity is set per solve and is not included.
func (e *Engine) RootFindOptions() rootfind.Options {
	o := rootfind.DefaultOptions()
	for _, opt := range e.rootOpts {
		opt(&o)
	}
	return o
}

// sameValue reports whether a and b agree within the combined relative and
// absolute tolerance.
func (e *Engine) sameValue(a, b float64) bool {
	diff := math.Abs(a - b)
	return diff <= math.Max(e.relTol*math.Max(math.Abs(a), math.Abs(b)), e.absTol)
}

// must aborts on library misconfiguration. Unknown relations and missing
// variables can only come from a broken relation table.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
