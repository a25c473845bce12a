package rootfind

import (
	"fmt"
	"math"
)

// Func is a scalar residual.
type Func func(x float64) float64

// Defaults for Options.
const (
	DefaultMaxIterations = 100
	DefaultXTol          = 1e-12
	DefaultFTol          = 1e-14
	DefaultAcceptTol     = 1e-8

	maxHalvings  = 50
	maxExpansion = 64
	maxBisection = 200
)

// Options bound the search.
type Options struct {
	// MaxIterations caps secant steps.
	MaxIterations int

	// XTol stops iteration once |Δx| <= XTol·(1+|x|).
	XTol float64

	// FTol stops iteration once |f(x)| <= FTol·max(1, |f(guess)|).
	FTol float64

	// AcceptTol is the residual a converged point must still satisfy,
	// relative to max(1, |f(guess)|). It rejects stalls on flat regions and
	// brackets that straddle a pole.
	AcceptTol float64

	// Positive keeps every iterate strictly above zero.
	Positive bool
}

// Option adjusts Options.
type Option func(*Options)

// WithMaxIterations caps the secant stage.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithTolerance sets the step and residual tolerances.
func WithTolerance(xtol, ftol float64) Option {
	return func(o *Options) {
		o.XTol = xtol
		o.FTol = ftol
	}
}

// WithAcceptTolerance sets the final residual check.
func WithAcceptTolerance(tol float64) Option {
	return func(o *Options) { o.AcceptTol = tol }
}

// WithPositive restricts the search to x > 0.
func WithPositive(positive bool) Option {
	return func(o *Options) { o.Positive = positive }
}

// DefaultOptions returns the default bounds.
func DefaultOptions() Options {
	return Options{
		MaxIterations: DefaultMaxIterations,
		XTol:          DefaultXTol,
		FTol:          DefaultFTol,
		AcceptTol:     DefaultAcceptTol,
	}
}

// Solve finds x with f(x) ≈ 0 starting from guess.
func Solve(f Func, guess float64, opts ...Option) (float64, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}

	if !finite(guess) || (o.Positive && guess <= 0) {
		return 0, &RootFindError{Guess: guess, Reason: "guess outside the search domain"}
	}
	f0 := f(guess)
	if !finite(f0) {
		return 0, &RootFindError{Guess: guess, Iterations: 1, Reason: "residual is not finite at the guess"}
	}
	if f0 == 0 {
		return guess, nil
	}

	s := &search{f: f, o: o, guess: guess, f0: f0, scale: math.Max(1, math.Abs(f0)), evals: 1}

	x, secantErr := s.secant()
	if secantErr == nil {
		return x, nil
	}
	x, bracketErr := s.bracket()
	if bracketErr == nil {
		return x, nil
	}
	return 0, &RootFindError{
		Guess:      guess,
		Iterations: s.evals,
		Reason:     fmt.Sprintf("secant: %v; bracket: %v", secantErr, bracketErr),
	}
}

type search struct {
	f     Func
	o     Options
	guess float64
	f0    float64
	scale float64
	evals int
}

func (s *search) eval(x float64) float64 {
	s.evals++
	return s.f(x)
}

func (s *search) accept(x, fx float64) (float64, error) {
	if math.Abs(fx) <= s.o.AcceptTol*s.scale {
		return x, nil
	}
	return 0, fmt.Errorf("stalled at %g with residual %g", x, fx)
}

func (s *search) secant() (float64, error) {
	x0, f0 := s.guess, s.f0
	x1 := x0*(1+1e-4) + 1e-4
	if x0 < 0 {
		x1 = x0*(1+1e-4) - 1e-4
	}
	f1 := s.eval(x1)
	if !finite(f1) {
		return 0, fmt.Errorf("residual is not finite at %g", x1)
	}

	for i := 0; i < s.o.MaxIterations; i++ {
		if math.Abs(f1) <= s.o.FTol*s.scale {
			return s.accept(x1, f1)
		}
		if f1 == f0 {
			return 0, fmt.Errorf("flat residual at %g", x1)
		}

		x2 := x1 - f1*(x1-x0)/(f1-f0)
		if s.o.Positive && x2 <= 0 {
			x2 = x1 / 2
		}
		f2 := s.eval(x2)
		for h := 0; !finite(f2) && h < maxHalvings; h++ {
			x2 = x1 + (x2-x1)/2
			f2 = s.eval(x2)
		}
		if !finite(f2) {
			return 0, fmt.Errorf("residual is not finite near %g", x1)
		}

		if math.Abs(x2-x1) <= s.o.XTol*(1+math.Abs(x2)) {
			return s.accept(x2, f2)
		}
		x0, f0, x1, f1 = x1, f1, x2, f2
	}
	return 0, fmt.Errorf("no convergence in %d iterations", s.o.MaxIterations)
}

// bracket walks away from the guess geometrically until the residual
// changes sign, then bisects the last step.
func (s *search) bracket() (float64, error) {
	g := s.guess
	width := math.Max(1, math.Abs(g))

	type walk struct {
		next   func(k int) float64
		prev   float64
		fprev  float64
		active bool
	}
	walks := []*walk{
		{next: func(k int) float64 { return g * math.Ldexp(1, k) }},
		{next: func(k int) float64 { return g * math.Ldexp(1, -k) }},
	}
	if !s.o.Positive {
		walks = append(walks,
			&walk{next: func(k int) float64 { return g + width*math.Ldexp(1, k-1) }},
			&walk{next: func(k int) float64 { return g - width*math.Ldexp(1, k-1) }},
		)
	}
	for _, w := range walks {
		w.prev, w.fprev, w.active = g, s.f0, g != 0
	}

	for k := 1; k <= maxExpansion; k++ {
		for _, w := range walks {
			if !w.active {
				continue
			}
			x := w.next(k)
			fx := s.eval(x)
			if !finite(fx) {
				w.active = false
				continue
			}
			if math.Signbit(fx) != math.Signbit(w.fprev) || fx == 0 {
				return s.bisect(w.prev, w.fprev, x, fx)
			}
			w.prev, w.fprev = x, fx
		}
	}
	return 0, fmt.Errorf("no sign change found around %g", g)
}

func (s *search) bisect(a, fa, b, fb float64) (float64, error) {
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	for i := 0; i < maxBisection; i++ {
		m := a + (b-a)/2
		fm := s.eval(m)
		if !finite(fm) {
			return 0, fmt.Errorf("residual is not finite at %g", m)
		}
		if fm == 0 || math.Abs(b-a) <= s.o.XTol*(1+math.Abs(m)) {
			return s.accept(m, fm)
		}
		if math.Signbit(fm) == math.Signbit(fa) {
			a, fa = m, fm
		} else {
			b = m
		}
	}
	return 0, fmt.Errorf("bisection did not converge")
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
