// Package rootfind solves f(x) = 0 for a single unknown.
//
// Solve first runs a secant iteration from the caller's guess. If that does
// not converge (flat residual, non-finite values, iteration cap, or a stall
// away from zero) it falls back to expanding a bracket around the guess and
// bisecting it. Both stages are bounded: a failed solve returns a
// RootFindError, it never loops forever.
package rootfind
