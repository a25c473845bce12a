// Package relation holds the library of isentropic-flow relations.
//
// Each relation constrains a fixed, declared set of variables through a
// residual function that is zero exactly when the relation holds. The
// library is built once, validated at construction and never mutated; it is
// safe to share between goroutines.
//
// Station-generic relations (temperature and pressure ratio) are registered
// once per station and flagged Normalize: their residual functions read the
// generic symbols Ma, P and T, and the library rewrites qualified values
// through the alias table before calling them.
//
// Library order is significant. The propagation engine scans relations in
// registration order and that order determines which relation resolves a
// symbol first.
package relation
