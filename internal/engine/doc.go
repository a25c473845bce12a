// Package engine implements the variable propagation engine.
//
// Given a partial set of known nozzle variables, the engine repeatedly scans
// the relation library for relations with exactly one unknown, solves that
// relation numerically for the unknown, and folds the result back into the
// known set until a full pass resolves nothing new.
//
// ENTRY POINTS:
//
//   - Solve computes numeric values for every symbol that becomes resolvable.
//   - CheckConstraints is a dry run: it reports which symbols would become
//     derivable and which would be redundant as additional inputs, without
//     invoking the root finder.
//
// DETERMINISM:
//
// Relations are scanned in library order. Within one pass a value resolved
// by an earlier relation is visible to every later relation (same-pass
// propagation). Each relation evaluates against a fresh snapshot of
// inputs ∪ derived ∪ constants built just before it is examined.
//
// TERMINATION:
//
// Every productive pass adds at least one symbol, and passes are capped
// (DefaultMaxPasses). Reaching the cap is not an error: the caller gets
// whatever was derived so far.
//
// STATE:
//
// An Engine holds only read-only configuration. Each call owns its own
// known-value snapshot and derived store, so one Engine may serve concurrent
// callers without locking.
package engine
