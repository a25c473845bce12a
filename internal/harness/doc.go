// Package harness runs conformance scenarios against the propagation engine.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	library:
//	  stagnant_chamber: false
//	inputs: { Ma_e: 5, gamma: 1.3, T_e: 1500 }
//	expect:
//	  derived: { T_s: 7125 }
//	  absent: [T_c]
//	  derivable: [T_s, T_t]
//	  redundant: [Ma_e, T_e, T_s, T_t, gamma]
//	assertions:
//	  - type: resolution_order
//	    symbols: [T_s, T_t]
//	  - type: pass_count
//	    count: 3
//
// Derived values are a subset match compared within tolerance (relative
// tolerance, default 1e-6). Derivable and redundant are exact set matches.
// A scenario may instead expect an error kind (invalid_argument).
//
// # Assertion Types
//
//   - resolution_order: symbols were resolved in the given relative order
//   - resolved_by: a symbol was resolved by the given relation
//   - pass_count: the solve used exactly N passes
//   - fixed_point: the solve reached (or did not reach) a fixed point
//
// # Golden Files
//
// RunWithGolden snapshots the resolution trace and the dry-run sets under
// testdata/golden. Values are rendered with six significant digits so the
// snapshot is stable across platforms.
package harness
