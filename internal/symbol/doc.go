// Package symbol defines the variable symbols of the nozzle model.
//
// Symbols come in two forms:
//   - Qualified: bound to one station of the nozzle (P_e is the exit pressure)
//   - Generic: station-independent names used by residual functions that hold
//     at any station (P is "the pressure at the station being evaluated")
//
// The catalogue is compiled in and read-only. Values are always in consistent
// SI base units; no conversion happens anywhere in this module.
package symbol
