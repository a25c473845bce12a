// Package alias translates between station-qualified symbols and the
// generic symbols that station-generic residual functions are written in.
//
// An alias group maps one generic symbol to its ordered list of qualified
// variants:
//
//	Ma -> Ma_t, Ma_e, Ma_c
//	P  -> P_t, P_e, P_c
//	T  -> T_t, T_e, T_c
//
// Normalization only rewrites keys; values pass through untouched. A
// relation instance declares at most one variant per group, which is what
// makes Denormalize unambiguous.
package alias
