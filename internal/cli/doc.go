// Package cli implements the nozzle command tree.
//
// Commands:
//
//	nozzle solve    [-f inputs.yaml|.json|.cue] [SYMBOL=VALUE...]
//	nozzle check    [-f inputs.yaml|.json|.cue] [SYMBOL=VALUE...]
//	nozzle relations
//	nozzle scenario <file-or-dir>...
//	nozzle serve    [--addr :9000]
//
// Global flags select the output format (text or json), verbose logging and
// an optional INI config file. Flags set on the command line override the
// config file.
package cli
