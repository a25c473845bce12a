package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BCalow/engine-initial-variables/internal/engine"
	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

// InputOptions holds the input flags shared by solve and check.
type InputOptions struct {
	*RootOptions
	File string // input document, "-" for stdin
}

// SolveOutput is the result of the solve command.
type SolveOutput struct {
	Derived    map[string]float64 `json:"derived"`
	Isp        *float64           `json:"isp,omitempty"`
	Passes     int                `json:"passes"`
	FixedPoint bool               `json:"fixed_point"`
	Failures   int                `json:"failures,omitempty"`
}

func (o SolveOutput) String() string {
	var b strings.Builder
	if len(o.Derived) == 0 {
		b.WriteString("No new values derived.\n")
	}
	keys := make([]string, 0, len(o.Derived))
	for k := range o.Derived {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%-6s = %g  (%s)\n", k, o.Derived[k], symbol.Symbol(k).Name())
	}
	if o.Isp != nil {
		fmt.Fprintf(&b, "%-6s = %g s\n", "Isp", *o.Isp)
	}
	if !o.FixedPoint {
		fmt.Fprintf(&b, "Warning: stopped after %d passes without reaching a fixed point\n", o.Passes)
	}
	return b.String()
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InputOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve [SYMBOL=VALUE...]",
		Short: "Derive every value reachable from the inputs",
		Long: `Propagate known values through the nozzle relations.

Inputs come from a YAML, JSON or CUE document (--file) and from
SYMBOL=VALUE arguments, which override the file. A value of null marks
a symbol unknown.

Examples:
  nozzle solve Ma_e=3 gamma=1.4 T_s=3000
  nozzle solve -f design.yaml
  nozzle solve -f design.cue P_a=0 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "input document (.yaml, .yml, .json, .cue or - for stdin)")

	return cmd
}

func runSolve(opts *InputOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	inputs, err := readInputs(opts.File, args, cmd.InOrStdin())
	if err != nil {
		return outputInputError(formatter, err)
	}

	eng := opts.newEngine(opts.logger(cmd))
	report, err := eng.SolveReport(inputs)
	if err != nil {
		return outputInputError(formatter, err)
	}

	for _, step := range report.Steps {
		formatter.VerboseLog("  [pass %d] %s -> %s = %g", step.Pass, step.Relation, step.Symbol, step.Value)
	}
	for _, failure := range report.Failures {
		formatter.VerboseLog("  [pass %d] %s: %s not resolved: %v", failure.Pass, failure.Relation, failure.Symbol, failure.Err)
	}

	out := SolveOutput{
		Derived:    make(map[string]float64, len(report.Derived)),
		Passes:     report.Passes,
		FixedPoint: report.FixedPoint,
		Failures:   len(report.Failures),
	}
	for s, v := range report.Derived {
		out.Derived[string(s)] = v
	}
	if isp, ok := engine.SpecificImpulse(inputs, report.Derived); ok {
		out.Isp = &isp
	}
	return formatter.Success(out)
}

// readInputs loads the input document, overlays the argument assignments
// and decodes the result.
func readInputs(file string, args []string, stdin io.Reader) (engine.Inputs, error) {
	assignments, err := ParseAssignments(args)
	if err != nil {
		return nil, &engine.InvalidArgumentError{Reason: "bad argument", Err: err}
	}

	var doc any
	if file != "" {
		doc, err = LoadInputs(file, stdin)
		if err != nil {
			return nil, err
		}
	}
	return engine.DecodeInputs(mergeDocuments(doc, assignments))
}

// outputInputError reports a load or decode failure and maps it to an exit
// code. Unreadable files are command errors; malformed inputs are failures.
func outputInputError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return WrapExitError(ExitCommandError, "failed to load inputs", err)
	}
	if engine.IsInvalidArgument(err) {
		_ = formatter.Error(ErrCodeInvalidArgument, err.Error(), nil)
		return WrapExitError(ExitFailure, "invalid inputs", err)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitFailure, "command failed", err)
}
