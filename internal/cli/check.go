package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

// CheckOutput is the result of the check command.
type CheckOutput struct {
	Derivable []string `json:"derivable"`
	Redundant []string `json:"redundant"`
	Passes    int      `json:"passes"`
}

func (o CheckOutput) String() string {
	return fmt.Sprintf("Derivable: %s\nRedundant: %s\n", listOrNone(o.Derivable), listOrNone(o.Redundant))
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InputOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [SYMBOL=VALUE...]",
		Short: "Report derivable and over-constrained symbols without solving",
		Long: `Run a structural dry run over the inputs.

Derivable lists symbols propagation would fill in. Redundant lists
symbols that would over-constrain at least one relation if supplied.
No residual is evaluated, so the check is cheap and never fails on
numerics.

Examples:
  nozzle check Ma_e=3 gamma=1.4 P_s=2e6 P_e=54447
  nozzle check -f design.yaml --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "input document (.yaml, .yml, .json, .cue or - for stdin)")

	return cmd
}

func runCheck(opts *InputOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	inputs, err := readInputs(opts.File, args, cmd.InOrStdin())
	if err != nil {
		return outputInputError(formatter, err)
	}

	constraints, err := opts.newEngine(opts.logger(cmd)).CheckConstraints(inputs)
	if err != nil {
		return outputInputError(formatter, err)
	}

	return formatter.Success(CheckOutput{
		Derivable: symbolStrings(constraints.Derivable),
		Redundant: symbolStrings(constraints.Redundant),
		Passes:    constraints.Passes,
	})
}

func symbolStrings(syms []symbol.Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = string(s)
	}
	return out
}
