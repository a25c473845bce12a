package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/BCalow/engine-initial-variables/internal/engine"
	"github.com/BCalow/engine-initial-variables/internal/relation"
	"github.com/BCalow/engine-initial-variables/internal/rootfind"
	"github.com/BCalow/engine-initial-variables/internal/symbol"
	"github.com/BCalow/engine-initial-variables/internal/traceid"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose         bool
	Format          string // "json" | "text"
	ConfigPath      string
	MaxPasses       int
	StagnantChamber bool

	// Config is the effective configuration: file values overlaid with
	// flags set on the command line. Filled by PersistentPreRunE.
	Config Config

	// TraceIDs stamps every command response.
	TraceIDs traceid.Generator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the nozzle CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{TraceIDs: traceid.UUIDv7Generator{}})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nozzle",
		Short: "Nozzle flow propagation",
		Long: `Derive nozzle flow quantities from a partial set of known values.

Known values are propagated through the isentropic nozzle relations until
nothing new can be derived. The dry-run check reports which inputs would
be derived and which are over-constrained.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.loadConfig(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to an INI config file")
	cmd.PersistentFlags().IntVar(&opts.MaxPasses, "max-passes", engine.DefaultMaxPasses, "propagation pass cap")
	cmd.PersistentFlags().BoolVar(&opts.StagnantChamber, "stagnant-chamber", false, "treat chamber state as stagnation state")

	// Add subcommands
	cmd.AddCommand(NewSolveCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewRelationsCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// loadConfig reads the config file and applies flags that were set
// explicitly.
func (o *RootOptions) loadConfig(cmd *cobra.Command) error {
	cfg, err := LoadConfig(o.ConfigPath)
	if err != nil {
		formatter := o.formatter(cmd)
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	flags := cmd.Flags()
	if flags.Changed("max-passes") {
		if o.MaxPasses < 1 {
			return NewExitError(ExitCommandError, fmt.Sprintf("--max-passes must be at least 1, got %d", o.MaxPasses))
		}
		cfg.MaxPasses = o.MaxPasses
	}
	if flags.Changed("stagnant-chamber") {
		cfg.StagnantChamber = o.StagnantChamber
	}
	o.Config = cfg
	return nil
}

// logger returns a text logger on stderr. Engine resolutions are logged at
// debug level, so they only show with --verbose.
func (o *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	logLevel := slog.LevelInfo
	if o.Verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// library builds the relation library the config selects.
func (o *RootOptions) library() *relation.Library {
	var opts []relation.Option
	if o.Config.StagnantChamber {
		opts = append(opts, relation.WithStagnantChamber())
	}
	for s, v := range o.Config.Constants {
		opts = append(opts, relation.WithConstant(symbol.Symbol(s), v))
	}
	return relation.Default(opts...)
}

// newEngine builds a propagation engine from the effective config.
func (o *RootOptions) newEngine(logger *slog.Logger) *engine.Engine {
	return engine.New(o.library(),
		engine.WithMaxPasses(o.Config.MaxPasses),
		engine.WithTolerance(o.Config.RelTol, o.Config.AbsTol),
		engine.WithRootFindOptions(
			rootfind.WithMaxIterations(o.Config.RootMaxIterations),
			rootfind.WithTolerance(o.Config.RootXTol, o.Config.RootFTol),
			rootfind.WithAcceptTolerance(o.Config.RootAcceptTol),
		),
		engine.WithLogger(logger),
	)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	f := &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
	if o.TraceIDs != nil {
		f.TraceID = o.TraceIDs.Generate()
	}
	return f
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
