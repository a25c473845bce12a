package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

// RelationInfo describes one library relation.
type RelationInfo struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Station   string   `json:"station,omitempty"`
	Vars      []string `json:"vars"`
	Params    []string `json:"params"`
	Normalize bool     `json:"normalize,omitempty"`
}

// SymbolInfo is a symbol catalogue entry.
type SymbolInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Station  string `json:"station,omitempty"`
	Generic  bool   `json:"generic,omitempty"`
	Positive bool   `json:"positive"`
}

// RelationsOutput is the result of the relations command.
type RelationsOutput struct {
	Relations []RelationInfo     `json:"relations"`
	Constants map[string]float64 `json:"constants"`
	Symbols   []SymbolInfo       `json:"symbols"`
}

func (o RelationsOutput) String() string {
	var b strings.Builder
	for i, r := range o.Relations {
		fmt.Fprintf(&b, "%2d  %-28s %s\n", i, r.ID, strings.Join(r.Vars, " "))
	}
	if len(o.Constants) > 0 {
		keys := make([]string, 0, len(o.Constants))
		for k := range o.Constants {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\nConstants:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "    %s = %g\n", k, o.Constants[k])
		}
	}
	if len(o.Symbols) > 0 {
		b.WriteString("\nSymbols:\n")
		for _, s := range o.Symbols {
			fmt.Fprintf(&b, "    %-6s %s\n", s.Symbol, s.Name)
		}
	}
	return b.String()
}

// NewRelationsCommand creates the relations command.
func NewRelationsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "relations",
		Short: "List the relation library in scan order",
		Long: `List every relation with its declared variables, in the order
propagation scans them, followed by the library constants and the
catalogue of every symbol the library declares.

Examples:
  nozzle relations
  nozzle relations --stagnant-chamber --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelations(rootOpts, cmd)
		},
	}
}

func runRelations(opts *RootOptions, cmd *cobra.Command) error {
	lib := opts.library()
	rels := lib.Relations()

	out := RelationsOutput{
		Relations: make([]RelationInfo, 0, len(rels)),
		Constants: make(map[string]float64),
		Symbols:   librarySymbols(lib.Symbols()),
	}
	for _, rel := range rels {
		out.Relations = append(out.Relations, RelationInfo{
			ID:        string(rel.ID),
			Name:      rel.Name,
			Station:   string(rel.Station),
			Vars:      symbolStrings(rel.Vars),
			Params:    symbolStrings(rel.Params()),
			Normalize: rel.Normalize,
		})
	}
	for s, v := range lib.Constants() {
		out.Constants[string(s)] = v
	}
	return opts.formatter(cmd).Success(out)
}

// librarySymbols describes declared symbols in library order. Symbols the
// catalogue does not know are listed under their own name.
func librarySymbols(declared []symbol.Symbol) []SymbolInfo {
	out := make([]SymbolInfo, 0, len(declared))
	for _, s := range declared {
		info, ok := symbol.Lookup(s)
		if !ok {
			info = symbol.Info{Symbol: s, Name: string(s)}
		}
		out = append(out, symbolInfo(info))
	}
	return out
}

func symbolInfo(info symbol.Info) SymbolInfo {
	return SymbolInfo{
		Symbol:   string(info.Symbol),
		Name:     info.Name,
		Station:  string(info.Station),
		Generic:  info.Generic,
		Positive: symbol.Positive(info.Symbol),
	}
}
