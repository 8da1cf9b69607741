package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"mercator-hq/callisto/pkg/cli"
	"mercator-hq/callisto/pkg/engine"
	"mercator-hq/callisto/pkg/grammar"
)

var parseFlags struct {
	grammarFile string
	field       string
	format      string
}

var parseCmd = &cobra.Command{
	Use:   "parse [value]",
	Short: "Parse a value against a grammar field",
	Long: `Parse a value against a field of a grammar file.

The grammar file is parsed, validated, and compiled, then the value is run
through the field's process tree. Captured field values are printed on a
match.

Examples:
  # Parse a street address
  callisto parse --grammar grammars/street-address.yaml --field street-address "123 Main St Apt 4"

  # JSON output for scripting
  callisto parse --grammar grammars/street-address.yaml --field street-address --format json "123 Main St"`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseFlags.grammarFile, "grammar", "g", "", "grammar file (required)")
	parseCmd.Flags().StringVarP(&parseFlags.field, "field", "f", "", "field to parse against (required)")
	parseCmd.Flags().StringVar(&parseFlags.format, "format", "text", "output format: text, json")
	_ = parseCmd.MarkFlagRequired("grammar")
	_ = parseCmd.MarkFlagRequired("field")
}

// parseResult is the JSON shape of a parse command result.
type parseResult struct {
	Grammar string            `json:"grammar"`
	Field   string            `json:"field"`
	Matched bool              `json:"matched"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	g, warnings, err := grammar.ParseAndValidate(parseFlags.grammarFile)
	if err != nil {
		return cli.NewCommandError("parse", err)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.Message)
	}

	eng, err := engine.NewCompiler(nil, nil).Compile(g)
	if err != nil {
		return cli.NewCommandError("parse", err)
	}

	result, err := eng.Parse(parseFlags.field, args[0])
	if err != nil {
		return cli.NewCommandError("parse", err)
	}

	out := parseResult{
		Grammar: eng.Name(),
		Field:   parseFlags.field,
		Matched: result.Matched(),
	}
	if result.Matched() {
		out.Fields = result.Fields()
	}

	if parseFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, out)
	}

	if !out.Matched {
		fmt.Println("no match")
		return nil
	}
	fmt.Println("matched")
	names := make([]string, 0, len(out.Fields))
	for name := range out.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %s\n", name, out.Fields[name])
	}
	return nil
}
