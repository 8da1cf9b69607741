package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"mercator-hq/callisto/pkg/cli"
	"mercator-hq/callisto/pkg/registry"
)

var grammarsFlags struct {
	dir    string
	format string
}

var grammarsCmd = &cobra.Command{
	Use:   "grammars",
	Short: "List grammars in a directory",
	Long: `List all grammars in a directory with their metadata and fields.

Every grammar file in the directory is parsed, validated, and compiled the
same way the server loads them, so a successful listing means the directory
is servable.

Examples:
  # List grammars in the default directory
  callisto grammars --dir grammars/

  # JSON output
  callisto grammars --dir grammars/ --format json`,
	RunE: listGrammars,
}

func init() {
	rootCmd.AddCommand(grammarsCmd)

	grammarsCmd.Flags().StringVarP(&grammarsFlags.dir, "dir", "d", "./grammars", "grammar directory")
	grammarsCmd.Flags().StringVar(&grammarsFlags.format, "format", "text", "output format: text, json")
}

func listGrammars(cmd *cobra.Command, args []string) error {
	reg, err := registry.New(&registry.Config{Dir: grammarsFlags.dir}, nil, nil)
	if err != nil {
		return cli.NewCommandError("grammars", err)
	}

	infos := reg.List()

	if grammarsFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, infos)
	}

	if len(infos) == 0 {
		fmt.Printf("no grammars found in %s\n", grammarsFlags.dir)
		return nil
	}

	for _, info := range infos {
		fmt.Printf("%s (v%s)\n", info.Name, info.Version)
		if info.Country != "" {
			fmt.Printf("  country: %s\n", info.Country)
		}
		if info.Description != "" {
			fmt.Printf("  description: %s\n", info.Description)
		}
		fmt.Printf("  fields: %s\n", strings.Join(info.Fields, ", "))
		fmt.Printf("  source: %s\n", info.SourceFile)
	}
	fmt.Printf("\n%d grammars loaded\n", len(infos))
	return nil
}
