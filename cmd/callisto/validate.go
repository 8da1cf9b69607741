package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"mercator-hq/callisto/pkg/cli"
	grammarErrors "mercator-hq/callisto/pkg/grammar/errors"
	"mercator-hq/callisto/pkg/grammar/parser"
	"mercator-hq/callisto/pkg/grammar/validator"
)

var validateFlags struct {
	file   string
	dir    string
	strict bool
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate grammar files",
	Long: `Validate grammar files for syntax and semantic errors.

The validate command parses grammar files and performs comprehensive checks:
  - YAML syntax validation
  - Structural validation (metadata, references, cycles, node shapes)
  - Semantic validation (pattern compilation, capture groups, part kinds)

Examples:
  # Validate a single file
  callisto validate --file grammars/street-address.yaml

  # Validate a directory
  callisto validate --dir grammars/

  # Strict mode (warnings as errors)
  callisto validate --file grammars/street-address.yaml --strict

  # JSON output for CI/CD
  callisto validate --file grammars/street-address.yaml --format json`,
	RunE: validateGrammars,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.file, "file", "f", "", "grammar file to validate")
	validateCmd.Flags().StringVarP(&validateFlags.dir, "dir", "d", "", "directory of grammar files")
	validateCmd.Flags().BoolVar(&validateFlags.strict, "strict", false, "treat warnings as errors")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

// ValidationResult represents the validation result for a single grammar file.
type ValidationResult struct {
	File     string            `json:"file"`
	Valid    bool              `json:"valid"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
	Warnings []ValidationIssue `json:"warnings,omitempty"`
}

// ValidationIssue represents a single validation error or warning.
type ValidationIssue struct {
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Type     string `json:"type,omitempty"`
}

func validateGrammars(cmd *cobra.Command, args []string) error {
	if validateFlags.file == "" && validateFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if validateFlags.file != "" {
		files = append(files, validateFlags.file)
	}
	if validateFlags.dir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(validateFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list grammar files: %w", err)
			}
			files = append(files, matches...)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no grammar files found")
	}

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validateGrammarFile(file))
	}

	if validateFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, results)
	}
	return printValidationResults(results, validateFlags.strict)
}

func validateGrammarFile(path string) ValidationResult {
	result := ValidationResult{File: path, Valid: true}

	g, err := parser.NewParser().Parse(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, issuesFromError(err)...)
		return result
	}

	v := validator.NewValidator()
	if err := v.Validate(g); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, issuesFromError(err)...)
	}
	for _, w := range v.Warnings() {
		result.Warnings = append(result.Warnings, ValidationIssue{
			Line:     w.Location.Line,
			Column:   w.Location.Column,
			Message:  w.Message,
			Severity: "warning",
		})
	}

	return result
}

// issuesFromError flattens a grammar error list into validation issues,
// preserving source locations where available.
func issuesFromError(err error) []ValidationIssue {
	var list *grammarErrors.ErrorList
	if errors.As(err, &list) {
		issues := make([]ValidationIssue, 0, list.Count())
		for _, e := range list.Errors {
			issues = append(issues, ValidationIssue{
				Line:     e.Location.Line,
				Column:   e.Location.Column,
				Message:  e.Message,
				Severity: "error",
				Type:     string(e.Type),
			})
		}
		return issues
	}

	var single *grammarErrors.Error
	if errors.As(err, &single) {
		return []ValidationIssue{{
			Line:     single.Location.Line,
			Column:   single.Location.Column,
			Message:  single.Message,
			Severity: "error",
			Type:     string(single.Type),
		}}
	}

	return []ValidationIssue{{Message: err.Error(), Severity: "error"}}
}

func printValidationResults(results []ValidationResult, strict bool) error {
	var errorCount, warningCount int

	for _, result := range results {
		if result.Valid && len(result.Warnings) == 0 {
			fmt.Printf("✓ %s\n", result.File)
			continue
		}

		if result.Valid {
			fmt.Printf("! %s\n", result.File)
		} else {
			fmt.Printf("✗ %s\n", result.File)
		}
		for _, issue := range result.Errors {
			errorCount++
			printIssue(issue)
		}
		for _, issue := range result.Warnings {
			warningCount++
			printIssue(issue)
		}
	}

	fmt.Printf("\n%d files checked, %d errors, %d warnings\n", len(results), errorCount, warningCount)

	if errorCount > 0 {
		return fmt.Errorf("validation failed with %d errors", errorCount)
	}
	if strict && warningCount > 0 {
		return fmt.Errorf("validation failed with %d warnings (strict mode)", warningCount)
	}
	return nil
}

func printIssue(issue ValidationIssue) {
	location := ""
	if issue.Line > 0 {
		location = fmt.Sprintf("%d:%d: ", issue.Line, issue.Column)
	}
	fmt.Printf("    %s%s: %s\n", location, issue.Severity, issue.Message)
}
