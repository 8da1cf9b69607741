package validator

import (
	"fmt"
	"strings"

	"mercator-hq/callisto/pkg/engine/regex"
	"mercator-hq/callisto/pkg/grammar/ast"
	grammarErrors "mercator-hq/callisto/pkg/grammar/errors"
)

// SemanticValidator validates the meaning of a structurally sound grammar:
// every pattern compiles, extraction patterns declare named capture groups,
// and extract_parts children resolve to extract_part processes. It also
// collects authoring warnings, such as sibling parts capturing the same
// field name (decided by the engine's last-writer-wins merge).
type SemanticValidator struct {
	errors   *grammarErrors.ErrorList
	warnings []Warning
}

// NewSemanticValidator creates a new semantic validator.
func NewSemanticValidator() *SemanticValidator {
	return &SemanticValidator{
		errors: grammarErrors.NewErrorList(),
	}
}

// Validate performs semantic validation on a grammar.
// It returns an ErrorList containing all semantic errors found.
func (v *SemanticValidator) Validate(grammar *ast.Grammar) error {
	v.errors = grammarErrors.NewErrorList()
	v.warnings = nil

	for name, node := range grammar.Definitions {
		v.validateNode(grammar, node, fmt.Sprintf("definition %q", name))
	}
	for name, node := range grammar.Fields {
		v.validateNode(grammar, node, fmt.Sprintf("field %q", name))
	}

	return v.errors.ToError()
}

// Warnings returns the non-fatal findings from the most recent Validate call.
func (v *SemanticValidator) Warnings() []Warning {
	return v.warnings
}

func (v *SemanticValidator) validateNode(grammar *ast.Grammar, node *ast.ProcessNode, context string) {
	if node.IsRef() {
		return
	}

	switch node.Kind {
	case ast.KindDecomposition:
		v.validateParsingPattern(node, context, true)

	case ast.KindExtractPart:
		v.validateConditionPattern(node, context)
		v.validateParsingPattern(node, context, false)

	case ast.KindExtractParts:
		v.validateConditionPattern(node, context)
		v.validatePartKinds(grammar, node, context)
		v.warnDuplicateCaptures(grammar, node, context)

	case ast.KindCascade:
		v.validateConditionPattern(node, context)
	}

	for _, child := range node.Children() {
		v.validateNode(grammar, child, context)
	}
}

// validateParsingPattern checks a parsing pattern compiles and declares
// named capture groups. Anchored is true for decomposition patterns, whose
// anchor wrapping participates in compilation.
func (v *SemanticValidator) validateParsingPattern(node *ast.ProcessNode, context string, anchored bool) {
	if node.Pattern == "" {
		// Reported structurally.
		return
	}

	var p *regex.Pattern
	var err error
	if anchored {
		p, err = regex.CompileAnchored(node.Pattern, node.AnchorsBeginning(), node.AnchorsEnd())
	} else {
		p, err = regex.Compile(node.Pattern)
	}
	if err != nil {
		v.errors.AddError(
			grammarErrors.ErrorTypeSemantic,
			fmt.Sprintf("%s: invalid pattern: %v", context, err),
			node.Location,
		)
		return
	}

	if len(p.GroupNames()) == 0 {
		v.errors.AddErrorWithSuggestion(
			grammarErrors.ErrorTypeSemantic,
			fmt.Sprintf("%s: pattern %q declares no named capture groups", context, node.Pattern),
			node.Location,
			"Name the substrings to extract, e.g. (?P<house_number>\\d+)",
		)
	}
}

func (v *SemanticValidator) validateConditionPattern(node *ast.ProcessNode, context string) {
	if node.Condition == "" {
		return
	}
	if _, err := regex.Compile(node.Condition); err != nil {
		v.errors.AddError(
			grammarErrors.ErrorTypeSemantic,
			fmt.Sprintf("%s: invalid condition: %v", context, err),
			node.Location,
		)
	}
}

// validatePartKinds ensures every extract_parts child resolves to an
// extract_part, following references through the definitions.
func (v *SemanticValidator) validatePartKinds(grammar *ast.Grammar, node *ast.ProcessNode, context string) {
	for i, part := range node.Parts {
		resolved := resolve(grammar, part)
		if resolved == nil {
			// Unresolved refs are reported structurally.
			continue
		}
		if resolved.Kind != ast.KindExtractPart {
			v.errors.AddError(
				grammarErrors.ErrorTypeSemantic,
				fmt.Sprintf("%s: extract_parts part %d resolves to %q, want extract_part", context, i, resolved.Kind),
				part.Location,
			)
		}
	}
}

// warnDuplicateCaptures flags sibling parts that capture the same field
// name. The engine resolves the collision with last-writer-wins; the
// warning puts the collision in front of the grammar author instead of
// assuming it was intended.
func (v *SemanticValidator) warnDuplicateCaptures(grammar *ast.Grammar, node *ast.ProcessNode, context string) {
	seen := make(map[string]int) // capture name -> first declaring part index
	for i, part := range node.Parts {
		resolved := resolve(grammar, part)
		if resolved == nil || resolved.Pattern == "" {
			continue
		}
		p, err := regex.Compile(resolved.Pattern)
		if err != nil {
			continue
		}
		for _, name := range p.GroupNames() {
			if first, dup := seen[name]; dup {
				v.warnings = append(v.warnings, Warning{
					Message: fmt.Sprintf("%s: parts %d and %d both capture %q; the later part wins when both match",
						context, first, i, name),
					Location: part.Location,
				})
				continue
			}
			seen[name] = i
		}
	}
}

// resolve follows references to the underlying concrete node. Returns nil
// for unresolved references.
func resolve(grammar *ast.Grammar, node *ast.ProcessNode) *ast.ProcessNode {
	seen := make(map[string]bool)
	for node != nil && node.IsRef() {
		if seen[node.Ref] {
			return nil // cycle, reported structurally
		}
		seen[node.Ref] = true
		node = grammar.GetDefinition(node.Ref)
	}
	return node
}

// DescribeWarnings formats warnings for CLI display, one per line.
func DescribeWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, w := range warnings {
		sb.WriteString(fmt.Sprintf("warning: %s", w.Message))
		if w.Location.IsValid() {
			sb.WriteString(fmt.Sprintf(" (%s)", w.Location))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
