package validator

import (
	"fmt"
	"regexp"

	"mercator-hq/callisto/pkg/grammar/ast"
	grammarErrors "mercator-hq/callisto/pkg/grammar/errors"
)

var (
	// semverPattern validates semantic version strings (e.g., "1.0.0", "2.1.3")
	semverPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

	// kebabCasePattern validates kebab-case names (e.g., "br-street-address")
	kebabCasePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

	// countryPattern validates ISO 3166-1 alpha-2 country codes
	countryPattern = regexp.MustCompile(`^[A-Z]{2}$`)

	// supportedGrammarVersions defines which grammar language versions this
	// validator supports
	supportedGrammarVersions = map[string]bool{
		"1.0": true,
	}
)

// StructuralValidator validates the structural integrity of a grammar.
// It checks required metadata, naming conventions, reference resolution,
// cycle freedom, and kind/attribute coherence.
type StructuralValidator struct {
	errors *grammarErrors.ErrorList
}

// NewStructuralValidator creates a new structural validator.
func NewStructuralValidator() *StructuralValidator {
	return &StructuralValidator{
		errors: grammarErrors.NewErrorList(),
	}
}

// Validate performs structural validation on a grammar.
// It returns an ErrorList containing all structural errors found.
func (v *StructuralValidator) Validate(grammar *ast.Grammar) error {
	v.errors = grammarErrors.NewErrorList()

	v.validateMetadata(grammar)
	v.validateReferences(grammar)
	v.validateCycles(grammar)

	for name, node := range grammar.Definitions {
		v.validateNodeShape(node, fmt.Sprintf("definition %q", name))
	}
	for name, node := range grammar.Fields {
		v.validateNodeShape(node, fmt.Sprintf("field %q", name))
	}

	return v.errors.ToError()
}

// validateMetadata validates grammar metadata fields.
func (v *StructuralValidator) validateMetadata(grammar *ast.Grammar) {
	if grammar.GrammarVersion == "" {
		v.errors.AddErrorWithSuggestion(
			grammarErrors.ErrorTypeStructural,
			"Missing required field 'grammar_version'",
			grammar.Location,
			grammarErrors.SuggestMissingField("grammar_version", `"1.0"`),
		)
	} else if !supportedGrammarVersions[grammar.GrammarVersion] {
		v.errors.AddErrorWithSuggestion(
			grammarErrors.ErrorTypeStructural,
			fmt.Sprintf("Unsupported grammar version %q", grammar.GrammarVersion),
			grammar.Location,
			"Supported versions: 1.0",
		)
	}

	if grammar.Name == "" {
		v.errors.AddErrorWithSuggestion(
			grammarErrors.ErrorTypeStructural,
			"Missing required field 'name'",
			grammar.Location,
			grammarErrors.SuggestMissingField("name", "br-street-address"),
		)
	} else if !kebabCasePattern.MatchString(grammar.Name) {
		v.errors.AddErrorWithSuggestion(
			grammarErrors.ErrorTypeStructural,
			fmt.Sprintf("Grammar name %q is not kebab-case", grammar.Name),
			grammar.Location,
			"Use lowercase letters, digits, and hyphens (e.g. br-street-address)",
		)
	}

	if grammar.Version == "" {
		v.errors.AddErrorWithSuggestion(
			grammarErrors.ErrorTypeStructural,
			"Missing required field 'version'",
			grammar.Location,
			grammarErrors.SuggestMissingField("version", "1.0.0"),
		)
	} else if !semverPattern.MatchString(grammar.Version) {
		v.errors.AddError(
			grammarErrors.ErrorTypeStructural,
			fmt.Sprintf("Grammar version %q is not a semantic version", grammar.Version),
			grammar.Location,
		)
	}

	if grammar.Country != "" && !countryPattern.MatchString(grammar.Country) {
		v.errors.AddErrorWithSuggestion(
			grammarErrors.ErrorTypeStructural,
			fmt.Sprintf("Country %q is not an ISO 3166-1 alpha-2 code", grammar.Country),
			grammar.Location,
			"Use a two-letter uppercase code (e.g. BR, MX), or omit for a generic grammar",
		)
	}

	if len(grammar.Fields) == 0 {
		v.errors.AddErrorWithSuggestion(
			grammarErrors.ErrorTypeStructural,
			"Grammar declares no output fields",
			grammar.Location,
			"Add at least one entry under 'fields'",
		)
	}
}

// validateReferences checks that every ref resolves to a definition.
func (v *StructuralValidator) validateReferences(grammar *ast.Grammar) {
	check := func(node *ast.ProcessNode) {
		if node.IsRef() && !grammar.HasDefinition(node.Ref) {
			v.errors.AddErrorWithSuggestion(
				grammarErrors.ErrorTypeStructural,
				fmt.Sprintf("Unresolved reference %q", node.Ref),
				node.Location,
				grammarErrors.SuggestUnknownRef(node.Ref),
			)
		}
	}
	for _, node := range grammar.Definitions {
		walk(node, check)
	}
	for _, node := range grammar.Fields {
		walk(node, check)
	}
}

// validateCycles rejects definitions that reference themselves, directly or
// through a chain of other definitions.
func (v *StructuralValidator) validateCycles(grammar *ast.Grammar) {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(grammar.Definitions))

	var visit func(name string, loc ast.Location) bool
	visit = func(name string, loc ast.Location) bool {
		switch state[name] {
		case visiting:
			v.errors.AddError(
				grammarErrors.ErrorTypeStructural,
				fmt.Sprintf("Definition %q participates in a reference cycle", name),
				loc,
			)
			return false
		case done:
			return true
		}

		def := grammar.GetDefinition(name)
		if def == nil {
			// Reported by validateReferences.
			return true
		}

		state[name] = visiting
		ok := true
		walk(def, func(node *ast.ProcessNode) {
			if node.IsRef() && !visit(node.Ref, node.Location) {
				ok = false
			}
		})
		state[name] = done
		return ok
	}

	for name, def := range grammar.Definitions {
		visit(name, def.Location)
	}
}

// validateNodeShape checks that each node carries exactly the attributes its
// kind allows.
func (v *StructuralValidator) validateNodeShape(node *ast.ProcessNode, context string) {
	if node.IsRef() {
		return
	}

	addError := func(msg string) {
		v.errors.AddError(
			grammarErrors.ErrorTypeStructural,
			fmt.Sprintf("%s: %s", context, msg),
			node.Location,
		)
	}

	switch node.Kind {
	case ast.KindDecomposition:
		if node.Pattern == "" {
			addError("decomposition requires a non-empty pattern")
		}
		if node.Condition != "" {
			addError("decomposition does not take a condition; wrap it in a cascade")
		}
		if len(node.Alternatives) > 0 || len(node.Parts) > 0 {
			addError("decomposition does not take child processes")
		}

	case ast.KindExtractPart:
		if node.Pattern == "" {
			addError("extract_part requires a non-empty pattern")
		}
		if node.AnchorBeginning != nil || node.AnchorEnd != nil {
			addError("extract_part does not take anchor flags; it always searches within the input")
		}
		if len(node.Alternatives) > 0 || len(node.Parts) > 0 {
			addError("extract_part does not take child processes")
		}

	case ast.KindExtractParts:
		if len(node.Parts) == 0 {
			addError("extract_parts requires at least one part")
		}
		if node.Pattern != "" {
			addError("extract_parts does not take a pattern; patterns belong on its parts")
		}
		if len(node.Alternatives) > 0 {
			addError("extract_parts takes 'parts', not 'alternatives'")
		}

	case ast.KindCascade:
		if len(node.Alternatives) == 0 {
			addError("cascade requires at least one alternative")
		}
		if node.Pattern != "" {
			addError("cascade does not take a pattern; patterns belong on its alternatives")
		}
		if len(node.Parts) > 0 {
			addError("cascade takes 'alternatives', not 'parts'")
		}
	}

	for _, child := range node.Children() {
		v.validateNodeShape(child, context)
	}
}

// walk visits node and all descendants in declaration order.
func walk(node *ast.ProcessNode, fn func(*ast.ProcessNode)) {
	if node == nil {
		return
	}
	fn(node)
	for _, child := range node.Children() {
		walk(child, fn)
	}
}
