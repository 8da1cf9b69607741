package grammar

import (
	"mercator-hq/callisto/pkg/grammar/ast"
	"mercator-hq/callisto/pkg/grammar/parser"
	"mercator-hq/callisto/pkg/grammar/validator"
)

// ParseAndValidate is a convenience function that parses and validates a
// grammar file. It returns the parsed AST if successful, or an error if
// parsing or validation fails. Validation warnings are returned alongside
// the AST.
func ParseAndValidate(path string) (*ast.Grammar, []validator.Warning, error) {
	p := parser.NewParser()
	g, err := p.Parse(path)
	if err != nil {
		return nil, nil, err
	}

	v := validator.NewValidator()
	if err := v.Validate(g); err != nil {
		return nil, nil, err
	}

	return g, v.Warnings(), nil
}

// ParseAndValidateBytes is a convenience function that parses and validates
// grammar YAML from bytes.
func ParseAndValidateBytes(data []byte, sourcePath string) (*ast.Grammar, []validator.Warning, error) {
	p := parser.NewParser()
	g, err := p.ParseBytes(data, sourcePath)
	if err != nil {
		return nil, nil, err
	}

	v := validator.NewValidator()
	if err := v.Validate(g); err != nil {
		return nil, nil, err
	}

	return g, v.Warnings(), nil
}

// Parse parses a grammar file without validation.
// Use this if you want to inspect the AST before validation.
func Parse(path string) (*ast.Grammar, error) {
	return parser.NewParser().Parse(path)
}

// Validate validates a parsed grammar.
func Validate(g *ast.Grammar) error {
	return validator.NewValidator().Validate(g)
}
