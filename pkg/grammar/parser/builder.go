package parser

import (
	"fmt"

	"mercator-hq/callisto/pkg/grammar/ast"
	grammarErrors "mercator-hq/callisto/pkg/grammar/errors"
)

// builder constructs AST nodes from intermediate YAML structures.
// It handles shape checking (a node is a ref or a concrete process, never
// both), depth limits, and preserves source locations.
type builder struct {
	sourcePath string
	maxDepth   int
	errors     *grammarErrors.ErrorList
}

// newBuilder creates a new AST builder for the given source file.
func newBuilder(sourcePath string, maxDepth int) *builder {
	return &builder{
		sourcePath: sourcePath,
		maxDepth:   maxDepth,
		errors:     grammarErrors.NewErrorList(),
	}
}

// buildGrammar transforms a yamlGrammar into an ast.Grammar.
func (b *builder) buildGrammar(yg *yamlGrammar) (*ast.Grammar, error) {
	grammar := &ast.Grammar{
		GrammarVersion: yg.GrammarVersion,
		Name:           yg.Name,
		Version:        yg.Version,
		Description:    yg.Description,
		Country:        yg.Country,
		Definitions:    make(map[string]*ast.ProcessNode, len(yg.Definitions)),
		Fields:         make(map[string]*ast.ProcessNode, len(yg.Fields)),
		SourceFile:     b.sourcePath,
		Location: ast.Location{
			File:   b.sourcePath,
			Line:   1,
			Column: 1,
		},
	}

	for name, yp := range yg.Definitions {
		node, err := b.buildProcess(&yp, 0)
		if err != nil {
			b.errors.AddError(grammarErrors.ErrorTypeStructural,
				fmt.Sprintf("Invalid definition %q: %v", name, err),
				b.location(&yp))
			continue
		}
		grammar.Definitions[name] = node
	}

	for name, yp := range yg.Fields {
		node, err := b.buildProcess(&yp, 0)
		if err != nil {
			b.errors.AddError(grammarErrors.ErrorTypeStructural,
				fmt.Sprintf("Invalid field %q: %v", name, err),
				b.location(&yp))
			continue
		}
		grammar.Fields[name] = node
	}

	if b.errors.HasErrors() {
		return nil, b.errors
	}

	return grammar, nil
}

// buildProcess transforms a yamlProcess into an ast.ProcessNode.
func (b *builder) buildProcess(yp *yamlProcess, depth int) (*ast.ProcessNode, error) {
	if depth > b.maxDepth {
		return nil, fmt.Errorf("process nesting exceeds maximum depth %d", b.maxDepth)
	}

	node := &ast.ProcessNode{
		Kind:            ast.ProcessKind(yp.Kind),
		Ref:             yp.Ref,
		Pattern:         yp.Pattern,
		Condition:       yp.Condition,
		AnchorBeginning: yp.AnchorBeginning,
		AnchorEnd:       yp.AnchorEnd,
		Location:        b.location(yp),
	}

	if yp.Ref != "" {
		if yp.Kind != "" || yp.Pattern != "" || yp.Condition != "" ||
			len(yp.Alternatives) > 0 || len(yp.Parts) > 0 {
			return nil, fmt.Errorf("a ref node must not carry other fields")
		}
		return node, nil
	}

	if yp.Kind == "" {
		return nil, fmt.Errorf("missing 'kind' (or 'ref')")
	}
	if !ast.ValidKind(node.Kind) {
		return nil, fmt.Errorf("unknown kind: %s", grammarErrors.SuggestUnknownKind(yp.Kind))
	}

	for i := range yp.Alternatives {
		child, err := b.buildProcess(&yp.Alternatives[i], depth+1)
		if err != nil {
			return nil, fmt.Errorf("invalid alternative at index %d: %w", i, err)
		}
		node.Alternatives = append(node.Alternatives, child)
	}

	for i := range yp.Parts {
		child, err := b.buildProcess(&yp.Parts[i], depth+1)
		if err != nil {
			return nil, fmt.Errorf("invalid part at index %d: %w", i, err)
		}
		node.Parts = append(node.Parts, child)
	}

	return node, nil
}

func (b *builder) location(yp *yamlProcess) ast.Location {
	line, column := yp.line, yp.column
	if line == 0 {
		line, column = 1, 1
	}
	return ast.Location{
		File:   b.sourcePath,
		Line:   line,
		Column: column,
	}
}
