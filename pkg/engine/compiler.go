package engine

import (
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/callisto/pkg/grammar/ast"
)

// CompilerConfig contains configuration for grammar compilation.
type CompilerConfig struct {
	// MatchTimeout bounds every match attempt made by the compiled engine.
	// Default: regex.DefaultMatchTimeout
	MatchTimeout time.Duration

	// OnRegexTimeout is invoked whenever a match attempt in the compiled
	// engine hits the timeout and degrades to no-match. Optional.
	OnRegexTimeout func(pattern string)
}

// Compiler transforms validated grammar ASTs into immutable process trees.
//
// The compiler is the arena for the trees it builds: it owns every compiled
// node, and a named definition referenced from several places compiles to a
// single shared instance. Sharing is safe because processes are stateless
// after construction.
type Compiler struct {
	config *CompilerConfig
	logger *slog.Logger
}

// NewCompiler creates a compiler. A nil config uses defaults; a nil logger
// falls back to slog.Default().
func NewCompiler(config *CompilerConfig, logger *slog.Logger) *Compiler {
	if config == nil {
		config = &CompilerConfig{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{
		config: config,
		logger: logger.With("component", "engine.compiler"),
	}
}

// Compile builds an Engine from a grammar AST. It rejects malformed grammars
// (empty patterns, unresolved or cyclic references, kind violations) with a
// *CompileError; a grammar that passed pkg/grammar/validator will compile.
func (c *Compiler) Compile(g *ast.Grammar) (*Engine, error) {
	hooks := &Hooks{
		Logger:         c.logger.With("grammar", g.Name),
		OnRegexTimeout: c.config.OnRegexTimeout,
	}

	cc := &compilation{
		grammar:  g,
		timeout:  c.config.MatchTimeout,
		hooks:    hooks,
		compiled: make(map[string]Process, len(g.Definitions)),
		building: make(map[string]bool),
	}

	fields := make(map[string]Process, len(g.Fields))
	for name, node := range g.Fields {
		p, err := cc.compileNode(node, name)
		if err != nil {
			return nil, err
		}
		fields[name] = p
	}

	c.logger.Debug("grammar compiled",
		"grammar", g.Name,
		"version", g.Version,
		"fields", len(fields),
		"definitions", len(g.Definitions),
	)

	return &Engine{
		name:        g.Name,
		version:     g.Version,
		country:     g.Country,
		description: g.Description,
		fields:      fields,
	}, nil
}

// compilation carries the per-grammar state of one Compile call.
type compilation struct {
	grammar  *ast.Grammar
	timeout  time.Duration
	hooks    *Hooks
	compiled map[string]Process // definition name -> shared instance
	building map[string]bool    // cycle detection across refs
}

func (cc *compilation) compileNode(node *ast.ProcessNode, field string) (Process, error) {
	if node == nil {
		return nil, cc.errorf(field, ast.Location{}, "missing process node")
	}

	if node.IsRef() {
		return cc.compileRef(node, field)
	}

	switch node.Kind {
	case ast.KindDecomposition:
		return cc.compileDecomposition(node, field)
	case ast.KindExtractPart:
		return cc.compileExtractPart(node, field)
	case ast.KindExtractParts:
		return cc.compileExtractParts(node, field)
	case ast.KindCascade:
		return cc.compileCascade(node, field)
	default:
		return nil, cc.errorf(field, node.Location, "unknown process kind %q", node.Kind)
	}
}

func (cc *compilation) compileRef(node *ast.ProcessNode, field string) (Process, error) {
	if p, ok := cc.compiled[node.Ref]; ok {
		return p, nil
	}
	if cc.building[node.Ref] {
		return nil, cc.errorf(field, node.Location, "definition %q references itself (directly or through a cycle)", node.Ref)
	}

	def := cc.grammar.GetDefinition(node.Ref)
	if def == nil {
		return nil, cc.errorf(field, node.Location, "unresolved reference %q", node.Ref)
	}

	cc.building[node.Ref] = true
	p, err := cc.compileNode(def, field)
	delete(cc.building, node.Ref)
	if err != nil {
		return nil, err
	}

	cc.compiled[node.Ref] = p
	return p, nil
}

func (cc *compilation) compileDecomposition(node *ast.ProcessNode, field string) (Process, error) {
	if node.Pattern == "" {
		return nil, cc.errorf(field, node.Location, "decomposition requires a non-empty pattern")
	}
	d, err := newDecomposition(node.Pattern, node.AnchorsBeginning(), node.AnchorsEnd(), cc.timeout, cc.hooks)
	if err != nil {
		return nil, cc.wrap(field, node.Location, err)
	}
	return d, nil
}

func (cc *compilation) compileExtractPart(node *ast.ProcessNode, field string) (Process, error) {
	if node.Pattern == "" {
		return nil, cc.errorf(field, node.Location, "extract_part requires a non-empty pattern")
	}
	e, err := newExtractPart(node.Condition, node.Pattern, cc.timeout, cc.hooks)
	if err != nil {
		return nil, cc.wrap(field, node.Location, err)
	}
	return e, nil
}

func (cc *compilation) compileExtractParts(node *ast.ProcessNode, field string) (Process, error) {
	if len(node.Parts) == 0 {
		return nil, cc.errorf(field, node.Location, "extract_parts requires at least one part")
	}

	parts := make([]*ExtractPart, 0, len(node.Parts))
	for i, child := range node.Parts {
		p, err := cc.compileNode(child, field)
		if err != nil {
			return nil, err
		}
		part, ok := p.(*ExtractPart)
		if !ok {
			return nil, cc.errorf(field, child.Location, "extract_parts part %d must be an extract_part", i)
		}
		parts = append(parts, part)
	}

	e, err := newExtractParts(node.Condition, parts, cc.hooks)
	if err != nil {
		return nil, cc.wrap(field, node.Location, err)
	}
	return e, nil
}

func (cc *compilation) compileCascade(node *ast.ProcessNode, field string) (Process, error) {
	if len(node.Alternatives) == 0 {
		return nil, cc.errorf(field, node.Location, "cascade requires at least one alternative")
	}

	alternatives := make([]Process, 0, len(node.Alternatives))
	for _, child := range node.Alternatives {
		p, err := cc.compileNode(child, field)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, p)
	}

	cas, err := newCascade(node.Condition, alternatives, cc.hooks)
	if err != nil {
		return nil, cc.wrap(field, node.Location, err)
	}
	return cas, nil
}

func (cc *compilation) errorf(field string, loc ast.Location, format string, args ...any) *CompileError {
	return &CompileError{
		Grammar:  cc.grammar.Name,
		Field:    field,
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
	}
}

func (cc *compilation) wrap(field string, loc ast.Location, err error) *CompileError {
	return &CompileError{
		Grammar:  cc.grammar.Name,
		Field:    field,
		Location: loc,
		Message:  "pattern compilation failed",
		Err:      err,
	}
}
