package ast

// Grammar represents the root AST node for a Callisto grammar file.
// A grammar describes how unstructured address text for one or more output
// fields is decomposed into structured sub-field values.
type Grammar struct {
	// Metadata
	GrammarVersion string // Grammar language version (e.g., "1.0")
	Name           string // Grammar name (kebab-case)
	Version        string // Grammar version (semver)
	Description    string // Human-readable description
	Country        string // ISO 3166-1 alpha-2 country code (empty = generic)

	// Content
	Definitions map[string]*ProcessNode // Named reusable process definitions
	Fields      map[string]*ProcessNode // Root process per output field

	// Source tracking
	SourceFile string   // Path to the grammar file
	Location   Location // Source location
}

// GetDefinition returns the named definition, or nil if not found.
func (g *Grammar) GetDefinition(name string) *ProcessNode {
	return g.Definitions[name]
}

// HasDefinition returns true if the grammar defines a process with the given name.
func (g *Grammar) HasDefinition(name string) bool {
	_, ok := g.Definitions[name]
	return ok
}

// GetField returns the root process for the given output field, or nil if not found.
func (g *Grammar) GetField(name string) *ProcessNode {
	return g.Fields[name]
}

// HasField returns true if the grammar parses the given output field.
func (g *Grammar) HasField(name string) bool {
	_, ok := g.Fields[name]
	return ok
}

// FieldCount returns the number of output fields the grammar parses.
func (g *Grammar) FieldCount() int {
	return len(g.Fields)
}
