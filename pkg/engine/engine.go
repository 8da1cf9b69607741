package engine

import "sort"

// Engine is a compiled grammar: one immutable process tree per output
// field. Engines are built once by a Compiler and are safe for concurrent
// Parse calls without synchronization; they carry no per-call state.
type Engine struct {
	name        string
	version     string
	country     string
	description string
	fields      map[string]Process
}

// Name returns the grammar name.
func (e *Engine) Name() string { return e.name }

// Version returns the grammar version.
func (e *Engine) Version() string { return e.version }

// Country returns the grammar's country code, or "" for a generic grammar.
func (e *Engine) Country() string { return e.country }

// Description returns the grammar description.
func (e *Engine) Description() string { return e.description }

// Fields returns the output fields the engine can parse, sorted by name.
func (e *Engine) Fields() []string {
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Process returns the root process for an output field.
func (e *Engine) Process(field string) (Process, bool) {
	p, ok := e.fields[field]
	return p, ok
}

// Parse runs the process tree for the given output field over value.
// The only error condition is an unknown field; a failed match is the
// normal absent Result.
func (e *Engine) Parse(field, value string) (Result, error) {
	p, ok := e.fields[field]
	if !ok {
		return NoMatch(), &UnknownFieldError{Grammar: e.name, Field: field}
	}
	return p.Parse(value), nil
}
