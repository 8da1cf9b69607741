package engine

import (
	"fmt"

	"mercator-hq/callisto/pkg/grammar/ast"
)

// CompileError reports a malformed grammar detected while building the
// process tree. Grammars are developer-authored constants, so this is a
// programming error surfaced at startup, never a parse-time condition.
type CompileError struct {
	Grammar  string       // Grammar name
	Field    string       // Output field being compiled (may be empty)
	Location ast.Location // Offending node's source location
	Message  string       // What went wrong
	Err      error        // Underlying cause (e.g. regex compile failure)
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("grammar %q: %s", e.Grammar, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("grammar %q, field %q: %s", e.Grammar, e.Field, e.Message)
	}
	if e.Location.IsValid() {
		msg += fmt.Sprintf(" (at %s)", e.Location)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// UnknownFieldError is returned by Engine.Parse for a field the grammar does
// not declare.
type UnknownFieldError struct {
	Grammar string
	Field   string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("grammar %q does not parse field %q", e.Grammar, e.Field)
}
