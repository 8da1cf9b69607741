package engine

import (
	"time"

	"mercator-hq/callisto/pkg/engine/regex"
)

// Decomposition attempts to match the entire input (unless the anchor flags
// loosen either end) against one pattern, then extracts every named capture
// group that participated in the match.
type Decomposition struct {
	pattern *regex.Pattern
	hooks   *Hooks
}

// NewDecomposition compiles a decomposition process. The pattern must be
// non-empty; anchor flags control whether the match must start at the
// beginning of the input and consume through its end (both are conventionally
// true for full-line decomposition).
func NewDecomposition(pattern string, anchorBeginning, anchorEnd bool) (*Decomposition, error) {
	return newDecomposition(pattern, anchorBeginning, anchorEnd, 0, nil)
}

func newDecomposition(pattern string, anchorBeginning, anchorEnd bool, timeout time.Duration, hooks *Hooks) (*Decomposition, error) {
	p, err := regex.CompileWithTimeout(pattern, anchorBeginning, anchorEnd, timeout)
	if err != nil {
		return nil, err
	}
	return &Decomposition{pattern: p, hooks: hooks}, nil
}

// Parse implements Process.
func (d *Decomposition) Parse(value string) Result {
	captures, ok, err := d.pattern.Match(value)
	if err != nil {
		d.hooks.regexFailure(d.pattern.String(), err)
		return NoMatch()
	}
	if !ok {
		return NoMatch()
	}
	return NewMatch(captures)
}
