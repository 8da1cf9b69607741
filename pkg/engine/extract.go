package engine

import (
	"time"

	"mercator-hq/callisto/pkg/engine/regex"
)

// ExtractPart searches the input for the leftmost match of its pattern and
// extracts the named capture group(s). Unlike a Decomposition it never
// anchors to the whole input; the anchor phrase ("Apt.", "Floor") is part of
// the pattern itself. An optional condition pattern gates whether this
// extraction applies to the input shape at all.
//
// Separating the condition from the extraction pattern lets a cheap
// existence check reject strategies that obviously don't apply before the
// potentially more expensive extraction pattern runs.
type ExtractPart struct {
	condition condition
	pattern   *regex.Pattern
	hooks     *Hooks
}

// NewExtractPart compiles an extract-part process. An empty conditionPattern
// means the extraction always applies; the parsing pattern must be non-empty.
func NewExtractPart(conditionPattern, pattern string) (*ExtractPart, error) {
	return newExtractPart(conditionPattern, pattern, 0, nil)
}

func newExtractPart(conditionPattern, pattern string, timeout time.Duration, hooks *Hooks) (*ExtractPart, error) {
	cond, err := newCondition(conditionPattern, hooks)
	if err != nil {
		return nil, err
	}
	p, err := regex.CompileWithTimeout(pattern, false, false, timeout)
	if err != nil {
		return nil, err
	}
	return &ExtractPart{condition: cond, pattern: p, hooks: hooks}, nil
}

// Parse implements Process.
func (e *ExtractPart) Parse(value string) Result {
	if !e.condition.holds(value) {
		return NoMatch()
	}
	captures, ok, err := e.pattern.Match(value)
	if err != nil {
		e.hooks.regexFailure(e.pattern.String(), err)
		return NoMatch()
	}
	if !ok {
		return NoMatch()
	}
	return NewMatch(captures)
}

// ExtractParts applies a sequence of ExtractPart processes in declared
// order. Unlike a Cascade it does not stop at the first success: every part
// is attempted and their captures accumulate, so a later part silently
// overwrites an earlier capture at the same field name (last writer wins).
// This enables extracting logically different fields (apartment, floor) from
// one input in a single pass.
type ExtractParts struct {
	condition condition
	parts     []*ExtractPart
}

// NewExtractParts compiles an extract-parts process over the given parts.
// An empty conditionPattern means the sequence always applies.
func NewExtractParts(conditionPattern string, parts []*ExtractPart) (*ExtractParts, error) {
	return newExtractParts(conditionPattern, parts, nil)
}

func newExtractParts(conditionPattern string, parts []*ExtractPart, hooks *Hooks) (*ExtractParts, error) {
	cond, err := newCondition(conditionPattern, hooks)
	if err != nil {
		return nil, err
	}
	return &ExtractParts{condition: cond, parts: parts}, nil
}

// Parse implements Process.
func (e *ExtractParts) Parse(value string) Result {
	if !e.condition.holds(value) {
		return NoMatch()
	}

	merged := make(map[string]string)
	matched := false
	for _, part := range e.parts {
		r := part.Parse(value)
		if !r.Matched() {
			continue
		}
		matched = true
		for name, v := range r.Fields() {
			merged[name] = v
		}
	}

	if !matched {
		return NoMatch()
	}
	return NewMatch(merged)
}
