package engine

import (
	"log/slog"

	"mercator-hq/callisto/pkg/engine/regex"
)

// Process is a parsing process: it parses an input string into a mapping of
// field name to captured substring, or fails.
//
// Parse is a pure function of the process's fixed configuration and the
// input. Processes carry no per-call state, so one instance may be invoked
// concurrently from multiple goroutines without synchronization. A failed
// match is the normal negative outcome (the absent Result), never an error.
type Process interface {
	Parse(value string) Result
}

// Hooks observe engine-level events during parsing. All fields are optional;
// a nil *Hooks is valid and ignores every event.
type Hooks struct {
	// Logger receives debug-level records for degraded matches.
	Logger *slog.Logger

	// OnRegexTimeout is invoked when a match attempt hits its timeout and is
	// degraded to no-match.
	OnRegexTimeout func(pattern string)
}

// regexFailure records a degraded match attempt. Address parsing is a
// best-effort enhancement, so engine failures never propagate to callers.
func (h *Hooks) regexFailure(pattern string, err error) {
	if h == nil {
		return
	}
	if h.Logger != nil {
		h.Logger.Debug("regex engine failure treated as no-match",
			"pattern", pattern,
			"error", err,
		)
	}
	if h.OnRegexTimeout != nil {
		h.OnRegexTimeout(pattern)
	}
}

// condition is an existence-only precondition gate shared by the gated
// process kinds. A nil pattern means "always applicable".
type condition struct {
	pattern *regex.Pattern
	hooks   *Hooks
}

// holds reports whether the process guarded by this condition applies to
// value. A timed-out condition check gates the process off.
func (c condition) holds(value string) bool {
	if c.pattern == nil {
		return true
	}
	ok, err := c.pattern.Test(value)
	if err != nil {
		c.hooks.regexFailure(c.pattern.String(), err)
		return false
	}
	return ok
}

// newCondition compiles an optional condition pattern. The empty string
// expresses the lack of a condition.
func newCondition(pattern string, hooks *Hooks) (condition, error) {
	if pattern == "" {
		return condition{hooks: hooks}, nil
	}
	p, err := regex.Compile(pattern)
	if err != nil {
		return condition{}, err
	}
	return condition{pattern: p, hooks: hooks}, nil
}
