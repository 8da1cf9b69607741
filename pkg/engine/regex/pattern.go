package regex

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultMatchTimeout bounds a single match attempt. Address fragments are
// short, so any pattern that takes this long is backtracking pathologically
// and should be treated as a failed match rather than stalling the caller.
const DefaultMatchTimeout = 250 * time.Millisecond

// Pattern is a compiled parsing pattern with named capture groups.
// A Pattern is immutable after compilation and safe for concurrent use;
// regexp2 allocates match state per call.
type Pattern struct {
	source     string
	re         *regexp2.Regexp
	groupNames []string
}

// Compile compiles a pattern for unanchored (search-anywhere) matching.
// The pattern uses RE2-style syntax, including (?P<name>...) capture groups.
func Compile(pattern string) (*Pattern, error) {
	return compile(pattern, false, false, DefaultMatchTimeout)
}

// CompileAnchored compiles a pattern that must match from the beginning of
// the input and/or through its end, depending on the anchor flags. Anchoring
// is applied at compile time by wrapping the pattern in \A(?:...)\z, which
// sidesteps rune/byte offset mismatches in post-hoc position checks.
func CompileAnchored(pattern string, anchorBeginning, anchorEnd bool) (*Pattern, error) {
	return compile(pattern, anchorBeginning, anchorEnd, DefaultMatchTimeout)
}

// CompileWithTimeout is CompileAnchored with an explicit match timeout.
// A zero or negative timeout falls back to DefaultMatchTimeout.
func CompileWithTimeout(pattern string, anchorBeginning, anchorEnd bool, timeout time.Duration) (*Pattern, error) {
	return compile(pattern, anchorBeginning, anchorEnd, timeout)
}

// MustCompile is like Compile but panics on error. Intended for
// compile-time-constant patterns in tests and fixtures.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("regex: Compile(%q): %v", pattern, err))
	}
	return p
}

func compile(pattern string, anchorBeginning, anchorEnd bool, timeout time.Duration) (*Pattern, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	if timeout <= 0 {
		timeout = DefaultMatchTimeout
	}

	wrapped := pattern
	if anchorBeginning || anchorEnd {
		wrapped = "(?:" + pattern + ")"
		if anchorBeginning {
			wrapped = `\A` + wrapped
		}
		if anchorEnd {
			wrapped = wrapped + `\z`
		}
	}

	re, err := regexp2.Compile(wrapped, regexp2.RE2)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	re.MatchTimeout = timeout

	return &Pattern{
		source:     pattern,
		re:         re,
		groupNames: namedGroups(re),
	}, nil
}

// Match attempts to find the leftmost match of the pattern in value.
//
// On a match it returns a mapping from every named capture group that
// participated in the match to its captured substring; groups inside
// unmatched alternation branches are omitted, not reported as empty. A match
// with no named groups yields an empty, non-nil map.
//
// The returned error is non-nil only for an engine-level failure (the match
// timeout fired). Callers are expected to treat that as no-match, but can
// observe it for logging and metrics.
func (p *Pattern) Match(value string) (map[string]string, bool, error) {
	m, err := p.re.FindStringMatch(value)
	if err != nil {
		return nil, false, fmt.Errorf("pattern %q: %w", p.source, err)
	}
	if m == nil {
		return nil, false, nil
	}

	captures := make(map[string]string, len(p.groupNames))
	for _, name := range p.groupNames {
		g := m.GroupByName(name)
		if g == nil || len(g.Captures) == 0 {
			continue
		}
		// A group can capture repeatedly under quantification; the last
		// capture is the group's final value.
		captures[name] = g.Captures[len(g.Captures)-1].String()
	}
	return captures, true, nil
}

// Test reports whether the pattern matches anywhere in value, without
// extracting captures. The error is non-nil only when the match timeout
// fired.
func (p *Pattern) Test(value string) (bool, error) {
	ok, err := p.re.MatchString(value)
	if err != nil {
		return false, fmt.Errorf("pattern %q: %w", p.source, err)
	}
	return ok, nil
}

// Matches is Test with engine failures (timeouts) reported as no-match.
func (p *Pattern) Matches(value string) bool {
	ok, err := p.Test(value)
	return err == nil && ok
}

// GroupNames returns the named capture groups declared by the pattern, in
// the order the regex engine reports them. Purely positional (numeric)
// groups are excluded.
func (p *Pattern) GroupNames() []string {
	out := make([]string, len(p.groupNames))
	copy(out, p.groupNames)
	return out
}

// String returns the original (unwrapped) pattern source.
func (p *Pattern) String() string {
	return p.source
}

// namedGroups filters the engine's group list down to explicitly named
// groups, dropping the numeric groups regexp2 reports for every pair of
// plain parentheses.
func namedGroups(re *regexp2.Regexp) []string {
	var names []string
	for _, name := range re.GetGroupNames() {
		if !isNumeric(name) {
			names = append(names, name)
		}
	}
	return names
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
