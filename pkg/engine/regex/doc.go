// Package regex wraps the backtracking regex engine behind the small
// capability the parsing engine needs: compile a pattern, find the leftmost
// match, and report named capture groups.
//
// Anchoring is a compile-time concern (patterns are wrapped in \A / \z), and
// every compiled pattern carries a match timeout so a pathological pattern
// degrades to no-match instead of stalling a parse call.
package regex
