// Package parser parses YAML grammar files into grammar ASTs.
//
// Parsing is split from validation: the parser guarantees shape (every node
// is a ref or a known kind, nesting is bounded, the file is within limits)
// while pkg/grammar/validator checks meaning (references resolve, patterns
// compile, kinds carry the right attributes).
package parser
