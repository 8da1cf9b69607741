package ast

import "strconv"

// Location pins an AST node to the grammar source it was parsed from. The
// parser fills it from YAML node positions so validation and compile errors
// can point at the offending line.
type Location struct {
	File   string
	Line   int // 1-based
	Column int // 1-based
}

// IsValid reports whether the location carries usable position information.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}

// String formats the location as file:line:column. Locations without a file
// render as "<unknown>".
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return l.File + ":" + strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}
