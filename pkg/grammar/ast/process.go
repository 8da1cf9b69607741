package ast

// ProcessKind represents the kind of parsing process a node describes.
type ProcessKind string

const (
	// KindDecomposition matches the entire input (subject to anchor flags)
	// against one pattern and extracts all named capture groups.
	KindDecomposition ProcessKind = "decomposition"
	// KindCascade tries a sequence of alternatives in order; the first
	// alternative that matches wins.
	KindCascade ProcessKind = "cascade"
	// KindExtractPart searches the input for an anchor phrase and extracts
	// the capture group(s) around it.
	KindExtractPart ProcessKind = "extract_part"
	// KindExtractParts applies a sequence of extract_part nodes in order,
	// accumulating captures; the last writer wins per capture name.
	KindExtractParts ProcessKind = "extract_parts"
)

// ProcessNode represents one parsing process in the grammar tree.
// A node is either a reference to a named definition (Ref set, everything
// else empty) or a concrete process tagged by Kind.
//
// Which fields are meaningful depends on Kind:
//   - decomposition: Pattern, AnchorBeginning, AnchorEnd
//   - cascade: Condition, Alternatives
//   - extract_part: Condition, Pattern
//   - extract_parts: Condition, Parts
type ProcessNode struct {
	Kind ProcessKind // Process kind (empty for references)
	Ref  string      // Name of a shared definition (empty for concrete nodes)

	Pattern   string // Parsing pattern with named capture groups
	Condition string // Precondition pattern; empty means always applicable

	// Anchor flags for decompositions. Pointers distinguish "unset, use the
	// default (true)" from an explicit false in the grammar file.
	AnchorBeginning *bool
	AnchorEnd       *bool

	Alternatives []*ProcessNode // Cascade alternatives (evaluated in order)
	Parts        []*ProcessNode // Extract parts (applied in order)

	Location Location // Source location
}

// IsRef returns true if this node is a reference to a named definition.
func (n *ProcessNode) IsRef() bool {
	return n.Ref != ""
}

// IsComposite returns true if this node composes child processes.
func (n *ProcessNode) IsComposite() bool {
	return n.Kind == KindCascade || n.Kind == KindExtractParts
}

// Children returns the child nodes of a composite process, or nil for leaves
// and references.
func (n *ProcessNode) Children() []*ProcessNode {
	switch n.Kind {
	case KindCascade:
		return n.Alternatives
	case KindExtractParts:
		return n.Parts
	default:
		return nil
	}
}

// AnchorsBeginning reports the effective anchor_beginning value, applying the
// default (true) when the grammar file left it unset.
func (n *ProcessNode) AnchorsBeginning() bool {
	if n.AnchorBeginning == nil {
		return true
	}
	return *n.AnchorBeginning
}

// AnchorsEnd reports the effective anchor_end value, applying the default
// (true) when the grammar file left it unset.
func (n *ProcessNode) AnchorsEnd() bool {
	if n.AnchorEnd == nil {
		return true
	}
	return *n.AnchorEnd
}

// ValidKind returns true if k is one of the known process kinds.
func ValidKind(k ProcessKind) bool {
	switch k {
	case KindDecomposition, KindCascade, KindExtractPart, KindExtractParts:
		return true
	default:
		return false
	}
}
