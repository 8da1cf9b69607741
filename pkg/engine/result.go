package engine

// Result is the outcome of one parsing operation. It is either absent
// (no match) or a mapping from capture-group name to captured substring.
// Absence is distinct from a present-but-empty mapping: the latter means
// the process matched but declared no named capture groups.
type Result struct {
	matched bool
	fields  map[string]string
}

// NoMatch returns the absent result.
func NoMatch() Result {
	return Result{}
}

// NewMatch returns a present result carrying the given captures. A nil map
// is normalized to an empty one so Fields never returns nil for a match.
func NewMatch(fields map[string]string) Result {
	if fields == nil {
		fields = make(map[string]string)
	}
	return Result{matched: true, fields: fields}
}

// Matched reports whether the parse found a match.
func (r Result) Matched() bool {
	return r.matched
}

// Fields returns the captured field values, or nil for an absent result.
// The map is built fresh per parse call, so the caller owns it.
func (r Result) Fields() map[string]string {
	return r.fields
}

// Get returns the captured value for a field name.
func (r Result) Get(name string) (string, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Len returns the number of captured fields.
func (r Result) Len() int {
	return len(r.fields)
}
