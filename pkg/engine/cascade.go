package engine

// Cascade tries a sequence of alternative parsing processes in declared
// order and returns the first non-absent result. Declaration order is the
// sole tie-break, so ordering is a semantically significant part of the
// grammar. An optional condition pattern gates the whole cascade.
//
// Alternatives may themselves be cascades, which is how grammar authors
// express country- or shape-specific sub-grammars behind one entry point.
type Cascade struct {
	condition    condition
	alternatives []Process
}

// NewCascade compiles a cascade over the given alternatives. An empty
// conditionPattern means the cascade always applies.
func NewCascade(conditionPattern string, alternatives []Process) (*Cascade, error) {
	return newCascade(conditionPattern, alternatives, nil)
}

func newCascade(conditionPattern string, alternatives []Process, hooks *Hooks) (*Cascade, error) {
	cond, err := newCondition(conditionPattern, hooks)
	if err != nil {
		return nil, err
	}
	return &Cascade{condition: cond, alternatives: alternatives}, nil
}

// Parse implements Process.
func (c *Cascade) Parse(value string) Result {
	if !c.condition.holds(value) {
		return NoMatch()
	}
	for _, alt := range c.alternatives {
		if r := alt.Parse(value); r.Matched() {
			return r
		}
	}
	return NoMatch()
}
