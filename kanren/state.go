package kanren

import "github.com/doir-lang/libecrs"

// State is the full context a goal runs against: the ECS module relations
// query against, the substitution accumulated so far, and the counter
// used to mint fresh variable ids. States are passed by value; Subst is
// a persistent structure so sharing it across many in-flight states in a
// Stream is cheap.
type State struct {
	Module  *ecrs.Module
	Subst   *Substitution
	Counter uint64
}

// NewState starts a fresh query against m with an empty substitution.
func NewState(m *ecrs.Module) State {
	return State{Module: m}
}

// NextVariable mints a fresh Variable and returns it along with the
// State advanced past it. The original State is left untouched.
func (s State) NextVariable() (Variable, State) {
	v := Variable{ID: s.Counter}
	s.Counter++
	return v, s
}
