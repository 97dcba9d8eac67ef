package kanren

// Binding is a single variable-to-term association.
type Binding struct {
	Key   Term
	Value Term
}

// Substitution is a persistent singly-linked list of bindings, newest
// first. Persistence (never mutating an existing node) is what lets a
// Stream hold many in-flight States that share most of their history
// without copying it - the same reason the reference implementation
// threads std::list<Substitution> through every goal by value.
type Substitution struct {
	head Binding
	tail *Substitution
}

// Extend prepends a new binding x = v onto s and returns the resulting
// substitution. s itself is never modified.
func Extend(x, v Term, s *Substitution) *Substitution {
	return &Substitution{head: Binding{Key: x, Value: v}, tail: s}
}

// Assoc returns the term bound to key in s, if any.
func Assoc(key Term, s *Substitution) (Term, bool) {
	for n := s; n != nil; n = n.tail {
		if Equal(n.head.Key, key) {
			return n.head.Value, true
		}
	}
	return nil, false
}

// Find walks variable bindings in s until it reaches a non-variable term
// or an unbound variable, i.e. it fully resolves u through the chain of
// substitutions.
func Find(u Term, s *Substitution) Term {
	if _, ok := u.(Variable); ok {
		if bound, ok := Assoc(u, s); ok {
			return Find(bound, s)
		}
	}
	return u
}
