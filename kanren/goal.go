package kanren

// Goal is a relation awaiting a State: running it produces every State
// consistent with the relation holding, as a lazy Stream.
type Goal func(State) Stream

// Eq succeeds exactly when u and v unify, extending the substitution with
// whatever bindings that requires.
func Eq(u, v Term) Goal {
	return func(s State) Stream {
		sub, ok := Unify(u, v, s.Subst)
		if !ok {
			return nil
		}
		return Unit(State{Module: s.Module, Subst: sub, Counter: s.Counter})
	}
}

// Fresh introduces one new logic variable and passes it to f to build the
// goal that runs against the advanced state.
func Fresh(f func(Variable) Goal) Goal {
	return func(s State) Stream {
		v, next := s.NextVariable()
		return f(v)(next)
	}
}

// FreshN introduces n new logic variables at once, in ascending id order,
// and passes them to f as a slice. It is the Go stand-in for the
// reference implementation's variadic next_variables template, since Go
// generics have no equivalent of a parameter-pack-driven arity.
func FreshN(n int, f func([]Variable) Goal) Goal {
	return func(s State) Stream {
		vars := make([]Variable, n)
		cur := s
		for i := 0; i < n; i++ {
			vars[i], cur = cur.NextVariable()
		}
		return f(vars)(cur)
	}
}

// Disjunction succeeds with every solution any of goals produces, fairly
// interleaved so that an infinite stream from an earlier goal never
// starves a later one.
func Disjunction(goals ...Goal) Goal {
	switch len(goals) {
	case 0:
		return func(State) Stream { return nil }
	case 1:
		return goals[0]
	default:
		first, rest := goals[0], Disjunction(goals[1:]...)
		return func(s State) Stream { return interleave(first(s), rest(s)) }
	}
}

// Conjunction succeeds with every solution consistent with all of goals
// holding simultaneously, threading the substitution from each goal into
// the next.
func Conjunction(goals ...Goal) Goal {
	switch len(goals) {
	case 0:
		return func(s State) Stream { return Unit(s) }
	case 1:
		return goals[0]
	default:
		first, rest := goals[0], Conjunction(goals[1:]...)
		return func(s State) Stream { return bind(first(s), rest) }
	}
}

// Condition succeeds with the unchanged state when cond is true, and
// fails (empty stream) otherwise. Useful for folding a plain boolean
// precondition into a goal chain.
func Condition(cond bool) Goal {
	return func(s State) Stream {
		if cond {
			return Unit(s)
		}
		return nil
	}
}

// ConditionGoal runs g only when cond is true.
func ConditionGoal(g Goal, cond bool) Goal {
	return Conjunction(Condition(cond), g)
}
