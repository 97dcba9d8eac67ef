package kanren

// Stream is a lazily-pulled, possibly infinite sequence of States. Calling
// a non-nil Stream yields its head, the Stream continuation to pull the
// rest from, and true; a nil Stream is always empty. There is no
// goroutine or channel involved - every suspension point is just "don't
// call the continuation yet", matching the single-threaded, cooperative
// evaluation the reference implementation gets from C++20 coroutines.
type Stream func() (State, Stream, bool)

// next pulls one State from s, treating a nil Stream as already
// exhausted.
func next(s Stream) (State, Stream, bool) {
	if s == nil {
		var zero State
		return zero, nil, false
	}
	return s()
}

// Unit is the one-element stream containing s.
func Unit(s State) Stream {
	return func() (State, Stream, bool) { return s, nil, true }
}

// Null is the always-empty stream.
func Null() Stream { return nil }

// ToSlice fully drains s. Only safe on streams known to be finite -
// callers querying against a cyclic or unbounded relation should pull
// from the Stream directly instead.
func ToSlice(s Stream) []State {
	var out []State
	for st, rest, ok := next(s); ok; st, rest, ok = next(rest) {
		out = append(out, st)
	}
	return out
}

// interleave appends a and b by fair alternation: the head of a, then the
// head of b, then the head of what was a's second element, and so on.
// Once one side is exhausted the other is drained in its own order. This
// is what keeps Disjunction fair even when one disjunct's stream is
// infinite.
func interleave(a, b Stream) Stream {
	return func() (State, Stream, bool) {
		st, rest, ok := next(a)
		if !ok {
			return next(b)
		}
		return st, interleave(b, rest), true
	}
}

// concat appends a and b in strict order: all of a, then all of b. Used
// by Conjunction's bind, which (per the reference implementation) does
// not need disjunction's fairness trick since each goal only ever runs
// once per incoming state.
func concat(a, b Stream) Stream {
	return func() (State, Stream, bool) {
		st, rest, ok := next(a)
		if ok {
			return st, concat(rest, b), true
		}
		return next(b)
	}
}

// bind runs goal over every state produced by s, concatenating the
// resulting streams in order.
func bind(s Stream, goal Goal) Stream {
	return func() (State, Stream, bool) {
		st, rest, ok := next(s)
		if !ok {
			return next(nil)
		}
		return next(concat(goal(st), bind(rest, goal)))
	}
}
