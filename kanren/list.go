package kanren

// SplitHead succeeds when out unifies with the first element of list. A
// variable list is treated as "a list whose head is out" (it unifies list
// with [out]); an EntityTerm is its own single-element list's head; an
// empty ListTerm never succeeds.
func SplitHead(list, out Term) Goal {
	return func(s State) Stream {
		listR := Find(list, s.Subst)
		outR := Find(out, s.Subst)

		switch lv := listR.(type) {
		case Variable:
			return Eq(ListTerm{outR}, listR)(s)
		case EntityTerm:
			return Eq(out, listR)(s)
		case ListTerm:
			if len(lv) == 0 {
				return nil
			}
			return Eq(outR, lv[0])(s)
		default:
			return nil
		}
	}
}

// SplitTail succeeds when out unifies with every element of list after
// the first, as a list.
func SplitTail(list, out Term) Goal {
	return func(s State) Stream {
		listR := Find(list, s.Subst)
		outR := Find(out, s.Subst)

		switch lv := listR.(type) {
		case Variable:
			return Eq(outR, listR)(s)
		case EntityTerm:
			return Eq(outR, ListTerm{listR})(s)
		case ListTerm:
			if len(lv) <= 1 {
				return Eq(outR, ListTerm{})(s)
			}
			return Eq(outR, append(ListTerm{}, lv[1:]...))(s)
		default:
			return nil
		}
	}
}

// WrapList succeeds when list unifies with the singleton list [var] if
// var resolves to a Variable or EntityTerm, or with var itself if it
// already resolves to a ListTerm.
func WrapList(v, list Term) Goal {
	return func(s State) Stream {
		vR := Find(v, s.Subst)
		listR := Find(list, s.Subst)

		switch vR.(type) {
		case Variable, EntityTerm:
			return Eq(listR, ListTerm{vR})(s)
		case ListTerm:
			return Eq(listR, vR)(s)
		default:
			return nil
		}
	}
}

// SplitTailEnsureList is SplitTail, but always binds out to a ListTerm
// even when list resolves to a bare EntityTerm or Variable.
func SplitTailEnsureList(list, out Term) Goal {
	return Fresh(func(tmp Variable) Goal {
		return Conjunction(SplitTail(list, V(tmp)), WrapList(V(tmp), out))
	})
}

// SplitHeadAndTail succeeds when head and tail unify with list's head and
// tail simultaneously. It special-cases two unbound ends so that a
// generate-style query (both list and tail free) still terminates by
// forcing tail closed to the empty list before delegating to SplitHead.
func SplitHeadAndTail(list, head, tail Term) Goal {
	return func(s State) Stream {
		listR := Find(list, s.Subst)
		headR := Find(head, s.Subst)
		tailR := Find(tail, s.Subst)

		if tl, ok := tailR.(ListTerm); ok {
			if _, listIsVar := listR.(Variable); listIsVar {
				full := append(ListTerm{headR}, tl...)
				return Eq(full, listR)(s)
			}
		}
		if _, tailIsVar := tailR.(Variable); tailIsVar {
			if _, listIsVar := listR.(Variable); listIsVar {
				return bind(Eq(ListTerm{}, tailR)(s), SplitHead(list, headR))
			}
		}
		return bind(SplitHead(listR, headR)(s), SplitTailEnsureList(listR, tailR))
	}
}

// Append succeeds when a followed by b equals out, as lists. A resolved
// EntityTerm on any side is treated as a single-element list. When out is
// fully known and both a and b are unbound, Append enumerates every split
// point - this is the "invertible append" mode the reference
// implementation's type-inference scenario relies on.
func Append(a, b, out Term) Goal {
	return func(s State) Stream {
		aR, bR, outR := Find(a, s.Subst), Find(b, s.Subst), Find(out, s.Subst)
		aR = asList(aR)
		bR = asList(bR)
		outR = asList(outR)

		al, aIsList := aR.(ListTerm)
		bl, bIsList := bR.(ListTerm)
		ol, outIsList := outR.(ListTerm)

		switch {
		case aIsList && bIsList:
			appended := append(append(ListTerm{}, al...), bl...)
			return Eq(appended, out)(s)

		case isVar(aR) && isVar(bR) && outIsList:
			var streams Stream
			for i := 0; i <= len(ol); i++ {
				first, second := ListTerm(ol[:i:i]), ListTerm(ol[i:])
				branch := Conjunction(Eq(a, first), Eq(b, second))
				streams = concat(streams, branch(s))
			}
			return streams

		case aIsList && outIsList:
			if len(al) > len(ol) {
				return nil
			}
			first, second := ListTerm(ol[:len(al):len(al)]), ListTerm(ol[len(al):])
			return Conjunction(Eq(a, first), Eq(b, second))(s)

		case bIsList && outIsList:
			if len(bl) > len(ol) {
				return nil
			}
			cut := len(ol) - len(bl)
			first, second := ListTerm(ol[:cut:cut]), ListTerm(ol[cut:])
			return Conjunction(Eq(a, first), Eq(b, second))(s)

		default:
			return nil
		}
	}
}

func asList(t Term) Term {
	if _, ok := t.(EntityTerm); ok {
		return ListTerm{t}
	}
	return t
}

func isVar(t Term) bool {
	_, ok := t.(Variable)
	return ok
}

// ElementOf succeeds once for every element of list that unifies with
// element. When element is itself unbound, every element of list is
// offered in turn, letting a caller enumerate list's members one
// solution at a time.
func ElementOf(list, element Term) Goal {
	return func(s State) Stream {
		listR := Find(list, s.Subst)
		elementR := Find(element, s.Subst)

		lv, ok := listR.(ListTerm)
		if !ok {
			return Eq(listR, elementR)(s)
		}

		var streams Stream
		for _, term := range lv {
			branch := Eq(elementR, term)
			streams = concat(streams, branch(s))
		}
		return streams
	}
}

// Map succeeds when b is the list obtained by applying the relation f to
// every element of a pairwise, in order.
func Map(a, b Term, f func(elemA, elemB Term) Goal) Goal {
	return Disjunction(
		Conjunction(Eq(a, ListTerm{}), Eq(b, ListTerm{})),
		FreshN(4, func(vars []Variable) Goal {
			aHead, aTail, bHead, bTail := V(vars[0]), V(vars[1]), V(vars[2]), V(vars[3])
			return Conjunction(
				SplitHead(a, aHead),
				SplitTailEnsureList(a, aTail),
				f(aHead, bHead),
				Map(aTail, bTail, f),
				Append(bHead, bTail, b),
			)
		}),
	)
}

