// Package kanren implements a small, single-threaded miniKanren: logic
// variables, structural unification over a persistent substitution, and
// the lazy goal/stream combinators (disjunction, conjunction, fresh) that
// compose them into relations. It knows about ecrs.Entity as one of the
// three term shapes a program can unify over, but nothing about
// components or storages - the ECS-aware relations live in the sibling
// relational package.
package kanren

import "github.com/doir-lang/libecrs"

// Term is the union every kanren value is one of: a logic Variable still
// waiting to be bound, a concrete Entity, or a ListTerm of further terms.
// It plays the role of the reference implementation's
// std::variant<Variable, ecrs::Entity, std::list<Term>>.
type Term interface {
	isTerm()
}

// Variable is an unbound logic variable, identified by the State counter
// value it was minted from. Two variables are the same variable iff their
// ids are equal.
type Variable struct{ ID uint64 }

func (Variable) isTerm() {}

// EntityTerm lifts an ecrs.Entity into a Term.
type EntityTerm ecrs.Entity

func (EntityTerm) isTerm() {}

// ListTerm is an ordered, possibly empty sequence of terms.
type ListTerm []Term

func (ListTerm) isTerm() {}

// V wraps a Variable as a Term.
func V(v Variable) Term { return v }

// E wraps an ecrs.Entity as a Term.
func E(e ecrs.Entity) Term { return EntityTerm(e) }

// L builds a ListTerm from the given terms.
func L(terms ...Term) Term { return ListTerm(terms) }

// Equal reports whether a and b are the same term shape with equal
// contents. It does not consult a substitution - two distinct unbound
// variables are never Equal even if a substitution would unify them; use
// Unify for that.
func Equal(a, b Term) bool {
	switch av := a.(type) {
	case Variable:
		bv, ok := b.(Variable)
		return ok && av.ID == bv.ID
	case EntityTerm:
		bv, ok := b.(EntityTerm)
		return ok && av == bv
	case ListTerm:
		bv, ok := b.(ListTerm)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
