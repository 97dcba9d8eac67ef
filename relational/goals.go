package relational

import (
	"github.com/doir-lang/libecrs"
	"github.com/doir-lang/libecrs/kanren"
	"github.com/doir-lang/libecrs/registry"
)

// StreamOfAllEntities binds var, in turn, to every live entity the
// module has ever created. When includeZero is true entity 0 (the
// reserved invalid id) is offered too - useful for scenarios that
// deliberately probe error handling.
func StreamOfAllEntities(m *ecrs.Module, v kanren.Term, includeZero bool) kanren.Goal {
	return func(s kanren.State) kanren.Stream {
		start := ecrs.Entity(1)
		if includeZero {
			start = 0
		}
		var goals []kanren.Goal
		for e := start; int(e) < m.EntityCount(); e++ {
			if e != 0 && !m.IsAlive(e) {
				continue
			}
			goals = append(goals, kanren.Eq(v, kanren.E(e)))
		}
		return kanren.Disjunction(goals...)(s)
	}
}

// HasComponent succeeds when v resolves to an entity that owns the
// component registered under id. When v is unbound, it is bound in turn
// to every entity that owns one.
func HasComponent(m *ecrs.Module, v kanren.Term, id registry.ComponentID) kanren.Goal {
	return func(s kanren.State) kanren.Stream {
		resolved := kanren.Find(v, s.Subst)

		if e, ok := resolved.(kanren.EntityTerm); ok {
			return kanren.Condition(m.HasComponentID(ecrs.Entity(e), id))(s)
		}

		if _, ok := resolved.(kanren.Variable); ok {
			var goals []kanren.Goal
			for e := ecrs.Entity(0); int(e) < m.EntityCount(); e++ {
				if m.HasComponentID(e, id) {
					goals = append(goals, kanren.Eq(v, kanren.E(e)))
				}
			}
			return kanren.Disjunction(goals...)(s)
		}
		return nil
	}
}

// HasComponentType is HasComponent resolved against the id T is
// registered under in m's registry.
func HasComponentType[T any](m *ecrs.Module, v kanren.Term, unique uint64) kanren.Goal {
	id, ok := registry.ComponentIDFor[T](m.Registry(), unique)
	if !ok {
		return func(kanren.State) kanren.Stream { return nil }
	}
	return HasComponent(m, v, id)
}

// RelatedEntities walks an R relation component (R must implement
// Relation), binding base and relate against concrete entities. All four
// bound/unbound combinations of (base, relate) are supported:
//   - both unbound: enumerate every (base, relate) pair in the module
//   - base unbound, relate fixed: every base whose relation lists relate
//   - base fixed, relate unbound: every entity in base's relation list
//   - both fixed: succeeds once iff relate is in base's relation list
func RelatedEntities[R Relation](m *ecrs.Module, unique uint64, base, relate kanren.Term) kanren.Goal {
	return func(s kanren.State) kanren.Stream {
		baseR := kanren.Find(base, s.Subst)
		relateR := kanren.Find(relate, s.Subst)

		baseEntity, baseIsEntity := baseR.(kanren.EntityTerm)
		_, relateIsEntity := relateR.(kanren.EntityTerm)
		_, baseIsVar := baseR.(kanren.Variable)
		_, relateIsVar := relateR.(kanren.Variable)

		switch {
		case baseIsVar && relateIsVar:
			var goals []kanren.Goal
			for e := ecrs.Entity(0); int(e) < m.EntityCount(); e++ {
				rel, ok := ecrs.GetComponentUnique[R](m, e, unique)
				if !ok {
					continue
				}
				terms := rel.Terms()
				for _, r := range terms {
					goals = append(goals, kanren.Conjunction(kanren.Eq(base, kanren.E(e)), kanren.Eq(relate, r)))
				}
			}
			return kanren.Disjunction(goals...)(s)

		case baseIsVar && relateIsEntity:
			var goals []kanren.Goal
			for e := ecrs.Entity(0); int(e) < m.EntityCount(); e++ {
				rel, ok := ecrs.GetComponentUnique[R](m, e, unique)
				if !ok {
					continue
				}
				for _, r := range rel.Terms() {
					if kanren.Equal(r, relateR) {
						goals = append(goals, kanren.Eq(base, kanren.E(e)))
					}
				}
			}
			return kanren.Disjunction(goals...)(s)

		case baseIsEntity && relateIsVar:
			rel, ok := ecrs.GetComponentUnique[R](m, ecrs.Entity(baseEntity), unique)
			if !ok {
				return nil
			}
			var goals []kanren.Goal
			for _, r := range rel.Terms() {
				goals = append(goals, kanren.Eq(relate, r))
			}
			return kanren.Disjunction(goals...)(s)

		case baseIsEntity && relateIsEntity:
			rel, ok := ecrs.GetComponentUnique[R](m, ecrs.Entity(baseEntity), unique)
			if !ok {
				return nil
			}
			for _, r := range rel.Terms() {
				if kanren.Equal(r, relateR) {
					return kanren.Unit(s)
				}
			}
			return nil

		default:
			return nil
		}
	}
}

// RelatedEntitiesList is RelatedEntities but binds relate to the whole
// related set as one ListTerm, rather than one solution per member. When
// relate is already partially known (a ListTerm possibly containing
// unbound elements), it is unified against each candidate entity's full
// related list instead of enumerated member-by-member.
func RelatedEntitiesList[R Relation](m *ecrs.Module, unique uint64, base, relate kanren.Term) kanren.Goal {
	return func(s kanren.State) kanren.Stream {
		baseR := kanren.Find(base, s.Subst)
		relateR := kanren.Find(relate, s.Subst)

		baseEntity, baseIsEntity := baseR.(kanren.EntityTerm)
		_, baseIsVar := baseR.(kanren.Variable)
		_, relateIsVar := relateR.(kanren.Variable)
		_, relateIsList := relateR.(kanren.ListTerm)

		switch {
		case baseIsVar && relateIsVar:
			var goals []kanren.Goal
			for e := ecrs.Entity(0); int(e) < m.EntityCount(); e++ {
				rel, ok := ecrs.GetComponentUnique[R](m, e, unique)
				if !ok {
					continue
				}
				terms := rel.Terms()
				if len(terms) == 0 {
					continue
				}
				goals = append(goals, kanren.Conjunction(
					kanren.Eq(base, kanren.E(e)),
					kanren.Eq(relate, kanren.ListTerm(terms)),
				))
			}
			return kanren.Disjunction(goals...)(s)

		case baseIsVar && relateIsList:
			var goals []kanren.Goal
			for e := ecrs.Entity(0); int(e) < m.EntityCount(); e++ {
				rel, ok := ecrs.GetComponentUnique[R](m, e, unique)
				if !ok {
					continue
				}
				goals = append(goals, kanren.Conjunction(
					kanren.Eq(base, kanren.E(e)),
					kanren.Eq(relate, kanren.ListTerm(rel.Terms())),
				))
			}
			return kanren.Disjunction(goals...)(s)

		case baseIsEntity && relateIsVar:
			rel, ok := ecrs.GetComponentUnique[R](m, ecrs.Entity(baseEntity), unique)
			if !ok || len(rel.Terms()) == 0 {
				return nil
			}
			return kanren.Eq(relate, kanren.ListTerm(rel.Terms()))(s)

		case baseIsEntity && relateIsList:
			rel, ok := ecrs.GetComponentUnique[R](m, ecrs.Entity(baseEntity), unique)
			if !ok {
				return nil
			}
			return kanren.Eq(relate, kanren.ListTerm(rel.Terms()))(s)

		default:
			return nil
		}
	}
}
