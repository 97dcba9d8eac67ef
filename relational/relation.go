// Package relational adds ECS-aware miniKanren goals on top of the
// kanren package: querying the set of all entities, whether an entity
// has a given component, and walking component-backed relations (an
// entity's list of "related" entities) either as concrete ecrs.Entity
// values or as logic terms that can themselves be partially bound.
package relational

import (
	"github.com/doir-lang/libecrs"
	"github.com/doir-lang/libecrs/kanren"
)

// Relation is the common shape RelatedEntities and RelatedEntitiesList
// query over: anything that can report the entities (or terms) it is
// related to. EntityRelation and TermRelation are the two component
// types that implement it; a program is free to add its own.
type Relation interface {
	Terms() []kanren.Term
}

// EntityRelation is a relation component whose related set is a plain
// list of concrete entities - the common case, e.g. "parent of" or
// "contains".
type EntityRelation struct {
	Related []ecrs.Entity
}

// Terms implements Relation.
func (r EntityRelation) Terms() []kanren.Term {
	out := make([]kanren.Term, len(r.Related))
	for i, e := range r.Related {
		out[i] = kanren.E(e)
	}
	return out
}

// TermRelation is a relation component whose related set may itself
// contain unresolved logic terms, not just concrete entities. This is
// the can_be_term=true variant of the reference implementation's
// Relation<N, CAN_BE_TERM> template.
type TermRelation struct {
	Related []kanren.Term
}

// Terms implements Relation.
func (r TermRelation) Terms() []kanren.Term { return r.Related }
