package ecrs

import "github.com/doir-lang/libecrs/registry"

// View is a fluent entity filter over a Module's live entities: Include
// requires every listed component id, Exclude forbids every listed id.
// It underlies the EachN family below, which additionally resolve and
// dereference the matched components' storages.
type View struct {
	m       *Module
	include []registry.ComponentID
	exclude []registry.ComponentID
}

// NewView starts an empty filter (matches every live entity) over m.
func NewView(m *Module) *View { return &View{m: m} }

// Include adds ids an entity must own to match.
func (v *View) Include(ids ...registry.ComponentID) *View {
	v.include = append(v.include, ids...)
	return v
}

// Exclude adds ids an entity must not own to match.
func (v *View) Exclude(ids ...registry.ComponentID) *View {
	v.exclude = append(v.exclude, ids...)
	return v
}

// Entities returns every live entity matching the filter, in id order.
func (v *View) Entities() []Entity {
	var out []Entity
	for e := Entity(1); int(e) < v.m.EntityCount(); e++ {
		if !v.m.IsAlive(e) {
			continue
		}
		if v.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (v *View) matches(e Entity) bool {
	for _, id := range v.include {
		if !v.m.HasComponentID(e, id) {
			return false
		}
	}
	for _, id := range v.exclude {
		if v.m.HasComponentID(e, id) {
			return false
		}
	}
	return true
}

// Each1 calls fn for every live entity owning a T1, in entity id order.
// This is the n=1 case of the sparse-set ECS's Iterator1/2/3 family this
// view is modeled on, rebuilt over ragged row membership instead of a
// dedicated sparse set per component.
func Each1[T1 any](m *Module, fn func(Entity, *T1)) {
	id, ok := registry.ComponentIDFor[T1](m.Registry(), 0)
	if !ok {
		return
	}
	for _, e := range NewView(m).Include(id).Entities() {
		if c1 := GetComponentPtr[T1](m, e); c1 != nil {
			fn(e, c1)
		}
	}
}

// Each2 calls fn for every live entity owning both a T1 and a T2.
func Each2[T1, T2 any](m *Module, fn func(Entity, *T1, *T2)) {
	id1, ok1 := registry.ComponentIDFor[T1](m.Registry(), 0)
	id2, ok2 := registry.ComponentIDFor[T2](m.Registry(), 0)
	if !ok1 || !ok2 {
		return
	}
	for _, e := range NewView(m).Include(id1, id2).Entities() {
		c1, c2 := GetComponentPtr[T1](m, e), GetComponentPtr[T2](m, e)
		if c1 != nil && c2 != nil {
			fn(e, c1, c2)
		}
	}
}

// Each3 calls fn for every live entity owning a T1, a T2, and a T3.
func Each3[T1, T2, T3 any](m *Module, fn func(Entity, *T1, *T2, *T3)) {
	id1, ok1 := registry.ComponentIDFor[T1](m.Registry(), 0)
	id2, ok2 := registry.ComponentIDFor[T2](m.Registry(), 0)
	id3, ok3 := registry.ComponentIDFor[T3](m.Registry(), 0)
	if !ok1 || !ok2 || !ok3 {
		return
	}
	for _, e := range NewView(m).Include(id1, id2, id3).Entities() {
		c1, c2, c3 := GetComponentPtr[T1](m, e), GetComponentPtr[T2](m, e), GetComponentPtr[T3](m, e)
		if c1 != nil && c2 != nil && c3 != nil {
			fn(e, c1, c2, c3)
		}
	}
}
