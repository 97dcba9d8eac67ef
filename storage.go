package ecrs

import (
	"cmp"
	"sort"

	"github.com/doir-lang/libecrs/registry"
)

// ComponentRecordIndex addresses a single record inside a Storage[T]. It
// is the value held in Module.rows[e][c].
type ComponentRecordIndex uint64

// InvalidRecordIndex marks the absence of a component: an entity row
// holds this value at component id c when the entity does not own that
// component.
const InvalidRecordIndex ComponentRecordIndex = ^ComponentRecordIndex(0)

// IStorage is the type-erased view of a Storage[T] that Module needs in
// order to store heterogeneous component columns in one slice and to
// drive the generic sort/rehash permutation protocol without knowing T.
// This plays the role the teacher's IComponentStorage interface plays in
// ecs/component_storage.go, minus the entity-membership methods (sparse
// sets per pool), since ownership here lives entirely in Module's ragged
// entity_component_indices rows instead of one sparse set per component.
type IStorage interface {
	// Len returns the number of records currently stored.
	Len() int
	// Reorder replaces the storage's contents with len(mapping) records,
	// where the record at new position i comes from old position
	// mapping[i], or is left as T's zero value when mapping[i] < 0. This
	// is the single primitive both SortByValue and SortMonotonic build
	// their permutations on top of.
	Reorder(mapping []int)
	// TypeName reports the component's registered name, for diagnostics.
	TypeName() string
}

// Storage owns one dense column of records of a single component type.
// Records are addressed by ComponentRecordIndex; Module is responsible
// for keeping entity rows pointing at the right index after any
// operation that moves records (Add never moves existing records; Reorder
// always does).
type Storage[T any] struct {
	data     []T
	typeName string
}

// NewStorage creates an empty column for component type T, registered
// under the given display name (typically the name the Registry resolved
// for T).
func NewStorage[T any](typeName string) *Storage[T] {
	return &Storage[T]{typeName: typeName}
}

// Add appends a zero-initialized record and returns its index.
func (s *Storage[T]) Add() int {
	var zero T
	s.data = append(s.data, zero)
	return len(s.data) - 1
}

// Get returns a pointer to the record at i. Out-of-range i is a
// programming error (bounds violations are never expected misses, per
// spec.md §7) and panics via Go's own slice-index panic.
func (s *Storage[T]) Get(i int) *T { return &s.data[i] }

// Data returns the raw backing slice, aligned 1:1 with record indices.
func (s *Storage[T]) Data() []T { return s.data }

// Len reports the number of records stored.
func (s *Storage[T]) Len() int { return len(s.data) }

// Allocate grows the column to exactly n records if it is currently
// shorter, leaving existing records untouched, for bulk-load paths that
// size a column up front.
func (s *Storage[T]) Allocate(n int) {
	if len(s.data) >= n {
		return
	}
	s.data = append(s.data, make([]T, n-len(s.data))...)
}

// TypeName reports the component's registered display name.
func (s *Storage[T]) TypeName() string { return s.typeName }

// Reorder implements IStorage.Reorder for this column.
func (s *Storage[T]) Reorder(mapping []int) {
	next := make([]T, len(mapping))
	for i, old := range mapping {
		if old >= 0 {
			next[i] = s.data[old]
		}
	}
	s.data = next
}

// SortByValue sorts the storage registered for component id into
// ascending order by T's natural order (cmp.Compare), and patches every
// entity's record index for that component so Module.GetComponent
// continues to resolve to the same logical value. The permutation is
// computed once over the N stored records and then applied once over the
// module's E entities - never the O(E*N) naive re-scan spec.md §4.2 warns
// against.
func SortByValue[T cmp.Ordered](m *Module, id registry.ComponentID) {
	raw := m.storageByID(id)
	store, ok := raw.(*Storage[T])
	if !ok {
		panic("ecrs: SortByValue type parameter does not match the storage registered for this component id")
	}

	order := make([]int, store.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return store.data[order[i]] < store.data[order[j]]
	})

	m.permuteComponent(id, raw, order)
}

// SortMonotonic reorders the storage registered for component id so that
// record position k holds the component owned by entity k, for every
// entity that owns one. The column ends at the highest owning entity id;
// positions below it whose entity does not own the component (and
// position 0) hold zero-valued records that no row references, and
// records no owning entity referenced are dropped. After this call, for
// every owning entity e,
// storage.Data()[e] == the component previously returned for e, and the
// entity's row is patched to entity_component_indices[e][id] = e.
func (m *Module) SortMonotonic(id registry.ComponentID) {
	raw := m.storageByID(id)

	maxEntity := -1
	owners := make(map[Entity]int)
	for e := Entity(1); int(e) < len(m.rows); e++ {
		if m.released(e) {
			continue
		}
		row := m.rows[e]
		if int(id) >= len(row) || row[id] == InvalidRecordIndex {
			continue
		}
		owners[e] = int(row[id])
		if int(e) > maxEntity {
			maxEntity = int(e)
		}
	}
	if maxEntity < 0 {
		return
	}

	mapping := make([]int, maxEntity+1)
	for i := range mapping {
		mapping[i] = -1
	}
	for e, oldIdx := range owners {
		mapping[int(e)] = oldIdx
	}
	raw.Reorder(mapping)

	for e := range owners {
		m.ensureRow(e, id)
		m.rows[e][id] = ComponentRecordIndex(e)
	}
}
