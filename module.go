// Package ecrs implements the Component Storage Engine and the Module
// that owns it: a dense, archetype-free column store keyed by
// (entity, component id), with sparse per-entity component sets, monotonic
// and by-value sorting with index patch-up, and entity recycling.
//
// The relational query engine built on top of this store lives in the
// sibling kanren and relational packages, which depend on this package for
// the Entity and Module types but are never imported back from here.
package ecrs

import (
	"log/slog"

	"github.com/doir-lang/libecrs/registry"
)

// Module owns every component storage, the per-entity sparse index rows
// mapping (entity, component id) to a record index, and the entity
// freelist.
//
// Invariants (spec.md §3):
//  1. For every live (e, c), storages[c].Get(rows[e][c]) is the component
//     owned by e.
//  2. Every value in rows[e] is either InvalidRecordIndex or a valid
//     record index in the corresponding Storage.
//  3. SortByValue/SortMonotonic preserve invariant 1 by constrution - they
//     always patch rows before returning.
//  4. CreateEntity never returns InvalidEntity (0).
//  5. A released entity is recorded in the freelist and its row is
//     cleared; CreateEntity prefers the freelist over growing the id
//     space.
type Module struct {
	registry *registry.Registry
	logger   *slog.Logger

	rows     [][]ComponentRecordIndex
	storages []IStorage
	freed    []bool
	freelist []Entity

	componentLookup map[registry.ComponentID]Entity

	// ShouldLeak is a teardown hint: when true, a caller about to exit the
	// process may skip any explicit Free/cleanup step, since the OS will
	// reclaim the memory anyway. Go's GC makes this mostly symbolic, but it
	// is preserved verbatim because it documents caller intent the same
	// way the reference implementation's should_leak flag does, and a
	// future on-disk resource (e.g. a memory-mapped backing store) would
	// need to honor it.
	ShouldLeak bool
}

// ModuleOption configures a Module at construction time.
type ModuleOption func(*Module)

// WithRegistry supplies a private Registry instead of registry.Default().
// Tests that register the same component types repeatedly want this, so
// that one test's registrations cannot leak ids into another's.
func WithRegistry(r *registry.Registry) ModuleOption {
	return func(m *Module) { m.registry = r }
}

// WithLogger attaches a structured logger for Debug-level tracing of
// entity/component lifecycle events.
func WithLogger(l *slog.Logger) ModuleOption {
	return func(m *Module) { m.logger = l }
}

// NewModule creates an empty Module. Entity id 0 is reserved: the module
// starts with one unused row so the first CreateEntity call returns 1.
func NewModule(opts ...ModuleOption) *Module {
	m := &Module{
		registry:        registry.Default(),
		rows:            make([][]ComponentRecordIndex, 1),
		freed:           make([]bool, 1),
		componentLookup: make(map[registry.ComponentID]Entity),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the Registry this module resolves component ids
// against.
func (m *Module) Registry() *registry.Registry { return m.registry }

// EntityCount returns the number of entity rows the module has ever
// allocated, including entity 0 and every released entity.
func (m *Module) EntityCount() int { return len(m.rows) }

// IsAlive reports whether e was created by this module and has not since
// been released.
func (m *Module) IsAlive(e Entity) bool {
	return e.IsValid() && int(e) < len(m.rows) && !m.released(e)
}

func (m *Module) released(e Entity) bool {
	return int(e) < len(m.freed) && m.freed[e]
}

// CreateEntity allocates a new entity, preferring a freed id from the
// freelist over growing the id space. It never returns InvalidEntity.
func (m *Module) CreateEntity() Entity {
	if n := len(m.freelist); n > 0 {
		e := m.freelist[n-1]
		m.freelist = m.freelist[:n-1]
		m.freed[e] = false
		m.rows[e] = nil
		return e
	}

	e := Entity(len(m.rows))
	m.rows = append(m.rows, nil)
	m.freed = append(m.freed, false)
	return e
}

// ReleaseEntity removes every component owned by e, clears its row, and
// returns e to the freelist. Releasing InvalidEntity or an entity that is
// not currently alive returns false and has no effect.
func (m *Module) ReleaseEntity(e Entity, clearMemory bool) bool {
	if !m.IsAlive(e) {
		return false
	}

	if clearMemory {
		m.rows[e] = nil
	} else {
		row := m.rows[e]
		for i := range row {
			row[i] = InvalidRecordIndex
		}
	}
	m.freed[e] = true
	m.freelist = append(m.freelist, e)

	if m.logger != nil {
		m.logger.Debug("released entity", "entity", uint64(e))
	}
	return true
}

// HasComponentID reports whether e currently owns the component
// registered under id, without requiring the caller to know the
// component's Go type. Used by the relational package's has_component
// goal, which only ever sees a numeric component id.
func (m *Module) HasComponentID(e Entity, id registry.ComponentID) bool {
	if !m.IsAlive(e) {
		return false
	}
	row := m.rows[e]
	return int(id) < len(row) && row[id] != InvalidRecordIndex
}

// ComponentEntity reifies a component id as an entity, creating one on
// first use and remembering it thereafter. This lets relation goals treat
// "the component itself" as a term, as original_source's
// TrivialRelationalModule::get_component_entity does.
func (m *Module) ComponentEntity(id registry.ComponentID) Entity {
	if e, ok := m.componentLookup[id]; ok {
		return e
	}
	e := m.CreateEntity()
	m.componentLookup[id] = e
	return e
}

// ComponentIDForEntity is the inverse of ComponentEntity: it reports the
// component id reified as e, if any.
func (m *Module) ComponentIDForEntity(e Entity) (registry.ComponentID, bool) {
	for id, ent := range m.componentLookup {
		if ent == e {
			return id, true
		}
	}
	return 0, false
}

func (m *Module) ensureRow(e Entity, id registry.ComponentID) {
	row := m.rows[e]
	if int(id) < len(row) {
		return
	}
	grown := make([]ComponentRecordIndex, id+1)
	copy(grown, row)
	for i := len(row); i < len(grown); i++ {
		grown[i] = InvalidRecordIndex
	}
	m.rows[e] = grown
}

func (m *Module) storageByID(id registry.ComponentID) IStorage {
	if int(id) >= len(m.storages) || m.storages[id] == nil {
		panic("ecrs: component id has no registered storage")
	}
	return m.storages[id]
}

// permuteComponent applies a record-index permutation (as produced by
// SortByValue: mapping[newIndex] = oldIndex, or by HashtableStorage.Rehash
// with mapping[newIndex] == -1 for a probe slot that has no old record) to
// raw's storage and to every entity row referencing component id, in a
// single O(N)+O(E) pass.
func (m *Module) permuteComponent(id registry.ComponentID, raw IStorage, mapping []int) {
	newPosOfOld := make([]int, raw.Len())
	for newIdx, oldIdx := range mapping {
		if oldIdx < 0 {
			continue
		}
		newPosOfOld[oldIdx] = newIdx
	}
	raw.Reorder(mapping)

	for e := 1; e < len(m.rows); e++ {
		if m.freed[e] {
			continue
		}
		row := m.rows[e]
		if int(id) >= len(row) || row[id] == InvalidRecordIndex {
			continue
		}
		row[id] = ComponentRecordIndex(newPosOfOld[row[id]])
	}
}

func storageForType[T any](m *Module, unique uint64) (registry.ComponentID, *Storage[T]) {
	id := registry.RegisterType[T](m.registry, unique)
	if int(id) >= len(m.storages) {
		grown := make([]IStorage, id+1)
		copy(grown, m.storages)
		m.storages = grown
	}
	if m.storages[id] == nil {
		name, _ := m.registry.Name(id)
		m.storages[id] = NewStorage[T](name)
	}
	store, ok := m.storages[id].(*Storage[T])
	if !ok {
		panic("ecrs: component id registered with a different Go type")
	}
	return id, store
}

// AddComponent appends a new, zero-initialized T to e and returns a
// pointer to it. Calling AddComponent again for an entity that already
// owns a T replaces its record index; the previous record is left
// orphaned in storage rather than reclaimed (documented precondition:
// call RemoveComponent first to avoid the leak).
func AddComponent[T any](m *Module, e Entity) *T {
	return AddComponentUnique[T](m, e, 0)
}

// AddComponentUnique is AddComponent for a component uniquified by tag.
func AddComponentUnique[T any](m *Module, e Entity, unique uint64) *T {
	if !m.IsAlive(e) {
		panic("ecrs: AddComponent on a dead or invalid entity")
	}
	id, store := storageForType[T](m, unique)
	idx := store.Add()
	m.ensureRow(e, id)
	m.rows[e][id] = ComponentRecordIndex(idx)
	return store.Get(idx)
}

// GetComponent returns e's T component and true, or the zero value and
// false if e does not own one.
func GetComponent[T any](m *Module, e Entity) (T, bool) {
	return GetComponentUnique[T](m, e, 0)
}

// GetComponentUnique is GetComponent for a component uniquified by tag.
func GetComponentUnique[T any](m *Module, e Entity, unique uint64) (T, bool) {
	var zero T
	ptr := GetComponentPtrUnique[T](m, e, unique)
	if ptr == nil {
		return zero, false
	}
	return *ptr, true
}

// GetComponentPtr returns a pointer to e's T component, or nil if e does
// not own one. The pointer is valid until the next operation that
// reorders this component's storage (AddComponent, SortByValue,
// SortMonotonic, Rehash).
func GetComponentPtr[T any](m *Module, e Entity) *T {
	return GetComponentPtrUnique[T](m, e, 0)
}

// GetComponentPtrUnique is GetComponentPtr for a component uniquified by
// tag.
func GetComponentPtrUnique[T any](m *Module, e Entity, unique uint64) *T {
	if !m.IsAlive(e) {
		return nil
	}
	id, ok := registry.ComponentIDFor[T](m.registry, unique)
	if !ok {
		return nil
	}
	row := m.rows[e]
	if int(id) >= len(row) || row[id] == InvalidRecordIndex {
		return nil
	}
	store, ok := m.storages[id].(*Storage[T])
	if !ok {
		return nil
	}
	return store.Get(int(row[id]))
}

// HasComponent reports whether e owns a T component.
func HasComponent[T any](m *Module, e Entity) bool {
	return HasComponentUnique[T](m, e, 0)
}

// HasComponentUnique is HasComponent for a component uniquified by tag.
func HasComponentUnique[T any](m *Module, e Entity, unique uint64) bool {
	return GetComponentPtrUnique[T](m, e, unique) != nil
}

// RemoveComponent marks e's T component slot as absent. The storage
// record itself is left in place; SortMonotonic rebuilds the column from
// owned records only and so drops it, while SortByValue keeps every
// record. Returns false if e did not own a T.
func RemoveComponent[T any](m *Module, e Entity) bool {
	return RemoveComponentUnique[T](m, e, 0)
}

// RemoveComponentUnique is RemoveComponent for a component uniquified by
// tag.
func RemoveComponentUnique[T any](m *Module, e Entity, unique uint64) bool {
	if !m.IsAlive(e) {
		return false
	}
	id, ok := registry.ComponentIDFor[T](m.registry, unique)
	if !ok {
		return false
	}
	row := m.rows[e]
	if int(id) >= len(row) || row[id] == InvalidRecordIndex {
		return false
	}
	row[id] = InvalidRecordIndex
	return true
}

// GetStorage returns the Storage backing component type T, creating it
// (empty) on first use.
func GetStorage[T any](m *Module) *Storage[T] {
	return GetStorageUnique[T](m, 0)
}

// GetStorageUnique is GetStorage for a component uniquified by tag.
func GetStorageUnique[T any](m *Module, unique uint64) *Storage[T] {
	_, store := storageForType[T](m, unique)
	return store
}
