package ecrs

import (
	"hash/maphash"

	"github.com/doir-lang/libecrs/registry"
)

// HashEntry is the component payload a HashtableStorage indexes: Key is the
// indexed value and Occupied reports whether this slot is live. Storing it
// as an ordinary component means the probe array IS a Storage[HashEntry[K]]
// column, so a probe slot and a ComponentRecordIndex are the same number -
// Find can hand back a record index usable directly against the storage,
// and Rehash resizes by driving the same Reorder + index-patch machinery
// SortByValue uses, instead of keeping a second, unpatched index.
type HashEntry[K comparable] struct {
	Key      K
	Occupied bool
}

// HashtableStorage adapts a Storage[HashEntry[K]] into a linear-probed
// lookup from K to ComponentRecordIndex, the Go translation of
// ecrs::hashtable::Storage<T> layered atop a plain Typed storage.
type HashtableStorage[K comparable] struct {
	m     *Module
	id    registry.ComponentID
	store *Storage[HashEntry[K]]
	seed  maphash.Seed
	used  int
}

// NewHashtableStorage wires a HashEntry[K]-backed component column into m,
// registering it on first use, and returns the adapter over it. unique
// distinguishes multiple hashtables over the same key type the way
// AddComponentUnique distinguishes multiple components of the same Go type.
func NewHashtableStorage[K comparable](m *Module, unique uint64) *HashtableStorage[K] {
	id, store := storageForType[HashEntry[K]](m, unique)
	used := 0
	for _, entry := range store.Data() {
		if entry.Occupied {
			used++
		}
	}
	return &HashtableStorage[K]{m: m, id: id, store: store, seed: maphash.MakeSeed(), used: used}
}

func (h *HashtableStorage[K]) home(key K, capacity int) int {
	return int(maphash.Comparable(h.seed, key) % uint64(capacity))
}

// Find probes linearly from hash(key) mod capacity, stopping at the first
// non-occupied slot, and returns the record index of the matching entry.
func (h *HashtableStorage[K]) Find(key K) (ComponentRecordIndex, bool) {
	capacity := h.store.Len()
	if capacity == 0 {
		return InvalidRecordIndex, false
	}
	start := h.home(key, capacity)
	for i := 0; i < capacity; i++ {
		idx := (start + i) % capacity
		entry := h.store.Get(idx)
		if !entry.Occupied {
			return InvalidRecordIndex, false
		}
		if entry.Key == key {
			return ComponentRecordIndex(idx), true
		}
	}
	return InvalidRecordIndex, false
}

// Insert indexes e under key, rehashing first if doing so would push the
// load factor above 0.75, and returns the record index the entry now lives
// at. e's row is patched so GetComponent[HashEntry[K]](m, e) resolves to
// this entry.
func (h *HashtableStorage[K]) Insert(e Entity, key K) ComponentRecordIndex {
	if h.store.Len() == 0 || float64(h.used+1)/float64(h.store.Len()) > 0.75 {
		h.resize(h.used + 1)
	}

	capacity := h.store.Len()
	start := h.home(key, capacity)
	idx := -1
	for i := 0; i < capacity; i++ {
		probe := (start + i) % capacity
		if !h.store.Get(probe).Occupied {
			idx = probe
			break
		}
	}
	if idx < 0 {
		panic("ecrs: hashtable insert found no free slot after rehash")
	}

	h.m.ensureRow(e, h.id)
	h.m.rows[e][h.id] = ComponentRecordIndex(idx)
	entry := h.store.Get(idx)
	entry.Key, entry.Occupied = key, true
	h.used++
	return ComponentRecordIndex(idx)
}

// Rehash resizes the underlying storage to the next power-of-two capacity
// at least 2x the occupied count when the load factor exceeds 0.75 (or the
// table has no capacity yet), re-probes every occupied entry at its new
// home, and patches every owning entity's row via Module.permuteComponent -
// the same Reorder + index-patch protocol SortByValue uses. Returns
// whether a resize happened.
func (h *HashtableStorage[K]) Rehash() bool {
	capacity := h.store.Len()
	if capacity > 0 && float64(h.used)/float64(capacity) <= 0.75 {
		return false
	}
	h.resize(h.used)
	return true
}

// resize unconditionally moves every occupied entry into a new probe array
// of the next power-of-two capacity above 2x count.
func (h *HashtableStorage[K]) resize(count int) {
	newCapacity := nextPowerOfTwo(count*2 + 1)
	mapping := make([]int, newCapacity)
	for i := range mapping {
		mapping[i] = -1
	}

	for oldIdx, entry := range h.store.Data() {
		if !entry.Occupied {
			continue
		}
		start := h.home(entry.Key, newCapacity)
		for i := 0; i < newCapacity; i++ {
			probe := (start + i) % newCapacity
			if mapping[probe] < 0 {
				mapping[probe] = oldIdx
				break
			}
		}
	}

	h.m.permuteComponent(h.id, h.store, mapping)
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
