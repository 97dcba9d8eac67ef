package ecrs

import "github.com/doir-lang/libecrs/registry"

// byteStorage is the untyped counterpart to Storage[T]: a dense column
// of fixed-size byte records, addressed the same way a Storage[T] is,
// for callers (the cabi package) that only know a component's size in
// bytes rather than its Go type. It implements IStorage so it can sit in
// Module.storages alongside ordinary typed columns and participate in
// the same Reorder-based sort/rehash protocol.
type byteStorage struct {
	data     []byte
	elemSize int
	typeName string
}

func newByteStorage(elemSize int, typeName string) *byteStorage {
	return &byteStorage{elemSize: elemSize, typeName: typeName}
}

func (b *byteStorage) Len() int { return len(b.data) / b.elemSize }

func (b *byteStorage) Add() int {
	b.data = append(b.data, make([]byte, b.elemSize)...)
	return b.Len() - 1
}

func (b *byteStorage) At(i int) []byte {
	return b.data[i*b.elemSize : (i+1)*b.elemSize]
}

func (b *byteStorage) TypeName() string { return b.typeName }

func (b *byteStorage) Reorder(mapping []int) {
	next := make([]byte, len(mapping)*b.elemSize)
	for i, old := range mapping {
		if old >= 0 {
			copy(next[i*b.elemSize:(i+1)*b.elemSize], b.At(old))
		}
	}
	b.data = next
}

// AddRawComponent appends a zero-initialized elementSize-byte record to
// e under component id, creating that component's byte storage on first
// use, and returns the record's backing bytes. Calling this for an id
// already backed by a typed Storage[T] (registered through AddComponent)
// is a programming error and panics.
func (m *Module) AddRawComponent(e Entity, id registry.ComponentID, elementSize int) []byte {
	if !m.IsAlive(e) {
		panic("ecrs: AddRawComponent on a dead or invalid entity")
	}
	if int(id) >= len(m.storages) {
		grown := make([]IStorage, id+1)
		copy(grown, m.storages)
		m.storages = grown
	}
	if m.storages[id] == nil {
		name, _ := m.registry.Name(id)
		m.storages[id] = newByteStorage(elementSize, name)
	}
	bs, ok := m.storages[id].(*byteStorage)
	if !ok {
		panic("ecrs: component id is already backed by a typed Go storage")
	}
	idx := bs.Add()
	m.ensureRow(e, id)
	m.rows[e][id] = ComponentRecordIndex(idx)
	return bs.At(idx)
}

// GetRawComponent returns e's raw bytes for component id, or nil if e
// does not own one or id is not backed by raw storage.
func (m *Module) GetRawComponent(e Entity, id registry.ComponentID) []byte {
	if !m.IsAlive(e) {
		return nil
	}
	row := m.rows[e]
	if int(id) >= len(row) || row[id] == InvalidRecordIndex {
		return nil
	}
	bs, ok := m.storages[id].(*byteStorage)
	if !ok {
		return nil
	}
	return bs.At(int(row[id]))
}

// RemoveComponentByID marks e's component id slot as absent, regardless
// of whether it is backed by a typed Storage[T] or a byteStorage.
func (m *Module) RemoveComponentByID(e Entity, id registry.ComponentID) bool {
	if !m.IsAlive(e) {
		return false
	}
	row := m.rows[e]
	if int(id) >= len(row) || row[id] == InvalidRecordIndex {
		return false
	}
	row[id] = InvalidRecordIndex
	return true
}
