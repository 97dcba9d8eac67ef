package ecrs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doir-lang/libecrs"
	"github.com/doir-lang/libecrs/registry"
)

func newTestModule() *ecrs.Module {
	return ecrs.NewModule(ecrs.WithRegistry(registry.New()))
}

func TestCreateEntityStartsAtOneAndIsDense(t *testing.T) {
	m := newTestModule()
	first := m.CreateEntity()
	second := m.CreateEntity()

	assert.Equal(t, ecrs.Entity(1), first)
	assert.Equal(t, ecrs.Entity(2), second)
	assert.False(t, ecrs.InvalidEntity.IsValid())
}

func TestAddGetOverwriteComponent(t *testing.T) {
	m := newTestModule()
	e := m.CreateEntity()

	*ecrs.AddComponent[float64](m, e) = 5
	v, ok := ecrs.GetComponent[float64](m, e)
	require.True(t, ok)
	assert.Equal(t, 5.0, v)

	*ecrs.GetComponentPtr[float64](m, e) = 6
	v, ok = ecrs.GetComponent[float64](m, e)
	require.True(t, ok)
	assert.Equal(t, 6.0, v)
}

func TestReleaseEntityRecyclesID(t *testing.T) {
	m := newTestModule()
	e := m.CreateEntity()
	*ecrs.AddComponent[int](m, e) = 42

	assert.True(t, m.ReleaseEntity(e, true))
	assert.False(t, m.IsAlive(e))

	recycled := m.CreateEntity()
	assert.Equal(t, e, recycled)
	_, ok := ecrs.GetComponent[int](m, recycled)
	assert.False(t, ok, "a recycled entity must not inherit the released entity's components")
}

func TestReleaseEntityTwiceFails(t *testing.T) {
	m := newTestModule()
	e := m.CreateEntity()
	assert.True(t, m.ReleaseEntity(e, true))
	assert.False(t, m.ReleaseEntity(e, true))
	assert.False(t, m.ReleaseEntity(ecrs.InvalidEntity, true))
}

func TestUniqueTagComponentsAreIndependent(t *testing.T) {
	m := newTestModule()
	e := m.CreateEntity()

	*ecrs.AddComponentUnique[float64](m, e, 1) = 1
	*ecrs.AddComponentUnique[float64](m, e, 2) = 2

	v1, _ := ecrs.GetComponentUnique[float64](m, e, 1)
	v2, _ := ecrs.GetComponentUnique[float64](m, e, 2)
	assert.Equal(t, 1.0, v1)
	assert.Equal(t, 2.0, v2)
}

func TestWithEntityRoundTrips(t *testing.T) {
	m := newTestModule()
	e := m.CreateEntity()

	c := ecrs.AddComponent[ecrs.WithEntity[float64]](m, e)
	c.Entity, c.Value = e, 5

	got, ok := ecrs.GetComponent[ecrs.WithEntity[float64]](m, e)
	require.True(t, ok)
	assert.Equal(t, e, got.Entity)
	assert.Equal(t, 5.0, got.Value)
}

func TestSortByValueReordersStorageAndPreservesLookups(t *testing.T) {
	m := newTestModule()
	var entities []ecrs.Entity
	values := []float64{3, 1, 2}
	for _, v := range values {
		e := m.CreateEntity()
		*ecrs.AddComponent[float64](m, e) = v
		entities = append(entities, e)
	}

	id, ok := registry.ComponentIDFor[float64](m.Registry(), 0)
	require.True(t, ok)
	ecrs.SortByValue[float64](m, id)

	store := ecrs.GetStorage[float64](m)
	assert.Equal(t, []float64{1, 2, 3}, store.Data())

	for i, e := range entities {
		v, ok := ecrs.GetComponent[float64](m, e)
		require.True(t, ok)
		assert.Equal(t, values[i], v)
	}
}

func TestSortMonotonicAlignsRecordPositionWithEntityID(t *testing.T) {
	m := newTestModule()
	e1 := m.CreateEntity()
	e2 := m.CreateEntity()
	e3 := m.CreateEntity()
	*ecrs.AddComponent[int](m, e3) = 30
	*ecrs.AddComponent[int](m, e1) = 10

	id, ok := registry.ComponentIDFor[int](m.Registry(), 0)
	require.True(t, ok)
	m.SortMonotonic(id)

	store := ecrs.GetStorage[int](m)
	data := store.Data()
	assert.Equal(t, 10, data[e1])
	assert.Equal(t, 30, data[e3])

	v1, _ := ecrs.GetComponent[int](m, e1)
	v3, _ := ecrs.GetComponent[int](m, e3)
	assert.Equal(t, 10, v1)
	assert.Equal(t, 30, v3)
	_, ok = ecrs.GetComponent[int](m, e2)
	assert.False(t, ok)
}

func TestComponentEntityIsStableAndReversible(t *testing.T) {
	m := newTestModule()
	id := registry.RegisterType[float64](m.Registry(), 0)

	first := m.ComponentEntity(id)
	second := m.ComponentEntity(id)
	assert.Equal(t, first, second)

	gotID, ok := m.ComponentIDForEntity(first)
	require.True(t, ok)
	assert.Equal(t, id, gotID)
}

func TestHashtableStorageFindsIndexedEntities(t *testing.T) {
	m := newTestModule()
	h := ecrs.NewHashtableStorage[int](m, 0)
	store := ecrs.GetStorageUnique[ecrs.HashEntry[int]](m, 0)

	var entities []ecrs.Entity
	for i := 0; i < 10; i++ {
		e := m.CreateEntity()
		h.Insert(e, int(e))
		entities = append(entities, e)
	}

	for _, e := range entities {
		idx, ok := h.Find(int(e))
		require.True(t, ok)

		entry := store.Get(int(idx))
		assert.True(t, entry.Occupied)
		assert.Equal(t, int(e), entry.Key)

		got, ok := ecrs.GetComponent[ecrs.HashEntry[int]](m, e)
		require.True(t, ok)
		assert.Equal(t, int(e), got.Key)
	}

	_, ok := h.Find(-1)
	assert.False(t, ok, "an unindexed key must not be found")
}

func TestHashtableStorageRehashesPastLoadFactor(t *testing.T) {
	m := newTestModule()
	h := ecrs.NewHashtableStorage[int](m, 0)
	store := ecrs.GetStorageUnique[ecrs.HashEntry[int]](m, 0)

	const n = 64
	entities := make([]ecrs.Entity, n)
	for i := 0; i < n; i++ {
		e := m.CreateEntity()
		h.Insert(e, i)
		entities[i] = e
	}

	assert.LessOrEqual(t, float64(n)/float64(store.Len()), 0.75,
		"repeated inserts must trigger enough rehashing to keep the load factor bounded")

	for i, e := range entities {
		idx, ok := h.Find(i)
		require.True(t, ok)
		assert.Equal(t, i, store.Get(int(idx)).Key)

		got, ok := ecrs.GetComponent[ecrs.HashEntry[int]](m, e)
		require.True(t, ok)
		assert.Equal(t, i, got.Key, "an entity's row must still resolve to its entry after Rehash patches the storage")
	}
}
