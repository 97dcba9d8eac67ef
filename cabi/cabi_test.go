package cabi_test

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doir-lang/libecrs/cabi"
)

func TestAddGetComponentThroughRawPointer(t *testing.T) {
	h := cabi.ModuleInitialize()
	defer cabi.ModuleFree(h)

	e := cabi.CreateEntity(h)
	id := cabi.ComponentIDFromName("cabi_test.Position", true)

	ptr := cabi.AddComponent(h, e, id, 8)
	*(*float64)(ptr) = 5

	got := cabi.GetComponent(h, e, id)
	require.NotNil(t, got)
	assert.Equal(t, 5.0, *(*float64)(got))

	assert.True(t, cabi.HasComponent(h, e, id))
	assert.True(t, cabi.RemoveComponent(h, e, id))
	assert.False(t, cabi.HasComponent(h, e, id))
}

func TestComponentIDFromNameRoundTrips(t *testing.T) {
	id := cabi.ComponentIDFromName("cabi_test.Velocity", true)
	assert.Equal(t, "cabi_test.Velocity", cabi.ComponentIDName(id))

	again := cabi.ComponentIDFromName("cabi_test.Velocity", false)
	assert.Equal(t, id, again)
}

func TestReleaseEntityInvalidatesComponentAccess(t *testing.T) {
	h := cabi.ModuleInitialize()
	e := cabi.CreateEntity(h)
	id := cabi.ComponentIDFromName("cabi_test.Flag", true)

	ptr := cabi.AddComponent(h, e, id, int(unsafe.Sizeof(uint32(0))))
	*(*uint32)(ptr) = math.MaxUint32

	require.True(t, cabi.ReleaseEntity(h, e, true))
	assert.Nil(t, cabi.GetComponent(h, e, id))
}
