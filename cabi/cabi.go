// Package cabi is the untyped, size-and-pointer interface other
// languages embed this engine through: every component is addressed by
// a numeric id and a byte size rather than a Go type parameter, mirroring
// the reference implementation's extern "C" ecs.h surface. A cgo shim
// sitting in front of this package is a thin, mechanical layer of
// //export wrappers; everything that can panic or allocate lives here
// instead, in ordinary (non-cgo) Go that the rest of the module's tests
// can exercise directly.
package cabi

import (
	"unsafe"

	"github.com/doir-lang/libecrs"
	"github.com/doir-lang/libecrs/registry"
)

// Handle is an opaque reference to a Module, analogous to the reference
// implementation's Module value embedded by pointer in C callers.
type Handle struct {
	module *ecrs.Module
}

// ModuleInitialize creates a new, empty Module and returns a Handle to
// it, resolving component ids against the process-wide registry so ids
// handed out here agree with ids handed out by the typed Go API.
func ModuleInitialize() Handle {
	return Handle{module: ecrs.NewModule()}
}

// ModuleFree releases h's Module. Go's garbage collector reclaims the
// memory regardless; this exists so callers across an FFI boundary have
// an explicit lifetime end to call. It does nothing, and does not consult
// the Module's ShouldLeak flag.
func ModuleFree(h Handle) {
	_ = h // nothing to release explicitly; kept for ABI symmetry.
}

// CreateEntity allocates a new entity in h's module.
func CreateEntity(h Handle) uint64 {
	return uint64(h.module.CreateEntity())
}

// ReleaseEntity releases entity e in h's module.
func ReleaseEntity(h Handle, e uint64, clearMemory bool) bool {
	return h.module.ReleaseEntity(ecrs.Entity(e), clearMemory)
}

// AddComponent adds a componentID-tagged, elementSize-byte component to
// e and returns an unsafe pointer to its storage, for the caller to
// populate. The pointer is valid until the next operation that reorders
// this component's storage.
func AddComponent(h Handle, e uint64, componentID uint64, elementSize int) unsafe.Pointer {
	bytes := h.module.AddRawComponent(ecrs.Entity(e), registry.ComponentID(componentID), elementSize)
	return unsafe.Pointer(&bytes[0])
}

// RemoveComponent removes componentID from e.
func RemoveComponent(h Handle, e uint64, componentID uint64) bool {
	return h.module.RemoveComponentByID(ecrs.Entity(e), registry.ComponentID(componentID))
}

// GetComponent returns an unsafe pointer to e's componentID component, or
// nil if e does not own one.
func GetComponent(h Handle, e uint64, componentID uint64) unsafe.Pointer {
	bytes := h.module.GetRawComponent(ecrs.Entity(e), registry.ComponentID(componentID))
	if bytes == nil {
		return nil
	}
	return unsafe.Pointer(&bytes[0])
}

// HasComponent reports whether e owns componentID.
func HasComponent(h Handle, e uint64, componentID uint64) bool {
	return h.module.HasComponentID(ecrs.Entity(e), registry.ComponentID(componentID))
}

// NextComponentID allocates a fresh component id without registering it
// under any name.
func NextComponentID() uint64 {
	return uint64(registry.Default().NextID())
}

// ComponentIDFromName resolves name to a component id, registering a new
// one if createIfMissing is true and name is not already known.
func ComponentIDFromName(name string, createIfMissing bool) uint64 {
	return uint64(registry.Default().IDFromName(name, createIfMissing))
}

// ComponentIDName returns the name registered for componentID, or an
// empty string if it has none.
func ComponentIDName(componentID uint64) string {
	name, _ := registry.Default().Name(registry.ComponentID(componentID))
	return name
}

// FreeMaps discards the process-wide registry's name<->id associations.
// Only safe once every Handle that might still reference those ids has
// already been freed.
func FreeMaps() {
	registry.Default().FreeMaps()
}
