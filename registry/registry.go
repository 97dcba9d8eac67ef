// Package registry assigns stable numeric ids to component types.
//
// A component type is resolved either from a compile-time type token
// (RegisterType, keyed on reflect.Type) or from a runtime string name
// (IDFromName). Both paths share the same id space: registering a type
// also registers its demangled name, so a later name lookup for that same
// type resolves to the id the generic path already handed out.
//
// A Registry is not safe for concurrent use - this mirrors the reference
// implementation, which documents its id counter as thread-unsafe by
// design (see spec.md's Non-goals: multi-threaded access is out of scope).
package registry

import (
	"fmt"
	"log/slog"
	"reflect"
)

// ComponentID is a stable, dense, monotonically increasing identifier for
// a component type.
type ComponentID uint64

// Invalid is the "not found" sentinel, matching the C-ABI's all-ones
// convention (spec.md §6).
const Invalid ComponentID = ^ComponentID(0)

type typeKey struct {
	t      reflect.Type
	unique uint64
}

// Registry is a process-wide or private id assignment table. The zero
// value is not usable; construct one with New.
type Registry struct {
	nextID        ComponentID
	types         map[typeKey]ComponentID
	forward       map[string]ComponentID
	reverse       map[ComponentID]string
	stringLookup  bool
	logger        *slog.Logger
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithStringLookup enables or disables the forward name->id map. Disabling
// it is the Go translation of the reference implementation's
// DISABLE_STRING_COMPONENT_LOOKUP compile-time switch: ids are still
// assigned and still reverse-resolve to a name, but IDFromName can no
// longer find an existing id by name (it always behaves as a miss).
func WithStringLookup(enabled bool) Option {
	return func(r *Registry) { r.stringLookup = enabled }
}

// WithLogger attaches a structured logger used for Debug-level tracing of
// registrations. A nil logger (the default) disables this tracing.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		types:        make(map[typeKey]ComponentID),
		forward:      make(map[string]ComponentID),
		reverse:      make(map[ComponentID]string),
		stringLookup: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRegistry = New()

// Default returns the shared process-wide Registry. Most programs only
// ever need this one; pass an explicit *Registry to ecrs.NewModule when a
// test needs isolation from other tests' registrations.
func Default() *Registry { return defaultRegistry }

// NextID allocates and returns a fresh id, without registering it under
// any name. This is the raw post-increment counter of spec.md §4.1.
func (r *Registry) NextID() ComponentID {
	id := r.nextID
	r.nextID++
	return id
}

// IDFromName looks up the id registered for name. If there is no such id
// and createIfMissing is false, it returns Invalid. If createIfMissing is
// true, a fresh id is allocated and registered under name.
func (r *Registry) IDFromName(name string, createIfMissing bool) ComponentID {
	if r.stringLookup {
		if id, ok := r.forward[name]; ok {
			return id
		}
	}
	if !createIfMissing {
		return Invalid
	}
	id := r.NextID()
	if r.stringLookup {
		r.forward[name] = id
	}
	r.reverse[id] = name
	if r.logger != nil {
		r.logger.Debug("registered component name", "name", name, "id", id)
	}
	return id
}

// Name returns the name registered for id, if any.
func (r *Registry) Name(id ComponentID) (string, bool) {
	name, ok := r.reverse[id]
	return name, ok
}

// FreeMaps discards every name<->id association and resets the id
// counter. Existing Storage columns indexed by the old ids are left
// untouched, so this is only safe to call once every Module that used
// this Registry has also been discarded - the Go translation of
// ecrs_component_id_free_maps, which exists in the reference
// implementation purely so a process about to exit can make its leak
// checker happy.
func (r *Registry) FreeMaps() {
	r.nextID = 0
	r.types = make(map[typeKey]ComponentID)
	r.forward = make(map[string]ComponentID)
	r.reverse = make(map[ComponentID]string)
}

// RegisterType resolves the stable ComponentID for type T, uniquified by
// the unique tag (0 for the common case of one component per type). The
// first call for a given (T, unique) pair allocates and caches the id
// under the type's name (T's name, with a decimal ".N" suffix appended
// when unique > 0); every subsequent call for that pair returns the
// cached id. This mirrors get_global_component_id<T, Unique> from
// component_id.hpp, translating the reference's type-name demangling
// (platform dependent, via abi::__cxa_demangle) into reflect.Type.String.
func RegisterType[T any](r *Registry, unique uint64) ComponentID {
	var zero T
	key := typeKey{t: reflect.TypeOf(zero), unique: unique}
	if key.t == nil {
		key.t = reflect.TypeOf((*T)(nil)).Elem()
	}
	if id, ok := r.types[key]; ok {
		return id
	}

	id := r.NextID()
	r.types[key] = id

	name := key.t.String()
	if unique > 0 {
		name = fmt.Sprintf("%s.%d", name, unique)
	}
	if r.stringLookup {
		r.forward[name] = id
	}
	r.reverse[id] = name
	if r.logger != nil {
		r.logger.Debug("registered component type", "type", name, "id", id)
	}
	return id
}

// ComponentIDFor returns the id already assigned to (T, unique) without
// allocating a new one, reporting ok=false if T has never been
// registered.
func ComponentIDFor[T any](r *Registry, unique uint64) (ComponentID, bool) {
	var zero T
	key := typeKey{t: reflect.TypeOf(zero), unique: unique}
	if key.t == nil {
		key.t = reflect.TypeOf((*T)(nil)).Elem()
	}
	id, ok := r.types[key]
	return id, ok
}
