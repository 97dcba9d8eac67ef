package ecrs

// Entity is an opaque identifier for a row of components. It is dense and
// recycled: released ids are handed back out by a later CreateEntity
// before the id space grows further.
type Entity uint64

// InvalidEntity is the reserved "no entity" value. Module.CreateEntity
// never returns it.
const InvalidEntity Entity = 0

// IsValid reports whether e is not the reserved invalid entity. It does
// not check whether e was ever created or has since been released - use
// Module.IsAlive for that.
func (e Entity) IsValid() bool { return e != InvalidEntity }
