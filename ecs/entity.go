package ecs

import (
	"fmt"
	"iter"
	"sync/atomic"
)

// EntityId identifies an entity for the lifetime of the process. Values are
// opaque; zero is never a valid id.
type EntityId uint64

// IdGenerator produces candidate entity ids. The table rejects zero and ids
// that are already present and asks for another one.
type IdGenerator func() EntityId

var entitySequence atomic.Uint64

// NewEntityId returns the next process-unique id. It scrambles a global
// counter with a bijective mixer, so ids are never repeated or reused.
func NewEntityId() EntityId {
	return EntityId(mix64(entitySequence.Add(1)))
}

// mix64 is the splitmix64 finalizer. It is a bijection with mix64(0) == 0.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

func (id EntityId) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// Entity is a lightweight handle to a row of a Table. It owns no component
// data; every call goes through the table, and fails with
// ErrUnknownEntityUid once the row has been deleted. Two handles are equal
// when they refer to the same id in the same table.
type Entity struct {
	id    EntityId
	table *Table
}

// Id returns the entity uid.
func (e Entity) Id() EntityId {
	return e.id
}

// Table returns the table the entity lives in.
func (e Entity) Table() *Table {
	return e.table
}

// Alive reports whether the entity row still exists.
func (e Entity) Alive() bool {
	return e.table != nil && e.table.HasEntity(e.id)
}

// Data returns the mandatory EntityData component, or nil when the entity
// is gone.
func (e Entity) Data() *EntityData {
	if e.table == nil {
		return nil
	}
	data, _ := e.table.GetComponent(e.id, EntityDataKind).(*EntityData)
	return data
}

// Name returns the entity name, or "" when the entity is gone.
func (e Entity) Name() string {
	if data := e.Data(); data != nil {
		return data.Name
	}
	return ""
}

// Enabled reports the EntityData enabled flag.
func (e Entity) Enabled() bool {
	if data := e.Data(); data != nil {
		return data.Enabled
	}
	return false
}

// SetEnabled toggles the EntityData enabled flag. Disabled entities stay
// in system queues but are left out of the entities passed to executors.
func (e Entity) SetEnabled(enabled bool) error {
	data := e.Data()
	if data == nil {
		return unknownEntity(e.id)
	}
	data.Enabled = enabled
	return nil
}

// AddComponent attaches component to the entity.
func (e Entity) AddComponent(component any) error {
	if e.table == nil {
		return unknownEntity(e.id)
	}
	return e.table.AddComponent(e.id, component)
}

// Component returns the component of kind, or nil.
func (e Entity) Component(kind ComponentKind) any {
	if e.table == nil {
		return nil
	}
	return e.table.GetComponent(e.id, kind)
}

// RemoveComponent detaches the component of kind.
func (e Entity) RemoveComponent(kind ComponentKind) error {
	if e.table == nil {
		return unknownEntity(e.id)
	}
	return e.table.RemoveComponent(e.id, kind)
}

// Components iterates over the entity components.
func (e Entity) Components() (iter.Seq[any], error) {
	if e.table == nil {
		return nil, unknownEntity(e.id)
	}
	return e.table.IterComponents(e.id)
}

// Match reports whether the entity has every given kind.
func (e Entity) Match(kinds ...ComponentKind) bool {
	if e.table == nil {
		return false
	}
	mask, ok := e.table.Mask(e.id)
	return ok && mask.Contains(NewComponentMask(kinds...))
}

// Delete removes the entity from its table.
func (e Entity) Delete() error {
	if e.table == nil {
		return unknownEntity(e.id)
	}
	return e.table.DeleteEntity(e.id)
}

func (e Entity) String() string {
	if name := e.Name(); name != "" {
		return fmt.Sprintf("%s[%s]", name, e.id)
	}
	return fmt.Sprintf("[%s]", e.id)
}

// Get returns the component of type T attached to e, or nil.
func Get[T any](e Entity) *T {
	if e.table == nil {
		return nil
	}
	return ReadComponent[T](e.table, e.id)
}
