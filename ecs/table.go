package ecs

import (
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

// TableObserver is notified synchronously after every successful structural
// change of a Table.
type TableObserver interface {
	EntityCreated(e Entity)
	ComponentsChanged(e Entity)
	EntityDeleted(id EntityId)
}

type tableRow struct {
	id   EntityId
	mask ComponentMask
	live bool
}

// Table stores entities and their components.
//
// Every entity occupies a slot. Slots are dense and recycled after
// deletion, ids are not. Components of one kind live in a single column
// indexed by slot, and each slot carries a mask of the kinds it holds.
//
//	slot | uid  | EntityData | Position | Velocity | ...
//	-----|------|------------|----------|----------|
//	0    | 3f.. | {...}      | {1, 2}   |          |
//	1    | a9.. | {...}      |          | {0, 1}   |
type Table struct {
	registry  *ComponentRegistry
	index     *intmap.Map[EntityId, uint32]
	rows      []tableRow
	free      []uint32
	columns   []iComponentStorage
	count     int
	generate  IdGenerator
	observers []TableObserver
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithIdGenerator replaces the id generator, NewEntityId by default.
func WithIdGenerator(generate IdGenerator) TableOption {
	return func(t *Table) {
		t.generate = generate
	}
}

// NewTable creates an empty table using the given component registry.
func NewTable(registry *ComponentRegistry, opts ...TableOption) *Table {
	t := &Table{
		registry: registry,
		index:    intmap.New[EntityId, uint32](256),
		columns:  make([]iComponentStorage, registry.Len()),
		generate: NewEntityId,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func unknownEntity(id EntityId) error {
	return eris.Wrapf(ErrUnknownEntityUid, "uid %s", id)
}

// Registry returns the component registry of the table.
func (t *Table) Registry() *ComponentRegistry {
	return t.registry
}

// Observe registers an observer for structural changes.
func (t *Table) Observe(o TableObserver) {
	t.observers = append(t.observers, o)
}

// Unobserve removes a previously registered observer.
func (t *Table) Unobserve(o TableObserver) {
	for i, existing := range t.observers {
		if existing == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live entities.
func (t *Table) Len() int {
	return t.count
}

func (t *Table) slotOf(id EntityId) (uint32, bool) {
	return t.index.Get(id)
}

// allocateId asks the generator for ids until one is free.
func (t *Table) allocateId() EntityId {
	id := t.generate()
	for {
		if _, taken := t.slotOf(id); id != 0 && !taken {
			return id
		}
		id = t.generate()
	}
}

func (t *Table) allocateSlot(id EntityId) uint32 {
	var slot uint32
	if n := len(t.free); n > 0 {
		slot = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		slot = uint32(len(t.rows))
		t.rows = append(t.rows, tableRow{})
	}
	t.rows[slot] = tableRow{id: id, live: true}
	t.index.Put(id, slot)
	t.count++
	return slot
}

func (t *Table) column(kind ComponentKind) iComponentStorage {
	for int(kind) >= len(t.columns) {
		t.columns = append(t.columns, nil)
	}
	if t.columns[kind] == nil {
		t.columns[kind] = t.registry.newStorage(kind)
	}
	return t.columns[kind]
}

// CreateEntity creates a new entity with EntityData and the given
// components. Creation is atomic: if any component is rejected the entity
// is not created and the error is returned.
func (t *Table) CreateEntity(name string, components ...any) (Entity, error) {
	id := t.allocateId()
	slot := t.allocateSlot(id)

	t.column(EntityDataKind).Set(int(slot), EntityData{Name: name, Uid: id, Enabled: true})
	t.rows[slot].mask.Set(EntityDataKind)

	for _, component := range components {
		if err := t.attach(id, slot, component); err != nil {
			t.release(slot)
			return Entity{}, err
		}
	}

	e := Entity{id: id, table: t}
	for _, o := range t.observers {
		o.EntityCreated(e)
	}
	return e, nil
}

// GetEntityByUid returns the Entity for id. When the entity does not exist
// it returns def[0] if a default was supplied, nil included, and
// ErrUnknownEntityUid otherwise.
func (t *Table) GetEntityByUid(id EntityId, def ...any) (any, error) {
	if _, ok := t.slotOf(id); !ok {
		if len(def) > 0 {
			return def[0], nil
		}
		return nil, unknownEntity(id)
	}
	return Entity{id: id, table: t}, nil
}

// Entity is the typed form of GetEntityByUid without a default.
func (t *Table) Entity(id EntityId) (Entity, error) {
	if _, ok := t.slotOf(id); !ok {
		return Entity{}, unknownEntity(id)
	}
	return Entity{id: id, table: t}, nil
}

// HasEntity reports whether id is a live entity.
func (t *Table) HasEntity(id EntityId) bool {
	_, ok := t.slotOf(id)
	return ok
}

// DeleteEntity removes the entity and all of its components.
func (t *Table) DeleteEntity(id EntityId) error {
	slot, ok := t.slotOf(id)
	if !ok {
		return unknownEntity(id)
	}
	t.release(slot)
	for _, o := range t.observers {
		o.EntityDeleted(id)
	}
	return nil
}

func (t *Table) release(slot uint32) {
	row := &t.rows[slot]
	for _, kind := range row.mask.Kinds() {
		t.columns[kind].Delete(int(slot))
	}
	t.index.Del(row.id)
	*row = tableRow{}
	t.free = append(t.free, slot)
	t.count--
}

func (t *Table) attach(id EntityId, slot uint32, component any) error {
	kind, ok := t.registry.kindOfValue(component)
	if !ok {
		return eris.Wrapf(ErrUnregisteredComponent, "%T", component)
	}
	row := &t.rows[slot]
	if row.mask.Has(kind) {
		return eris.Wrapf(ErrComponentsCollision, "entity %s already has a %s component", id, t.registry.Name(kind))
	}
	if !t.column(kind).Set(int(slot), component) {
		return eris.Wrapf(ErrUnregisteredComponent, "cannot store %T", component)
	}
	row.mask.Set(kind)
	return nil
}

// AddComponent attaches component to the entity. Components may be passed
// by value or by pointer; they are always copied into the table.
func (t *Table) AddComponent(id EntityId, component any) error {
	slot, ok := t.slotOf(id)
	if !ok {
		return unknownEntity(id)
	}
	if err := t.attach(id, slot, component); err != nil {
		return err
	}
	t.changed(id)
	return nil
}

// GetComponent returns a pointer to the component of kind attached to the
// entity, or nil when either the entity or the component is absent.
func (t *Table) GetComponent(id EntityId, kind ComponentKind) any {
	slot, ok := t.slotOf(id)
	if !ok || !t.rows[slot].mask.Has(kind) {
		return nil
	}
	return t.columns[kind].Get(int(slot))
}

// RemoveComponent detaches the component of kind. Removing a component the
// entity does not have is a no-op; removing EntityData always fails.
func (t *Table) RemoveComponent(id EntityId, kind ComponentKind) error {
	slot, ok := t.slotOf(id)
	if !ok {
		return unknownEntity(id)
	}
	if kind == EntityDataKind {
		return eris.Wrapf(ErrEntityDataRemovalAttempt, "entity %s", id)
	}
	row := &t.rows[slot]
	if !row.mask.Has(kind) {
		return nil
	}
	t.columns[kind].Delete(int(slot))
	row.mask.Unset(kind)
	t.changed(id)
	return nil
}

func (t *Table) changed(id EntityId) {
	e := Entity{id: id, table: t}
	for _, o := range t.observers {
		o.ComponentsChanged(e)
	}
}

// Mask returns the component kinds attached to the entity.
func (t *Table) Mask(id EntityId) (ComponentMask, bool) {
	slot, ok := t.slotOf(id)
	if !ok {
		return ComponentMask{}, false
	}
	return t.rows[slot].mask, true
}

// IterEntities iterates over live entities in slot order.
func (t *Table) IterEntities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for slot := 0; slot < len(t.rows); slot++ {
			row := t.rows[slot]
			if !row.live {
				continue
			}
			if !yield(Entity{id: row.id, table: t}) {
				return
			}
		}
	}
}

// IterComponents iterates over the components of an entity, EntityData
// first, as pointers into the table.
func (t *Table) IterComponents(id EntityId) (iter.Seq[any], error) {
	if _, ok := t.slotOf(id); !ok {
		return nil, unknownEntity(id)
	}
	return func(yield func(any) bool) {
		slot, ok := t.slotOf(id)
		if !ok {
			return
		}
		for _, kind := range t.rows[slot].mask.Kinds() {
			if !yield(t.columns[kind].Get(int(slot))) {
				return
			}
		}
	}, nil
}

// GetEntities returns every live entity.
func (t *Table) GetEntities() []Entity {
	entities := make([]Entity, 0, t.count)
	for e := range t.IterEntities() {
		entities = append(entities, e)
	}
	return entities
}

// GetEntitiesByComponents returns the entities holding all of kinds, or
// with partial set, at least one of them. No kinds matches every entity
// when partial is false and none when it is true.
func (t *Table) GetEntitiesByComponents(partial bool, kinds ...ComponentKind) []Entity {
	want := NewComponentMask(kinds...)
	entities := make([]Entity, 0)
	for _, row := range t.rows {
		if !row.live {
			continue
		}
		var match bool
		if partial {
			match = row.mask.Intersects(want)
		} else {
			match = row.mask.Contains(want)
		}
		if match {
			entities = append(entities, Entity{id: row.id, table: t})
		}
	}
	return entities
}

// ComponentReader is implemented by anything that can resolve components by
// entity and kind.
type ComponentReader interface {
	GetComponent(EntityId, ComponentKind) any
	Registry() *ComponentRegistry
}

// ReadComponent returns the T attached to entityId, or nil when the entity,
// the component, or the registration of T is missing.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	kind, ok := reader.Registry().Lookup(reflect.TypeFor[T]())
	if !ok {
		return nil
	}
	component, _ := reader.GetComponent(entityId, kind).(*T)
	return component
}

// TableStats summarises table occupancy.
type TableStats struct {
	EntityCount int
	SlotCount   int
	FreeSlots   int
	Components  []ComponentStats
}

// ComponentStats is the occupancy of one component kind.
type ComponentStats struct {
	Kind  ComponentKind
	Name  string
	Count int
}

// CollectStats reports entity and per-kind component counts.
func (t *Table) CollectStats() TableStats {
	stats := TableStats{
		EntityCount: t.count,
		SlotCount:   len(t.rows),
		FreeSlots:   len(t.free),
	}
	for kind, column := range t.columns {
		if column == nil || column.Len() == 0 {
			continue
		}
		stats.Components = append(stats.Components, ComponentStats{
			Kind:  ComponentKind(kind),
			Name:  t.registry.Name(ComponentKind(kind)),
			Count: column.Len(),
		})
	}
	return stats
}
