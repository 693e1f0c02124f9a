package ecs

import (
	"reflect"
)

// ComponentKind is the dense identifier a registry assigns to a component
// type. It indexes the table's columns and the bits of a ComponentMask.
type ComponentKind uint8

// EntityDataKind is always the kind of EntityData.
const EntityDataKind ComponentKind = 0

const maxComponentKinds = 256

// EntityData is attached to every entity on creation and cannot be removed.
type EntityData struct {
	Name    string
	Uid     EntityId
	Enabled bool
}

type componentInfo struct {
	typ     reflect.Type
	factory func() iComponentStorage
}

// ComponentRegistry manages component type registration for a set of tables.
// Each type registered gets the next free ComponentKind, so the registration
// order fixes the kinds. Scenes that share a registry share kinds.
type ComponentRegistry struct {
	kinds map[reflect.Type]ComponentKind
	infos []componentInfo
}

// NewComponentRegistry creates a registry with EntityData already registered.
func NewComponentRegistry() *ComponentRegistry {
	r := &ComponentRegistry{
		kinds: make(map[reflect.Type]ComponentKind),
	}
	RegisterComponent[EntityData](r)
	return r
}

// RegisterComponent registers T with the registry and returns its kind.
// Registering the same type twice returns the existing kind.
func RegisterComponent[T any](r *ComponentRegistry) ComponentKind {
	t := reflect.TypeFor[T]()
	if kind, ok := r.kinds[t]; ok {
		return kind
	}

	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		panic("components cannot be pointers, maps, channels, functions or interfaces: " + t.String())
	}
	if len(r.infos) >= maxComponentKinds {
		panic("too many component kinds registered, cannot register " + t.String())
	}

	kind := ComponentKind(len(r.infos))
	r.kinds[t] = kind
	r.infos = append(r.infos, componentInfo{
		typ: t,
		factory: func() iComponentStorage {
			return &genericComponentStorage[T]{}
		},
	})
	return kind
}

// KindOf returns the kind registered for T. It panics when T was never
// registered, which is a setup mistake rather than a runtime condition.
func KindOf[T any](r *ComponentRegistry) ComponentKind {
	kind, ok := r.Lookup(reflect.TypeFor[T]())
	if !ok {
		panic("component type " + reflect.TypeFor[T]().String() + " not registered")
	}
	return kind
}

// Lookup returns the kind registered for t.
func (r *ComponentRegistry) Lookup(t reflect.Type) (ComponentKind, bool) {
	kind, ok := r.kinds[t]
	return kind, ok
}

// Type returns the Go type registered under kind, or nil.
func (r *ComponentRegistry) Type(kind ComponentKind) reflect.Type {
	if int(kind) >= len(r.infos) {
		return nil
	}
	return r.infos[kind].typ
}

// Name returns a readable name for kind.
func (r *ComponentRegistry) Name(kind ComponentKind) string {
	if t := r.Type(kind); t != nil {
		return t.String()
	}
	return "<unregistered>"
}

// Len returns the number of registered kinds, EntityData included.
func (r *ComponentRegistry) Len() int {
	return len(r.infos)
}

// kindOfValue resolves the kind of a component value. Pointers to
// registered types are accepted and resolve to the pointed-to type.
func (r *ComponentRegistry) kindOfValue(component any) (ComponentKind, bool) {
	t := reflect.TypeOf(component)
	if t == nil {
		return 0, false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return r.Lookup(t)
}

func (r *ComponentRegistry) newStorage(kind ComponentKind) iComponentStorage {
	return r.infos[kind].factory()
}
