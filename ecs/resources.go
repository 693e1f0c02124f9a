package ecs

import "reflect"

// Resources holds values that are not attached to any entity, keyed by
// their Go type. An App shares one Resources across all of its scenes.
type Resources struct {
	values map[reflect.Type]any
}

// NewResources creates an empty resource set.
func NewResources() *Resources {
	return &Resources{
		values: make(map[reflect.Type]any),
	}
}

// SetResource stores value as the T resource, replacing any previous one,
// and returns a pointer to the stored copy.
func SetResource[T any](r *Resources, value T) *T {
	ptr := new(T)
	*ptr = value
	r.values[reflect.TypeFor[T]()] = ptr
	return ptr
}

// GetResource returns the T resource.
func GetResource[T any](r *Resources) (*T, bool) {
	if r == nil {
		return nil, false
	}
	value, ok := r.values[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return value.(*T), true
}

// MustResource returns the T resource, creating a zero value when absent.
func MustResource[T any](r *Resources) *T {
	if ptr, ok := GetResource[T](r); ok {
		return ptr
	}
	var zero T
	return SetResource(r, zero)
}

// RemoveResource deletes the T resource and reports whether it existed.
func RemoveResource[T any](r *Resources) bool {
	t := reflect.TypeFor[T]()
	if _, ok := r.values[t]; !ok {
		return false
	}
	delete(r.values, t)
	return true
}

// Len returns the number of stored resources.
func (r *Resources) Len() int {
	return len(r.values)
}

// Types returns the Go types of the stored resources.
func (r *Resources) Types() []reflect.Type {
	types := make([]reflect.Type, 0, len(r.values))
	for t := range r.values {
		types = append(types, t)
	}
	return types
}
