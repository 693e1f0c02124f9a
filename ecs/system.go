package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// Executor is the behaviour of a system. It is called once per pipeline run
// with the entities the system matched when the run started.
type Executor interface {
	Execute(ctx *Context, entities []Entity) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx *Context, entities []Entity) error

// Execute calls f.
func (f ExecutorFunc) Execute(ctx *Context, entities []Entity) error {
	return f(ctx, entities)
}

// System pairs an executor with the component kinds it requires and keeps a
// cache of the entities that currently satisfy the requirement. The cache is
// maintained incrementally by the scene and rebuilt by UpdateEntities.
type System struct {
	name     string
	requires ComponentMask
	priority int
	executor Executor
	table    *Table
	queue    entityQueue
}

// NewSystem creates a system. A system without required kinds matches every
// entity. A nil executor is rejected with ErrSystemExecutorIsNotCallable.
func NewSystem(name string, executor Executor, requires ...ComponentKind) (*System, error) {
	if !callable(executor) {
		return nil, eris.Wrapf(ErrSystemExecutorIsNotCallable, "system %q", name)
	}
	return &System{
		name:     name,
		requires: NewComponentMask(requires...),
		executor: executor,
		queue:    newEntityQueue(),
	}, nil
}

// callable rejects nil executors, typed nils included.
func callable(executor Executor) bool {
	if executor == nil {
		return false
	}
	v := reflect.ValueOf(executor)
	switch v.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Chan, reflect.Interface, reflect.Slice:
		return !v.IsNil()
	}
	return true
}

// WithPriority sets the ordering key inside a pipeline. Lower priorities run
// first; systems with equal priority run in registration order. Pipelines
// re-sort at the start of every run, so the priority may change at any time.
func (s *System) WithPriority(priority int) *System {
	s.priority = priority
	return s
}

// Name returns the system name.
func (s *System) Name() string {
	return s.name
}

// Priority returns the ordering key of the system.
func (s *System) Priority() int {
	return s.priority
}

// Requires returns the required component kinds in ascending order.
func (s *System) Requires() []ComponentKind {
	return s.requires.Kinds()
}

// Bind attaches the system to a table and clears its cache. Call
// UpdateEntities afterwards to populate it.
func (s *System) Bind(table *Table) {
	s.table = table
	s.queue.Clear()
}

// Table returns the bound table, or nil.
func (s *System) Table() *Table {
	return s.table
}

// MatchEntity reports whether the entity holds every required kind.
func (s *System) MatchEntity(id EntityId) bool {
	if s.table == nil {
		return false
	}
	mask, ok := s.table.Mask(id)
	return ok && mask.Contains(s.requires)
}

// AddEntity queues the entity. Queuing an already queued entity is a no-op.
func (s *System) AddEntity(id EntityId) error {
	if s.table == nil || !s.table.HasEntity(id) {
		return unknownEntity(id)
	}
	s.queue.Add(id)
	return nil
}

// RemoveEntity drops the entity from the queue. It fails with
// ErrEntityNotQueued when the entity is not queued.
func (s *System) RemoveEntity(id EntityId) error {
	if !s.queue.Remove(id) {
		return eris.Wrapf(ErrEntityNotQueued, "system %q, uid %s", s.name, id)
	}
	return nil
}

// Contains reports whether the entity is queued.
func (s *System) Contains(id EntityId) bool {
	return s.queue.Has(id)
}

// Len returns the number of queued entities.
func (s *System) Len() int {
	return s.queue.Len()
}

// UpdateEntities rebuilds the queue from every live entity of the table.
func (s *System) UpdateEntities() {
	s.queue.Clear()
	if s.table == nil {
		return
	}
	for e := range s.table.IterEntities() {
		if s.MatchEntity(e.id) {
			s.queue.Add(e.id)
		}
	}
}

// Entities returns a snapshot of the queued, enabled entities. The slice is
// not affected by later changes to the queue.
func (s *System) Entities() []Entity {
	ids := s.queue.Ids()
	entities := make([]Entity, 0, len(ids))
	for _, id := range ids {
		e := Entity{id: id, table: s.table}
		if e.Enabled() {
			entities = append(entities, e)
		}
	}
	return entities
}

// Run invokes the executor once with a snapshot of the matched entities.
func (s *System) Run(ctx *Context) error {
	return s.executor.Execute(ctx, s.Entities())
}

// reset drops the table reference and the cache.
func (s *System) reset() {
	s.table = nil
	s.queue.Clear()
}
