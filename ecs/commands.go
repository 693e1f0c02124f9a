package ecs

import "github.com/rotisserie/eris"

// Commands buffers structural changes requested while systems run. The scene
// applies them after every pipeline run, so executors never see the table
// change under the entity slice they were given.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityId
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	name       string
	components []any
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity EntityId
	kind   ComponentKind
}

// Defer queues a function to run after every other queued operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues the creation of an entity with the given components.
func (c *Commands) Spawn(name string, components ...any) {
	c.spawns = append(c.spawns, spawnCommand{name: name, components: components})
}

// Destroy queues an entity deletion.
func (c *Commands) Destroy(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues a component addition.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal.
func (c *Commands) RemoveComponent(entity EntityId, kind ComponentKind) {
	c.removes = append(c.removes, removeComponentCommand{
		entity: entity,
		kind:   kind,
	})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies the queued operations to table and resets the buffer.
// Deletions go first; additions and removals aimed at an entity deleted in
// the same flush are dropped. Every operation is attempted, and the first
// failure is returned.
func (c *Commands) Flush(table *Table) error {
	var first error
	fail := func(err error) {
		if err != nil && first == nil {
			first = eris.Wrap(err, "flushing commands")
		}
	}

	deleted := make(map[EntityId]bool, len(c.deletes))
	for _, id := range c.deletes {
		if deleted[id] {
			continue
		}
		deleted[id] = true
		fail(table.DeleteEntity(id))
	}

	for _, cmd := range c.removes {
		if !deleted[cmd.entity] {
			fail(table.RemoveComponent(cmd.entity, cmd.kind))
		}
	}

	for _, cmd := range c.adds {
		if !deleted[cmd.entity] {
			fail(table.AddComponent(cmd.entity, cmd.component))
		}
	}

	for _, cmd := range c.spawns {
		_, err := table.CreateEntity(cmd.name, cmd.components...)
		fail(err)
	}

	defers := c.defers
	c.reset()

	for _, fn := range defers {
		fn()
	}
	return first
}

func (c *Commands) reset() {
	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = nil
}
