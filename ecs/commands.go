package ecs

import "reflect"

// Commands buffers structural changes so they can be applied after iteration
// is done. Systems queue on the frame's Commands and the Scheduler flushes it
// once every system has run.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityId
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
}

// NewCommands creates an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues a function to run after all other commands.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn with components of registered types.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Delete queues an entity deletion.
func (c *Commands) Delete(entity EntityId) {
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
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies the queued commands to r and resets the buffer. Deletes run
// first, then removes, adds, spawns and deferred functions. Commands that
// target an entity which is stale by the time they run are dropped, as are
// removes of components the entity no longer has and adds of components it
// already has. Commands queued while flushing, typically from a deferred
// function, are applied in a further pass before Flush returns.
func (c *Commands) Flush(r *Registry) {
	for c.Len() > 0 {
		deletes, removes, adds, spawns, defers := c.deletes, c.removes, c.adds, c.spawns, c.defers
		c.deletes, c.removes, c.adds, c.spawns, c.defers = nil, nil, nil, nil, nil

		for _, id := range deletes {
			if r.IsEntityValid(id) {
				r.DeleteEntity(id)
			}
		}

		for _, cmd := range removes {
			if r.IsEntityValid(cmd.entity) && r.HasComponentType(cmd.entity, cmd.compType) {
				r.RemoveComponentType(cmd.entity, cmd.compType)
			}
		}

		for _, cmd := range adds {
			if !r.IsEntityValid(cmd.entity) {
				continue
			}
			info := r.typeInfoOf(cmd.component)
			if r.HasComponentType(cmd.entity, info.Type) {
				continue
			}
			r.addComponent(cmd.entity, info, cmd.component)
		}

		for _, cmd := range spawns {
			r.Spawn(cmd.components...)
		}

		for _, fn := range defers {
			fn()
		}

		if c.Len() == 0 {
			// Keep the backing arrays for the next frame.
			c.deletes, c.removes, c.adds = deletes[:0], removes[:0], adds[:0]
			c.spawns, c.defers = spawns[:0], defers[:0]
		}
	}
}
