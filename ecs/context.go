package ecs

import "time"

// Frame is the per-tick input the host hands to a scene.
type Frame struct {
	DeltaTime time.Duration
	Events    []any
}

// Context is passed to every executor. It replaces any global state: the
// scene, its table, the current frame, the command buffer and the shared
// resources are all reachable from here.
type Context struct {
	Scene     *Scene
	Table     *Table
	Frame     Frame
	Commands  *Commands
	Resources *Resources
}

// DeltaSeconds returns the frame delta in seconds.
func (c *Context) DeltaSeconds() float64 {
	return c.Frame.DeltaTime.Seconds()
}
