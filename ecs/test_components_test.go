package ecs_test

import "github.com/plus3/scenery/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

type TestA string
type TestB string
type TestC string

type Inventory struct {
	Items []string
}

type Link struct {
	Next *Position
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[PlayerController](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Tag](registry)
	ecs.RegisterComponent[TestA](registry)
	ecs.RegisterComponent[TestB](registry)
	ecs.RegisterComponent[TestC](registry)
	ecs.RegisterComponent[Inventory](registry)
	ecs.RegisterComponent[Link](registry)
	return registry
}

func newTestTable(opts ...ecs.TableOption) *ecs.Table {
	return ecs.NewTable(newTestRegistry(), opts...)
}

// sequence returns an id generator yielding ids in order and then
// continuing from the last one.
func sequence(ids ...ecs.EntityId) ecs.IdGenerator {
	i := 0
	return func() ecs.EntityId {
		if i < len(ids) {
			id := ids[i]
			i++
			return id
		}
		ids[len(ids)-1]++
		return ids[len(ids)-1]
	}
}

func ids(entities []ecs.Entity) []ecs.EntityId {
	out := make([]ecs.EntityId, len(entities))
	for i, e := range entities {
		out[i] = e.Id()
	}
	return out
}
