package ecs_test

import (
	"testing"

	"github.com/plus3/scenery/ecs"
)

func BenchmarkCreateEntity(b *testing.B) {
	table := newTestTable()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = table.CreateEntity("e", Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkCreateEntityWithMultipleComponents(b *testing.B) {
	table := newTestTable()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = table.CreateEntity("e",
			Position{X: 1.0, Y: 2.0},
			Velocity{DX: 0.5, DY: 0.5},
			Health{Current: 100, Max: 100},
			Name{Value: "Entity"},
		)
	}
}

func BenchmarkDeleteEntity(b *testing.B) {
	table := newTestTable()

	ids := make([]ecs.EntityId, b.N)
	for i := 0; i < b.N; i++ {
		e, _ := table.CreateEntity("e", Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
		ids[i] = e.Id()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = table.DeleteEntity(ids[i])
	}
}

func BenchmarkReadComponent(b *testing.B) {
	table := newTestTable()
	e, _ := table.CreateEntity("e", Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ecs.ReadComponent[Position](table, e.Id())
	}
}

func BenchmarkGetComponentByKind(b *testing.B) {
	table := newTestTable()
	position := ecs.KindOf[Position](table.Registry())
	e, _ := table.CreateEntity("e", Position{X: 1.0, Y: 2.0})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = table.GetComponent(e.Id(), position)
	}
}

func BenchmarkAddRemoveComponent(b *testing.B) {
	table := newTestTable()
	velocity := ecs.KindOf[Velocity](table.Registry())
	e, _ := table.CreateEntity("e", Position{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = table.AddComponent(e.Id(), Velocity{DX: 1})
		_ = table.RemoveComponent(e.Id(), velocity)
	}
}

func BenchmarkSceneUpdate(b *testing.B) {
	registry := newTestRegistry()
	position, velocity := ecs.KindOf[Position](registry), ecs.KindOf[Velocity](registry)
	scene := ecs.NewScene("bench", registry)

	for i := 0; i < 10000; i++ {
		_ = scene.AddEntity("e", Position{}, Velocity{DX: 1, DY: 1})
	}
	movement, _ := ecs.NewSystem("movement", ecs.ExecutorFunc(func(ctx *ecs.Context, entities []ecs.Entity) error {
		for _, e := range entities {
			pos, vel := ecs.Get[Position](e), ecs.Get[Velocity](e)
			pos.X += vel.DX
			pos.Y += vel.DY
		}
		return nil
	}), position, velocity)
	_ = scene.AddSystem(ecs.PipelineUpdate, movement)
	_ = scene.Start()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = scene.Update(ecs.Frame{})
	}
}

func BenchmarkGetEntitiesByComponents(b *testing.B) {
	table := newTestTable()
	registry := table.Registry()
	position, health := ecs.KindOf[Position](registry), ecs.KindOf[Health](registry)

	for i := 0; i < 10000; i++ {
		if i%3 == 0 {
			_, _ = table.CreateEntity("e", Position{}, Health{})
		} else {
			_, _ = table.CreateEntity("e", Position{})
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = table.GetEntitiesByComponents(false, position, health)
	}
}
