package main

import (
	"fmt"
	"math/rand"

	"github.com/plus3/scenery/ecs"
)

type Position struct{ X, Y float64 }
type Velocity struct{ X, Y float64 }
type Acceleration struct{ X, Y float64 }
type Health struct{ Current, Max int }
type Damage struct{ Amount int }
type Armor struct{ Value int }
type Mass struct{ Value float64 }
type Lifetime struct{ Remaining float64 }
type Heat struct{ Value float64 }
type Energy struct{ Value float64 }
type Score struct{ Points int64 }
type Tag struct{ Label string }
type Counter struct{ Ticks uint64 }
type Bounds struct{ W, H float64 }
type Rotation struct{ Angle float64 }
type Spin struct{ Rate float64 }

// componentFactories creates one instance of every stress component type.
var componentFactories = []func() any{
	func() any { return Position{X: rand.Float64(), Y: rand.Float64()} },
	func() any { return Velocity{X: rand.Float64() - 0.5, Y: rand.Float64() - 0.5} },
	func() any { return Acceleration{X: 0.01, Y: -0.01} },
	func() any { return Health{Current: 100, Max: 100} },
	func() any { return Damage{Amount: rand.Intn(10)} },
	func() any { return Armor{Value: rand.Intn(5)} },
	func() any { return Mass{Value: 1 + rand.Float64()} },
	func() any { return Lifetime{Remaining: 1 + rand.Float64()*10} },
	func() any { return Heat{} },
	func() any { return Energy{Value: 50} },
	func() any { return Score{} },
	func() any { return Tag{Label: "stress"} },
	func() any { return Counter{} },
	func() any { return Bounds{W: 1, H: 1} },
	func() any { return Rotation{} },
	func() any { return Spin{Rate: rand.Float64()} },
}

func RegisterAllComponents(registry *ecs.ComponentRegistry) []ecs.ComponentKind {
	return []ecs.ComponentKind{
		ecs.RegisterComponent[Position](registry),
		ecs.RegisterComponent[Velocity](registry),
		ecs.RegisterComponent[Acceleration](registry),
		ecs.RegisterComponent[Health](registry),
		ecs.RegisterComponent[Damage](registry),
		ecs.RegisterComponent[Armor](registry),
		ecs.RegisterComponent[Mass](registry),
		ecs.RegisterComponent[Lifetime](registry),
		ecs.RegisterComponent[Heat](registry),
		ecs.RegisterComponent[Energy](registry),
		ecs.RegisterComponent[Score](registry),
		ecs.RegisterComponent[Tag](registry),
		ecs.RegisterComponent[Counter](registry),
		ecs.RegisterComponent[Bounds](registry),
		ecs.RegisterComponent[Rotation](registry),
		ecs.RegisterComponent[Spin](registry),
	}
}

// RandomComponents picks n distinct stress components.
func RandomComponents(n int) []any {
	picks := rand.Perm(len(componentFactories))[:min(n, len(componentFactories))]
	components := make([]any, len(picks))
	for i, p := range picks {
		components[i] = componentFactories[p]()
	}
	return components
}

// RegisterAllSystems adds count systems to the update pipeline. System i
// requires kinds i and i+1 modulo the number of kinds, and touches every
// component of its entities. Every churnEvery-th system also destroys one
// entity and spawns a replacement through the command buffer.
func RegisterAllSystems(scene *ecs.Scene, kinds []ecs.ComponentKind, count, churnEvery int) error {
	for i := 0; i < count; i++ {
		requires := []ecs.ComponentKind{kinds[i%len(kinds)], kinds[(i+1)%len(kinds)]}
		churn := churnEvery > 0 && i%churnEvery == 0

		system, err := ecs.NewSystem(fmt.Sprintf("stress-%03d", i), ecs.ExecutorFunc(func(ctx *ecs.Context, entities []ecs.Entity) error {
			for _, e := range entities {
				touched := 0
				for _, kind := range requires {
					if e.Component(kind) != nil {
						touched++
					}
				}
				if c := ecs.Get[Counter](e); c != nil {
					c.Ticks += uint64(touched)
				}
			}
			if churn && len(entities) > 0 {
				victim := entities[rand.Intn(len(entities))]
				ctx.Commands.Destroy(victim.Id())
				ctx.Commands.Spawn("respawn", RandomComponents(rand.Intn(5)+1)...)
			}
			return nil
		}), requires...)
		if err != nil {
			return err
		}
		if err := scene.AddSystem(ecs.PipelineUpdate, system.WithPriority(i%4)); err != nil {
			return err
		}
	}
	return nil
}
