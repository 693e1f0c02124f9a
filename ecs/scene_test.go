package ecs_test

import (
	"testing"
	"time"

	"github.com/plus3/scenery/ecs"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneStartOnceUpdateEveryFrame(t *testing.T) {
	scene := ecs.NewScene("main", newTestRegistry())

	start, update := &countingExecutor{}, &countingExecutor{}
	require.NoError(t, scene.AddSystem(ecs.PipelineStart, mustSystem(t, "start", start)))
	require.NoError(t, scene.AddSystem(ecs.PipelineUpdate, mustSystem(t, "update", update)))

	require.NoError(t, scene.Start())
	for i := 0; i < 3; i++ {
		require.NoError(t, scene.Update(ecs.Frame{DeltaTime: 16 * time.Millisecond}))
	}

	assert.Equal(t, 1, start.calls)
	assert.Equal(t, 3, update.calls)
}

func TestSceneLifecycleStates(t *testing.T) {
	scene := ecs.NewScene("main", newTestRegistry())
	assert.Equal(t, ecs.SceneUnstarted, scene.State())
	assert.Nil(t, scene.Table())

	err := scene.Update(ecs.Frame{})
	assert.True(t, eris.Is(err, ecs.ErrInvalidSceneState))

	require.NoError(t, scene.Start())
	assert.Equal(t, ecs.SceneRunning, scene.State())
	assert.NotNil(t, scene.Table())

	assert.True(t, eris.Is(scene.Start(), ecs.ErrInvalidSceneState))
	assert.True(t, eris.Is(scene.AddEntity("late"), ecs.ErrInvalidSceneState))

	require.NoError(t, scene.Finish())
	assert.Equal(t, ecs.SceneFinished, scene.State())
	assert.Nil(t, scene.Table())
	require.NoError(t, scene.Finish())

	assert.True(t, eris.Is(scene.Update(ecs.Frame{}), ecs.ErrInvalidSceneState))
	assert.True(t, eris.Is(scene.Start(), ecs.ErrInvalidSceneState))

	_, err = scene.Instantiate("late")
	assert.True(t, eris.Is(err, ecs.ErrInvalidSceneState))
	assert.True(t, eris.Is(scene.AddSystem(ecs.PipelineUpdate, mustSystem(t, "late", ecs.ExecutorFunc(noop))), ecs.ErrInvalidSceneState))
	assert.Equal(t, "finished", scene.State().String())
}

func TestScenePopulatesDeclaredEntities(t *testing.T) {
	registry := newTestRegistry()
	scene := ecs.NewScene("main", registry)

	require.NoError(t, scene.AddEntity("player", Position{X: 1}, PlayerController{}))
	require.NoError(t, scene.AddEntity("rock", Position{X: 2}))
	scene.OnSetup(func(s *ecs.Scene) error {
		_, err := s.Instantiate("from-setup", Position{X: 3})
		return err
	})

	var names []string
	require.NoError(t, scene.AddSystem(ecs.PipelineStart, mustSystem(t, "names", ecs.ExecutorFunc(func(ctx *ecs.Context, entities []ecs.Entity) error {
		for _, e := range entities {
			names = append(names, e.Name())
		}
		return nil
	}), ecs.KindOf[Position](registry))))

	require.NoError(t, scene.Start())
	assert.Equal(t, []string{"player", "rock", "from-setup"}, names)
	assert.Equal(t, 3, scene.Table().Len())
}

func TestSceneFailedPopulationFinishes(t *testing.T) {
	scene := ecs.NewScene("main", newTestRegistry())
	require.NoError(t, scene.AddEntity("dup", Position{}, Position{}))

	err := scene.Start()
	assert.True(t, eris.Is(err, ecs.ErrComponentsCollision))
	assert.Equal(t, ecs.SceneFinished, scene.State())
	assert.Nil(t, scene.Table())
}

func TestSceneSetupErrorFinishes(t *testing.T) {
	boom := eris.New("setup failed")
	scene := ecs.NewScene("main", newTestRegistry())
	scene.OnSetup(func(*ecs.Scene) error { return boom })

	assert.True(t, eris.Is(scene.Start(), boom))
	assert.Equal(t, ecs.SceneFinished, scene.State())
}

func TestSceneDestroyCascadesIntoSystems(t *testing.T) {
	registry := newTestRegistry()
	position := ecs.KindOf[Position](registry)
	scene := ecs.NewScene("main", registry)

	movement := mustSystem(t, "movement", ecs.ExecutorFunc(noop), position)
	render := mustSystem(t, "render", ecs.ExecutorFunc(noop), position)
	require.NoError(t, scene.AddSystem(ecs.PipelineUpdate, movement))
	require.NoError(t, scene.AddSystem("draw", render))

	require.NoError(t, scene.AddEntity("a", Position{}))
	require.NoError(t, scene.AddEntity("b", Position{}))
	require.NoError(t, scene.Start())

	assert.Equal(t, 2, movement.Len())
	assert.Equal(t, 2, render.Len())

	victim := scene.Table().GetEntities()[0]
	require.NoError(t, scene.Destroy(victim))

	assert.False(t, movement.Contains(victim.Id()))
	assert.False(t, render.Contains(victim.Id()))
	assert.Equal(t, 1, movement.Len())
	assert.Equal(t, 1, render.Len())
	for e := range scene.Table().IterEntities() {
		assert.NotEqual(t, victim.Id(), e.Id())
	}

	assert.True(t, eris.Is(scene.Destroy(victim), ecs.ErrUnknownEntityUid))
}

func TestSceneRequeriesOnComponentChange(t *testing.T) {
	registry := newTestRegistry()
	position, velocity := ecs.KindOf[Position](registry), ecs.KindOf[Velocity](registry)
	scene := ecs.NewScene("main", registry)

	movement := mustSystem(t, "movement", ecs.ExecutorFunc(noop), position, velocity)
	require.NoError(t, scene.AddSystem(ecs.PipelineUpdate, movement))
	require.NoError(t, scene.Start())

	e, err := scene.Instantiate("e", Position{})
	require.NoError(t, err)
	assert.False(t, movement.Contains(e.Id()))

	require.NoError(t, e.AddComponent(Velocity{DX: 1}))
	assert.True(t, movement.Contains(e.Id()))

	require.NoError(t, e.RemoveComponent(position))
	assert.False(t, movement.Contains(e.Id()))
}

func TestSceneAddSystemWhileRunning(t *testing.T) {
	registry := newTestRegistry()
	scene := ecs.NewScene("main", registry)
	require.NoError(t, scene.AddEntity("e", Position{}))
	require.NoError(t, scene.Start())

	late := mustSystem(t, "late", ecs.ExecutorFunc(noop), ecs.KindOf[Position](registry))
	require.NoError(t, scene.AddSystem(ecs.PipelineUpdate, late))
	assert.Equal(t, 1, late.Len())

	// Registering the same system in a second pipeline keeps one cache.
	require.NoError(t, scene.AddSystem("draw", late))
	assert.Len(t, scene.Systems(), 1)
}

func TestSceneAddSystemTwiceRunsOnce(t *testing.T) {
	scene := ecs.NewScene("main", newTestRegistry())
	var order []string
	a := mustSystem(t, "a", recorder(&order, "a"))

	require.NoError(t, scene.AddSystem(ecs.PipelineUpdate, a))
	require.NoError(t, scene.AddSystem(ecs.PipelineUpdate, a))
	require.NoError(t, scene.Start())
	require.NoError(t, scene.Update(ecs.Frame{}))

	assert.Equal(t, []string{"a"}, order)
	assert.Len(t, scene.Systems(), 1)
}

func TestSceneFlushesCommands(t *testing.T) {
	registry := newTestRegistry()
	health := ecs.KindOf[Health](registry)
	scene := ecs.NewScene("main", registry)

	reaper := mustSystem(t, "reaper", ecs.ExecutorFunc(func(ctx *ecs.Context, entities []ecs.Entity) error {
		for _, e := range entities {
			if ecs.Get[Health](e).Current <= 0 {
				ctx.Commands.Destroy(e.Id())
				ctx.Commands.Spawn("ghost", Position{})
			}
		}
		// The table is untouched until the pipeline run ends.
		assert.Equal(t, 2, ctx.Table.Len())
		return nil
	}), health)
	require.NoError(t, scene.AddSystem(ecs.PipelineUpdate, reaper))

	require.NoError(t, scene.AddEntity("dead", Health{Current: 0}))
	require.NoError(t, scene.AddEntity("alive", Health{Current: 5}))
	require.NoError(t, scene.Start())
	require.NoError(t, scene.Update(ecs.Frame{}))

	names := []string{}
	for e := range scene.Table().IterEntities() {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"alive", "ghost"}, names)
	assert.Equal(t, 1, reaper.Len())
	assert.Equal(t, 0, scene.Commands().Len())
}

func TestSceneUpdateReturnsExecutorError(t *testing.T) {
	boom := eris.New("boom")
	scene := ecs.NewScene("main", newTestRegistry())
	require.NoError(t, scene.AddSystem(ecs.PipelineUpdate, mustSystem(t, "failing", ecs.ExecutorFunc(func(*ecs.Context, []ecs.Entity) error {
		return boom
	}))))
	require.NoError(t, scene.Start())

	err := scene.Update(ecs.Frame{})
	assert.True(t, eris.Is(err, boom))
	assert.Equal(t, ecs.SceneRunning, scene.State())
}

func TestSceneRunPipeline(t *testing.T) {
	scene := ecs.NewScene("main", newTestRegistry())
	draw := &countingExecutor{}
	require.NoError(t, scene.AddSystem("draw", mustSystem(t, "draw", draw)))
	require.NoError(t, scene.Start())

	require.NoError(t, scene.RunPipeline("draw", ecs.Frame{}))
	require.NoError(t, scene.RunPipeline("missing", ecs.Frame{}))
	assert.Equal(t, 1, draw.calls)

	p, ok := scene.Pipeline("draw")
	require.True(t, ok)
	assert.Equal(t, int64(1), p.GetStats().Runs)

	names := []string{}
	for _, p := range scene.Pipelines() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{ecs.PipelineStart, ecs.PipelineUpdate, "draw"}, names)
}

func TestSceneContext(t *testing.T) {
	resources := ecs.NewResources()
	ecs.SetResource(resources, Score(7))
	scene := ecs.NewScene("main", newTestRegistry(), ecs.WithResources(resources))

	var got *ecs.Context
	require.NoError(t, scene.AddSystem(ecs.PipelineUpdate, mustSystem(t, "capture", ecs.ExecutorFunc(func(ctx *ecs.Context, _ []ecs.Entity) error {
		got = ctx
		return nil
	}))))
	require.NoError(t, scene.Start())
	require.NoError(t, scene.Update(ecs.Frame{DeltaTime: 500 * time.Millisecond, Events: []any{"jump"}}))

	require.NotNil(t, got)
	assert.Same(t, scene, got.Scene)
	assert.Same(t, scene.Table(), got.Table)
	assert.Same(t, scene.Commands(), got.Commands)
	assert.Same(t, resources, got.Resources)
	assert.Equal(t, []any{"jump"}, got.Frame.Events)
	assert.Equal(t, 0.5, got.DeltaSeconds())

	score, ok := ecs.GetResource[Score](got.Resources)
	require.True(t, ok)
	assert.Equal(t, Score(7), *score)
}

func TestSceneRequests(t *testing.T) {
	scene := ecs.NewScene("menu", newTestRegistry())
	require.NoError(t, scene.AddSystem(ecs.PipelineUpdate, mustSystem(t, "switch", ecs.ExecutorFunc(func(ctx *ecs.Context, _ []ecs.Entity) error {
		ctx.Scene.RequestSwitch("game")
		return nil
	}))))
	require.NoError(t, scene.Start())

	_, requested := scene.SwitchRequest()
	assert.False(t, requested)
	assert.False(t, scene.QuitRequested())

	require.NoError(t, scene.Update(ecs.Frame{}))
	next, requested := scene.SwitchRequest()
	assert.True(t, requested)
	assert.Equal(t, ecs.SceneId("game"), next)

	scene.Quit()
	assert.True(t, scene.QuitRequested())
}

func TestSceneDestroyForeignEntity(t *testing.T) {
	scene := ecs.NewScene("main", newTestRegistry())
	require.NoError(t, scene.Start())

	other := newTestTable()
	e, err := other.CreateEntity("foreign")
	require.NoError(t, err)

	assert.True(t, eris.Is(scene.Destroy(e), ecs.ErrUnknownEntityUid))
	assert.True(t, e.Alive())
}
