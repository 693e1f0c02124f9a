package ecs_test

import (
	"testing"

	"github.com/plus3/scenery/ecs"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEntityAddsEntityData(t *testing.T) {
	table := newTestTable()

	e, err := table.CreateEntity("player", Position{X: 1, Y: 2}, Health{Current: 10, Max: 10})
	require.NoError(t, err)

	components, err := table.IterComponents(e.Id())
	require.NoError(t, err)

	var all []any
	for c := range components {
		all = append(all, c)
	}
	require.Len(t, all, 3)

	data, ok := all[0].(*ecs.EntityData)
	require.True(t, ok, "EntityData must come first")
	assert.Equal(t, ecs.EntityData{Name: "player", Uid: e.Id(), Enabled: true}, *data)
	assert.Contains(t, all, &Position{X: 1, Y: 2})
	assert.Contains(t, all, &Health{Current: 10, Max: 10})
}

func TestAddComponentCollisionKeepsFirstValue(t *testing.T) {
	table := newTestTable()
	position := ecs.KindOf[Position](table.Registry())

	e, err := table.CreateEntity("e")
	require.NoError(t, err)

	require.NoError(t, table.AddComponent(e.Id(), Position{X: 1, Y: 2}))
	err = table.AddComponent(e.Id(), Position{X: 3, Y: 4})
	assert.True(t, eris.Is(err, ecs.ErrComponentsCollision))

	assert.Equal(t, &Position{X: 1, Y: 2}, table.GetComponent(e.Id(), position))
}

func TestAddEntityDataCollides(t *testing.T) {
	table := newTestTable()

	e, err := table.CreateEntity("e")
	require.NoError(t, err)

	err = table.AddComponent(e.Id(), ecs.EntityData{Name: "other"})
	assert.True(t, eris.Is(err, ecs.ErrComponentsCollision))
	assert.Equal(t, "e", e.Name())
}

func TestCreateEntityIsAtomic(t *testing.T) {
	table := newTestTable()

	_, err := table.CreateEntity("dup", Position{X: 1}, Velocity{}, Position{X: 2})
	assert.True(t, eris.Is(err, ecs.ErrComponentsCollision))
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.GetEntities())

	type unregistered struct{ Q int }
	_, err = table.CreateEntity("bad", Position{}, unregistered{})
	assert.True(t, eris.Is(err, ecs.ErrUnregisteredComponent))
	assert.Equal(t, 0, table.Len())

	// The released slot is reused cleanly.
	e, err := table.CreateEntity("ok", Velocity{DX: 1})
	require.NoError(t, err)
	assert.Nil(t, ecs.Get[Position](e))
	assert.Equal(t, &Velocity{DX: 1}, ecs.Get[Velocity](e))
}

func TestAddComponentByPointerCopies(t *testing.T) {
	table := newTestTable()

	e, err := table.CreateEntity("e")
	require.NoError(t, err)

	original := &Position{X: 5, Y: 6}
	require.NoError(t, table.AddComponent(e.Id(), original))
	original.X = 100

	assert.Equal(t, &Position{X: 5, Y: 6}, ecs.Get[Position](e))
}

func TestAddComponentUnknownEntity(t *testing.T) {
	table := newTestTable()

	err := table.AddComponent(ecs.EntityId(42), Position{})
	assert.True(t, eris.Is(err, ecs.ErrUnknownEntityUid))
}

func TestGetComponentIsTotal(t *testing.T) {
	table := newTestTable()
	registry := table.Registry()

	e, err := table.CreateEntity("e", Position{})
	require.NoError(t, err)

	assert.Nil(t, table.GetComponent(ecs.EntityId(12345), ecs.KindOf[Position](registry)))
	assert.Nil(t, table.GetComponent(e.Id(), ecs.KindOf[Velocity](registry)))
	assert.Nil(t, table.GetComponent(e.Id(), ecs.ComponentKind(200)))
	assert.NotNil(t, table.GetComponent(e.Id(), ecs.KindOf[Position](registry)))
}

func TestComponentPointersAreStable(t *testing.T) {
	table := newTestTable()

	e, err := table.CreateEntity("first", Position{X: 1})
	require.NoError(t, err)
	pos := ecs.Get[Position](e)

	for i := 0; i < 1000; i++ {
		_, err := table.CreateEntity("filler", Position{X: float32(i)})
		require.NoError(t, err)
	}

	pos.X = 42
	assert.Same(t, pos, ecs.Get[Position](e))
	assert.Equal(t, float32(42), ecs.Get[Position](e).X)
}

func TestGetEntityByUid(t *testing.T) {
	table := newTestTable()

	e, err := table.CreateEntity("known")
	require.NoError(t, err)

	t.Run("known", func(t *testing.T) {
		got, err := table.GetEntityByUid(e.Id())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	})

	t.Run("unknown without default", func(t *testing.T) {
		got, err := table.GetEntityByUid(ecs.EntityId(1))
		assert.Nil(t, got)
		assert.True(t, eris.Is(err, ecs.ErrUnknownEntityUid))
	})

	t.Run("unknown with default", func(t *testing.T) {
		got, err := table.GetEntityByUid(ecs.EntityId(1), 42)
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("unknown with nil default", func(t *testing.T) {
		got, err := table.GetEntityByUid(ecs.EntityId(1), nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("typed", func(t *testing.T) {
		got, err := table.Entity(e.Id())
		require.NoError(t, err)
		assert.Equal(t, e, got)

		_, err = table.Entity(ecs.EntityId(1))
		assert.True(t, eris.Is(err, ecs.ErrUnknownEntityUid))
	})
}

func TestDeleteEntity(t *testing.T) {
	table := newTestTable()
	position := ecs.KindOf[Position](table.Registry())

	e, err := table.CreateEntity("doomed", Position{X: 1})
	require.NoError(t, err)
	other, err := table.CreateEntity("other", Position{X: 2})
	require.NoError(t, err)

	require.NoError(t, table.DeleteEntity(e.Id()))

	assert.False(t, table.HasEntity(e.Id()))
	assert.Nil(t, table.GetComponent(e.Id(), position))
	assert.Equal(t, []ecs.EntityId{other.Id()}, ids(table.GetEntities()))
	assert.Equal(t, []ecs.EntityId{other.Id()}, ids(table.GetEntitiesByComponents(false, position)))

	err = table.DeleteEntity(e.Id())
	assert.True(t, eris.Is(err, ecs.ErrUnknownEntityUid))

	_, err = table.IterComponents(e.Id())
	assert.True(t, eris.Is(err, ecs.ErrUnknownEntityUid))
}

func TestRemoveComponent(t *testing.T) {
	table := newTestTable()
	registry := table.Registry()

	e, err := table.CreateEntity("e", Position{})
	require.NoError(t, err)

	t.Run("present", func(t *testing.T) {
		require.NoError(t, table.RemoveComponent(e.Id(), ecs.KindOf[Position](registry)))
		assert.Nil(t, ecs.Get[Position](e))
	})

	t.Run("absent is a no-op", func(t *testing.T) {
		assert.NoError(t, table.RemoveComponent(e.Id(), ecs.KindOf[Velocity](registry)))
	})

	t.Run("entity data", func(t *testing.T) {
		err := table.RemoveComponent(e.Id(), ecs.EntityDataKind)
		assert.True(t, eris.Is(err, ecs.ErrEntityDataRemovalAttempt))
		assert.NotNil(t, e.Data())
	})

	t.Run("unknown entity", func(t *testing.T) {
		err := table.RemoveComponent(ecs.EntityId(7), ecs.KindOf[Position](registry))
		assert.True(t, eris.Is(err, ecs.ErrUnknownEntityUid))
	})
}

func TestGetEntitiesByComponents(t *testing.T) {
	table := newTestTable()
	registry := table.Registry()
	a, b, c := ecs.KindOf[TestA](registry), ecs.KindOf[TestB](registry), ecs.KindOf[TestC](registry)

	e1, err := table.CreateEntity("e1", TestA("a"), TestB("b"))
	require.NoError(t, err)
	e2, err := table.CreateEntity("e2", TestA("a"))
	require.NoError(t, err)
	e3, err := table.CreateEntity("e3", TestB("b"), TestC("c"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		partial bool
		kinds   []ecs.ComponentKind
		want    []ecs.EntityId
	}{
		{"all of A", false, []ecs.ComponentKind{a}, []ecs.EntityId{e1.Id(), e2.Id()}},
		{"all of A B", false, []ecs.ComponentKind{a, b}, []ecs.EntityId{e1.Id()}},
		{"all of A C", false, []ecs.ComponentKind{a, c}, []ecs.EntityId{}},
		{"any of A C", true, []ecs.ComponentKind{a, c}, []ecs.EntityId{e1.Id(), e2.Id(), e3.Id()}},
		{"any of C", true, []ecs.ComponentKind{c}, []ecs.EntityId{e3.Id()}},
		{"all of nothing", false, nil, []ecs.EntityId{e1.Id(), e2.Id(), e3.Id()}},
		{"any of nothing", true, nil, []ecs.EntityId{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.GetEntitiesByComponents(tt.partial, tt.kinds...)
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestIteratorsAreRecallable(t *testing.T) {
	table := newTestTable()

	for i := 0; i < 5; i++ {
		_, err := table.CreateEntity("e", Score(i))
		require.NoError(t, err)
	}

	count := func() int {
		n := 0
		for range table.IterEntities() {
			n++
		}
		return n
	}
	assert.Equal(t, 5, count())
	assert.Equal(t, 5, count())

	// Breaking early stops the iteration.
	n := 0
	for range table.IterEntities() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

type recordingObserver struct {
	events []string
}

func (r *recordingObserver) EntityCreated(e ecs.Entity)     { r.events = append(r.events, "created "+e.Name()) }
func (r *recordingObserver) ComponentsChanged(e ecs.Entity) { r.events = append(r.events, "changed "+e.Name()) }
func (r *recordingObserver) EntityDeleted(id ecs.EntityId)  { r.events = append(r.events, "deleted") }

func TestTableObserver(t *testing.T) {
	table := newTestTable()
	observer := &recordingObserver{}
	table.Observe(observer)

	e, err := table.CreateEntity("e", Position{}, Velocity{})
	require.NoError(t, err)
	require.NoError(t, e.AddComponent(Health{}))
	require.NoError(t, e.RemoveComponent(ecs.KindOf[Health](table.Registry())))
	require.NoError(t, e.RemoveComponent(ecs.KindOf[Health](table.Registry())))
	_, err = table.CreateEntity("bad", Position{}, Position{})
	require.Error(t, err)
	require.NoError(t, e.Delete())

	assert.Equal(t, []string{"created e", "changed e", "changed e", "deleted"}, observer.events)

	table.Unobserve(observer)
	_, err = table.CreateEntity("unseen")
	require.NoError(t, err)
	assert.Len(t, observer.events, 4)
}

func TestCollectStats(t *testing.T) {
	table := newTestTable()
	registry := table.Registry()

	stats := table.CollectStats()
	assert.Equal(t, 0, stats.EntityCount)
	assert.Empty(t, stats.Components)

	a, err := table.CreateEntity("a", Position{}, Velocity{})
	require.NoError(t, err)
	_, err = table.CreateEntity("b", Position{})
	require.NoError(t, err)
	require.NoError(t, a.Delete())

	stats = table.CollectStats()
	assert.Equal(t, 1, stats.EntityCount)
	assert.Equal(t, 2, stats.SlotCount)
	assert.Equal(t, 1, stats.FreeSlots)
	assert.Equal(t, []ecs.ComponentStats{
		{Kind: ecs.EntityDataKind, Name: "ecs.EntityData", Count: 1},
		{Kind: ecs.KindOf[Position](registry), Name: "ecs_test.Position", Count: 1},
	}, stats.Components)
}
