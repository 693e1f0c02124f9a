package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/plus3/scenery/ecs"
)

type Position struct{ X, Y int }

type Velocity struct{ DX, DY int }

type Glyph struct {
	Rune  rune
	Style tcell.Style
}

type Player struct{}

type Label struct{ Text string }

type Menu struct {
	Items    []string
	Selected int
}

type Spawner struct {
	Every int
	Ticks int
}

// Terminal is the resource giving systems access to the screen.
type Terminal struct {
	Screen tcell.Screen
}

// Score survives scene switches since resources are shared by the app.
type Score struct {
	Caught int
	Best   int
}

func registerComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Glyph](registry)
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[Label](registry)
	ecs.RegisterComponent[Menu](registry)
	ecs.RegisterComponent[Spawner](registry)
}

func keyEvents(frame ecs.Frame) []*tcell.EventKey {
	var keys []*tcell.EventKey
	for _, ev := range frame.Events {
		if key, ok := ev.(*tcell.EventKey); ok {
			keys = append(keys, key)
		}
	}
	return keys
}
