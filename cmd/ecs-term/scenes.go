package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/plus3/scenery/ecs"
	"github.com/plus3/scenery/ecs/app"
)

type systemDef struct {
	pipeline string
	name     string
	exec     ecs.ExecutorFunc
	priority int
	requires []ecs.ComponentKind
}

func addSystems(scene *ecs.Scene, defs []systemDef) error {
	for _, def := range defs {
		system, err := ecs.NewSystem(def.name, def.exec, def.requires...)
		if err != nil {
			return err
		}
		if err := scene.AddSystem(def.pipeline, system.WithPriority(def.priority)); err != nil {
			return err
		}
	}
	return nil
}

func menuScene(a *app.App) (*ecs.Scene, error) {
	r := a.Registry()
	scene := a.NewScene("menu")

	if err := scene.AddEntity("title", Label{Text: "scenery terminal demo"}, Position{X: 2, Y: 1}); err != nil {
		return nil, err
	}
	if err := scene.AddEntity("menu", Menu{Items: []string{"start", "quit"}}); err != nil {
		return nil, err
	}

	return scene, addSystems(scene, []systemDef{
		{ecs.PipelineUpdate, "menu-input", menuInput, 0, []ecs.ComponentKind{ecs.KindOf[Menu](r)}},
		{ecs.PipelineUpdate, "render", render, 100, []ecs.ComponentKind{ecs.KindOf[Position](r), ecs.KindOf[Glyph](r)}},
	})
}

func fieldScene(a *app.App) (*ecs.Scene, error) {
	r := a.Registry()
	scene := a.NewScene("field")

	scene.OnSetup(func(s *ecs.Scene) error {
		ecs.MustResource[Score](s.Resources()).Caught = 0

		w, h := 80, 24
		if term, ok := ecs.GetResource[Terminal](s.Resources()); ok {
			w, h = term.Screen.Size()
		}
		if _, err := s.Instantiate("player",
			Player{},
			Position{X: w / 2, Y: h - 2},
			Glyph{Rune: '@', Style: tcell.StyleDefault.Foreground(tcell.ColorGreen)},
		); err != nil {
			return err
		}
		_, err := s.Instantiate("spawner", Spawner{Every: 6})
		return err
	})

	position, velocity, glyph := ecs.KindOf[Position](r), ecs.KindOf[Velocity](r), ecs.KindOf[Glyph](r)
	return scene, addSystems(scene, []systemDef{
		{ecs.PipelineUpdate, "player-input", playerInput, 0, []ecs.ComponentKind{ecs.KindOf[Player](r), position}},
		{ecs.PipelineUpdate, "spawn", spawnStars, 10, []ecs.ComponentKind{ecs.KindOf[Spawner](r)}},
		{ecs.PipelineUpdate, "movement", movement, 20, []ecs.ComponentKind{position, velocity}},
		{ecs.PipelineUpdate, "catch", catchStars(r), 30, []ecs.ComponentKind{position, velocity}},
		{ecs.PipelineUpdate, "render", render, 100, []ecs.ComponentKind{position, glyph}},
	})
}
