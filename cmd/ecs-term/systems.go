package main

import (
	"fmt"
	"math/rand"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/scenery/ecs"
)

const (
	menuStart = iota
	menuQuit
)

func menuInput(ctx *ecs.Context, entities []ecs.Entity) error {
	for _, e := range entities {
		menu := ecs.Get[Menu](e)
		for _, key := range keyEvents(ctx.Frame) {
			switch key.Key() {
			case tcell.KeyUp:
				menu.Selected = (menu.Selected + len(menu.Items) - 1) % len(menu.Items)
			case tcell.KeyDown:
				menu.Selected = (menu.Selected + 1) % len(menu.Items)
			case tcell.KeyEnter:
				if menu.Selected == menuStart {
					ctx.Scene.RequestSwitch("field")
				} else {
					ctx.Scene.Quit()
				}
			case tcell.KeyEscape, tcell.KeyCtrlC:
				ctx.Scene.Quit()
			}
		}
	}
	return nil
}

func playerInput(ctx *ecs.Context, entities []ecs.Entity) error {
	for _, key := range keyEvents(ctx.Frame) {
		if key.Key() == tcell.KeyEscape {
			ctx.Scene.RequestSwitch("menu")
			return nil
		}
		if key.Key() == tcell.KeyCtrlC {
			ctx.Scene.Quit()
			return nil
		}
		for _, e := range entities {
			pos := ecs.Get[Position](e)
			switch key.Key() {
			case tcell.KeyUp:
				pos.Y--
			case tcell.KeyDown:
				pos.Y++
			case tcell.KeyLeft:
				pos.X--
			case tcell.KeyRight:
				pos.X++
			}
		}
	}
	return nil
}

func movement(ctx *ecs.Context, entities []ecs.Entity) error {
	term, ok := ecs.GetResource[Terminal](ctx.Resources)
	if !ok {
		return nil
	}
	w, h := term.Screen.Size()
	for _, e := range entities {
		pos, vel := ecs.Get[Position](e), ecs.Get[Velocity](e)
		pos.X += vel.DX
		pos.Y += vel.DY
		if pos.X < 0 || pos.X >= w || pos.Y < 0 || pos.Y >= h {
			ctx.Commands.Destroy(e.Id())
		}
	}
	return nil
}

func spawnStars(ctx *ecs.Context, entities []ecs.Entity) error {
	term, ok := ecs.GetResource[Terminal](ctx.Resources)
	if !ok {
		return nil
	}
	w, _ := term.Screen.Size()
	for _, e := range entities {
		spawner := ecs.Get[Spawner](e)
		spawner.Ticks++
		if spawner.Ticks < spawner.Every {
			continue
		}
		spawner.Ticks = 0
		ctx.Commands.Spawn("star",
			Position{X: rand.Intn(max(w, 1)), Y: 1},
			Velocity{DY: 1},
			Glyph{Rune: '*', Style: tcell.StyleDefault.Foreground(tcell.ColorYellow)},
		)
	}
	return nil
}

// catchStars destroys every star sharing a cell with the player.
func catchStars(registry *ecs.ComponentRegistry) ecs.ExecutorFunc {
	playerKind := ecs.KindOf[Player](registry)
	return func(ctx *ecs.Context, entities []ecs.Entity) error {
		score := ecs.MustResource[Score](ctx.Resources)
		for _, player := range ctx.Table.GetEntitiesByComponents(false, playerKind) {
			at := ecs.Get[Position](player)
			for _, star := range entities {
				if pos := ecs.Get[Position](star); *pos == *at {
					ctx.Commands.Destroy(star.Id())
					score.Caught++
					score.Best = max(score.Best, score.Caught)
				}
			}
		}
		return nil
	}
}

func render(ctx *ecs.Context, entities []ecs.Entity) error {
	term, ok := ecs.GetResource[Terminal](ctx.Resources)
	if !ok {
		return nil
	}
	screen := term.Screen
	screen.Clear()

	for _, e := range entities {
		pos, glyph := ecs.Get[Position](e), ecs.Get[Glyph](e)
		screen.SetContent(pos.X, pos.Y, glyph.Rune, nil, glyph.Style)
	}
	for _, e := range ctx.Table.GetEntities() {
		if label := ecs.Get[Label](e); label != nil {
			if pos := ecs.Get[Position](e); pos != nil {
				drawText(screen, pos.X, pos.Y, tcell.StyleDefault, label.Text)
			}
		}
		if menu := ecs.Get[Menu](e); menu != nil {
			drawMenu(screen, menu)
		}
	}

	if score, ok := ecs.GetResource[Score](ctx.Resources); ok {
		drawText(screen, 0, 0, tcell.StyleDefault.Bold(true),
			fmt.Sprintf("caught %d  best %d  entities %d", score.Caught, score.Best, ctx.Table.Len()))
	}

	screen.Show()
	return nil
}

func drawMenu(screen tcell.Screen, menu *Menu) {
	for i, item := range menu.Items {
		style := tcell.StyleDefault
		if i == menu.Selected {
			style = style.Reverse(true)
		}
		drawText(screen, 4, 3+i, style, item)
	}
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
