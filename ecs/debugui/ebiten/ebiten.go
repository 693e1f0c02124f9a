// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine
// and an ebiten.Game that drives an app.App.
package ebiten

import (
	"time"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/scenery/ecs"
	"github.com/plus3/scenery/ecs/app"
)

// PipelineDraw is the scene pipeline run from Game.Draw.
const PipelineDraw = "draw"

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Screen is the resource holding the image being drawn during the draw
// pipeline.
type Screen struct {
	Image *ebiten.Image
}

// KeyEvent is delivered in Frame.Events for every key pressed this tick.
type KeyEvent struct {
	Key ebiten.Key
}

// Game implements ebiten.Game on top of an app.App. Each Update steps the
// current scene inside an ImGui frame; each Draw runs the scene's draw
// pipeline and then the ImGui overlay.
type Game struct {
	app     *app.App
	backend *ImguiBackend
	keys    []ebiten.Key
}

// NewGame creates a Game for a started app. backend may be nil when no
// ImGui overlay is wanted.
func NewGame(a *app.App, backend *ImguiBackend) *Game {
	if backend != nil {
		ecs.SetResource(a.Resources(), *backend)
	}
	return &Game{app: a, backend: backend}
}

func (g *Game) Update() error {
	if g.backend != nil {
		g.backend.BeginFrame()
		defer g.backend.EndFrame()
	}

	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	events := make([]any, len(g.keys))
	for i, key := range g.keys {
		events[i] = KeyEvent{Key: key}
	}

	running, err := g.app.Step(ecs.Frame{
		DeltaTime: ebitenTick(),
		Events:    events,
	})
	if err != nil {
		return err
	}
	if !running {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if scene := g.app.Current(); scene != nil && scene.State() == ecs.SceneRunning {
		ecs.SetResource(g.app.Resources(), Screen{Image: screen})
		if err := scene.RunPipeline(PipelineDraw, ecs.Frame{DeltaTime: ebitenTick()}); err != nil {
			g.app.Logger().WithError(err).Error("draw pipeline failed")
		}
	}
	if g.backend != nil {
		g.backend.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.backend != nil {
		g.backend.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func ebitenTick() time.Duration {
	return time.Second / time.Duration(ebiten.TPS())
}
