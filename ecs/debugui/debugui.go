// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scenery/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a resource.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// NewImguiSystem returns a system that updates the ImguiInputState resource
// and defers the render function of every ImguiItem to the end of the
// pipeline run.
func NewImguiSystem(registry *ecs.ComponentRegistry) (*ecs.System, error) {
	kind := ecs.RegisterComponent[ImguiItem](registry)
	return ecs.NewSystem("imgui", ecs.ExecutorFunc(executeImgui), kind)
}

func executeImgui(ctx *ecs.Context, entities []ecs.Entity) error {
	state := ecs.MustResource[ImguiInputState](ctx.Resources)
	io := imgui.CurrentIO()
	state.WantCaptureMouse = io.WantCaptureMouse()
	state.WantCaptureKeyboard = io.WantCaptureKeyboard()

	for _, e := range entities {
		if item := ecs.Get[ImguiItem](e); item != nil && item.Render != nil {
			ctx.Commands.Defer(item.Render)
		}
	}
	return nil
}
