package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scenery/ecs"
)

func NewSystemViewerComponent() SystemViewerComponent {
	return SystemViewerComponent{
		selectedKinds: make(map[ecs.ComponentKind]bool),
	}
}

func renderSystemViewers(ctx *ecs.Context, entities []ecs.Entity) error {
	for _, e := range entities {
		if sv := ecs.Get[SystemViewerComponent](e); sv != nil {
			sv.Render(ctx.Scene)
		}
	}
	return nil
}

// Render shows the systems of the scene with their requirements, and a
// query tester that runs GetEntitiesByComponents over the selected kinds.
func (sv *SystemViewerComponent) Render(scene *ecs.Scene) {
	if !imgui.BeginV("Systems", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	registry := scene.Registry()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("SystemTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("System")
		imgui.TableSetupColumn("Requires")
		imgui.TableSetupColumn("Queued")
		imgui.TableHeadersRow()

		for _, system := range scene.Systems() {
			imgui.TableNextRow()
			imgui.TableSetColumnIndex(0)
			imgui.Text(system.Name())
			imgui.TableSetColumnIndex(1)
			imgui.Text(kindNames(registry, system.Requires()))
			imgui.TableSetColumnIndex(2)
			imgui.Text(fmt.Sprintf("%d", system.Len()))
		}
		imgui.EndTable()
	}

	imgui.Separator()
	imgui.Text("Query tester")
	if imgui.Button("Clear All") {
		sv.selectedKinds = make(map[ecs.ComponentKind]bool)
	}
	imgui.SameLine()
	imgui.Checkbox("Partial match", &sv.partial)

	for kind := 1; kind < registry.Len(); kind++ {
		k := ecs.ComponentKind(kind)
		selected := sv.selectedKinds[k]
		if imgui.Checkbox(registry.Name(k), &selected) {
			if selected {
				sv.selectedKinds[k] = true
			} else {
				delete(sv.selectedKinds, k)
			}
		}
	}

	kinds := sv.kinds()
	if len(kinds) == 0 {
		imgui.Text("No component types selected")
	} else {
		matching := scene.Table().GetEntitiesByComponents(sv.partial, kinds...)
		imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matching)))
	}

	imgui.End()
}

func (sv *SystemViewerComponent) kinds() []ecs.ComponentKind {
	mask := ecs.ComponentMask{}
	for kind := range sv.selectedKinds {
		mask.Set(kind)
	}
	return mask.Kinds()
}

func kindNames(registry *ecs.ComponentRegistry, kinds []ecs.ComponentKind) string {
	if len(kinds) == 0 {
		return "*"
	}
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = registry.Name(kind)
	}
	return strings.Join(names, ", ")
}
