package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scenery/ecs"
)

func NewComponentViewerComponent() ComponentViewerComponent {
	return ComponentViewerComponent{sortByCount: true}
}

func renderComponentViewers(ctx *ecs.Context, entities []ecs.Entity) error {
	for _, e := range entities {
		if cv := ecs.Get[ComponentViewerComponent](e); cv != nil {
			cv.Render(ctx.Table)
		}
	}
	return nil
}

// Render lists every component kind present in the table with the number
// of entities holding it.
func (cv *ComponentViewerComponent) Render(table *ecs.Table) {
	if !imgui.BeginV("Component Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	components := table.CollectStats().Components
	if cv.sortByCount {
		sort.SliceStable(components, func(i, j int) bool {
			return components[i].Count > components[j].Count
		})
	}
	imgui.Checkbox("Sort by count", &cv.sortByCount)

	maxCount := 0
	for _, comp := range components {
		maxCount = max(maxCount, comp.Count)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ComponentTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Type")
		imgui.TableSetupColumn("Entities")
		imgui.TableHeadersRow()

		for _, comp := range components {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", comp.Kind))

			imgui.TableNextColumn()
			imgui.Text(comp.Name)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", comp.Count))

			if maxCount > 0 {
				barWidth := float32(comp.Count) / float32(maxCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
}
