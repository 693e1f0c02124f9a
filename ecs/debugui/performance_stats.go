package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scenery/ecs"
)

func NewPerformanceStatsComponent(historyFrames int) PerformanceStatsComponent {
	return PerformanceStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
	}
}

func renderPerformanceStats(ctx *ecs.Context, entities []ecs.Entity) error {
	for _, e := range entities {
		if ps := ecs.Get[PerformanceStatsComponent](e); ps != nil {
			ps.Render(ctx.Scene, float32(ctx.DeltaSeconds()))
		}
	}
	return nil
}

// record stores a frame time and returns the running average in
// milliseconds.
func (ps *PerformanceStatsComponent) record(deltaTime float32) float32 {
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	return avgFrameTime / float32(ps.historyFrames)
}

func (ps *PerformanceStatsComponent) Render(scene *ecs.Scene, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avgFrameTime := ps.record(deltaTime)
	stats := scene.Table().CollectStats()

	imgui.Text(fmt.Sprintf("Scene: %s", scene.Id()))
	imgui.Text(fmt.Sprintf("Total Entities: %d", stats.EntityCount))
	imgui.Text(fmt.Sprintf("Slots: %d (%d free)", stats.SlotCount, stats.FreeSlots))
	imgui.Text(fmt.Sprintf("Component Kinds: %d", len(stats.Components)))
	imgui.Text(fmt.Sprintf("Resources: %d", scene.Resources().Len()))

	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	for _, pipeline := range scene.Pipelines() {
		pstats := pipeline.GetStats()
		if !imgui.TreeNodeStr(fmt.Sprintf("Pipeline %s (%d runs)", pstats.Name, pstats.Runs)) {
			continue
		}

		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("PipelineStatsTable"+pstats.Name, 5, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Priority")
			imgui.TableSetupColumn("Entities")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range pstats.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.Priority))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.QueuedEntities))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}
