package debugui

import (
	"github.com/plus3/scenery/ecs"
)

// RegisterDebugUIComponents registers every panel component.
func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[EntityBrowserComponent](registry)
	ecs.RegisterComponent[ComponentInspectorComponent](registry)
	ecs.RegisterComponent[ComponentViewerComponent](registry)
	ecs.RegisterComponent[PerformanceStatsComponent](registry)
	ecs.RegisterComponent[SystemViewerComponent](registry)
}

// SpawnDebugUI declares one entity per panel in an unstarted scene.
func SpawnDebugUI(scene *ecs.Scene) error {
	RegisterDebugUIComponents(scene.Registry())
	panels := []struct {
		name      string
		component any
	}{
		{"debugui.entities", NewEntityBrowserComponent(100)},
		{"debugui.inspector", NewComponentInspectorComponent()},
		{"debugui.components", NewComponentViewerComponent()},
		{"debugui.performance", NewPerformanceStatsComponent(120)},
		{"debugui.systems", NewSystemViewerComponent()},
	}
	for _, panel := range panels {
		if err := scene.AddEntity(panel.name, panel.component); err != nil {
			return err
		}
	}
	return nil
}

// AddDebugUISystems registers the panel systems in pipeline. The panels
// call into imgui, so pipeline must run between the backend's BeginFrame
// and EndFrame.
func AddDebugUISystems(scene *ecs.Scene, pipeline string) error {
	registry := scene.Registry()
	RegisterDebugUIComponents(registry)

	panels := []struct {
		name string
		kind ecs.ComponentKind
		exec ecs.ExecutorFunc
	}{
		{"debugui.entities", ecs.KindOf[EntityBrowserComponent](registry), renderEntityBrowsers},
		{"debugui.inspector", ecs.KindOf[ComponentInspectorComponent](registry), renderInspectors},
		{"debugui.components", ecs.KindOf[ComponentViewerComponent](registry), renderComponentViewers},
		{"debugui.performance", ecs.KindOf[PerformanceStatsComponent](registry), renderPerformanceStats},
		{"debugui.systems", ecs.KindOf[SystemViewerComponent](registry), renderSystemViewers},
	}
	for i, panel := range panels {
		system, err := ecs.NewSystem(panel.name, panel.exec, panel.kind)
		if err != nil {
			return err
		}
		if err := scene.AddSystem(pipeline, system.WithPriority(i)); err != nil {
			return err
		}
	}

	imguiSystem, err := NewImguiSystem(registry)
	if err != nil {
		return err
	}
	return scene.AddSystem(pipeline, imguiSystem.WithPriority(len(panels)))
}
