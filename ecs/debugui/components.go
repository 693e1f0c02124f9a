package debugui

import (
	"github.com/plus3/scenery/ecs"
)

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct {
	selectedEntityId ecs.EntityId
}

type ComponentViewerComponent struct {
	sortByCount bool
}

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

type SystemViewerComponent struct {
	selectedKinds map[ecs.ComponentKind]bool
	partial       bool
}

// Selection is the resource shared by the browser and the inspector.
type Selection struct {
	Entity ecs.EntityId
}
