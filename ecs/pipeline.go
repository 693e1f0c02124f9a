package ecs

import (
	"cmp"
	"slices"
	"time"

	"github.com/rotisserie/eris"
)

// Names of the pipelines every scene has.
const (
	PipelineStart  = "start"
	PipelineUpdate = "update"
)

// PipelineStats provides statistics about pipeline execution.
type PipelineStats struct {
	Name            string
	SystemCount     int
	Runs            int64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Priority       int
	QueuedEntities int
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

type pipelineEntry struct {
	system *System
	order  int
	stats  *systemStatsInternal
}

// Pipeline is a group of systems executed together as one phase of a scene.
// Systems run in ascending priority; ties keep registration order.
type Pipeline struct {
	name    string
	entries []pipelineEntry
	runs    int64
	nextSeq int
}

// NewPipeline creates an empty pipeline.
func NewPipeline(name string) *Pipeline {
	return &Pipeline{
		name: name,
	}
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// Register adds a system to the pipeline. Registering a system that is
// already in the pipeline is a no-op.
func (p *Pipeline) Register(system *System) error {
	if system == nil || !callable(system.executor) {
		return eris.Wrapf(ErrSystemExecutorIsNotCallable, "pipeline %q", p.name)
	}
	if p.Has(system) {
		return nil
	}

	p.entries = append(p.entries, pipelineEntry{
		system: system,
		order:  p.nextSeq,
		stats: &systemStatsInternal{
			minDuration: time.Duration(1<<63 - 1),
		},
	})
	p.nextSeq++
	p.sort()
	return nil
}

func (p *Pipeline) sort() {
	slices.SortStableFunc(p.entries, func(a, b pipelineEntry) int {
		if c := cmp.Compare(a.system.priority, b.system.priority); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})
}

// Has reports whether system is registered.
func (p *Pipeline) Has(system *System) bool {
	return slices.ContainsFunc(p.entries, func(e pipelineEntry) bool {
		return e.system == system
	})
}

// Systems returns the systems in execution order.
func (p *Pipeline) Systems() []*System {
	p.sort()
	systems := make([]*System, len(p.entries))
	for i, entry := range p.entries {
		systems[i] = entry.system
	}
	return systems
}

// Len returns the number of registered systems.
func (p *Pipeline) Len() int {
	return len(p.entries)
}

// Run executes every registered system exactly once. The first executor
// error stops the run and is returned.
func (p *Pipeline) Run(ctx *Context) error {
	p.sort()
	p.runs++
	for _, entry := range p.entries {
		start := time.Now()
		err := entry.system.Run(ctx)
		duration := time.Since(start)

		stats := entry.stats
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}

		if err != nil {
			return eris.Wrapf(err, "pipeline %q: system %q", p.name, entry.system.name)
		}
	}
	return nil
}

// GetStats returns statistics about system execution.
func (p *Pipeline) GetStats() *PipelineStats {
	p.sort()
	stats := &PipelineStats{
		Name:        p.name,
		SystemCount: len(p.entries),
		Runs:        p.runs,
		Systems:     make([]SystemStats, len(p.entries)),
	}

	var totalExecs int64
	for i, entry := range p.entries {
		internal := entry.stats
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems[i] = SystemStats{
			Name:           entry.system.name,
			Priority:       entry.system.priority,
			QueuedEntities: entry.system.Len(),
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
