package ecs

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// SceneId names a scene inside an App.
type SceneId string

// SceneState is the lifecycle state of a Scene.
type SceneState int

const (
	SceneUnstarted SceneState = iota
	SceneRunning
	SceneFinished
)

func (s SceneState) String() string {
	switch s {
	case SceneUnstarted:
		return "unstarted"
	case SceneRunning:
		return "running"
	case SceneFinished:
		return "finished"
	}
	return "unknown"
}

// SceneOption configures a Scene.
type SceneOption func(*Scene)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(logger logrus.FieldLogger) SceneOption {
	return func(s *Scene) {
		s.logger = logger
	}
}

// WithResources shares an existing resource set with the scene.
func WithResources(resources *Resources) SceneOption {
	return func(s *Scene) {
		s.resources = resources
	}
}

// WithTableOptions passes options to the table built by Start.
func WithTableOptions(opts ...TableOption) SceneOption {
	return func(s *Scene) {
		s.tableOpts = append(s.tableOpts, opts...)
	}
}

type entityTemplate struct {
	name       string
	components []any
}

// Scene owns a table of entities and the pipelines of systems that act on
// it. A scene is started once, updated any number of times and finished
// once; it cannot be restarted.
type Scene struct {
	id        SceneId
	registry  *ComponentRegistry
	state     SceneState
	table     *Table
	tableOpts []TableOption

	templates []entityTemplate
	setups    []func(*Scene) error

	pipelines map[string]*Pipeline
	order     []string
	systems   []*System
	observer  *sceneObserver

	commands  *Commands
	resources *Resources
	logger    logrus.FieldLogger

	switchTo        SceneId
	switchRequested bool
	quit            bool
}

// NewScene creates an unstarted scene with empty start and update pipelines.
func NewScene(id SceneId, registry *ComponentRegistry, opts ...SceneOption) *Scene {
	s := &Scene{
		id:        id,
		registry:  registry,
		pipelines: make(map[string]*Pipeline),
		commands:  newCommands(),
	}
	s.observer = &sceneObserver{scene: s}
	s.pipeline(PipelineStart)
	s.pipeline(PipelineUpdate)

	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		s.logger = discard
	}
	if s.resources == nil {
		s.resources = NewResources()
	}
	s.logger = s.logger.WithField("scene", string(id))
	return s
}

func (s *Scene) pipeline(name string) *Pipeline {
	p, ok := s.pipelines[name]
	if !ok {
		p = NewPipeline(name)
		s.pipelines[name] = p
		s.order = append(s.order, name)
	}
	return p
}

func (s *Scene) invalidState(action string) error {
	return eris.Wrapf(ErrInvalidSceneState, "cannot %s scene %q while %s", action, s.id, s.state)
}

// Id returns the scene id.
func (s *Scene) Id() SceneId {
	return s.id
}

// State returns the lifecycle state.
func (s *Scene) State() SceneState {
	return s.state
}

// Table returns the live table, or nil before Start and after Finish.
func (s *Scene) Table() *Table {
	return s.table
}

// Registry returns the component registry.
func (s *Scene) Registry() *ComponentRegistry {
	return s.registry
}

// Resources returns the resources visible to the scene's systems.
func (s *Scene) Resources() *Resources {
	return s.resources
}

// Commands returns the scene command buffer.
func (s *Scene) Commands() *Commands {
	return s.commands
}

// Logger returns the scene logger.
func (s *Scene) Logger() logrus.FieldLogger {
	return s.logger
}

// Pipeline returns the named pipeline.
func (s *Scene) Pipeline(name string) (*Pipeline, bool) {
	p, ok := s.pipelines[name]
	return p, ok
}

// Pipelines returns every pipeline in creation order.
func (s *Scene) Pipelines() []*Pipeline {
	pipelines := make([]*Pipeline, len(s.order))
	for i, name := range s.order {
		pipelines[i] = s.pipelines[name]
	}
	return pipelines
}

// Systems returns every distinct system registered with the scene.
func (s *Scene) Systems() []*System {
	return append([]*System(nil), s.systems...)
}

// AddEntity declares an entity created when the scene starts.
func (s *Scene) AddEntity(name string, components ...any) error {
	if s.state != SceneUnstarted {
		return s.invalidState("declare entities in")
	}
	s.templates = append(s.templates, entityTemplate{name: name, components: components})
	return nil
}

// OnSetup registers a hook called by Start after the declared entities are
// created and before the systems are bound. Hooks may create entities
// through Instantiate.
func (s *Scene) OnSetup(fn func(*Scene) error) {
	s.setups = append(s.setups, fn)
}

// AddSystem registers system in the named pipeline, creating the pipeline
// if needed. Systems added to a running scene are bound immediately.
func (s *Scene) AddSystem(pipeline string, system *System) error {
	if s.state == SceneFinished {
		return s.invalidState("add systems to")
	}
	if err := s.pipeline(pipeline).Register(system); err != nil {
		return err
	}
	for _, existing := range s.systems {
		if existing == system {
			return nil
		}
	}
	s.systems = append(s.systems, system)
	if s.state == SceneRunning {
		system.Bind(s.table)
		system.UpdateEntities()
	}
	return nil
}

// Start builds the table, creates the declared entities, runs the setup
// hooks, populates every system cache and runs the start pipeline once.
// A scene whose population fails ends up finished.
func (s *Scene) Start() error {
	if s.state != SceneUnstarted {
		return s.invalidState("start")
	}
	s.logger.Info("starting scene")

	s.table = NewTable(s.registry, s.tableOpts...)
	if err := s.populate(); err != nil {
		s.release()
		s.state = SceneFinished
		return eris.Wrapf(err, "populating scene %q", s.id)
	}

	for _, system := range s.systems {
		system.Bind(s.table)
		system.UpdateEntities()
	}
	s.table.Observe(s.observer)
	s.state = SceneRunning

	s.logger.WithFields(logrus.Fields{
		"entities":  s.table.Len(),
		"systems":   len(s.systems),
		"pipelines": len(s.pipelines),
	}).Debug("scene populated")

	return s.RunPipeline(PipelineStart, Frame{})
}

func (s *Scene) populate() error {
	for _, tpl := range s.templates {
		if _, err := s.table.CreateEntity(tpl.name, tpl.components...); err != nil {
			return eris.Wrapf(err, "entity %q", tpl.name)
		}
	}
	for _, fn := range s.setups {
		if err := fn(s); err != nil {
			return err
		}
	}
	return nil
}

// Update runs the update pipeline once with frame.
func (s *Scene) Update(frame Frame) error {
	return s.RunPipeline(PipelineUpdate, frame)
}

// RunPipeline runs the named pipeline once and then flushes the command
// buffer. Running a pipeline the scene does not have is a no-op.
func (s *Scene) RunPipeline(name string, frame Frame) error {
	if s.state != SceneRunning {
		return s.invalidState("run pipeline " + name + " of")
	}
	p, ok := s.pipelines[name]
	if !ok {
		return nil
	}

	ctx := &Context{
		Scene:     s,
		Table:     s.table,
		Frame:     frame,
		Commands:  s.commands,
		Resources: s.resources,
	}
	err := p.Run(ctx)
	if s.table == nil {
		return err
	}
	if flushErr := s.commands.Flush(s.table); err == nil {
		err = flushErr
	}
	return err
}

// Finish releases the table and every system cache. Finishing a finished
// scene is a no-op.
func (s *Scene) Finish() error {
	if s.state == SceneFinished {
		return nil
	}
	s.logger.Info("finishing scene")
	s.release()
	s.state = SceneFinished
	return nil
}

func (s *Scene) release() {
	if s.table != nil {
		s.table.Unobserve(s.observer)
	}
	for _, system := range s.systems {
		system.reset()
	}
	s.commands.reset()
	s.table = nil
}

// Instantiate creates an entity in the running scene. The systems that
// match it see it from their next run.
func (s *Scene) Instantiate(name string, components ...any) (Entity, error) {
	if s.table == nil {
		return Entity{}, s.invalidState("instantiate entities in")
	}
	return s.table.CreateEntity(name, components...)
}

// Destroy deletes an entity of the running scene and drops it from every
// system cache.
func (s *Scene) Destroy(e Entity) error {
	if s.table == nil {
		return s.invalidState("destroy entities in")
	}
	if e.table != s.table {
		return unknownEntity(e.id)
	}
	return s.table.DeleteEntity(e.id)
}

// RequestSwitch asks the host to replace this scene with next once the
// current update returns.
func (s *Scene) RequestSwitch(next SceneId) {
	s.switchTo = next
	s.switchRequested = true
}

// SwitchRequest returns the pending switch target.
func (s *Scene) SwitchRequest() (SceneId, bool) {
	return s.switchTo, s.switchRequested
}

// Quit asks the host to stop once the current update returns.
func (s *Scene) Quit() {
	s.quit = true
}

// QuitRequested reports whether Quit was called.
func (s *Scene) QuitRequested() bool {
	return s.quit
}

// sceneObserver keeps system caches in step with the table.
type sceneObserver struct {
	scene *Scene
}

func (o *sceneObserver) EntityCreated(e Entity) {
	for _, system := range o.scene.systems {
		if system.MatchEntity(e.id) {
			system.queue.Add(e.id)
		}
	}
}

func (o *sceneObserver) ComponentsChanged(e Entity) {
	for _, system := range o.scene.systems {
		if system.MatchEntity(e.id) {
			system.queue.Add(e.id)
		} else {
			system.queue.Remove(e.id)
		}
	}
}

func (o *sceneObserver) EntityDeleted(id EntityId) {
	for _, system := range o.scene.systems {
		system.queue.Remove(id)
	}
}
