// Package app hosts scenes: it keeps a registry of scene factories, owns the
// current scene and drives it from a ticker or from an external loop.
package app

import (
	"context"
	"io"
	"time"

	"github.com/plus3/scenery/ecs"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// SceneFactory builds a fresh, unstarted scene. It is called every time the
// scene is entered, so state never leaks between visits.
type SceneFactory func(a *App) (*ecs.Scene, error)

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger passed to every scene.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithEvents sets the source drained at the start of every tick of Run.
func WithEvents(events EventSource) Option {
	return func(a *App) {
		a.events = events
	}
}

// WithResources shares an existing resource set with every scene.
func WithResources(resources *ecs.Resources) Option {
	return func(a *App) {
		a.resources = resources
	}
}

// WithRegistry sets the component registry shared by every scene.
func WithRegistry(registry *ecs.ComponentRegistry) Option {
	return func(a *App) {
		a.registry = registry
	}
}

// App owns the scene registry and the current scene.
type App struct {
	cfg       Config
	logger    logrus.FieldLogger
	registry  *ecs.ComponentRegistry
	resources *ecs.Resources
	events    EventSource
	factories map[ecs.SceneId]SceneFactory
	current   *ecs.Scene
}

// New creates an App. Without WithLogger nothing is logged.
func New(cfg Config, opts ...Option) *App {
	a := &App{
		cfg:       cfg,
		factories: make(map[ecs.SceneId]SceneFactory),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		a.logger = discard
	}
	if a.registry == nil {
		a.registry = ecs.NewComponentRegistry()
	}
	if a.resources == nil {
		a.resources = ecs.NewResources()
	}
	return a
}

// Config returns the app settings.
func (a *App) Config() Config {
	return a.cfg
}

// Logger returns the app logger.
func (a *App) Logger() logrus.FieldLogger {
	return a.logger
}

// Registry returns the shared component registry.
func (a *App) Registry() *ecs.ComponentRegistry {
	return a.registry
}

// Resources returns the resources shared by every scene.
func (a *App) Resources() *ecs.Resources {
	return a.resources
}

// Current returns the current scene, or nil before Start.
func (a *App) Current() *ecs.Scene {
	return a.current
}

// RegisterScene makes a scene available under id. Registering an id again
// replaces its factory.
func (a *App) RegisterScene(id ecs.SceneId, factory SceneFactory) {
	a.factories[id] = factory
}

// NewScene creates a scene wired to the app logger, registry and resources.
// Factories use it to build their scene.
func (a *App) NewScene(id ecs.SceneId, opts ...ecs.SceneOption) *ecs.Scene {
	base := []ecs.SceneOption{
		ecs.WithLogger(a.logger),
		ecs.WithResources(a.resources),
	}
	return ecs.NewScene(id, a.registry, append(base, opts...)...)
}

func (a *App) factory(id ecs.SceneId) (SceneFactory, error) {
	factory, ok := a.factories[id]
	if !ok {
		return nil, eris.Wrapf(ecs.ErrUnknownSceneId, "scene %q", id)
	}
	return factory, nil
}

// Start builds and starts the scene registered under id.
func (a *App) Start(id ecs.SceneId) error {
	if a.current != nil && a.current.State() == ecs.SceneRunning {
		return eris.Wrapf(ecs.ErrInvalidSceneState, "scene %q is still running", a.current.Id())
	}
	factory, err := a.factory(id)
	if err != nil {
		return err
	}
	scene, err := factory(a)
	if err != nil {
		return eris.Wrapf(err, "building scene %q", id)
	}
	a.current = scene
	return scene.Start()
}

// Step updates the current scene with frame, then honours a quit request
// and after that a pending switch. It reports whether the app should keep
// running.
func (a *App) Step(frame ecs.Frame) (bool, error) {
	if a.current == nil {
		return false, eris.Wrap(ecs.ErrInvalidSceneState, "no current scene")
	}
	if err := a.current.Update(frame); err != nil {
		return false, err
	}

	if a.current.QuitRequested() {
		return false, a.Finish()
	}
	if next, ok := a.current.SwitchRequest(); ok {
		if err := a.SwitchScene(next); err != nil {
			return false, err
		}
	}
	return true, nil
}

// SwitchScene finishes the current scene and starts id. An unknown id is
// rejected before the current scene is touched.
func (a *App) SwitchScene(id ecs.SceneId) error {
	if _, err := a.factory(id); err != nil {
		return err
	}
	if a.current != nil {
		a.logger.WithFields(logrus.Fields{
			"from": a.current.Id(),
			"to":   id,
		}).Info("switching scene")
		if err := a.current.Finish(); err != nil {
			return err
		}
	}
	return a.Start(id)
}

// Finish finishes the current scene.
func (a *App) Finish() error {
	if a.current == nil {
		return nil
	}
	return a.current.Finish()
}

// Run starts the scene id and steps it on a ticker at the configured FPS
// until the scene quits, an update fails or ctx is done. Failures and
// panics are logged, the current scene is finished and the error returned.
func (a *App) Run(ctx context.Context, id ecs.SceneId) (err error) {
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("panic: %v", r)
		}
		if err != nil {
			a.logger.WithFields(logrus.Fields{
				"scene": a.sceneId(),
				"error": err,
			}).Error("scene failed")
		}
		if finishErr := a.Finish(); err == nil {
			err = finishErr
		}
	}()

	if err := a.Start(id); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second / time.Duration(a.cfg.FPS))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("context done, stopping")
			return nil
		case now := <-ticker.C:
			frame := ecs.Frame{DeltaTime: now.Sub(last)}
			if a.events != nil {
				frame.Events = a.events.Drain()
			}
			last = now

			running, err := a.Step(frame)
			if err != nil {
				return err
			}
			if !running {
				return nil
			}
		}
	}
}

func (a *App) sceneId() ecs.SceneId {
	if a.current == nil {
		return ""
	}
	return a.current.Id()
}
