package ecs

import "github.com/rotisserie/eris"

// Errors returned by the entity table, systems and scenes. They describe
// broken preconditions rather than recoverable conditions, so callers are
// expected to propagate them. Use eris.Is to test for a specific kind.
var (
	ErrUnknownEntityUid            = eris.New("entity with the given uid does not exist")
	ErrComponentsCollision         = eris.New("entity already has a component of this kind")
	ErrEntityDataRemovalAttempt    = eris.New("cannot remove EntityData component")
	ErrSystemExecutorIsNotCallable = eris.New("system executor is not callable")
	ErrUnknownSceneId              = eris.New("unknown scene id")
	ErrUnregisteredComponent       = eris.New("component type is not registered")
	ErrEntityNotQueued             = eris.New("entity is not queued in system")
	ErrInvalidSceneState           = eris.New("operation not allowed in current scene state")
)
