// Package host describes the scene-graph capability surface the panel consumes.
// Concrete providers live in the subpackages (tmux, remote, memhost); the rest
// of the program only ever sees the Provider and Scene interfaces.
package host

import (
	"context"
	"errors"
)

var (
	// ErrNotReady is returned when a provider is queried before Ready succeeded.
	ErrNotReady = errors.New("host provider not ready")
	// ErrMalformedCount marks a scene count that could not be read as an integer.
	ErrMalformedCount = errors.New("malformed scene count")
	// ErrSceneNotFound is returned when an index is outside the host's scene list.
	ErrSceneNotFound = errors.New("scene not found")
	// ErrForeignScene is returned when a provider is handed a scene it did not create.
	ErrForeignScene = errors.New("scene handle belongs to another provider")
)

// Provider is the host scene graph. Ready must resolve before any other call.
type Provider interface {
	Ready(ctx context.Context, opts ReadyOptions) error
	SceneCount(ctx context.Context) (int, error)
	SceneByIndex(ctx context.Context, index int) (Scene, error)
	SetActiveScene(ctx context.Context, scene Scene) error
	Close() error
}

// Scene is an opaque handle to a host-side scene.
type Scene interface {
	Name(ctx context.Context) (string, error)
	Sources(ctx context.Context) ([]Source, error)
}

// Source is an item contained in a scene. Only its presence is counted by the
// panel; the fields are informational.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
