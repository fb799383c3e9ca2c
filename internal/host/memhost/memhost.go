// Package memhost provides an in-memory scene host used by tests and by the
// demo host mode.
package memhost

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/scene-popup-control/internal/host"
)

// SceneSpec describes one scene in the in-memory table.
type SceneSpec struct {
	Name    string
	Sources []host.Source
	// Delay is applied to every call made against this scene, which lets tests
	// force out-of-order completion.
	Delay   time.Duration
	GetErr  error
	NameErr error
	SrcErr  error
}

// Provider is a host.Provider backed by a fixed scene table.
type Provider struct {
	Scenes   []SceneSpec
	Count    *int
	CountErr error
	ReadyErr error
	SetErr   error

	mu          sync.Mutex
	ready       bool
	readyOpts   host.ReadyOptions
	queried     []int
	activations []int
}

// New returns a provider holding the given scenes.
func New(scenes ...SceneSpec) *Provider {
	return &Provider{Scenes: scenes}
}

// Scene is the handle type returned by Provider.
type Scene struct {
	index int
	spec  SceneSpec
}

// Index returns the 1-based position the handle was resolved from.
func (s *Scene) Index() int { return s.index }

func (s *Scene) Name(ctx context.Context) (string, error) {
	if err := wait(ctx, s.spec.Delay); err != nil {
		return "", err
	}
	if s.spec.NameErr != nil {
		return "", s.spec.NameErr
	}
	return s.spec.Name, nil
}

func (s *Scene) Sources(ctx context.Context) ([]host.Source, error) {
	if err := wait(ctx, s.spec.Delay); err != nil {
		return nil, err
	}
	if s.spec.SrcErr != nil {
		return nil, s.spec.SrcErr
	}
	return append([]host.Source(nil), s.spec.Sources...), nil
}

func (p *Provider) Ready(ctx context.Context, opts host.ReadyOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.ReadyErr != nil {
		return p.ReadyErr
	}
	p.mu.Lock()
	p.ready = true
	p.readyOpts = opts
	p.mu.Unlock()
	return nil
}

func (p *Provider) SceneCount(ctx context.Context) (int, error) {
	if err := p.checkReady(ctx); err != nil {
		return 0, err
	}
	if p.CountErr != nil {
		return 0, p.CountErr
	}
	if p.Count != nil {
		return *p.Count, nil
	}
	return len(p.Scenes), nil
}

func (p *Provider) SceneByIndex(ctx context.Context, index int) (host.Scene, error) {
	if err := p.checkReady(ctx); err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.queried = append(p.queried, index)
	p.mu.Unlock()
	if index < 1 || index > len(p.Scenes) {
		return nil, fmt.Errorf("%w: index %d", host.ErrSceneNotFound, index)
	}
	spec := p.Scenes[index-1]
	if err := wait(ctx, spec.Delay); err != nil {
		return nil, err
	}
	if spec.GetErr != nil {
		return nil, spec.GetErr
	}
	return &Scene{index: index, spec: spec}, nil
}

func (p *Provider) SetActiveScene(ctx context.Context, scene host.Scene) error {
	if err := p.checkReady(ctx); err != nil {
		return err
	}
	s, ok := scene.(*Scene)
	if !ok {
		return host.ErrForeignScene
	}
	p.mu.Lock()
	p.activations = append(p.activations, s.index)
	p.mu.Unlock()
	return p.SetErr
}

func (p *Provider) Close() error {
	p.mu.Lock()
	p.ready = false
	p.mu.Unlock()
	return nil
}

// Activations returns the scene indices passed to SetActiveScene, in call order.
func (p *Provider) Activations() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.activations...)
}

// Queried returns every index passed to SceneByIndex.
func (p *Provider) Queried() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.queried...)
}

// ReadyOptions returns the options the provider was readied with.
func (p *Provider) ReadyOptions() host.ReadyOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readyOpts
}

func (p *Provider) checkReady(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	ready := p.ready
	p.mu.Unlock()
	if !ready {
		return host.ErrNotReady
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Demo returns a small provider used by --host demo.
func Demo() *Provider {
	return New(
		SceneSpec{Name: "Intro", Sources: []host.Source{{ID: "1", Name: "Camera"}, {ID: "2", Name: "Logo"}, {ID: "3", Name: "Music"}}},
		SceneSpec{Name: "Main", Sources: []host.Source{{ID: "4", Name: "Screen"}, {ID: "5", Name: "Camera"}}},
		SceneSpec{Name: "Break"},
		SceneSpec{Name: "Outro", Sources: []host.Source{{ID: "6", Name: "Credits"}}},
	)
}
