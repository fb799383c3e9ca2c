// Package panel turns scene summaries into an interactive panel: a heading
// followed by one row per scene, each wired to switch the host's active scene.
package panel

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/scene-popup-control/internal/component"
	"github.com/atomicstack/scene-popup-control/internal/host"
	"github.com/atomicstack/scene-popup-control/internal/logging/events"
	"github.com/atomicstack/scene-popup-control/internal/scene"
)

// ErrRenderTargetInvalid is returned when the mount point cannot accept a panel.
var ErrRenderTargetInvalid = errors.New("render target invalid")

// Mount is the attachment target for one panel. A mount accepts exactly one
// render; Valid reports false once it has been rendered into.
type Mount interface {
	Valid() bool
	AppendHeading(text string) error
	AppendRow(row *component.Row) error
}

// RowFactory builds the row for a label.
type RowFactory func(label string) (*component.Row, error)

// Binding pairs a summary with the row rendered for it.
type Binding struct {
	Summary scene.Summary
	Row     *component.Row
}

// Renderer renders summaries into a mount and binds activation to the host.
type Renderer struct {
	provider host.Provider
	newRow   RowFactory
	notify   func(index int, err error)
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithRowFactory replaces component.CreateRow.
func WithRowFactory(f RowFactory) Option {
	return func(r *Renderer) {
		if f != nil {
			r.newRow = f
		}
	}
}

// WithActivationNotifier registers a callback invoked after every activation
// with the scene index and the host's answer.
func WithActivationNotifier(fn func(index int, err error)) Option {
	return func(r *Renderer) {
		r.notify = fn
	}
}

// NewRenderer returns a renderer that switches scenes through provider.
func NewRenderer(provider host.Provider, opts ...Option) *Renderer {
	r := &Renderer{provider: provider, newRow: component.CreateRow}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Heading returns the panel heading for count scenes.
func Heading(count int) string {
	return fmt.Sprintf("There are %d scenes.", count)
}

// Label returns the row text for a summary.
func Label(s scene.Summary) string {
	return fmt.Sprintf("%s has %d sources", s.Name, s.SourceCount)
}

// Render appends the heading and one row per summary to mount, in input order.
// Any failure aborts the render.
func (r *Renderer) Render(summaries []scene.Summary, mount Mount) ([]Binding, error) {
	if mount == nil || !mount.Valid() {
		events.Panel.RenderFailed(ErrRenderTargetInvalid)
		return nil, ErrRenderTargetInvalid
	}
	if err := mount.AppendHeading(Heading(len(summaries))); err != nil {
		err = fmt.Errorf("%w: %w", ErrRenderTargetInvalid, err)
		events.Panel.RenderFailed(err)
		return nil, err
	}
	bindings := make([]Binding, 0, len(summaries))
	for _, summary := range summaries {
		row, err := r.newRow(Label(summary))
		if err != nil {
			err = fmt.Errorf("build row for scene %d: %w", summary.Index, err)
			events.Panel.RenderFailed(err)
			return nil, err
		}
		row.OnActivate(r.activation(summary))
		if err := mount.AppendRow(row); err != nil {
			err = fmt.Errorf("append row for scene %d: %w", summary.Index, err)
			events.Panel.RenderFailed(err)
			return nil, err
		}
		bindings = append(bindings, Binding{Summary: summary, Row: row})
	}
	events.Panel.Render(len(bindings))
	return bindings, nil
}

func (r *Renderer) activation(summary scene.Summary) component.Handler {
	index := summary.Index
	handle := summary.Handle
	return func(ctx context.Context) error {
		events.Scene.Switch(index)
		err := r.provider.SetActiveScene(ctx, handle)
		if err != nil {
			err = fmt.Errorf("switch to scene %d: %w", index, err)
			events.Action.Error(err)
		}
		if r.notify != nil {
			r.notify(index, err)
		}
		return err
	}
}
