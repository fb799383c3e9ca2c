// Package component holds the interactive row used by the scene panel.
package component

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/atomicstack/scene-popup-control/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

// ErrEmptyLabel is returned when a row is built without visible text.
var ErrEmptyLabel = errors.New("row label is empty")

// Handler is invoked when a row is activated.
type Handler func(ctx context.Context) error

// Element is the renderable part of a row.
type Element struct {
	Label string
	Style *lipgloss.Style
}

// Render returns the element text with its style applied.
func (e Element) Render(selected bool) string {
	style := e.Style
	if selected {
		style = theme.Default().SelectedItem
	}
	if style == nil {
		return e.Label
	}
	return style.Render(e.Label)
}

// Row is one interactive panel entry with a single activation event.
type Row struct {
	element Element

	mu       sync.Mutex
	handlers []Handler
}

// CreateRow builds a row for label.
func CreateRow(label string) (*Row, error) {
	if strings.TrimSpace(label) == "" {
		return nil, ErrEmptyLabel
	}
	return &Row{element: Element{Label: label, Style: theme.Default().Item}}, nil
}

// Element returns the row's renderable element.
func (r *Row) Element() Element {
	return r.element
}

// Label returns the row text.
func (r *Row) Label() string {
	return r.element.Label
}

// OnActivate subscribes handler to the row's activation event.
func (r *Row) OnActivate(handler Handler) {
	if handler == nil {
		return
	}
	r.mu.Lock()
	r.handlers = append(r.handlers, handler)
	r.mu.Unlock()
}

// Activate fires every subscribed handler once, in subscription order, and
// returns the joined handler errors.
func (r *Row) Activate(ctx context.Context) error {
	r.mu.Lock()
	handlers := append([]Handler(nil), r.handlers...)
	r.mu.Unlock()
	var errs []error
	for _, h := range handlers {
		if err := h(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
