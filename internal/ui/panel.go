package ui

import (
	"errors"

	"github.com/atomicstack/scene-popup-control/internal/component"
)

// Panel is the on-screen mount point for one rendered scene panel.
type Panel struct {
	heading  string
	rows     []*component.Row
	rendered bool
}

// NewPanel returns an empty, unrendered panel.
func NewPanel() *Panel {
	return &Panel{}
}

func (p *Panel) Valid() bool {
	return p != nil && !p.rendered
}

func (p *Panel) AppendHeading(text string) error {
	p.rendered = true
	p.heading = text
	return nil
}

func (p *Panel) AppendRow(row *component.Row) error {
	if row == nil {
		return errors.New("nil row")
	}
	p.rows = append(p.rows, row)
	return nil
}

// Heading returns the mounted heading text.
func (p *Panel) Heading() string {
	return p.heading
}

// Rows returns the mounted rows in display order.
func (p *Panel) Rows() []*component.Row {
	return p.rows
}

// Rendered reports whether a heading was mounted.
func (p *Panel) Rendered() bool {
	return p.rendered
}

// reset discards a partially mounted panel so nothing incomplete is shown.
func (p *Panel) reset() {
	p.heading = ""
	p.rows = nil
}
