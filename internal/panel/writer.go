package panel

import (
	"fmt"
	"io"

	"github.com/atomicstack/scene-popup-control/internal/component"
)

// WriterMount renders a panel as plain text lines.
type WriterMount struct {
	w       io.Writer
	claimed bool
	rows    int
}

// NewWriterMount returns a mount writing to w.
func NewWriterMount(w io.Writer) *WriterMount {
	return &WriterMount{w: w}
}

func (m *WriterMount) Valid() bool {
	return m != nil && m.w != nil && !m.claimed
}

func (m *WriterMount) AppendHeading(text string) error {
	m.claimed = true
	_, err := fmt.Fprintln(m.w, text)
	return err
}

func (m *WriterMount) AppendRow(row *component.Row) error {
	m.rows++
	_, err := fmt.Fprintf(m.w, "%3d  %s\n", m.rows, row.Label())
	return err
}
