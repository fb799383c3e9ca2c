package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atomicstack/scene-popup-control/internal/format/table"
	"github.com/atomicstack/scene-popup-control/internal/logging/events"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const rowIndicator = "▌"

type styledLine struct {
	text        string
	style       *lipgloss.Style
	prefixStyle *lipgloss.Style
	prefixLen   int
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := make([]styledLine, 0, 16)
	switch {
	case m.loading:
		lines = append(lines, styledLine{text: m.spinner.View() + " loading scenes…"})
	case m.fatal != nil:
		lines = append(lines, styledLine{text: "No scenes to show.", style: styles.Info})
	default:
		lines = append(lines, styledLine{text: m.panel.Heading(), style: styles.Heading})
		lines = append(lines, m.rowLines()...)
	}
	if info := m.currentInfo(); info != "" {
		if m.switching {
			info = m.spinner.View() + " " + info
		}
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: m.keys.footer(), style: styles.Footer})
	}
	if m.errMsg != "" {
		lines = append(lines, styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error})
	}
	lines = applyWidth(lines, m.width)
	return renderLines(lines)
}

func (m *Model) rowLines() []styledLine {
	rows := m.panel.Rows()
	if len(rows) == 0 {
		return nil
	}
	m.syncViewport()
	start, end := m.visibleRange()
	cells := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		cells = append(cells, []string{strconv.Itoa(i + 1), rows[i].Label()})
	}
	formatted := table.Format(cells, []table.Alignment{table.AlignRight, table.AlignLeft})
	out := make([]styledLine, 0, len(formatted))
	for j, text := range formatted {
		idx := start + j
		lineStyle := rows[idx].Element().Style
		if lineStyle == nil {
			lineStyle = styles.Item
		}
		indicatorStyle := styles.ItemIndicator
		if idx == m.cursor {
			lineStyle = styles.SelectedItem
			indicatorStyle = styles.SelectedItemIndicator
		}
		full := rowIndicator + " " + text
		if m.width > 0 {
			if pad := m.width - lipgloss.Width(full); pad > 0 {
				full += strings.Repeat(" ", pad)
			}
		}
		out = append(out, styledLine{
			text:        full,
			style:       lineStyle,
			prefixStyle: indicatorStyle,
			prefixLen:   len(rowIndicator),
		})
	}
	return out
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(keyMsg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(keyMsg, m.keys.Top):
		m.setCursor(0)
	case key.Matches(keyMsg, m.keys.Bottom):
		m.setCursor(len(m.bindings) - 1)
	case key.Matches(keyMsg, m.keys.Activate):
		return m.activate(m.cursor)
	default:
		if s := keyMsg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			return m.activate(int(s[0] - '1'))
		}
	}
	return nil
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok || m.loading || m.fatal != nil {
		return nil
	}
	switch {
	case mouse.Button == tea.MouseButtonWheelUp:
		m.moveCursor(-1)
	case mouse.Button == tea.MouseButtonWheelDown:
		m.moveCursor(1)
	case mouse.Button == tea.MouseButtonLeft && mouse.Action == tea.MouseActionRelease:
		// Line 0 is the heading.
		if mouse.Y < 1 {
			return nil
		}
		start, end := m.visibleRange()
		idx := start + mouse.Y - 1
		if idx >= end {
			return nil
		}
		return m.activate(idx)
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	m.syncViewport()
	return nil
}

func (m *Model) moveCursor(delta int) {
	n := len(m.bindings)
	if n == 0 {
		return
	}
	m.setCursor((m.cursor + delta + n) % n)
}

func (m *Model) setCursor(i int) {
	if i < 0 || i >= len(m.bindings) || i == m.cursor {
		return
	}
	m.cursor = i
	events.Panel.Cursor(i)
	m.syncViewport()
}

// maxVisibleRows is the number of rows that fit under the heading, or 0 when
// the height is unknown.
func (m *Model) maxVisibleRows() int {
	if m.height <= 0 {
		return 0
	}
	reserved := 2 // heading + status line
	if m.showFooter {
		reserved += 2
	}
	if m.currentInfo() != "" {
		reserved += 2
	}
	if avail := m.height - reserved; avail > 0 {
		return avail
	}
	return 1
}

func (m *Model) syncViewport() {
	limit := m.maxVisibleRows()
	n := len(m.panel.Rows())
	if limit <= 0 || n <= limit {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+limit {
		m.offset = m.cursor - limit + 1
	}
	if m.offset > n-limit {
		m.offset = n - limit
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) visibleRange() (int, int) {
	n := len(m.panel.Rows())
	limit := m.maxVisibleRows()
	if limit <= 0 || n <= limit {
		return 0, n
	}
	return m.offset, m.offset + limit
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
}

func (m *Model) currentInfo() string {
	return m.infoMsg
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	out := make([]styledLine, len(lines))
	for i, line := range lines {
		line.text = truncateText(line.text, width)
		out[i] = line
	}
	return out
}

func truncateText(text string, width int) string {
	if width <= 0 || ansi.StringWidth(text) <= width {
		return text
	}
	return ansi.Truncate(text, width, "…")
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.prefixLen > 0 && line.prefixLen < len(text) {
			head, tail := text[:line.prefixLen], text[line.prefixLen:]
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}
