package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/atomicstack/scene-popup-control/internal/host"
	"github.com/atomicstack/scene-popup-control/internal/host/memhost"
	"github.com/atomicstack/scene-popup-control/internal/panel"
	"github.com/atomicstack/scene-popup-control/internal/scene"
	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(p *memhost.Provider, cfg Config) *Model {
	fetcher := scene.NewFetcher(p, scene.Options{})
	load := func(ctx context.Context) ([]scene.Summary, error) {
		if err := p.Ready(ctx, host.ReadyOptions{}); err != nil {
			return nil, err
		}
		return fetcher.FetchAll(ctx)
	}
	return NewModel(context.Background(), load, panel.NewRenderer(p), cfg)
}

func sources(n int) []host.Source {
	out := make([]host.Source, n)
	for i := range out {
		out[i] = host.Source{Name: "src"}
	}
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelStartsLoading(t *testing.T) {
	m := newTestModel(memhost.New(), Config{})
	if !m.loading {
		t.Fatalf("expected model to start in loading state")
	}
	if view := m.View(); !strings.Contains(view, "loading scenes") {
		t.Fatalf("expected loading indicator, got %q", view)
	}
}

func TestModelRendersScenes(t *testing.T) {
	p := memhost.New(
		memhost.SceneSpec{Name: "Intro", Sources: sources(3)},
		memhost.SceneSpec{Name: "Main"},
	)
	h := NewHarness(newTestModel(p, Config{}))
	h.Start()

	m := h.Model()
	if m.loading {
		t.Fatalf("expected loading to finish")
	}
	if err := m.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Panel().Heading(); got != "There are 2 scenes." {
		t.Fatalf("unexpected heading %q", got)
	}
	rows := m.Panel().Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Label() != "Intro has 3 sources" || rows[1].Label() != "Main has 0 sources" {
		t.Fatalf("unexpected labels %q, %q", rows[0].Label(), rows[1].Label())
	}
	view := h.View()
	for _, want := range []string{"There are 2 scenes.", "Intro has 3 sources", "Main has 0 sources"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestModelZeroScenes(t *testing.T) {
	h := NewHarness(newTestModel(memhost.New(), Config{}))
	h.Start()
	m := h.Model()
	if m.Err() != nil {
		t.Fatalf("unexpected error: %v", m.Err())
	}
	if got := m.Panel().Heading(); got != "There are 0 scenes." {
		t.Fatalf("unexpected heading %q", got)
	}
	if len(m.Panel().Rows()) != 0 {
		t.Fatalf("expected no rows")
	}
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if h.Quit() {
		t.Fatalf("enter on an empty panel must not quit")
	}
}

func TestModelInvalidCountShowsError(t *testing.T) {
	p := memhost.New(memhost.SceneSpec{Name: "Intro"})
	count := -1
	p.Count = &count
	h := NewHarness(newTestModel(p, Config{}))
	h.Start()
	m := h.Model()
	if !errors.Is(m.Err(), scene.ErrInvalidSceneCount) {
		t.Fatalf("expected ErrInvalidSceneCount, got %v", m.Err())
	}
	if m.Panel().Rendered() {
		t.Fatalf("panel must stay unrendered after a failed fetch")
	}
	view := h.View()
	if !strings.Contains(view, "Error:") {
		t.Fatalf("expected error line in view, got %q", view)
	}
	if strings.Contains(view, "There are") {
		t.Fatalf("heading must not be shown on failure, got %q", view)
	}
}

func TestModelSceneFailureRendersNothing(t *testing.T) {
	p := memhost.New(
		memhost.SceneSpec{Name: "Intro"},
		memhost.SceneSpec{Name: "Main", SrcErr: errors.New("boom")},
	)
	h := NewHarness(newTestModel(p, Config{}))
	h.Start()
	m := h.Model()
	if !errors.Is(m.Err(), scene.ErrSceneFetchFailed) {
		t.Fatalf("expected ErrSceneFetchFailed, got %v", m.Err())
	}
	if len(m.Panel().Rows()) != 0 {
		t.Fatalf("expected no rows after a failed fetch")
	}
}

func TestModelReadyFailure(t *testing.T) {
	p := memhost.New(memhost.SceneSpec{Name: "Intro"})
	p.ReadyErr = errors.New("host offline")
	h := NewHarness(newTestModel(p, Config{}))
	h.Start()
	if err := h.Model().Err(); err == nil || !strings.Contains(err.Error(), "host offline") {
		t.Fatalf("expected ready error, got %v", err)
	}
	if len(p.Queried()) != 0 {
		t.Fatalf("no scene may be queried when the host is not ready")
	}
}

func TestModelEnterActivatesSelectedRow(t *testing.T) {
	p := memhost.New(
		memhost.SceneSpec{Name: "Intro", Sources: sources(3)},
		memhost.SceneSpec{Name: "Main"},
	)
	h := NewHarness(newTestModel(p, Config{}))
	h.Start()

	h.Send(tea.KeyMsg{Type: tea.KeyDown})
	if h.Model().cursor != 1 {
		t.Fatalf("expected cursor on row 2, got %d", h.Model().cursor)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})

	got := p.Activations()
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected activation of scene 2, got %v", got)
	}
	if !h.Quit() {
		t.Fatalf("expected successful switch to quit")
	}
}

func TestModelDigitActivatesRow(t *testing.T) {
	p := memhost.New(
		memhost.SceneSpec{Name: "A"},
		memhost.SceneSpec{Name: "B"},
		memhost.SceneSpec{Name: "C"},
	)
	h := NewHarness(newTestModel(p, Config{}))
	h.Start()
	h.Send(runes("3"))
	if got := p.Activations(); len(got) != 1 || got[0] != 3 {
		t.Fatalf("expected activation of scene 3, got %v", got)
	}
}

func TestModelDigitOutOfRangeIgnored(t *testing.T) {
	p := memhost.New(memhost.SceneSpec{Name: "A"})
	h := NewHarness(newTestModel(p, Config{}))
	h.Start()
	h.Send(runes("5"))
	if got := p.Activations(); len(got) != 0 {
		t.Fatalf("expected no activation, got %v", got)
	}
	if h.Quit() {
		t.Fatalf("unexpected quit")
	}
}

func TestModelActivationFailureKeepsPanel(t *testing.T) {
	p := memhost.New(memhost.SceneSpec{Name: "A"}, memhost.SceneSpec{Name: "B"})
	p.SetErr = errors.New("switch refused")
	h := NewHarness(newTestModel(p, Config{}))
	h.Start()
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})

	if h.Quit() {
		t.Fatalf("failed switch must not quit")
	}
	m := h.Model()
	if m.switching {
		t.Fatalf("expected switching to clear after the result")
	}
	if !strings.Contains(m.errMsg, "switch refused") {
		t.Fatalf("expected error message, got %q", m.errMsg)
	}
	if len(m.Panel().Rows()) != 2 {
		t.Fatalf("rows must remain after a failed switch")
	}
	if m.Err() != nil {
		t.Fatalf("activation failure is not fatal, got %v", m.Err())
	}
}

func TestModelCursorWraps(t *testing.T) {
	p := memhost.New(memhost.SceneSpec{Name: "A"}, memhost.SceneSpec{Name: "B"}, memhost.SceneSpec{Name: "C"})
	h := NewHarness(newTestModel(p, Config{}))
	h.Start()
	h.Send(tea.KeyMsg{Type: tea.KeyUp})
	if got := h.Model().cursor; got != 2 {
		t.Fatalf("expected wrap to last row, got %d", got)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyDown})
	if got := h.Model().cursor; got != 0 {
		t.Fatalf("expected wrap to first row, got %d", got)
	}
	h.Send(runes("G"))
	if got := h.Model().cursor; got != 2 {
		t.Fatalf("expected bottom, got %d", got)
	}
	h.Send(runes("g"))
	if got := h.Model().cursor; got != 0 {
		t.Fatalf("expected top, got %d", got)
	}
}

func TestModelQuitWhileLoading(t *testing.T) {
	h := NewHarness(newTestModel(memhost.New(), Config{}))
	h.Send(runes("q"))
	if !h.Quit() {
		t.Fatalf("expected quit while loading")
	}
}

func TestModelMouseClickActivatesRow(t *testing.T) {
	p := memhost.New(memhost.SceneSpec{Name: "A"}, memhost.SceneSpec{Name: "B"})
	h := NewHarness(newTestModel(p, Config{}))
	h.Start()
	h.Send(tea.MouseMsg{Y: 2, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	if got := p.Activations(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected click to activate scene 2, got %v", got)
	}
}

func TestModelMouseClickOnHeadingIgnored(t *testing.T) {
	p := memhost.New(memhost.SceneSpec{Name: "A"})
	h := NewHarness(newTestModel(p, Config{}))
	h.Start()
	h.Send(tea.MouseMsg{Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	h.Send(tea.MouseMsg{Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	if got := p.Activations(); len(got) != 0 {
		t.Fatalf("expected no activation, got %v", got)
	}
}

func TestModelWindowSizeRespectsFixedDimensions(t *testing.T) {
	m := newTestModel(memhost.New(), Config{Width: 40})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	if m.width != 40 {
		t.Fatalf("expected fixed width 40, got %d", m.width)
	}
	if m.height != 20 {
		t.Fatalf("expected height from window, got %d", m.height)
	}
}

func TestModelViewportFollowsCursor(t *testing.T) {
	specs := make([]memhost.SceneSpec, 6)
	for i := range specs {
		specs[i] = memhost.SceneSpec{Name: string(rune('A' + i))}
	}
	p := memhost.New(specs...)
	h := NewHarness(newTestModel(p, Config{Height: 5}))
	h.Start()
	m := h.Model()
	if got := m.maxVisibleRows(); got != 3 {
		t.Fatalf("expected 3 visible rows, got %d", got)
	}
	for i := 0; i < 4; i++ {
		h.Send(tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != 4 {
		t.Fatalf("expected cursor 4, got %d", m.cursor)
	}
	start, end := m.visibleRange()
	if start != 2 || end != 5 {
		t.Fatalf("expected rows 2..5 visible, got %d..%d", start, end)
	}
	view := h.View()
	if strings.Contains(view, "A has") || !strings.Contains(view, "E has") {
		t.Fatalf("unexpected visible rows:\n%s", view)
	}
}
