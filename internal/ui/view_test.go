package ui

import (
	"strings"
	"testing"

	"github.com/atomicstack/scene-popup-control/internal/host/memhost"
	"github.com/charmbracelet/x/ansi"
)

func TestViewTruncatesToWidth(t *testing.T) {
	p := memhost.New(memhost.SceneSpec{Name: "A scene with a very long name"})
	h := NewHarness(newTestModel(p, Config{Width: 16}))
	h.Start()
	for _, line := range strings.Split(h.View(), "\n") {
		if w := ansi.StringWidth(line); w > 16 {
			t.Fatalf("line %q is %d cells wide", line, w)
		}
	}
}

func TestViewShowsFooter(t *testing.T) {
	h := NewHarness(newTestModel(memhost.New(memhost.SceneSpec{Name: "A"}), Config{ShowFooter: true}))
	h.Start()
	if view := h.View(); !strings.Contains(view, "enter switch") {
		t.Fatalf("expected footer, got %q", view)
	}
}

func TestViewNumbersRows(t *testing.T) {
	specs := make([]memhost.SceneSpec, 10)
	for i := range specs {
		specs[i] = memhost.SceneSpec{Name: "S"}
	}
	h := NewHarness(newTestModel(memhost.New(specs...), Config{}))
	h.Start()
	lines := strings.Split(ansi.Strip(h.View()), "\n")
	if len(lines) != 11 {
		t.Fatalf("expected heading and 10 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], rowIndicator+"  1  S has 0 sources") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if !strings.HasPrefix(lines[10], rowIndicator+" 10  S has 0 sources") {
		t.Fatalf("unexpected last row %q", lines[10])
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("hello", 10); got != "hello" {
		t.Fatalf("expected untouched text, got %q", got)
	}
	if got := truncateText("hello world", 6); ansi.StringWidth(got) != 6 || !strings.HasSuffix(got, "…") {
		t.Fatalf("unexpected truncation %q", got)
	}
}

func TestViewShowsSpinnerWhileSwitching(t *testing.T) {
	p := memhost.New(memhost.SceneSpec{Name: "A"}, memhost.SceneSpec{Name: "B"})
	h := NewHarness(newTestModel(p, Config{}))
	h.Start()
	m := h.Model()
	if cmd := m.activate(1); cmd == nil {
		t.Fatalf("expected activation command")
	}
	if !m.switching {
		t.Fatalf("expected model to be switching")
	}
	want := ansi.Strip(m.spinner.View()) + " Switching to scene 2"
	if view := ansi.Strip(m.View()); !strings.Contains(view, want) {
		t.Fatalf("expected %q in view, got:\n%s", want, view)
	}
	if got := p.Activations(); len(got) != 0 {
		t.Fatalf("host must not be called before the command runs, got %v", got)
	}
}
