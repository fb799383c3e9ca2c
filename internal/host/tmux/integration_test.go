package tmux

import (
	"context"
	"testing"

	"github.com/atomicstack/scene-popup-control/internal/host"
	"github.com/atomicstack/scene-popup-control/internal/scene"
	"github.com/atomicstack/scene-popup-control/internal/testutil"
)

func TestFetchAllAgainstTmuxServer(t *testing.T) {
	socket := testutil.StartTmuxServer(t, "alpha")
	testutil.AddWindows(t, socket, "alpha", "second")
	testutil.AddScene(t, socket, "beta")

	p := New(socket)
	ctx := context.Background()
	if err := p.Ready(ctx, host.ReadyOptions{Client: "none"}); err != nil {
		t.Skipf("skipping: control-mode connect failed: %v", err)
	}
	defer p.Close()

	summaries, err := scene.NewFetcher(p, scene.Options{}).FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	got := map[string]int{}
	for i, s := range summaries {
		if s.Index != i+1 {
			t.Fatalf("summary %d has index %d", i, s.Index)
		}
		got[s.Name] = s.SourceCount
	}
	if got["alpha"] != 2 || got["beta"] != 1 {
		t.Fatalf("unexpected summaries %#v", got)
	}
}
