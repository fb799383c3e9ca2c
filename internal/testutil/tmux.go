package testutil

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// RequireTmux skips the calling test when tmux is not present on PATH.
func RequireTmux(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("tmux")
	if err != nil {
		t.Skip("skipping: tmux binary not available")
	}
	return path
}

// StartTmuxServer boots a throwaway tmux server with one detached session
// named first and returns its socket path. The server is killed on cleanup.
func StartTmuxServer(t *testing.T, first string) string {
	t.Helper()
	RequireTmux(t)
	dir, err := os.MkdirTemp("/tmp", "scene-popup-control-*")
	if err != nil {
		t.Fatalf("failed to create tmux temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	socket := filepath.Join(dir, "tmux-test.sock")
	if err := TmuxCommand(socket, "-f", "/dev/null", "new-session", "-d", "-s", first, "sleep", "600").Run(); err != nil {
		t.Skipf("skipping: failed to start tmux server: %v", err)
	}
	t.Cleanup(func() { stopServer(t, socket) })
	return socket
}

// AddScene creates a detached session called name with one extra window per
// entry in windows, so the session ends up with len(windows)+1 sources.
func AddScene(t *testing.T, socket, name string, windows ...string) {
	t.Helper()
	if err := TmuxCommand(socket, "new-session", "-d", "-s", name).Run(); err != nil {
		t.Skipf("skipping: new-session %s failed: %v", name, err)
	}
	AddWindows(t, socket, name, windows...)
}

// AddWindows appends named windows to an existing session.
func AddWindows(t *testing.T, socket, session string, windows ...string) {
	t.Helper()
	for _, w := range windows {
		if err := TmuxCommand(socket, "new-window", "-d", "-t", session, "-n", w).Run(); err != nil {
			t.Skipf("skipping: new-window %s in %s failed: %v", w, session, err)
		}
	}
}

// TmuxCommand builds a tmux invocation against socket, isolated from any
// tmux server the test process may be running inside.
func TmuxCommand(socket string, extra ...string) *exec.Cmd {
	socket = strings.TrimSpace(socket)
	var args []string
	if socket != "" {
		args = append(args, "-S", socket)
	}
	cmd := exec.Command("tmux", append(args, extra...)...)
	cmd.Env = isolatedEnv(socket)
	return cmd
}

func isolatedEnv(socket string) []string {
	env := []string{"TMUX="}
	for _, entry := range os.Environ() {
		if !strings.HasPrefix(entry, "TMUX=") && !strings.HasPrefix(entry, "TMUX_TMPDIR=") {
			env = append(env, entry)
		}
	}
	if socket != "" {
		env = append(env, "TMUX_TMPDIR="+filepath.Dir(socket))
	}
	return env
}

func stopServer(t *testing.T, socket string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := killServer(ctx, socket); err != nil {
		t.Logf("control-mode kill failed for %s: %v; falling back to tmux kill-server", socket, err)
		_ = TmuxCommand(socket, "kill-server").Run()
	}
}

func killServer(ctx context.Context, socket string) error {
	if strings.TrimSpace(socket) == "" {
		return errors.New("empty tmux socket path")
	}
	client, err := gotmux.NewTmuxWithOptions(socket, gotmux.WithContext(ctx))
	if err != nil {
		return err
	}
	defer client.Close()
	return client.KillServer()
}
