// Package tmux exposes a tmux server as a scene host: every session is a
// scene and the windows linked to it are its sources. Activating a scene
// switches the popup's client to that session.
package tmux

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"sync"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
	"github.com/atomicstack/scene-popup-control/internal/host"
	"github.com/atomicstack/scene-popup-control/internal/logging/events"
)

type tmuxClient interface {
	ListSessions() ([]*gotmux.Session, error)
	ListAllWindows() ([]*gotmux.Window, error)
	SwitchClient(*gotmux.SwitchClientOptions) error
	DisplayMessage(target, format string) (string, error)
	Close() error
}

var newTmux = func(socketPath string) (tmuxClient, error) {
	if socketPath != "" {
		return gotmux.NewTmux(socketPath)
	}
	return gotmux.DefaultTmux()
}

// dial opens the control-mode connection, giving up when ctx ends. A
// connection that completes after that is closed.
func dial(ctx context.Context, socketPath string) (tmuxClient, error) {
	type result struct {
		client tmuxClient
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		client, err := newTmux(socketPath)
		ch <- result{client: client, err: err}
	}()
	select {
	case r := <-ch:
		return r.client, r.err
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.client != nil {
				_ = r.client.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

// Provider is a host.Provider backed by a tmux control-mode connection. The
// connection is shared by every scene, so calls are serialised.
type Provider struct {
	socketPath string

	mu       sync.Mutex
	client   tmuxClient
	clientID string
	sessions []string
}

// New returns a provider for the server at socketPath. Nothing is dialled
// until Ready.
func New(socketPath string) *Provider {
	return &Provider{socketPath: socketPath}
}

// Scene is one tmux session.
type Scene struct {
	provider *Provider
	index    int
	name     string
}

func (s *Scene) Name(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.name, nil
}

func (s *Scene) Sources(ctx context.Context) ([]host.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.provider.windowsFor(s.name)
}

func (p *Provider) Ready(ctx context.Context, opts host.ReadyOptions) error {
	if opts.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.DialTimeout)
		defer cancel()
	}
	client, err := dial(ctx, p.socketPath)
	if err != nil {
		events.Host.ReadyFailed("tmux", err)
		return fmt.Errorf("connect to tmux at %q: %w", p.socketPath, err)
	}
	clientID := strings.TrimSpace(opts.Client)
	if clientID == "" {
		clientID = currentClientID(client)
	}
	p.mu.Lock()
	if p.client != nil {
		_ = p.client.Close()
	}
	p.client = client
	p.clientID = clientID
	p.sessions = nil
	p.mu.Unlock()
	events.Host.Ready("tmux")
	return nil
}

// SceneCount lists sessions and pins that list as the index space for the
// following SceneByIndex calls.
func (p *Provider) SceneCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return 0, host.ErrNotReady
	}
	sessions, err := p.client.ListSessions()
	if err != nil {
		return 0, err
	}
	names := make([]string, 0, len(sessions))
	for _, s := range sessions {
		if s == nil {
			continue
		}
		names = append(names, s.Name)
	}
	p.sessions = names
	return len(names), nil
}

func (p *Provider) SceneByIndex(ctx context.Context, index int) (host.Scene, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil, host.ErrNotReady
	}
	if index < 1 || index > len(p.sessions) {
		return nil, fmt.Errorf("%w: index %d", host.ErrSceneNotFound, index)
	}
	return &Scene{provider: p, index: index, name: p.sessions[index-1]}, nil
}

func (p *Provider) SetActiveScene(ctx context.Context, scene host.Scene) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s, ok := scene.(*Scene)
	if !ok || s.provider != p {
		return host.ErrForeignScene
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return host.ErrNotReady
	}
	opts := &gotmux.SwitchClientOptions{TargetSession: s.name}
	if p.clientID != "" {
		opts.TargetClient = p.clientID
	}
	return p.client.SwitchClient(opts)
}

func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

func (p *Provider) windowsFor(session string) ([]host.Source, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil, host.ErrNotReady
	}
	windows, err := p.client.ListAllWindows()
	if err != nil {
		return nil, err
	}
	out := []host.Source{}
	for _, w := range windows {
		if w == nil || !linkedTo(w, session) {
			continue
		}
		out = append(out, host.Source{ID: w.Id, Name: w.Name})
	}
	return out, nil
}

func linkedTo(w *gotmux.Window, session string) bool {
	for _, name := range w.LinkedSessionsList {
		if name == session {
			return true
		}
	}
	for _, name := range w.ActiveSessionsList {
		if name == session {
			return true
		}
	}
	return false
}

// currentClientID detects the client that launched the popup so switches
// land on the visible client instead of the control-mode connection.
func currentClientID(client tmuxClient) string {
	target := strings.TrimSpace(os.Getenv("TMUX_PANE"))
	name, err := client.DisplayMessage(target, "#{client_name}")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}

// ResolveSocketPath picks the tmux socket: explicit value, SCENE_POPUP_SOCKET,
// the socket of the enclosing tmux ($TMUX), then the default per-user socket.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envSocket := os.Getenv("SCENE_POPUP_SOCKET"); envSocket != "" {
		return envSocket, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}
