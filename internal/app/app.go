package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atomicstack/scene-popup-control/internal/host"
	"github.com/atomicstack/scene-popup-control/internal/host/memhost"
	"github.com/atomicstack/scene-popup-control/internal/host/remote"
	"github.com/atomicstack/scene-popup-control/internal/host/tmux"
	"github.com/atomicstack/scene-popup-control/internal/logging"
	"github.com/atomicstack/scene-popup-control/internal/panel"
	"github.com/atomicstack/scene-popup-control/internal/scene"
	"github.com/atomicstack/scene-popup-control/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Host kinds accepted by Config.Host.
const (
	HostTmux   = "tmux"
	HostRemote = "remote"
	HostDemo   = "demo"
)

// Config describes user-provided application options.
type Config struct {
	Host         string
	SocketPath   string
	URL          string
	ReadyConfig  string
	SceneTimeout time.Duration
	Concurrency  int
	Width        int
	Height       int
	ShowFooter   bool
	Verbose      bool
	Print        bool
	Serve        string
}

var (
	newProvider = buildProvider
	runProgram  = func(ctx context.Context, model *ui.Model) error {
		program := tea.NewProgram(model,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithContext(ctx),
		)
		_, err := program.Run()
		return err
	}
	shutdownGrace = 2 * time.Second
)

// Run bootstraps the provider and runs the mode selected by cfg.
func Run(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunContext(ctx, cfg, os.Stdout)
}

// RunContext is Run with an explicit context and output for --print.
func RunContext(ctx context.Context, cfg Config, out io.Writer) error {
	opts, err := host.LoadReadyOptions(cfg.ReadyConfig)
	if err != nil {
		return err
	}
	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := provider.Close(); cerr != nil {
			logging.Error(fmt.Errorf("close host: %w", cerr))
		}
	}()

	fetcher := scene.NewFetcher(provider, scene.Options{
		SceneTimeout: cfg.SceneTimeout,
		Concurrency:  cfg.Concurrency,
	})
	renderer := panel.NewRenderer(provider)
	load := NewLoader(provider, opts, fetcher)

	switch {
	case cfg.Serve != "":
		if err := provider.Ready(ctx, opts); err != nil {
			return fmt.Errorf("ready host: %w", err)
		}
		return serve(ctx, cfg.Serve, remote.NewServer(provider).Routes())
	case cfg.Print:
		summaries, err := load(ctx)
		if err != nil {
			return err
		}
		_, err = renderer.Render(summaries, panel.NewWriterMount(out))
		return err
	}

	model := ui.NewModel(ctx, load, renderer, ui.Config{
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
	})
	err = runProgram(ctx, model)
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	if err != nil {
		return err
	}
	return model.Err()
}

// NewLoader returns the summary cycle: the host is readied once, then every
// scene is fetched.
func NewLoader(provider host.Provider, opts host.ReadyOptions, fetcher *scene.Fetcher) ui.Loader {
	return func(ctx context.Context) ([]scene.Summary, error) {
		if err := provider.Ready(ctx, opts); err != nil {
			return nil, fmt.Errorf("ready host: %w", err)
		}
		return fetcher.FetchAll(ctx)
	}
}

func buildProvider(cfg Config) (host.Provider, error) {
	switch cfg.Host {
	case "", HostTmux:
		socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath)
		if err != nil {
			return nil, fmt.Errorf("resolve socket path: %w", err)
		}
		return tmux.New(socketPath), nil
	case HostRemote:
		if cfg.URL == "" {
			return nil, errors.New("remote host requires a url")
		}
		return remote.NewClient(cfg.URL), nil
	case HostDemo:
		return memhost.Demo(), nil
	default:
		return nil, fmt.Errorf("unknown host %q", cfg.Host)
	}
}

func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
