package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/scene-popup-control/internal/app"
	"github.com/joho/godotenv"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envHost         = "SCENE_POPUP_HOST"
	envSocketPath   = "SCENE_POPUP_SOCKET"
	envURL          = "SCENE_POPUP_URL"
	envReadyConfig  = "SCENE_POPUP_READY_CONFIG"
	envSceneTimeout = "SCENE_POPUP_SCENE_TIMEOUT"
	envConcurrency  = "SCENE_POPUP_CONCURRENCY"
	envWidth        = "SCENE_POPUP_WIDTH"
	envHeight       = "SCENE_POPUP_HEIGHT"
	envShowFooter   = "SCENE_POPUP_FOOTER"
	envVerbose      = "SCENE_POPUP_VERBOSE"
	envTrace        = "SCENE_POPUP_TRACE"
	envLogFile      = "SCENE_POPUP_LOG_FILE"
	envServe        = "SCENE_POPUP_SERVE"
	envEnvFile      = "SCENE_POPUP_ENV_FILE"
)

const defaultEnvFile = ".env"

// Load parses configuration from CLI arguments, the environment and an
// optional dotenv file.
func Load() (Config, error) {
	environ, err := withDotenv(os.Environ())
	if err != nil {
		return Config{}, err
	}
	return LoadArgs(os.Args[1:], environ)
}

// withDotenv merges the dotenv file named by SCENE_POPUP_ENV_FILE (or ./.env)
// under environ. Variables already present in environ win. A missing default
// file is not an error; a missing explicit file is.
func withDotenv(environ []string) ([]string, error) {
	env := parseEnv(environ)
	path, explicit := env[envEnvFile]
	if !explicit || strings.TrimSpace(path) == "" {
		path, explicit = defaultEnvFile, false
	}
	fileEnv, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return environ, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	merged := make([]string, 0, len(fileEnv)+len(environ))
	for k, v := range fileEnv {
		if _, ok := env[k]; ok {
			continue
		}
		merged = append(merged, k+"="+v)
	}
	return append(merged, environ...), nil
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("scene-popup-control", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	hostKind := fs.String("host", envOrDefault(env, envHost, app.HostTmux), "scene host: tmux, remote or demo")
	socket := fs.String("socket", envOrDefault(env, envSocketPath, ""), "path to the tmux socket (overrides environment detection)")
	url := fs.String("url", envOrDefault(env, envURL, ""), "websocket url of a remote scene host")
	readyConfig := fs.String("ready-config", envOrDefault(env, envReadyConfig, ""), "YAML file with host ready options")
	sceneTimeout := fs.Duration("scene-timeout", envOrDuration(env, envSceneTimeout, 0), "per-scene fetch timeout (0 disables)")
	concurrency := fs.Int("concurrency", envOrInt(env, envConcurrency, 0), "maximum concurrent scene fetches (0 is unlimited)")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	printPanel := fs.Bool("print", false, "print the panel to stdout instead of opening the interactive view")
	serve := fs.String("serve", envOrDefault(env, envServe, ""), "serve the configured host to remote panels on this address")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, false), "print success messages for actions")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			Host:         *hostKind,
			SocketPath:   *socket,
			URL:          *url,
			ReadyConfig:  *readyConfig,
			SceneTimeout: *sceneTimeout,
			Concurrency:  *concurrency,
			Width:        *width,
			Height:       *height,
			ShowFooter:   *footer,
			Verbose:      *verbose,
			Print:        *printPanel,
			Serve:        *serve,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"host":         *hostKind,
			"socket":       *socket,
			"url":          *url,
			"readyConfig":  *readyConfig,
			"sceneTimeout": sceneTimeout.String(),
			"concurrency":  strconv.Itoa(*concurrency),
			"width":        strconv.Itoa(*width),
			"height":       strconv.Itoa(*height),
			"footer":       strconv.FormatBool(*footer),
			"print":        strconv.FormatBool(*printPanel),
			"serve":        *serve,
			"trace":        strconv.FormatBool(*trace),
			"verbose":      strconv.FormatBool(*verbose),
			"logFile":      *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects option combinations the application cannot run.
func Validate(cfg Config) error {
	a := cfg.App
	switch a.Host {
	case app.HostTmux, app.HostRemote, app.HostDemo:
	default:
		return fmt.Errorf("unknown host %q (want tmux, remote or demo)", a.Host)
	}
	if a.Host == app.HostRemote && strings.TrimSpace(a.URL) == "" {
		return errors.New("--host remote requires --url")
	}
	if a.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", a.Width)
	}
	if a.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", a.Height)
	}
	if a.SceneTimeout < 0 {
		return fmt.Errorf("scene-timeout must be >= 0 (got %s)", a.SceneTimeout)
	}
	if a.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0 (got %d)", a.Concurrency)
	}
	if a.Print && a.Serve != "" {
		return errors.New("--print and --serve are mutually exclusive")
	}
	return nil
}
