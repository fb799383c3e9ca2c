package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/scene-popup-control/internal/app"
	"github.com/atomicstack/scene-popup-control/internal/config"
	"github.com/atomicstack/scene-popup-control/internal/logging"
	"github.com/atomicstack/scene-popup-control/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 2
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	if logging.TraceEnabled() {
		events.App.Start(startupTracePayload(cfg))
	}

	err := app.Run(cfg.App)
	events.App.Exit(err)
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// startupTracePayload records how the process was started: arguments,
// effective flags, the host it will talk to and the terminal it runs in.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath

	process := map[string]interface{}{"pid": os.Getpid()}
	if exe, err := os.Executable(); err == nil {
		process["executable"] = exe
	} else {
		process["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		process["cwd"] = cwd
	} else {
		process["cwdError"] = err.Error()
	}

	return map[string]interface{}{
		"argv":    cfg.Args,
		"flags":   flags,
		"config":  cfg,
		"host":    cfg.App.Host,
		"process": process,
		"tty":     collectTTYDetails(),
	}
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails probes stdin, stdout and stderr; the first terminal with
// a readable size is reported as detected.
func collectTTYDetails() ttyDetails {
	var details ttyDetails
	for _, f := range []struct {
		name string
		file *os.File
	}{
		{"stdin", os.Stdin},
		{"stdout", os.Stdout},
		{"stderr", os.Stderr},
	} {
		probe := probeTTY(f.name, f.file)
		details.Probes = append(details.Probes, probe)
		if details.Detected == nil && probe.IsTerminal && probe.Error == "" {
			details.Detected = &ttyDetected{Source: probe.Name, Width: probe.Width, Height: probe.Height}
		}
	}
	return details
}

func probeTTY(name string, f *os.File) ttyProbeResult {
	result := ttyProbeResult{Name: name}
	if f == nil {
		return result
	}
	fd := int(f.Fd())
	if fd < 0 || !term.IsTerminal(fd) {
		return result
	}
	result.IsTerminal = true
	width, height, err := term.GetSize(fd)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Width, result.Height = width, height
	return result
}
