// Package logging writes the application's error log and, when enabled, one
// JSON trace line per event to the same file.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultLogFile = "scene-popup-control.log"

type destination struct {
	mu    sync.Mutex
	path  string
	trace bool
}

var dest = &destination{path: defaultLogFile}

func (d *destination) current() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.path, d.trace
}

type traceEntry struct {
	Time    time.Time   `json:"time"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// appendTo opens path for appending and hands it to write. Failures go to
// stderr since there is nowhere else to report them.
func appendTo(path, what string, write func(io.Writer) error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", what, err)
		return
	}
	defer f.Close()
	if err := write(f); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", what, err)
	}
}

// Error appends err to the log file.
func Error(err error) {
	if err == nil {
		return
	}
	path, _ := dest.current()
	appendTo(path, "logging", func(w io.Writer) error {
		return log.New(w, "", log.LstdFlags).Output(2, err.Error())
	})
}

// SetTraceEnabled toggles emission of trace entries.
func SetTraceEnabled(enabled bool) {
	dest.mu.Lock()
	dest.trace = enabled
	dest.mu.Unlock()
}

// TraceEnabled reports whether Trace writes anything.
func TraceEnabled() bool {
	_, enabled := dest.current()
	return enabled
}

// Trace appends a JSON entry for event when tracing is enabled.
func Trace(event string, payload interface{}) {
	path, enabled := dest.current()
	if !enabled {
		return
	}
	entry := traceEntry{Time: time.Now().UTC(), Event: event, Payload: payload}
	appendTo(path, "trace logging", func(w io.Writer) error {
		return json.NewEncoder(w).Encode(entry)
	})
}

// Configure sets the log file. An empty path, or one whose directory cannot
// be created, selects the default file in the working directory.
func Configure(path string) {
	path = strings.TrimSpace(path)
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
			path = ""
		}
	}
	if path == "" {
		path = defaultLogFile
	}
	dest.mu.Lock()
	dest.path = path
	dest.mu.Unlock()
}

// Path returns the current log file.
func Path() string {
	path, _ := dest.current()
	return path
}
