package main

import (
	"os"
	"testing"
	"time"

	"github.com/atomicstack/scene-popup-control/internal/app"
	"github.com/atomicstack/scene-popup-control/internal/config"
)

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.Probes) != 3 {
		t.Fatalf("expected 3 probe entries, got %d", len(info.Probes))
	}
	for i, name := range []string{"stdin", "stdout", "stderr"} {
		if info.Probes[i].Name != name {
			t.Fatalf("expected probe %d name %q, got %q", i, name, info.Probes[i].Name)
		}
	}
}

func TestProbeTTYNonTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "probe")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	defer f.Close()
	got := probeTTY("file", f)
	if got.IsTerminal || got.Width != 0 || got.Error != "" {
		t.Fatalf("expected plain file to be reported as non-terminal, got %#v", got)
	}
	if got := probeTTY("nil", nil); got.IsTerminal {
		t.Fatalf("expected nil file to be non-terminal")
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			Host:         app.HostRemote,
			URL:          "ws://studio:4455/ws",
			SceneTimeout: 2 * time.Second,
			Width:        80,
			ShowFooter:   true,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"host":         "remote",
			"url":          "ws://studio:4455/ws",
			"sceneTimeout": "2s",
			"width":        "80",
			"footer":       "true",
		},
		Args: []string{"--host", "remote", "--url", "ws://studio:4455/ws"},
	}

	payload := startupTracePayload(cfg)

	flags, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	want := map[string]interface{}{
		"host":         "remote",
		"url":          "ws://studio:4455/ws",
		"sceneTimeout": "2s",
		"width":        "80",
		"footer":       "true",
		"trace":        true,
		"logFile":      "trace.log",
	}
	for k, v := range want {
		if flags[k] != v {
			t.Fatalf("expected flag %s=%v, got %v", k, v, flags[k])
		}
	}
	if payload["host"] != app.HostRemote {
		t.Fatalf("expected host remote, got %v", payload["host"])
	}
	process, ok := payload["process"].(map[string]interface{})
	if !ok || process["pid"] == nil {
		t.Fatalf("expected process details with pid, got %v", payload["process"])
	}
	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	if got, ok := payload["config"].(config.Config); !ok {
		t.Fatalf("expected config in payload")
	} else if got.App != cfg.App {
		t.Fatalf("expected app config %#v, got %#v", cfg.App, got.App)
	}
}
