package scene

import "github.com/atomicstack/scene-popup-control/internal/host"

// Summary is the per-scene result of one fetch cycle.
type Summary struct {
	Index       int
	Handle      host.Scene
	Name        string
	SourceCount int
}
