package events

import "github.com/atomicstack/scene-popup-control/internal/logging"

type SceneTracer struct{}

var Scene = SceneTracer{}

func (SceneTracer) FetchStart() {
	logging.Trace("scene.fetch.start", nil)
}

func (SceneTracer) Count(count int) {
	logging.Trace("scene.fetch.count", map[string]interface{}{"count": count})
}

func (SceneTracer) Fetched(index int, name string, sources int) {
	logging.Trace("scene.fetch.scene", map[string]interface{}{"index": index, "name": name, "sources": sources})
}

func (SceneTracer) FetchDone(count int) {
	logging.Trace("scene.fetch.done", map[string]interface{}{"count": count})
}

func (SceneTracer) FetchError(index int, err error) {
	logging.Trace("scene.fetch.error", map[string]interface{}{"index": index, "error": errString(err)})
}

// Switch records which scene the user asked to activate.
func (SceneTracer) Switch(index int) {
	logging.Trace("scene.switch", map[string]interface{}{"index": index})
}
