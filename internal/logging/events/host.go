package events

import "github.com/atomicstack/scene-popup-control/internal/logging"

type HostTracer struct{}

var Host = HostTracer{}

func (HostTracer) Ready(kind string) {
	logging.Trace("host.ready", map[string]interface{}{"host": kind})
}

func (HostTracer) ReadyFailed(kind string, err error) {
	logging.Trace("host.ready.error", map[string]interface{}{"host": kind, "error": errString(err)})
}

func (HostTracer) Request(method, id string) {
	logging.Trace("host.request", map[string]interface{}{"method": method, "id": id})
}

func (HostTracer) Response(method, id string, err error) {
	payload := map[string]interface{}{"method": method, "id": id}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("host.response", payload)
}

func (HostTracer) Disconnected(err error) {
	logging.Trace("host.disconnected", map[string]interface{}{"error": errString(err)})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
