package events

import "github.com/atomicstack/scene-popup-control/internal/logging"

type PanelTracer struct{}

type ActionTracer struct{}

var (
	Panel  = PanelTracer{}
	Action = ActionTracer{}
)

func (PanelTracer) Render(rows int) {
	logging.Trace("panel.render", map[string]interface{}{"rows": rows})
}

func (PanelTracer) RenderFailed(err error) {
	logging.Trace("panel.render.error", map[string]interface{}{"error": errString(err)})
}

func (PanelTracer) Cursor(row int) {
	logging.Trace("panel.cursor", map[string]interface{}{"row": row})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}
