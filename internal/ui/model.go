package ui

import (
	"context"
	"fmt"
	"reflect"

	"github.com/atomicstack/scene-popup-control/internal/logging"
	"github.com/atomicstack/scene-popup-control/internal/logging/events"
	"github.com/atomicstack/scene-popup-control/internal/panel"
	"github.com/atomicstack/scene-popup-control/internal/scene"
	"github.com/atomicstack/scene-popup-control/internal/theme"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var styles = theme.Default()

// Loader runs one summary cycle: host readiness followed by the scene fetch.
type Loader func(ctx context.Context) ([]scene.Summary, error)

// Config describes presentation options for the model.
type Config struct {
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
}

type msgHandler func(tea.Msg) tea.Cmd

// Model implements the Bubble Tea model for the scene panel.
type Model struct {
	ctx      context.Context
	load     Loader
	renderer *panel.Renderer
	panel    *Panel
	bindings []panel.Binding

	loading   bool
	switching bool
	spinner   spinner.Model
	cursor    int
	offset    int
	errMsg    string
	infoMsg   string
	fatal     error

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool
	keys        keyMap

	handlers map[reflect.Type]msgHandler
}

// NewModel wires a loader and renderer into a fresh model. Nothing touches
// the host until Init runs.
func NewModel(ctx context.Context, load Loader, renderer *panel.Renderer, cfg Config) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	if styles.Loading != nil {
		s.Style = *styles.Loading
	}
	m := &Model{
		ctx:        ctx,
		load:       load,
		renderer:   renderer,
		panel:      NewPanel(),
		loading:    true,
		spinner:    s,
		showFooter: cfg.ShowFooter,
		verbose:    cfg.Verbose,
		keys:       defaultKeyMap(),
	}
	if cfg.Width > 0 {
		m.width = cfg.Width
		m.fixedWidth = true
	}
	if cfg.Height > 0 {
		m.height = cfg.Height
		m.fixedHeight = true
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadScenesCmd())
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

// Err returns the error that prevented the panel from rendering, if any.
func (m *Model) Err() error {
	return m.fatal
}

// Panel exposes the mount point.
func (m *Model) Panel() *Panel {
	return m.panel
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):          m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):        m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):   m.handleWindowSizeMsg,
		reflect.TypeOf(spinner.TickMsg{}):     m.handleSpinnerTickMsg,
		reflect.TypeOf(scenesLoadedMsg{}):     m.handleScenesLoadedMsg,
		reflect.TypeOf(activationResultMsg{}): m.handleActivationResultMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// scenesLoadedMsg carries the result of the summary cycle.
type scenesLoadedMsg struct {
	summaries []scene.Summary
	err       error
}

// activationResultMsg reports the host's answer to a scene switch.
type activationResultMsg struct {
	index int
	err   error
}

func (m *Model) loadScenesCmd() tea.Cmd {
	return func() tea.Msg {
		if m.load == nil {
			return scenesLoadedMsg{err: fmt.Errorf("no scene loader configured")}
		}
		summaries, err := m.load(m.ctx)
		return scenesLoadedMsg{summaries: summaries, err: err}
	}
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	if !m.loading && !m.switching {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

func (m *Model) handleScenesLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(scenesLoadedMsg)
	if !ok {
		return nil
	}
	m.loading = false
	if loaded.err != nil {
		m.fail(loaded.err)
		return nil
	}
	if m.renderer == nil {
		m.fail(fmt.Errorf("no panel renderer configured"))
		return nil
	}
	bindings, err := m.renderer.Render(loaded.summaries, m.panel)
	if err != nil {
		m.panel.reset()
		m.fail(err)
		return nil
	}
	m.bindings = bindings
	m.cursor = 0
	m.offset = 0
	return nil
}

func (m *Model) fail(err error) {
	m.fatal = err
	m.errMsg = err.Error()
	logging.Error(err)
}

// activate runs the handler bound to row i.
func (m *Model) activate(i int) tea.Cmd {
	if m.loading || m.switching || i < 0 || i >= len(m.bindings) {
		return nil
	}
	m.cursor = i
	m.syncViewport()
	binding := m.bindings[i]
	m.switching = true
	m.errMsg = ""
	m.setInfo(fmt.Sprintf("Switching to scene %d", binding.Summary.Index))
	ctx := m.ctx
	run := func() tea.Msg {
		err := binding.Row.Activate(ctx)
		return activationResultMsg{index: binding.Summary.Index, err: err}
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m *Model) handleActivationResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(activationResultMsg)
	if !ok {
		return nil
	}
	m.switching = false
	if result.err != nil {
		m.errMsg = result.err.Error()
		m.forceClearInfo()
		logging.Error(result.err)
		return nil
	}
	info := fmt.Sprintf("Switched to scene %d", result.index)
	events.Action.Success(info)
	if m.verbose {
		m.setInfo(info)
	} else {
		m.forceClearInfo()
	}
	return tea.Quit
}
