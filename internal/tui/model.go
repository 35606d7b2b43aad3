// Package tui runs the interactive 3D lineage explorer in the terminal.
//
// One bubbletea tick is one rendered frame. Every tick the camera rig flies
// toward the focused strain, or the idle camera auto-rotates, and the scene
// is recomposed from the explorer state.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"go.uber.org/zap"

	"github.com/msalah0e/strainscope/internal/activity"
	"github.com/msalah0e/strainscope/internal/camera"
	"github.com/msalah0e/strainscope/internal/config"
	"github.com/msalah0e/strainscope/internal/explorer"
	"github.com/msalah0e/strainscope/internal/layout"
	"github.com/msalah0e/strainscope/internal/lineage"
	"github.com/msalah0e/strainscope/internal/scene"
)

const (
	orbitStep   = 0.08 // radians per ctrl+arrow
	zoomIn      = 0.85
	zoomOut     = 1 / zoomIn
	maxResults  = 6
	cellAspect  = 2.0
	minOffset   = 4.0
	maxOffset   = 200.0
	chromeLines = 4 // header, input, legend, status
)

// Options configure a Model.
type Options struct {
	Graph    *layout.Graph
	Config   *config.Config
	Logger   *zap.Logger
	Session  *activity.Session
	Focus    string // strain id to focus at start
	Search   string // initial query
	NoRotate bool
	Width    int
	Height   int
}

type tickMsg time.Time

// Model is the bubbletea model of the explorer.
type Model struct {
	ctrl  *explorer.Controller
	input textinput.Model

	cam    camera.Camera
	rig    camera.Rig
	spin   *camera.AutoRotate
	rotate bool

	// zoom eases the idle camera distance toward zoomTarget.
	zoom       harmonica.Spring
	zoomTarget float64
	zoomVel    float64

	scene   scene.Options
	dt      float64
	clock   float64
	hovered string

	width  int
	height int
	styles styles
	logger *zap.Logger
}

// New builds the explorer model. It fails when opts.Focus names an unknown
// strain.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fps := cfg.Scene.FPS
	if fps <= 0 {
		fps = 30
	}
	dt := harmonica.FPS(fps)

	ti := textinput.New()
	ti.Placeholder = "Search strains... (esc clears, ←/→ cycle, ctrl+c quits)"
	ti.Prompt = "⌕ "
	ti.CharLimit = 128
	ti.Focus()

	m := Model{
		ctrl:   explorer.New(opts.Graph),
		input:  ti,
		rig:    cfg.Rig(),
		spin:   cfg.AutoRotate(),
		rotate: cfg.Rotate.Enabled && !opts.NoRotate,
		zoom:   harmonica.NewSpring(dt, 6.0, 1.0),
		scene:  cfg.SceneOptions(),
		dt:     dt,
		width:  opts.Width,
		height: opts.Height,
		styles: defaultStyles(),
		logger: logger,
	}
	m.cam = camera.Looking(opts.Graph.Center(), camera.Orbit{
		Polar:    cfg.Camera.Polar,
		Distance: cfg.Camera.Distance,
	}, cfg.Camera.FOV)

	m.ctrl.Observe(observer(logger, opts.Session))

	if opts.Search != "" {
		m.ctrl.SetSearchText(opts.Search)
	}
	if opts.Focus != "" && !m.ctrl.Select(opts.Focus) {
		return Model{}, fmt.Errorf("focus %q: %w", opts.Focus, lineage.ErrNotFound)
	}
	m.syncInput()
	return m, nil
}

// observer debug-logs every transition and records focus changes in the
// activity log.
func observer(logger *zap.Logger, session *activity.Session) explorer.Observer {
	return func(e explorer.Event) {
		logger.Debug("explorer",
			zap.String("kind", e.Kind),
			zap.String("strain", e.NodeID),
			zap.String("query", e.Query),
		)
		if session == nil || e.Kind == "search" {
			return
		}
		if err := session.Log(e.Kind, e.NodeID, e.Query, e.Year); err != nil {
			logger.Warn("activity log", zap.Error(err))
		}
	}
}

// Run starts the program on the alternate screen with mouse support and
// blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	return err
}

// Controller exposes the explorer state, mainly for tests.
func (m Model) Controller() *explorer.Controller { return m.ctrl }

// Camera returns the current camera.
func (m Model) Camera() camera.Camera { return m.cam }

func (m Model) tick() tea.Cmd {
	interval := time.Duration(m.dt * float64(time.Second))
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the frame clock and the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), textinput.Blink)
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m = m.step()
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(10, msg.Width-4)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// step advances the camera by one frame.
func (m Model) step() Model {
	m.clock += m.dt
	if focus, ok := m.ctrl.Focused(); ok {
		m.cam = m.rig.Step(m.cam, focus, m.dt)
		return m
	}
	m.cam = m.spin.Step(m.cam, m.autoRotating())
	if m.zoomTarget > 0 {
		o := camera.OrbitOf(m.cam)
		o.Distance, m.zoomVel = m.zoom.Update(o.Distance, m.zoomVel, m.zoomTarget)
		m.cam = m.cam.WithOrbit(o)
	}
	return m
}

func (m Model) autoRotating() bool {
	return m.rotate && m.ctrl.Idle()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return m, tea.Quit

	case "esc", "left", "right", "up", "down":
		m.ctrl.HandleKey(key)
		m.syncInput()
		return m, nil

	case "enter":
		if results := m.ctrl.Results(); len(results) > 0 {
			m.ctrl.SelectNode(results[0])
			m.syncInput()
		}
		return m, nil

	case "ctrl+left":
		m.orbit(-orbitStep, 0)
		return m, nil
	case "ctrl+right":
		m.orbit(orbitStep, 0)
		return m, nil
	case "ctrl+up":
		m.orbit(0, -orbitStep)
		return m, nil
	case "ctrl+down":
		m.orbit(0, orbitStep)
		return m, nil

	case "pgup":
		m.zoomBy(zoomIn)
		return m, nil
	case "pgdown":
		m.zoomBy(zoomOut)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetSearchText(m.input.Value())
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.zoomBy(zoomIn)
	case msg.Button == tea.MouseButtonWheelDown:
		m.zoomBy(zoomOut)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		top, vp := m.sceneArea()
		if msg.Y < top || msg.Y >= top+vp.Height {
			return m
		}
		if n, ok := scene.Pick(m.frame(), m.cam, vp, msg.X, msg.Y-top); ok {
			m.ctrl.Click(n.ID)
		} else {
			m.ctrl.ClickEmpty()
		}
		m.syncInput()
	case msg.Action == tea.MouseActionMotion:
		m.hovered = ""
		top, vp := m.sceneArea()
		if msg.Y >= top && msg.Y < top+vp.Height {
			if n, ok := scene.Pick(m.frame(), m.cam, vp, msg.X, msg.Y-top); ok {
				m.hovered = n.ID
			}
		}
	}
	return m
}

// orbit turns the camera by hand. While auto-rotating the result is kept
// inside the rotation bounds.
func (m *Model) orbit(dAzimuth, dPolar float64) {
	m.cam = m.cam.Rotate(dAzimuth, dPolar)
	if m.autoRotating() {
		m.cam = m.spin.Clamp(m.cam)
	}
	m.zoomTarget = 0
}

// zoomBy scales the viewing distance. With a focus the rig offset is scaled
// instead, since the rig owns the camera position.
func (m *Model) zoomBy(factor float64) {
	if _, ok := m.ctrl.Focused(); ok {
		l := m.rig.Offset.Len()
		if l == 0 {
			return
		}
		next := min(maxOffset, max(minOffset, l*factor))
		m.rig.Offset = m.rig.Offset.Scale(next / l)
		return
	}
	o := camera.OrbitOf(m.cam)
	if m.zoomTarget > 0 {
		o.Distance = m.zoomTarget
	}
	m.zoomTarget = camera.OrbitOf(m.cam.WithOrbit(o).Zoom(factor)).Distance
}

// syncInput copies the controller's query into the text field after the
// controller changed it.
func (m *Model) syncInput() {
	if m.input.Value() != m.ctrl.SearchText() {
		m.input.SetValue(m.ctrl.SearchText())
		m.input.CursorEnd()
	}
}

func (m Model) frame() scene.Frame {
	return scene.Compose(m.ctrl.Graph(), m.ctrl, m.hovered, m.clock, m.scene)
}

// sceneArea returns the first screen row of the scene and its viewport.
func (m Model) sceneArea() (int, camera.Viewport) {
	results := len(m.resultLines())
	top := 2 + results
	h := m.height - chromeLines - results
	if h < 1 {
		h = 1
	}
	return top, camera.Viewport{Width: m.width, Height: h, CellAspect: cellAspect}
}
