package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/logging"
	"sonar-radar.klederson.com/internal/scan"
	"sonar-radar.klederson.com/internal/ui"
)

// Scanner is the part of the scan loop the UI drives.
type Scanner interface {
	Stop()
	State() scan.State
}

// Resizer is the part of the canvas the UI drives.
type Resizer interface {
	Resize(cols, rows int)
}

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	scanner Scanner
	canvas  Resizer
	history *ReadingRing
}

// AppModel is the root Bubble Tea model for the sonar radar.
type AppModel struct {
	width  int
	height int

	backend  string
	rangeCM  float64
	stopping bool
	err      error

	shared *shared

	// Latest snapshot from the loop goroutine
	frame     string
	telemetry ui.Telemetry
}

// New creates a new AppModel for a loop drawing on canvas.
func New(scanner Scanner, canvas Resizer, backend string, rangeCM float64) AppModel {
	return AppModel{
		backend: backend,
		rangeCM: rangeCM,
		shared: &shared{
			scanner: scanner,
			canvas:  canvas,
			history: NewReadingRing(config.ReadingHistory),
		},
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.shared.canvas.Resize(radarCells(m.layout()))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case FrameMsg:
		m.frame = string(msg)
		return m, nil

	case ReportMsg:
		rep := scan.Report(msg)
		m.telemetry.Report = rep
		if rep.ActuatorErr != nil {
			m.telemetry.ActuatorFaults++
		}
		// a failed read leaves a placeholder distance that stays out of the history
		if rep.SampleErr != nil {
			m.telemetry.SampleFaults++
		} else {
			m.shared.history.Push(rep.Frame.Sample.Distance)
		}
		return m, nil

	case StoppedMsg:
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		// the loop finishes its tick and tears down; StoppedMsg quits
		if !m.stopping {
			logging.For("ui").Info("stop requested")
			m.stopping = true
			m.shared.scanner.Stop()
		}
	}
	return m, nil
}

// Err returns the error the scan loop stopped with.
func (m AppModel) Err() error {
	return m.err
}

func (m AppModel) state() scan.State {
	s := m.shared.scanner.State()
	if m.stopping && s == scan.Running {
		return scan.Stopping
	}
	return s
}

type layout struct {
	bodyH    int
	radarW   int
	contactW int
}

func (m AppModel) layout() layout {
	menuH := 1
	statusH := 1
	bodyH := m.height - menuH - statusH
	if bodyH < 8 {
		bodyH = 8
	}

	radarW := m.width * 2 / 3
	if radarW < 30 {
		radarW = 30
	}
	contactW := m.width - radarW
	if contactW < 24 {
		contactW = 24
		radarW = max(m.width-contactW, 30)
	}
	return layout{bodyH: bodyH, radarW: radarW, contactW: contactW}
}

// radarCells is the canvas grid that fits inside the radar panel's border,
// leaving one row for the legend.
func radarCells(l layout) (cols, rows int) {
	return max(l.radarW-2, 1), max(l.bodyH-3, 1)
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing " + config.AppName + "..."
	}

	l := m.layout()
	tel := m.telemetry
	tel.State = m.state()
	tel.Backend = m.backend
	tel.Session = logging.Session
	tel.RangeCM = m.rangeCM
	tel.History = m.shared.history.Values()

	menuBar := ui.RenderMenuBar(m.width, m.backend, tel.State)
	radarPanel := ui.RenderRadarPanel(l.radarW, l.bodyH, m.frame)
	contactPanel := ui.RenderContactPanel(tel, l.contactW, l.bodyH)
	statusBar := ui.RenderStatusBar(m.width, tel)

	return ui.ComposeLayout(menuBar, radarPanel, contactPanel, statusBar)
}
