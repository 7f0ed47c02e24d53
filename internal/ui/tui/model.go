package tui

import (
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/rentwise/internal/property"
)

// Submission phase keys.
const (
	PhaseValidate = "validate"
	PhaseCreate   = "create"
	PhasePublish  = "publish"
)

// PhaseState is the display state of a phase.
type PhaseState int

const (
	PhaseWaiting PhaseState = iota
	PhaseRunning
	PhaseDone
	PhaseFailed
)

// Phase is a submission phase for display.
type Phase struct {
	Key   string
	Name  string
	State PhaseState
	Err   error
}

// Model is the Bubble Tea model for the submission display.
type Model struct {
	PropertyName string
	PhotoCount   int
	Target       string // "local" or the remote server URL

	Phases   []Phase
	Warnings []string

	StartTime    time.Time
	SpinnerFrame int

	Width   int
	Created *property.Created
	Err     error
	Done    bool
}

// NewSubmitModel creates a model for one submission.
func NewSubmitModel(name string, photos int, target string) Model {
	create := "Upload " + strconv.Itoa(photos) + " photos and save"
	if photos == 1 {
		create = "Upload 1 photo and save"
	} else if photos == 0 {
		create = "Save property"
	}
	return Model{
		PropertyName: name,
		PhotoCount:   photos,
		Target:       target,
		StartTime:    time.Now(),
		Phases: []Phase{
			{Name: "Validate draft", Key: PhaseValidate, State: PhaseRunning},
			{Name: create, Key: PhaseCreate},
			{Name: "Announce listing", Key: PhasePublish},
		},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()
	case WarningMsg:
		m.Warnings = append(m.Warnings, msg.Text)
	case PhaseMsg:
		m.updatePhase(msg)
		if msg.Err != nil {
			m.Err = msg.Err
			return m, tea.Quit
		}
	case ErrMsg:
		m.Err = msg.Err
		m.failRunning(msg.Err)
		return m, tea.Quit
	case DoneMsg:
		m.Created = msg.Created
		m.Done = true
		m.setStates(len(m.Phases), PhaseDone)
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) phaseIndex(key string) int {
	for i := range m.Phases {
		if m.Phases[i].Key == key {
			return i
		}
	}
	return -1
}

// setStates sets the state of the first n phases.
func (m *Model) setStates(n int, state PhaseState) {
	for i := 0; i < n && i < len(m.Phases); i++ {
		m.Phases[i].State = state
	}
}

// updatePhase applies msg to its phase. Phases are sequential: reaching a
// phase completes every phase before it.
func (m *Model) updatePhase(msg PhaseMsg) {
	idx := m.phaseIndex(msg.Phase)
	if idx < 0 {
		return
	}
	m.setStates(idx, PhaseDone)

	p := &m.Phases[idx]
	switch {
	case msg.Err != nil:
		p.State, p.Err = PhaseFailed, msg.Err
	case msg.Done:
		p.State = PhaseDone
		if idx+1 < len(m.Phases) {
			m.Phases[idx+1].State = PhaseRunning
		}
	default:
		p.State = PhaseRunning
	}
}

func (m *Model) failRunning(err error) {
	for i := range m.Phases {
		if m.Phases[i].State == PhaseRunning {
			m.Phases[i].State, m.Phases[i].Err = PhaseFailed, err
			return
		}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
