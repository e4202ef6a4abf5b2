package viz

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/spinmc/internal/ising"
	"github.com/san-kum/spinmc/internal/lattice"
)

// Frame is one rendered snapshot of a running simulation.
type Frame struct {
	Grid          string
	Sweep         int
	Energy        float64
	Magnetization float64
}

// Recorder turns per-sweep measurement callbacks into rendered frames,
// capped at a frame rate. Frames the consumer is not ready for are
// dropped so recording never stalls the Markov chain.
type Recorder struct {
	lat    *lattice.Lattice
	frames chan Frame

	minGap    time.Duration
	lastFrame time.Time
	sweep     int
}

// NewRecorder prepares a recorder for a 2D lattice.
func NewRecorder(lat *lattice.Lattice, frameRate int) (*Recorder, error) {
	if lat.NDim() != 2 {
		return nil, ErrNot2D
	}
	if frameRate < 1 {
		frameRate = 1
	}
	return &Recorder{
		lat:    lat,
		frames: make(chan Frame, 1),
		minGap: time.Second / time.Duration(frameRate),
	}, nil
}

// Frames is the stream consumed by the live view.
func (r *Recorder) Frames() <-chan Frame { return r.frames }

// Measure renders the configuration if enough time has passed since
// the previous frame.
func (r *Recorder) Measure(cfg *ising.Configuration, energy float64) {
	r.sweep++
	if time.Since(r.lastFrame) < r.minGap {
		return
	}
	r.lastFrame = time.Now()

	grid, err := RenderLattice(cfg, r.lat)
	if err != nil {
		return
	}
	frame := Frame{
		Grid:          grid,
		Sweep:         r.sweep,
		Energy:        energy,
		Magnetization: ising.Magnetization(cfg),
	}
	select {
	case r.frames <- frame:
	default:
	}
}

// Close ends the frame stream; the live view quits when it drains.
func (r *Recorder) Close() { close(r.frames) }

type frameMsg Frame

type doneMsg struct{}

// Model is the bubbletea program showing live frames.
type Model struct {
	title   string
	frames  <-chan Frame
	current Frame
	done    bool
}

func NewModel(title string, frames <-chan Frame) Model {
	return Model{title: title, frames: frames}
}

func (m Model) Init() tea.Cmd { return waitForFrame(m.frames) }

func waitForFrame(frames <-chan Frame) tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-frames
		if !ok {
			return doneMsg{}
		}
		return frameMsg(frame)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.current = Frame(msg)
		return m, waitForFrame(m.frames)
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	status := fmt.Sprintf("sweep %d  E=%.2f  M=%+.4f  (q to quit)",
		m.current.Sweep, m.current.Energy, m.current.Magnetization)
	if m.done {
		status = fmt.Sprintf("finished after %d sweeps  E=%.2f  M=%+.4f",
			m.current.Sweep, m.current.Energy, m.current.Magnetization)
	}
	return m.title + "\n" + m.current.Grid + styleStatus.Render(status) + "\n"
}
