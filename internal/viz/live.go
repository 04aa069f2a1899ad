package viz

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/boxsim/internal/metrics"
	"github.com/san-kum/boxsim/internal/world"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 600
	forceStep       = 5.0
	dropMass        = 10.0
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model hosts a World in the terminal. Each tick advances an internal clock
// by dt and hands it to World.Update.
type Model struct {
	world         *world.World
	initial       *world.World
	scene         string
	t, dt         float64
	width, height int
	canvas        *Canvas
	running       bool
	selected      int
	rng           *rand.Rand
	last          world.StepStats
	removed       int
	collisions    int
	population    []float64
	energy        []float64
	message       string
	showHelp      bool
	editing       bool
	nameBuf       []rune
}

// NewModel takes ownership of w. Reset restores the world as it was here.
func NewModel(w *world.World, scene string, dt float64, seed int64) Model {
	return Model{
		world:      w,
		initial:    w.Clone(),
		scene:      scene,
		t:          w.LastUpdate(),
		dt:         dt,
		width:      width,
		height:     height,
		canvas:     NewCanvas(width, height),
		running:    true,
		rng:        rand.New(rand.NewSource(seed)),
		population: make([]float64, 0, historyCapacity),
		energy:     make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// World exposes the hosted world, mostly for tests.
func (m Model) World() *world.World { return m.world }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			m.editName(msg)
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.cycleForce()
		case "left", "h":
			m.adjustForce(-forceStep, 0)
		case "right", "l":
			m.adjustForce(forceStep, 0)
		case "up", "k":
			m.adjustForce(0, -forceStep)
		case "down", "j":
			m.adjustForce(0, forceStep)
		case "n":
			m.world.AddForce(world.Force{Name: "untitled"})
			m.selected = len(m.world.Forces()) - 1
		case "e":
			m.startRename()
		case "a":
			m.dropSquare()
		case ".":
			if !m.running {
				m.step()
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) startRename() {
	forces := m.world.Forces()
	if m.selected >= len(forces) {
		return
	}
	m.editing = true
	m.nameBuf = []rune(forces[m.selected].Name)
}

// editName feeds a key into the force name being edited. Enter commits,
// esc cancels.
func (m *Model) editName(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		if err := m.world.RenameForce(m.selected, string(m.nameBuf)); err != nil {
			m.message = err.Error()
			return
		}
		m.message = fmt.Sprintf("force %d renamed to %q", m.selected, string(m.nameBuf))
	case tea.KeyEsc, tea.KeyCtrlC:
		m.editing = false
	case tea.KeyBackspace:
		if len(m.nameBuf) > 0 {
			m.nameBuf = m.nameBuf[:len(m.nameBuf)-1]
		}
	case tea.KeySpace:
		m.nameBuf = append(m.nameBuf, ' ')
	case tea.KeyRunes:
		m.nameBuf = append(m.nameBuf, msg.Runes...)
	}
}

func (m *Model) cycleForce() {
	n := len(m.world.Forces())
	if n == 0 {
		return
	}
	m.selected = (m.selected + 1) % n
}

func (m *Model) adjustForce(dx, dy float64) {
	forces := m.world.Forces()
	if m.selected >= len(forces) {
		return
	}
	f := forces[m.selected]
	if err := m.world.SetForceX(m.selected, f.X+dx); err != nil {
		m.message = err.Error()
		return
	}
	if err := m.world.SetForceY(m.selected, f.Y+dy); err != nil {
		m.message = err.Error()
	}
}

// dropSquare tries a few random spots in the top third of the world, the
// way a user would click around until a square fits.
func (m *Model) dropSquare() {
	xMax, yMax := m.world.Bounds()
	size := yMax / 15
	for range 10 {
		x := m.rng.Float64() * math.Max(0, xMax-size)
		y := m.rng.Float64() * yMax / 3
		ok, err := m.world.AddSquare("new square", false, x, y, size, dropMass)
		if err != nil {
			m.message = err.Error()
			return
		}
		if ok {
			m.message = fmt.Sprintf("dropped square at (%.0f, %.0f)", x, y)
			return
		}
	}
	m.message = "no free spot"
}

func (m *Model) step() {
	m.t += m.dt
	m.last = m.world.Update(m.t)
	m.removed += len(m.last.Removed)
	m.collisions += m.last.Collisions

	bodies := m.world.Bodies()
	m.population = appendCapped(m.population, float64(len(bodies)))
	m.energy = appendCapped(m.energy, metrics.Kinetic(bodies))
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) reset() {
	m.world = m.initial.Clone()
	m.t = m.world.LastUpdate()
	m.selected = 0
	m.removed = 0
	m.collisions = 0
	m.last = world.StepStats{}
	m.population = m.population[:0]
	m.energy = m.energy[:0]
	m.message = ""
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scene)) + "\n")
	if m.running {
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	bodies := m.world.Bodies()
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", len(bodies))) + "\n")
	s.WriteString(labelStyle.Render("Culled") + valueStyle.Render(fmt.Sprintf("%d", m.removed)) + "\n")
	s.WriteString(labelStyle.Render("Collisions") + valueStyle.Render(fmt.Sprintf("%d", m.collisions)) + "\n")
	s.WriteString(labelStyle.Render("Passes") + valueStyle.Render(fmt.Sprintf("%d/%d", m.last.MaxPasses, world.MaxResolvePasses)) + "\n")

	settled := metrics.NewSettled()
	settled.Observe(bodies, m.last, m.t)
	s.WriteString(labelStyle.Render("Settled") + ProgressBar(settled.Value(), 20) + "\n")
	s.WriteString(labelStyle.Render("Energy") + Sparkline(m.energy, 24) + "\n")

	if len(m.population) > 1 {
		s.WriteString(graphStyle.Render(Chart(m.population, "Population", 28, 4)) + "\n")
	}

	s.WriteString("\nFORCES\n")
	forces := m.world.Forces()
	if len(forces) == 0 {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}
	for i, f := range forces {
		name := f.Name
		if m.editing && i == m.selected {
			name = string(m.nameBuf) + "_"
		}
		line := fmt.Sprintf("%-10s (%6.1f, %6.1f)", name, f.X, f.Y)
		if i == m.selected {
			s.WriteString(activeForceStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	if m.message != "" {
		s.WriteString("\n" + Subtle.Render(m.message) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit A:Drop\nTab:Force ←→↑↓:Push N:New E:Name ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space    pause or resume
  .        single step while paused
  R        reset to the starting scene
  A        drop a square at a random free spot
  N        add a zero force
  E        rename the selected force (enter saves, esc cancels)
  Tab      select the next force
  Arrows   push the selected force
  Q        quit
`

// scale maps world units to canvas sub-pixels, keeping squares square.
func (m *Model) scale() float64 {
	xMax, yMax := m.world.Bounds()
	if !(xMax > 0) || !(yMax > 0) {
		return 1
	}
	return math.Min(float64(m.canvas.Width*2)/xMax, float64(m.canvas.Height*4)/yMax)
}

// draw fills movable squares and outlines fixed ones.
func (m *Model) draw() {
	m.canvas.Clear()
	k := m.scale()
	for _, b := range m.world.Bodies() {
		x0, y0 := int(math.Floor(b.X*k)), int(math.Floor(b.Y*k))
		x1, y1 := int(math.Ceil(b.Right()*k))-1, int(math.Ceil(b.Bottom()*k))-1
		if b.Fixed {
			m.canvas.Rect(x0, y0, max(x0, x1), max(y0, y1))
		} else {
			m.canvas.FillRect(x0, y0, x1, y1)
		}
	}
}

// Run starts the terminal host on the alternate screen.
func Run(w *world.World, scene string, dt float64, seed int64) error {
	_, err := tea.NewProgram(NewModel(w, scene, dt, seed), tea.WithAltScreen()).Run()
	return err
}
