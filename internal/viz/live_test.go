package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/boxsim/internal/world"
)

func testWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.New(0, 100, 100)
	w.AddForce(world.Force{Name: "gravity", Y: 98})
	if ok, err := w.AddSquare("floor", true, 0, 90, 100, 1); !ok || err != nil {
		t.Fatalf("floor: %v %v", ok, err)
	}
	if ok, err := w.AddSquare("ball", false, 45, 0, 10, 1); !ok || err != nil {
		t.Fatalf("ball: %v %v", ok, err)
	}
	return w
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModelTickSteps(t *testing.T) {
	m := NewModel(testWorld(t), "drop", 0.1, 1)
	m = send(m, TickMsg{}, TickMsg{})

	if got := m.World().LastUpdate(); got != 0.2 {
		t.Errorf("expected world clock 0.2, got %v", got)
	}
	ball, _ := m.World().Body(2)
	if ball.Y <= 0 {
		t.Errorf("expected ball to fall, y=%v", ball.Y)
	}
	if len(m.population) != 2 || len(m.energy) != 2 {
		t.Errorf("expected 2 history samples, got %d and %d", len(m.population), len(m.energy))
	}
}

func TestModelPause(t *testing.T) {
	m := NewModel(testWorld(t), "drop", 0.1, 1)
	m = send(m, key(" "), TickMsg{}, TickMsg{})

	if m.World().LastUpdate() != 0 {
		t.Errorf("paused model stepped to %v", m.World().LastUpdate())
	}

	m = send(m, key("."))
	if m.World().LastUpdate() != 0.1 {
		t.Errorf("single step should reach 0.1, got %v", m.World().LastUpdate())
	}
}

func TestModelReset(t *testing.T) {
	w := testWorld(t)
	m := NewModel(w, "drop", 0.1, 1)
	m = send(m, TickMsg{}, TickMsg{}, TickMsg{}, key("r"))

	if m.t != 0 || m.World().LastUpdate() != 0 {
		t.Errorf("expected clock reset, t=%v", m.t)
	}
	ball, ok := m.World().Body(2)
	if !ok || ball.Y != 0 || ball.VY != 0 {
		t.Errorf("expected ball back at start, got %+v", ball)
	}
	if len(m.population) != 0 {
		t.Errorf("expected history cleared")
	}
}

func TestModelForceEditing(t *testing.T) {
	m := NewModel(testWorld(t), "drop", 0.1, 1)

	m = send(m, key("right"), key("up"))
	f := m.World().Forces()[0]
	if f.X != forceStep || f.Y != 98-forceStep {
		t.Errorf("unexpected gravity after edit: %+v", f)
	}

	m = send(m, key("n"))
	forces := m.World().Forces()
	if len(forces) != 2 || forces[1].Name != "untitled" {
		t.Fatalf("expected a new untitled force, got %+v", forces)
	}
	if m.selected != 1 {
		t.Errorf("expected new force selected, got %d", m.selected)
	}

	m = send(m, key("left"), key("tab"), key("down"))
	forces = m.World().Forces()
	if forces[1].X != -forceStep {
		t.Errorf("expected new force pushed left, got %+v", forces[1])
	}
	if forces[0].Y != 98 {
		t.Errorf("expected gravity restored to 98, got %+v", forces[0])
	}
}

func TestModelRenameForce(t *testing.T) {
	m := NewModel(testWorld(t), "drop", 0.1, 1)

	m = send(m, key("e"))
	if !m.editing || string(m.nameBuf) != "gravity" {
		t.Fatalf("expected editing with current name, got %v %q", m.editing, string(m.nameBuf))
	}

	// keys that normally act on the scene are typed into the name instead
	m = send(m, key("backspace"), key("backspace"), key("backspace"), key("backspace"),
		key("a"), key("q"), key(" "), key("r"), key("enter"))

	if m.editing {
		t.Error("expected editing to end on enter")
	}
	if got := m.World().Forces()[0].Name; got != "graaq r" {
		t.Errorf("force name = %q, want %q", got, "graaq r")
	}
	if m.World().Len() != 2 || !m.running {
		t.Error("typed keys leaked into scene controls")
	}

	m = send(m, key("e"), key("x"), key("esc"))
	if got := m.World().Forces()[0].Name; got != "graaq r" {
		t.Errorf("esc should discard the edit, got %q", got)
	}
	if !strings.Contains(m.View(), "graaq r") {
		t.Error("renamed force missing from view")
	}
}

func TestModelRenameWithoutForces(t *testing.T) {
	m := NewModel(world.New(0, 10, 10), "empty", 0.1, 1)
	m = send(m, key("e"))
	if m.editing {
		t.Error("rename should not start without a force")
	}
}

func TestModelDropSquare(t *testing.T) {
	m := NewModel(testWorld(t), "drop", 0.1, 42)
	before := m.World().Len()

	m = send(m, key("a"))
	if m.World().Len() != before+1 {
		t.Fatalf("expected a square to be added, message %q", m.message)
	}

	bodies := m.World().Bodies()
	added := bodies[len(bodies)-1]
	if added.Fixed || added.Mass != dropMass {
		t.Errorf("unexpected dropped square %+v", added)
	}
	if added.Y > 100.0/3 {
		t.Errorf("expected square in the top third, y=%v", added.Y)
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(testWorld(t), "drop", 0.1, 1)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModelView(t *testing.T) {
	m := NewModel(testWorld(t), "drop", 0.1, 1)
	m = send(m, TickMsg{}, TickMsg{})

	view := m.View()
	for _, want := range []string{"DROP", "RUNNING", "gravity", "Bodies"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = send(m, key(" "))
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("expected paused status")
	}
}

func TestModelDrawsBodies(t *testing.T) {
	m := NewModel(testWorld(t), "drop", 0.1, 1)
	m.draw()

	k := m.scale()
	// ball interior is filled, floor interior is hollow
	if !m.canvas.Lit(int(50*k), int(5*k)) {
		t.Error("expected ball filled")
	}
	if !m.canvas.Lit(int(50*k), int(90*k)) {
		t.Error("expected floor outline")
	}
	if m.canvas.Lit(int(50*k), int(95*k)) {
		t.Error("expected floor interior empty")
	}
}

func TestMultiChart(t *testing.T) {
	if MultiChart(nil, "x", 10, 3) != "" {
		t.Error("expected empty chart for no series")
	}
	out := MultiChart([][]float64{{0, 1, 0.5}, {1, 0, 0.5}}, "overlay", 10, 3)
	if !strings.Contains(out, "overlay") {
		t.Errorf("expected caption in chart:\n%s", out)
	}
}

func TestSeparator(t *testing.T) {
	if !strings.Contains(Separator(5), "─────") {
		t.Errorf("unexpected separator %q", Separator(5))
	}
}

func TestChart(t *testing.T) {
	if Chart(nil, "x", 10, 3) != "" {
		t.Error("expected empty chart for no data")
	}
	out := Chart([]float64{1, 2, 3, 2, 1}, "Population", 10, 3)
	if !strings.Contains(out, "Population") {
		t.Errorf("expected caption in chart:\n%s", out)
	}
}
