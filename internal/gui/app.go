package gui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/boxsim/internal/world"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColFixed   = rl.NewColor(90, 90, 110, 255)
	ColBody    = rl.NewColor(220, 220, 220, 255)
)

const (
	windowWidth  = 1280
	windowHeight = 720
	maxTelemetry = 200
	// force change per second while an arrow key is held
	forceRate = 100.0
	dropMass  = 10.0
)

// App hosts a World in a raylib window. Left click adds a movable square,
// right click adds a fixed one; the force list is edited from the keyboard.
type App struct {
	World     *world.World
	initial   *world.World
	Scene     string
	SimTime   float64
	Scale     float64
	Running   bool
	Selected  int
	Telemetry []float64
	Last      world.StepStats
	Culled    int
	Logger    *log.Logger
	Editing   bool
	NameBuf   []rune
	quit      bool
}

func initWindow() {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(windowWidth, windowHeight, "boxsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp picks a pixel scale that fits the world's bounds in the window.
func NewApp(w *world.World, scene string, logger *log.Logger) *App {
	xMax, yMax := w.Bounds()
	scale := 1.0
	if xMax > 0 && yMax > 0 {
		scale = math.Min(windowWidth/xMax, windowHeight/yMax)
	}

	return &App{
		World:     w,
		initial:   w.Clone(),
		Scene:     scene,
		SimTime:   w.LastUpdate(),
		Scale:     scale,
		Running:   true,
		Telemetry: make([]float64, 0, maxTelemetry),
		Logger:    logger,
	}
}

// Run opens the window and blocks until it is closed.
func Run(w *world.World, scene string, logger *log.Logger) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(w, scene, logger)
	app.Logger.Info("gui started", "scene", scene, "bodies", w.Len(), "scale", app.Scale)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if a.Editing {
		a.editName()
		return
	}
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset()
	}

	if rl.IsWindowResized() {
		a.fitBounds()
	}

	a.handleForces()
	a.handleMouse()

	if !a.Running {
		return
	}

	// Advance a private clock so a pause does not turn into one huge step.
	a.SimTime += float64(rl.GetFrameTime())
	a.Last = a.World.Update(a.SimTime)
	for _, b := range a.Last.Removed {
		a.Logger.Debug("body culled", "id", b.ID, "name", b.Name)
	}
	a.Culled += len(a.Last.Removed)

	a.Telemetry = append(a.Telemetry, float64(a.World.Len()))
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) handleMouse() {
	left := rl.IsMouseButtonPressed(rl.MouseButtonLeft)
	right := rl.IsMouseButtonPressed(rl.MouseButtonRight)
	if !left && !right {
		return
	}

	_, yMax := a.World.Bounds()
	size := yMax / 15
	pos := rl.GetMousePosition()
	x := float64(pos.X)/a.Scale - size/2
	y := float64(pos.Y)/a.Scale - size/2

	name, fixed := "new square", false
	if right {
		name, fixed = "new wall", true
	}

	ok, err := a.World.AddSquare(name, fixed, x, y, size, dropMass)
	switch {
	case err != nil:
		a.Logger.Warn("add square", "err", err)
	case !ok:
		a.Logger.Debug("square overlaps", "x", x, "y", y)
	default:
		a.Logger.Debug("square added", "x", x, "y", y, "fixed", fixed)
	}
}

func (a *App) handleForces() {
	if rl.IsKeyPressed(rl.KeyN) {
		a.World.AddForce(world.Force{Name: fmt.Sprintf("force %d", len(a.World.Forces())+1)})
		a.Selected = len(a.World.Forces()) - 1
	}

	forces := a.World.Forces()
	if len(forces) == 0 {
		return
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.Selected = (a.Selected + 1) % len(forces)
	}
	if a.Selected >= len(forces) {
		a.Selected = 0
	}
	if rl.IsKeyPressed(rl.KeyE) {
		a.Editing = true
		a.NameBuf = []rune(forces[a.Selected].Name)
		return
	}

	step := forceRate * float64(rl.GetFrameTime())
	f := forces[a.Selected]
	dx, dy := 0.0, 0.0
	if rl.IsKeyDown(rl.KeyLeft) {
		dx -= step
	}
	if rl.IsKeyDown(rl.KeyRight) {
		dx += step
	}
	if rl.IsKeyDown(rl.KeyUp) {
		dy -= step
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dy += step
	}
	if rl.IsKeyPressed(rl.KeyZero) {
		dx, dy = -f.X, -f.Y
	}
	if dx == 0 && dy == 0 {
		return
	}

	if err := a.World.SetForceX(a.Selected, f.X+dx); err != nil {
		a.Logger.Error("set force", "err", err)
		return
	}
	if err := a.World.SetForceY(a.Selected, f.Y+dy); err != nil {
		a.Logger.Error("set force", "err", err)
	}
}

// editName collects typed characters for the selected force's name.
// Enter renames the force, escape discards the edit.
func (a *App) editName() {
	for c := rl.GetCharPressed(); c > 0; c = rl.GetCharPressed() {
		a.NameBuf = append(a.NameBuf, rune(c))
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(a.NameBuf) > 0 {
		a.NameBuf = a.NameBuf[:len(a.NameBuf)-1]
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.Editing = false
		return
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		a.Editing = false
		if err := a.World.RenameForce(a.Selected, string(a.NameBuf)); err != nil {
			a.Logger.Error("rename force", "err", err)
			return
		}
		a.Logger.Debug("force renamed", "index", a.Selected, "name", string(a.NameBuf))
	}
}

// fitBounds sizes the visible area to the window. The scale stays put, so a
// bigger window shows more of the world.
func (a *App) fitBounds() {
	fitWorld(a.World, rl.GetScreenWidth(), rl.GetScreenHeight(), a.Scale)
}

func fitWorld(w *world.World, screenW, screenH int, scale float64) {
	w.Resize(float64(screenW)/scale, float64(screenH)/scale)
}

// restart clones the scene as loaded and fits it to the current window, so a
// resize before the reset is kept.
func restart(initial *world.World, screenW, screenH int, scale float64) *world.World {
	w := initial.Clone()
	fitWorld(w, screenW, screenH, scale)
	return w
}

func (a *App) reset() {
	a.World = restart(a.initial, rl.GetScreenWidth(), rl.GetScreenHeight(), a.Scale)
	a.SimTime = a.World.LastUpdate()
	a.Selected = 0
	a.Culled = 0
	a.Last = world.StepStats{}
	a.Telemetry = a.Telemetry[:0]
	a.Logger.Info("scene reset", "scene", a.Scene)
}
