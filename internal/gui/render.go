package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/boxsim/internal/world"
)

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawBodies()
	a.drawHUD()
	a.drawForces()
	a.drawTelemetry()

	rl.EndDrawing()
}

func (a *App) rect(b world.Body) rl.Rectangle {
	k := float32(a.Scale)
	return rl.NewRectangle(float32(b.X)*k, float32(b.Y)*k, float32(b.Size)*k, float32(b.Size)*k)
}

func (a *App) drawBodies() {
	for _, b := range a.World.Bodies() {
		r := a.rect(b)
		if b.Fixed {
			rl.DrawRectangleRec(r, ColFixed)
			rl.DrawRectangleLinesEx(r, 1, ColAccent)
			continue
		}
		rl.DrawRectangleRec(r, ColBody)
	}
}

func (a *App) drawHUD() {
	rl.DrawText("boxsim", 30, 30, 24, ColSelect)
	rl.DrawText(fmt.Sprintf(":: %s", a.Scene), 130, 36, 16, ColText)

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	sw := int32(rl.GetScreenWidth())
	sh := int32(rl.GetScreenHeight())
	rl.DrawText(status, sw-130, 30, 16, col)

	stats := fmt.Sprintf("t=%.2fs  bodies=%d  culled=%d  passes=%d/%d",
		a.SimTime, a.World.Len(), a.Culled, a.Last.MaxPasses, world.MaxResolvePasses)
	rl.DrawText(stats, 30, 60, 14, ColText)

	rl.DrawText("[LMB] SQUARE  [RMB] WALL  [N] FORCE  [TAB] SELECT  [E] NAME  [ARROWS] PUSH  [0] ZERO  [SPACE] PAUSE  [R] RESET  [Q] QUIT", 30, sh-30, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), sw-90, sh-30, 14, ColTextDim)
}

func (a *App) drawForces() {
	sw := int32(rl.GetScreenWidth())
	x, y := sw-300, int32(70)
	rl.DrawText("FORCES", x, y, 16, ColAccent)
	y += 24

	forces := a.World.Forces()
	if len(forces) == 0 {
		rl.DrawText("  (none)", x, y, 14, ColTextDim)
		return
	}
	for i, f := range forces {
		name := f.Name
		if a.Editing && i == a.Selected {
			name = string(a.NameBuf) + "_"
		}
		line := fmt.Sprintf("  %-12s %7.1f %7.1f", name, f.X, f.Y)
		col := ColText
		if i == a.Selected {
			line = ">" + line[1:]
			col = ColSelect
		}
		rl.DrawText(line, x, y, 14, col)
		y += 18
	}
}

// drawTelemetry plots the live body count.
func (a *App) drawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	sh := rl.GetScreenHeight()
	rectX, rectY := 30, sh-110
	width, height := 300, 50

	maxVal := a.Telemetry[0]
	for _, v := range a.Telemetry {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		py := float32(rectY+height) - float32(val/maxVal)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText(fmt.Sprintf("N: %d", int(a.Telemetry[len(a.Telemetry)-1])), int32(rectX+width+10), int32(rectY+height-10), 14, ColText)
}
