package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/boxsim/internal/sim"
	"github.com/san-kum/boxsim/internal/world"
)

const (
	colorBackground = "#0a0a0a"
	colorFixed      = "#5a5a6e"
	colorMovable    = "#00ff88"
	colorTrail      = "#00ccff"
)

type Options struct {
	Width, Height float64 // world bounds
	Scale         float64 // pixels per world unit
	Trails        bool    // draw each body's path up to the frame
}

// FrameToSVG renders frames[index] as rectangles. With Trails set, the path
// of every body still alive at index is drawn from the frames before it.
func FrameToSVG(frames []sim.Frame, index int, opts Options) (string, error) {
	if index < 0 || index >= len(frames) {
		return "", fmt.Errorf("frame %d out of range [0, %d)", index, len(frames))
	}
	if !(opts.Scale > 0) {
		opts.Scale = 1
	}

	k := opts.Scale
	w, h := opts.Width*k, opts.Height*k
	frame := frames[index]

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, colorBackground))

	if opts.Trails {
		for _, b := range frame.Bodies {
			if b.Fixed {
				continue
			}
			if path := trail(frames[:index+1], b.ID, k); path != "" {
				sb.WriteString(path)
			}
		}
	}

	for _, b := range frame.Bodies {
		fill := colorMovable
		if b.Fixed {
			fill = colorFixed
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"><title>%s</title></rect>
`, b.X*k, b.Y*k, b.Size*k, b.Size*k, fill, escape(b.Name)))
	}

	sb.WriteString(fmt.Sprintf(`<text x="4" y="14" fill="#888899" font-family="monospace" font-size="12">t=%.3f</text>
</svg>`, frame.Time))
	return sb.String(), nil
}

// trail traces the centre of body id across frames.
func trail(frames []sim.Frame, id world.BodyID, k float64) string {
	var sb strings.Builder
	n := 0
	for _, f := range frames {
		for _, b := range f.Bodies {
			if b.ID != id {
				continue
			}
			cx, cy := (b.X+b.Size/2)*k, (b.Y+b.Size/2)*k
			if n == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", cx, cy))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", cx, cy))
			}
			n++
			break
		}
	}
	if n < 2 {
		return ""
	}
	return fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1" d="M%s"/>
`, colorTrail, sb.String())
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
