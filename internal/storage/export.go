package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/boxsim/internal/sim"
)

type ExportBody struct {
	ID    uint64  `json:"id"`
	Name  string  `json:"name"`
	Fixed bool    `json:"fixed"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
}

type ExportFrame struct {
	Time   float64      `json:"time"`
	Bodies []ExportBody `json:"bodies"`
}

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Steps  int           `json:"steps"`
	Frames []ExportFrame `json:"frames"`
}

// ExportJSON writes a run and its frames as one indented JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		Run:    *meta,
		Steps:  len(frames),
		Frames: make([]ExportFrame, len(frames)),
	}

	for i, f := range frames {
		ef := ExportFrame{Time: f.Time, Bodies: make([]ExportBody, len(f.Bodies))}
		for j, b := range f.Bodies {
			ef.Bodies[j] = ExportBody{
				ID:    uint64(b.ID),
				Name:  b.Name,
				Fixed: b.Fixed,
				X:     b.X,
				Y:     b.Y,
				Size:  b.Size,
				VX:    b.VX,
				VY:    b.VY,
			}
		}
		data.Frames[i] = ef
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// CopyFrames streams the raw frames.csv of a run to w.
func (s *Store) CopyFrames(w io.Writer, runID string) error {
	f, err := s.openFrames(runID)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
