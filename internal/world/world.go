package world

import (
	"fmt"
	"math"
	"slices"
)

// World owns an ordered list of bodies, an ordered list of forces, the last
// clock value supplied by the host and the visible bounds used for culling.
type World struct {
	bodies     []Body
	forces     []Force
	lastUpdate float64
	xMax       float64
	yMax       float64
	nextID     BodyID
}

// StepStats describes what a single Update did.
type StepStats struct {
	Dt         float64
	Collisions int
	MaxPasses  int
	Removed    []Body
}

// New creates an empty world whose clock starts at t and whose visible area
// is [0, width] × [0, height].
func New(t, width, height float64) *World {
	return &World{
		bodies:     make([]Body, 0),
		forces:     make([]Force, 0),
		lastUpdate: t,
		xMax:       width,
		yMax:       height,
	}
}

// AddSquare appends a square unless it overlaps an existing body, in which
// case nothing changes and it returns false with a nil error. Invalid input
// is rejected with ErrInvalidGeometry or ErrInvalidMass. Bounds are not
// checked: a square may be created outside the visible area and will be
// culled on the next step.
func (w *World) AddSquare(name string, fixed bool, x, y, size, mass float64) (bool, error) {
	if !finite(x, y, size) || size <= 0 {
		return false, fmt.Errorf("%w: %q at (%v, %v) size %v", ErrInvalidGeometry, name, x, y, size)
	}
	if !fixed && (!finite(mass) || mass <= 0) {
		return false, fmt.Errorf("%w: %q mass %v", ErrInvalidMass, name, mass)
	}

	for _, b := range w.bodies {
		if overlaps(x, y, size, b) {
			return false, nil
		}
	}

	w.nextID++
	w.bodies = append(w.bodies, Body{
		ID:    w.nextID,
		Name:  name,
		Fixed: fixed,
		X:     x,
		Y:     y,
		Size:  size,
		Mass:  mass,
	})
	return true, nil
}

func (w *World) AddForce(f Force) {
	w.forces = append(w.forces, f)
}

// Forces returns a copy of the force list.
func (w *World) Forces() []Force {
	return slices.Clone(w.forces)
}

func (w *World) SetForceX(index int, x float64) error {
	f, err := w.force(index)
	if err != nil {
		return err
	}
	f.X = x
	return nil
}

func (w *World) SetForceY(index int, y float64) error {
	f, err := w.force(index)
	if err != nil {
		return err
	}
	f.Y = y
	return nil
}

func (w *World) RenameForce(index int, name string) error {
	f, err := w.force(index)
	if err != nil {
		return err
	}
	f.Name = name
	return nil
}

func (w *World) force(index int) (*Force, error) {
	if index < 0 || index >= len(w.forces) {
		return nil, &ForceIndexError{Index: index, Len: len(w.forces)}
	}
	return &w.forces[index], nil
}

// SquareProps returns x, y, size for every body, in collection order.
func (w *World) SquareProps() []float64 {
	props := make([]float64, 0, len(w.bodies)*3)
	for _, b := range w.bodies {
		props = append(props, b.X, b.Y, b.Size)
	}
	return props
}

// Bodies returns a copy of the body list in collection order.
func (w *World) Bodies() []Body {
	return slices.Clone(w.bodies)
}

// Body looks up a live body by handle.
func (w *World) Body(id BodyID) (Body, bool) {
	for _, b := range w.bodies {
		if b.ID == id {
			return b, true
		}
	}
	return Body{}, false
}

func (w *World) Len() int { return len(w.bodies) }

func (w *World) LastUpdate() float64 { return w.lastUpdate }

func (w *World) Bounds() (xMax, yMax float64) { return w.xMax, w.yMax }

// Resize changes the visible area. Bodies are only culled against the new
// bounds on the next Update.
func (w *World) Resize(width, height float64) {
	w.xMax = width
	w.yMax = height
}

// Clone returns an independent deep copy, including the ID counter.
func (w *World) Clone() *World {
	c := *w
	c.bodies = slices.Clone(w.bodies)
	c.forces = slices.Clone(w.forces)
	return &c
}

// Update advances the world to the host time t. The step size is
// t - LastUpdate(); a non-positive or non-finite step is treated as zero.
// A non-finite t leaves the clock where it was.
func (w *World) Update(t float64) StepStats {
	dt := t - w.lastUpdate
	if !math.IsNaN(t) && !math.IsInf(t, 0) {
		w.lastUpdate = t
	}
	if !(dt > 0) || math.IsInf(dt, 1) {
		dt = 0
	}

	stats := StepStats{Dt: dt}

	accumulate(w.bodies, w.forces)

	for i := range w.bodies {
		if w.bodies[i].Fixed {
			continue
		}

		fx, fy := predict(w.bodies[i], dt)
		fx, fy, r := resolve(w.bodies, i, fx, fy)
		commit(&w.bodies[i], fx, fy, dt, r)

		stats.Collisions += r.corrections
		if r.passes > stats.MaxPasses {
			stats.MaxPasses = r.passes
		}
	}

	stats.Removed = w.cull()
	return stats
}

// cull drops every body that left the visible area, keeping order.
func (w *World) cull() []Body {
	var removed []Body
	kept := w.bodies[:0]
	for _, b := range w.bodies {
		if b.Visible(w.xMax, w.yMax) {
			kept = append(kept, b)
		} else {
			removed = append(removed, b)
		}
	}
	clear(w.bodies[len(kept):])
	w.bodies = kept
	return removed
}
