// Package world implements a deterministic, discrete-time 2D physics core
// for non-rotating axis-aligned squares under uniform global forces.
//
// The package is built around a few types:
//
//   - [Body]: a square with position, size, mass and kinematic state
//   - [Force]: a named global vector applied to every movable body
//   - [World]: owns bodies, forces, the clock and the visible bounds
//
// A step ([World.Update]) runs, in order: force accumulation, position
// prediction, collision resolution, velocity commit and culling.
//
// # Example
//
//	w := world.New(0, 100, 100)
//	w.AddSquare("floor", true, 0, 90, 100, 1)
//	w.AddSquare("ball", false, 40, 0, 10, 1)
//	w.AddForce(world.Force{Name: "gravity", Y: 98})
//	for k := 1; k <= 30; k++ {
//	    w.Update(float64(k) * 0.1)
//	}
//
// # Resolution order
//
// Movable bodies are resolved in insertion order and each one is committed
// before the next is processed, so later bodies collide against the already
// updated positions of earlier ones. Results depend on insertion order.
//
// # Thread Safety
//
// A World is NOT safe for concurrent use. Separate worlds share nothing and
// may be stepped from different goroutines.
package world
