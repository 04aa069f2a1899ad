// Package viz is the terminal host for a box world.
//
// The package implements a live view using the Bubble Tea framework:
//
//   - [Model]: steps a world from ticks and draws it
//   - [Canvas]: Braille-based pixel canvas, squares are filled or outlined
//   - [Chart]: asciigraph line charts, also used by the CLI plot command
//
// # Key Bindings
//
//	Space  - Pause/Resume simulation
//	.      - Single step while paused
//	R      - Reset to the starting scene
//	A      - Drop a square at a random free spot
//	N      - Add a zero force
//	E      - Rename the selected force
//	Tab    - Select the next force
//	Arrows - Push the selected force
//	?      - Show help overlay
//
// Fixed bodies are drawn as outlines, movable ones are filled.
package viz
