// Package viz renders spring networks in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one graph with mouse and keyboard editing
//   - [Editor]: pointer gestures (grab, drag, add) applied to a graph
//   - [Canvas]: Braille-based pixel canvas with per-dot spring tension
//   - [RunPicker]: start menu over topologies and presets
//
// Springs are coloured on the current [Theme]'s gradient from relaxed to
// strained; the default runs green to red.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to the starting graph
//	A     - Add a vertex at the cursor
//	D     - Grab/drop vertices under the cursor
//	P     - Toggle pin under the cursor
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	[]    - Time travel (rewind/forward)
//
// # Recording
//
// G records the canvas as a GIF animation, written to Options.GIFPath when
// recording stops.
package viz
