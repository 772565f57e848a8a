// Package viz provides the terminal view of a running sandbox.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: steps the solver every tick and draws it
//   - [Canvas]: Braille-based pixel canvas with per-cell color
//   - [Picker]: preset selection before a live session
//   - [WatchConfig]: hot reload of a config file via fsnotify
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to an empty solver
//	+/-   - Adjust sub-steps
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// G records the canvas into verletsim.gif in the current directory.
package viz
