// Package viz provides terminal visualization of simulated trajectories.
//
//   - [Replay]: Bubble Tea model that plays a trajectory back in real time
//   - [Canvas]: Braille-based pixel canvas with a world-space [Viewport]
//   - [DrawSystem]: draws the spring, damper and mass for one displacement
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from the initial state
//	[ ]   - Step one frame back/forward
//	{ }   - Jump one second back/forward
//	+ -   - Double/halve playback speed
//	T     - Cycle color themes
//	?     - Show help
package viz
