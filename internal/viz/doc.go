// Package viz draws a running chain in the terminal with Bubble Tea.
//
// The strand is rasterized onto a braille [Canvas] with its thickness taken
// from the render samples, next to a stats panel and a mass history graph.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	R      - Rebuild the scenario
//	Arrows - Move the connected target anchor
//	T      - Cycle palettes
//	Q      - Quit
package viz
