// Package viz renders rotor results in the terminal.
//
//   - [Explorer]: interactive Bubble Tea view that re-evaluates the rotor
//     as rpm, wind speed and pitch change
//   - [Canvas]: Braille pixel canvas used for the blade planform
//   - [Spanwise]: asciigraph line charts of element quantities
//   - [Summary]: lipgloss panel of the aggregated performance
//
// # Key Bindings
//
//	j/k   - Select parameter
//	h/l   - Decrease/increase selected parameter
//	H/L   - Coarse decrease/increase
//	f     - Cycle the plotted field
//	t     - Cycle color themes
//	r     - Reset to the starting rotor
//	q     - Quit
package viz
