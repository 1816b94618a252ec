// Package viz renders distance fields in the terminal.
//
// [SliceView] is a Bubble Tea model that shows one z-slice of a field as a
// heatmap, with an asciigraph profile of the row under the cursor.
//
// # Key Bindings
//
//	Up/Down (k/j)    - Move between z slices
//	Left/Right (h/l) - Move the profile row
//	T                - Cycle color themes
//	Q                - Quit
package viz
