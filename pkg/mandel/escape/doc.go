// Package escape implements the escape-time test for z <- z*z + c and turns
// its outcome into a display intensity in [0, 255].
//
// Two colorings are available behind the Coloring interface and are chosen
// at runtime through Mode:
//   - Continuous: a few extra iterations past escape, then the smoothed
//     count n - log(log|z|)/log(radius), scaled by n.
//   - Linear: (limit - n) mapped onto the display range.
//
// Points that never escape get intensity 0 in both modes.
package escape
