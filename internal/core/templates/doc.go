// Package templates materialises motion graphic templates into timed
// overlays.
//
// A template is an ordered list of text and shape element configs. Each
// element is positioned relative to an anchor time by its startOffset and
// lasts for its duration, or for the caller's default duration when none is
// given. Expansion is total: it never fails, it only clamps.
package templates
