// Package palette maps colours onto the fixed 256-entry xterm palette.
//
// Every function in this package is pure: the palette is defined once at
// process scope and never changes. Reduction from 24-bit RGB is an exact
// integer contract (each channel is truncated to one of six levels), not a
// nearest-colour search.
//
// Index layout:
//
//	0-15     basic colours (Black .. White)
//	16-231   6x6x6 colour cube: 16 + 36*r + 6*g + b, r,g,b in [0,5]
//	232-255  grayscale ramp
package palette
