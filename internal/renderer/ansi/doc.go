// Package ansi serializes a cell buffer into ANSI SGR escape sequences.
//
// The stream format is fixed:
//
//	ESC[2J ESC[H                              once, before the first row
//	ESC[48;5;<bg>m ESC[38;5;<fg>m <glyph>     per cell, plus ' ' when square
//	ESC[48;5;0m \n                            after each row
//	ESC[0m                                    on release
//
// Rendering keeps no state between calls: the same buffer always produces
// the same bytes.
package ansi
