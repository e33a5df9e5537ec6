// Package script paints a buffer from a sandboxed Lua program.
//
// Scripts run in a gopher-lua state with only the base, table, string and
// math libraries. File loading (dofile, loadfile, load, loadstring) and
// require are removed, and print is redirected to a host callback so that
// output never mixes with the escape stream on stdout.
//
// The buffer is exposed as the global table gt:
//
//	gt.width()  gt.height()  gt.square()
//	gt.pixel(x, y, c)          set the background of one cell
//	gt.get(x, y)               background index of one cell
//	gt.rect(x, y, w, h, c)     filled rectangle
//	gt.line(x1, y1, x2, y2, c) line between two cells, inclusive
//	gt.text(x, y, s, c)        glyphs with foreground c
//	gt.fill(c)                 every background
//	gt.clear()                 every cell back to default
//	gt.rgb(r, g, b)            quantize to a palette index
//	gt.color(s)                parse "red", "#ff8800" or "196"
//
// A colour argument c is a palette index or anything gt.color accepts.
// Buffer errors are raised as Lua errors; if the script does not catch
// them Run returns the original Go error, so errors.Is works against the
// core sentinels.
//
// Example:
//
//	for x = 0, gt.width() - 1 do
//	  gt.pixel(x, 0, gt.rgb(x * 4, 0, 0))
//	end
//	gt.text(0, 1, "hello", "white")
package script
