package script

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gterm/internal/renderer/palette"
)

// installAPI registers the gt table.
func (s *State) installAPI() {
	funcs := map[string]lua.LGFunction{
		"width":  s.luaWidth,
		"height": s.luaHeight,
		"square": s.luaSquare,
		"pixel":  s.luaPixel,
		"get":    s.luaGet,
		"rect":   s.luaRect,
		"line":   s.luaLine,
		"text":   s.luaText,
		"fill":   s.luaFill,
		"clear":  s.luaClear,
		"rgb":    s.luaRGB,
		"color":  s.luaColor,
	}
	mod := s.L.SetFuncs(s.L.NewTable(), funcs)
	s.L.SetGlobal("gt", mod)
}

// count charges one call against the limit. Once the limit is hit the run
// is over: the state's context is cancelled so the script stops at its next
// instruction even if it caught the error with pcall, and every later gt
// call is refused.
func (s *State) count(L *lua.LState) {
	if s.limitHit {
		s.raise(L, ErrCallLimit)
	}
	s.calls++
	if s.callLimit > 0 && s.calls > s.callLimit {
		s.limitHit = true
		if s.stop != nil {
			s.stop()
		}
		s.raise(L, ErrCallLimit)
	}
}

// check raises err, if any, as a gt error.
func (s *State) check(L *lua.LState, err error) {
	if err != nil {
		s.raise(L, err)
	}
}

func (s *State) luaWidth(L *lua.LState) int {
	s.count(L)
	L.Push(lua.LNumber(s.buf.Width()))
	return 1
}

func (s *State) luaHeight(L *lua.LState) int {
	s.count(L)
	L.Push(lua.LNumber(s.buf.Height()))
	return 1
}

func (s *State) luaSquare(L *lua.LState) int {
	s.count(L)
	L.Push(lua.LBool(s.buf.Square()))
	return 1
}

func (s *State) luaPixel(L *lua.LState) int {
	s.count(L)
	x, y := L.CheckInt(1), L.CheckInt(2)
	c := checkColor(L, 3)
	s.check(L, s.buf.SetBackground(x, y, c))
	return 0
}

func (s *State) luaGet(L *lua.LState) int {
	s.count(L)
	bg, err := s.buf.Background(L.CheckInt(1), L.CheckInt(2))
	s.check(L, err)
	L.Push(lua.LNumber(bg))
	return 1
}

func (s *State) luaRect(L *lua.LState) int {
	s.count(L)
	x, y, w, h := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4)
	c := checkColor(L, 5)
	s.check(L, s.buf.DrawRect(x, y, w, h, c))
	return 0
}

func (s *State) luaLine(L *lua.LState) int {
	s.count(L)
	x1, y1, x2, y2 := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4)
	c := checkColor(L, 5)
	s.check(L, s.buf.DrawLine(x1, y1, x2, y2, c))
	return 0
}

func (s *State) luaText(L *lua.LState) int {
	s.count(L)
	x, y := L.CheckInt(1), L.CheckInt(2)
	text := L.CheckString(3)
	c := checkColor(L, 4)
	s.check(L, s.buf.DrawText(x, y, text, c))
	return 0
}

func (s *State) luaFill(L *lua.LState) int {
	s.count(L)
	s.check(L, s.buf.Fill(checkColor(L, 1)))
	return 0
}

func (s *State) luaClear(L *lua.LState) int {
	s.count(L)
	s.check(L, s.buf.Clear())
	return 0
}

func (s *State) luaRGB(L *lua.LState) int {
	s.count(L)
	r, g, b := checkChannel(L, 1), checkChannel(L, 2), checkChannel(L, 3)
	L.Push(lua.LNumber(palette.FromRGB(r, g, b)))
	return 1
}

func (s *State) luaColor(L *lua.LState) int {
	s.count(L)
	L.Push(lua.LNumber(checkColor(L, 1)))
	return 1
}

// checkColor accepts a palette index or a colour string.
func checkColor(L *lua.LState, n int) uint8 {
	switch v := L.Get(n).(type) {
	case lua.LNumber:
		f := float64(v)
		if f < 0 || f > 255 || f != math.Trunc(f) {
			L.ArgError(n, fmt.Sprintf("palette index must be an integer in 0-255, got %v", v))
		}
		return uint8(f)
	case lua.LString:
		c, err := palette.Parse(string(v))
		if err != nil {
			L.ArgError(n, err.Error())
		}
		return c
	default:
		L.TypeError(n, lua.LTNumber)
		return 0
	}
}

func checkChannel(L *lua.LState, n int) uint8 {
	v := L.CheckInt(n)
	if v < 0 || v > 255 {
		L.ArgError(n, fmt.Sprintf("channel must be in 0-255, got %d", v))
	}
	return uint8(v)
}
