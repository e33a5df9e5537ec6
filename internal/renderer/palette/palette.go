package palette

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// The 16 basic terminal colours.
const (
	Black uint8 = iota
	Red
	Green
	Yellow
	Blue
	Purple
	Cyan
	Gray
	BrightGray
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightPurple
	BrightCyan
	White
)

// Defaults applied to every freshly created or cleared cell.
const (
	DefaultBackground = Black
	DefaultForeground = White
)

// Cube layout constants.
const (
	cubeStart = 16
	cubeEnd   = 231
	grayStart = 232

	// levelStep is the width of one cube level on a 0-255 channel.
	levelStep = 51
)

// cubeValues are the channel intensities of the six cube levels.
var cubeValues = [6]uint8{0x00, 0x5f, 0x87, 0xaf, 0xd7, 0xff}

// basicValues are the xterm defaults for indices 0-15.
var basicValues = [16][3]uint8{
	{0x00, 0x00, 0x00},
	{0x80, 0x00, 0x00},
	{0x00, 0x80, 0x00},
	{0x80, 0x80, 0x00},
	{0x00, 0x00, 0x80},
	{0x80, 0x00, 0x80},
	{0x00, 0x80, 0x80},
	{0xc0, 0xc0, 0xc0},
	{0x80, 0x80, 0x80},
	{0xff, 0x00, 0x00},
	{0x00, 0xff, 0x00},
	{0xff, 0xff, 0x00},
	{0x00, 0x00, 0xff},
	{0xff, 0x00, 0xff},
	{0x00, 0xff, 0xff},
	{0xff, 0xff, 0xff},
}

var names = map[string]uint8{
	"black":         Black,
	"red":           Red,
	"green":         Green,
	"yellow":        Yellow,
	"blue":          Blue,
	"purple":        Purple,
	"cyan":          Cyan,
	"gray":          Gray,
	"bright-gray":   BrightGray,
	"bright-red":    BrightRed,
	"bright-green":  BrightGreen,
	"bright-yellow": BrightYellow,
	"bright-blue":   BrightBlue,
	"bright-purple": BrightPurple,
	"bright-cyan":   BrightCyan,
	"white":         White,
}

// Levels returns the cube level (0-5) of each channel.
func Levels(r, g, b uint8) (rl, gl, bl uint8) {
	return r / levelStep, g / levelStep, b / levelStep
}

// FromRGB reduces an RGB triple to a colour cube index (16-231).
// Channels are truncated, never rounded.
func FromRGB(r, g, b uint8) uint8 {
	rl, gl, bl := Levels(r, g, b)
	return cubeStart + 36*rl + 6*gl + bl
}

// FromColorful quantizes a go-colorful colour. Out-of-gamut colours are
// clamped first.
func FromColorful(c colorful.Color) uint8 {
	r, g, b := c.Clamped().RGB255()
	return FromRGB(r, g, b)
}

// FromHex parses "#rgb" or "#rrggbb" and quantizes it.
func FromHex(s string) (uint8, error) {
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return FromColorful(c), nil
}

// Parse accepts a decimal palette index, a basic colour name or a hex
// triplet prefixed with '#'.
func Parse(s string) (uint8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty colour")
	}
	if strings.HasPrefix(s, "#") {
		return FromHex(s)
	}
	if idx, ok := names[strings.ToLower(s)]; ok {
		return idx, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unknown colour %q", s)
	}
	if n < 0 || n > 255 {
		return 0, fmt.Errorf("palette index %d out of range 0-255", n)
	}
	return uint8(n), nil
}

// Name returns the basic colour name for indices 0-15, or the decimal index.
func Name(index uint8) string {
	for name, idx := range names {
		if idx == index {
			return name
		}
	}
	return strconv.Itoa(int(index))
}

// ToRGB returns the colour the xterm palette shows for index.
func ToRGB(index uint8) (r, g, b uint8) {
	switch {
	case index < cubeStart:
		v := basicValues[index]
		return v[0], v[1], v[2]
	case index >= grayStart:
		level := 8 + 10*(index-grayStart)
		return level, level, level
	default:
		n := index - cubeStart
		return cubeValues[n/36], cubeValues[(n%36)/6], cubeValues[n%6]
	}
}

// ToColorful returns index as a go-colorful colour.
func ToColorful(index uint8) colorful.Color {
	r, g, b := ToRGB(index)
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Hex returns the "#rrggbb" form of index.
func Hex(index uint8) string {
	return ToColorful(index).Hex()
}

// IsCube reports whether index lies in the 6x6x6 colour cube.
func IsCube(index uint8) bool {
	return index >= cubeStart && index <= cubeEnd
}
