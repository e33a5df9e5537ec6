package palette

import "strconv"

// Channel selects which colour an SGR sequence sets.
type Channel uint8

const (
	Background Channel = iota
	Foreground
)

// String returns the channel name.
func (c Channel) String() string {
	if c == Foreground {
		return "foreground"
	}
	return "background"
}

var (
	bgPrefix = []byte("\x1b[48;5;")
	fgPrefix = []byte("\x1b[38;5;")
)

// AppendSeq appends the SGR sequence that sets channel to index.
func AppendSeq(dst []byte, index uint8, channel Channel) []byte {
	if channel == Foreground {
		dst = append(dst, fgPrefix...)
	} else {
		dst = append(dst, bgPrefix...)
	}
	dst = strconv.AppendUint(dst, uint64(index), 10)
	return append(dst, 'm')
}

// Seq returns the SGR sequence that sets channel to index.
func Seq(index uint8, channel Channel) string {
	return string(AppendSeq(make([]byte, 0, 12), index, channel))
}

// BackgroundSeq returns ESC[48;5;<index>m.
func BackgroundSeq(index uint8) string {
	return Seq(index, Background)
}

// ForegroundSeq returns ESC[38;5;<index>m.
func ForegroundSeq(index uint8) string {
	return Seq(index, Foreground)
}
