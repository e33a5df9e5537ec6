package ansi

// Pre-allocated sequence fragments.
var (
	seqClearHome = []byte("\x1b[2J\x1b[H")
	seqRowEnd    = []byte("\x1b[48;5;0m\n")
	seqReset     = []byte("\x1b[0m")
)

// ClearHome is the sequence emitted before the first row.
const ClearHome = "\x1b[2J\x1b[H"

// RowEnd is the sequence emitted after every row.
const RowEnd = "\x1b[48;5;0m\n"

// Reset is the sequence emitted on release.
const Reset = "\x1b[0m"
