package app

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// LogLevel is the severity of a log line.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var levelNames = [...]string{
	LogLevelDebug: "DEBUG",
	LogLevelInfo:  "INFO",
	LogLevelWarn:  "WARN",
	LogLevelError: "ERROR",
}

func (l LogLevel) String() string {
	if l < LogLevelDebug || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLogLevel maps a config or flag value to a level, ignoring case.
// Anything unrecognized is info; config.Validate rejects bad names earlier.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// logSink is the state a logger shares with everything derived from it.
type logSink struct {
	mu       sync.Mutex
	level    LogLevel
	output   io.Writer
	disabled bool
}

// Logger writes one line per call:
//
//	2024-05-01T12:30:00.000 [INFO] gterm: presented scene a.toml in 3ms {run=1f2e3d4c}
//
// Derived loggers (WithField, WithComponent) share level and output with
// their parent.
type Logger struct {
	sink   *logSink
	prefix string
	fields map[string]any
	suffix string // rendered fields, rebuilt on derive
	now    func() time.Time
}

// LoggerConfig configures NewLogger.
type LoggerConfig struct {
	Level  LogLevel
	Output io.Writer // nil means os.Stderr
	Prefix string
}

// DefaultLoggerConfig logs info and above to stderr.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  LogLevelInfo,
		Output: os.Stderr,
		Prefix: "gterm",
	}
}

func NewLogger(cfg LoggerConfig) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	return &Logger{
		sink:   &logSink{level: cfg.Level, output: cfg.Output},
		prefix: cfg.Prefix,
		now:    time.Now,
	}
}

func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a child logger carrying fields in addition to the
// parent's. The parent is not modified.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	merged := maps.Clone(l.fields)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)

	child := *l
	child.fields = merged
	child.suffix = renderFields(merged)
	return &child
}

// WithComponent tags lines with the subsystem that wrote them.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

func renderFields(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(" {")
	for i, k := range slices.Sorted(maps.Keys(fields)) {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%v", k, fields[k])
	}
	sb.WriteByte('}')
	return sb.String()
}

func (l *Logger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	l.sink.level = level
	l.sink.mu.Unlock()
}

func (l *Logger) Level() LogLevel {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	l.sink.output = w
	l.sink.mu.Unlock()
}

// Disable silences the logger and every logger derived from it.
func (l *Logger) Disable() { l.setDisabled(true) }

// Enable undoes Disable.
func (l *Logger) Enable() { l.setDisabled(false) }

func (l *Logger) setDisabled(v bool) {
	l.sink.mu.Lock()
	l.sink.disabled = v
	l.sink.mu.Unlock()
}

func (l *Logger) Debug(format string, args ...any) { l.logf(LogLevelDebug, format, args) }
func (l *Logger) Info(format string, args ...any)  { l.logf(LogLevelInfo, format, args) }
func (l *Logger) Warn(format string, args ...any)  { l.logf(LogLevelWarn, format, args) }
func (l *Logger) Error(format string, args ...any) { l.logf(LogLevelError, format, args) }

// logf formats with Sprintf only when args are given, so a literal "%" in a
// plain message survives.
func (l *Logger) logf(level LogLevel, format string, args []any) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.disabled || level < l.sink.level || l.sink.output == nil {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	line := make([]byte, 0, 64+len(msg)+len(l.suffix))
	line = l.now().AppendFormat(line, "2006-01-02T15:04:05.000")
	line = append(line, " ["...)
	line = append(line, level.String()...)
	line = append(line, "] "...)
	if l.prefix != "" {
		line = append(line, l.prefix...)
		line = append(line, ": "...)
	}
	line = append(line, msg...)
	line = append(line, l.suffix...)
	line = append(line, '\n')

	_, _ = l.sink.output.Write(line)
}

// NullLogger discards everything.
var NullLogger = &Logger{sink: &logSink{disabled: true}, now: time.Now}
