// Package logger provides leveled, structured logging with optional JSON
// output. Loggers are cheap to derive: WithField returns a child carrying
// the accumulated fields.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"sort"
	"sync"
	"time"
)

// Level is the severity of a log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes leveled log lines to a single destination.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	asJSON bool
	fields map[string]any
}

// New creates a logger writing human-readable lines to stderr at info level.
func New() *Logger {
	return &Logger{
		out:    os.Stderr,
		level:  LevelInfo,
		fields: map[string]any{},
	}
}

// SetOutput redirects log output.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

// SetLevel sets the minimum level that is written.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetJSON switches between JSON and human-readable output.
func (l *Logger) SetJSON(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.asJSON = enabled
}

// WithField derives a child logger with one extra field.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields derives a child logger with extra fields.
func (l *Logger) WithFields(extra map[string]any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(map[string]any, len(l.fields)+len(extra))
	maps.Copy(merged, l.fields)
	maps.Copy(merged, extra)

	return &Logger{
		out:    l.out,
		level:  l.level,
		asJSON: l.asJSON,
		fields: merged,
	}
}

type line struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func (l *Logger) write(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	ts := time.Now().Format(time.RFC3339)

	if l.asJSON {
		data, err := json.Marshal(line{
			Timestamp: ts,
			Level:     level.String(),
			Message:   msg,
			Fields:    l.fields,
		})
		if err != nil {
			fmt.Fprintf(l.out, `{"error":"marshal log line: %s"}`+"\n", err)
			return
		}
		fmt.Fprintln(l.out, string(data))
		return
	}

	if len(l.fields) == 0 {
		fmt.Fprintf(l.out, "%s [%s] %s\n", ts, level, msg)
		return
	}

	// Stable field order keeps human output diffable.
	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	suffix := ""
	for _, k := range keys {
		suffix += fmt.Sprintf(" %s=%v", k, l.fields[k])
	}
	fmt.Fprintf(l.out, "%s [%s] %s%s\n", ts, level, msg, suffix)
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...any) { l.write(LevelDebug, format, args...) }

// Info logs at info level.
func (l *Logger) Info(format string, args ...any) { l.write(LevelInfo, format, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...any) { l.write(LevelWarn, format, args...) }

// Error logs at error level.
func (l *Logger) Error(format string, args ...any) { l.write(LevelError, format, args...) }

var defaultLogger = New()

// Default returns the process-wide default logger.
func Default() *Logger { return defaultLogger }
