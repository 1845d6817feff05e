// Basic leveled logging for pma.
//
// Fatal conditions are not handled here: they are returned as errors and
// reported once, by main.  This logger carries the recoverable diagnostics
// that let a run degrade to best-effort instead of aborting.

package status

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// LogLevel indicates the level of logging that should be done.

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

// Implementations of this must be thread-safe.
type Logger interface {
	// Print only messages at level l or above
	SetLevel(l LogLevel)

	// Lower log level at least to l
	LowerLevelTo(l LogLevel)

	// Print on this stream, if installed
	SetStderr(w io.Writer)

	// Print at various levels.  None of these must exit or panic, the name
	// indicates the log level only.
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)
}

type StandardLogger struct {
	sync.Mutex
	level  LogLevel
	stderr io.Writer
}

// MT: Constant after initialization, thread-safe.
var defaultLogger Logger = &StandardLogger{
	level:  LogLevelWarning,
	stderr: os.Stderr,
}

func Default() Logger {
	return defaultLogger
}

// NewStandardLogger returns a logger printing on stderr at the given level,
// mostly useful for tests that want to capture diagnostics.
func NewStandardLogger(level LogLevel, stderr io.Writer) *StandardLogger {
	return &StandardLogger{level: level, stderr: stderr}
}

func (sl *StandardLogger) SetLevel(l LogLevel) {
	sl.Lock()
	defer sl.Unlock()

	sl.level = l
}

func (sl *StandardLogger) LowerLevelTo(l LogLevel) {
	sl.Lock()
	defer sl.Unlock()

	if sl.level > l {
		sl.level = l
	}
}

func (sl *StandardLogger) SetStderr(stderr io.Writer) {
	sl.Lock()
	defer sl.Unlock()

	sl.stderr = stderr
}

func (sl *StandardLogger) logf(l LogLevel, format string, args ...any) {
	sl.Lock()
	defer sl.Unlock()

	if l >= sl.level && sl.stderr != nil {
		fmt.Fprintln(sl.stderr, fmt.Sprintf(format, args...))
	}
}

func (sl *StandardLogger) Debugf(format string, args ...any) {
	sl.logf(LogLevelDebug, format, args...)
}

func (sl *StandardLogger) Infof(format string, args ...any) {
	sl.logf(LogLevelInfo, format, args...)
}

func (sl *StandardLogger) Warningf(format string, args ...any) {
	sl.logf(LogLevelWarning, format, args...)
}

func (sl *StandardLogger) Errorf(format string, args ...any) {
	sl.logf(LogLevelError, format, args...)
}
