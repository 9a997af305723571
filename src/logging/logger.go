// Package logging is the leveled logger shared by the chart engine and the
// command line tools. Each package holds a component Logger so lines read
// "[INFO] [viewer] loaded ...".
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
)

// LogLevel represents severity.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var (
	currentLevel atomic.Int32
	output       atomic.Pointer[log.Logger]
)

func init() {
	currentLevel.Store(int32(LevelInfo))
	SetOutput(os.Stderr)
}

// SetOutput redirects every Logger to w.
func SetOutput(w io.Writer) {
	output.Store(log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds))
}

// level tags; color.NoColor disables the escapes when stderr is not a terminal
var levelColors = map[LogLevel]*color.Color{
	LevelDebug: color.New(color.FgHiBlack),
	LevelInfo:  color.New(color.FgCyan),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed, color.Bold),
}

var levelLabels = map[LogLevel]string{LevelDebug: "DEBUG", LevelInfo: "INFO", LevelWarn: "WARN", LevelError: "ERROR"}

// SetLogLevel parses and sets the global log level. Unknown names are ignored
// and reported as false.
func SetLogLevel(s string) bool {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return false
	}
	currentLevel.Store(int32(l))
	return true
}

// GetLogLevel returns the current global log level.
func GetLogLevel() LogLevel { return LogLevel(currentLevel.Load()) }

// Enabled reports whether messages at l are written.
func Enabled(l LogLevel) bool { return GetLogLevel() <= l }

// Logger writes lines tagged with a component name.
type Logger struct {
	component string
}

// New returns a Logger for component, e.g. New("composer").
func New(component string) *Logger { return &Logger{component: component} }

func (lg *Logger) logf(l LogLevel, format string, args ...interface{}) {
	if !Enabled(l) {
		return
	}
	msg := format
	// format strings without args are written verbatim so a literal '%' survives
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	tag := levelColors[l].Sprint(levelLabels[l])
	output.Load().Printf("[%s] [%s] %s", tag, lg.component, msg)
}

// Debugf is for scale and cache internals, off unless the level is debug.
func (lg *Logger) Debugf(format string, a ...interface{}) { lg.logf(LevelDebug, format, a...) }

// Infof reports loads and written files.
func (lg *Logger) Infof(format string, a ...interface{}) { lg.logf(LevelInfo, format, a...) }

// Warnf reports input that was skipped but did not stop the load.
func (lg *Logger) Warnf(format string, a ...interface{}) { lg.logf(LevelWarn, format, a...) }

// Errorf reports a failed operation.
func (lg *Logger) Errorf(format string, a ...interface{}) { lg.logf(LevelError, format, a...) }

// TimeTrack logs at debug level how long label took since start.
//
//	defer logger.TimeTrack(time.Now(), "scale")
func (lg *Logger) TimeTrack(start time.Time, label string) {
	lg.Debugf("%s took %s", label, time.Since(start))
}
