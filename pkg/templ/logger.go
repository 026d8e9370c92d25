package templ

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel orders log messages by severity. LogOff silences a logger.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
	LogOff
)

var levelNames = [...]string{
	LogDebug: "DEBUG",
	LogInfo:  "INFO",
	LogWarn:  "WARN",
	LogError: "ERROR",
	LogOff:   "OFF",
}

func (l LogLevel) String() string {
	if l < LogDebug || l > LogOff {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// parseLogLevel maps a configuration value to a level. Unknown values give
// LogInfo.
func parseLogLevel(s string) LogLevel {
	for level, name := range levelNames {
		if strings.EqualFold(s, name) {
			return LogLevel(level)
		}
	}
	return LogInfo
}

// Fields are key=value pairs appended to every line of a logger.
type Fields map[string]interface{}

// sink is the writer shared by a logger and the loggers derived from it.
type sink struct {
	mu sync.Mutex
	w  io.Writer
}

// Logger writes levelled, line oriented messages:
//
//	2024-01-02 15:04:05 [INFO] message key=value
type Logger struct {
	out    *sink
	level  *LogLevel
	fields Fields
}

func NewLogger(w io.Writer, level LogLevel) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{out: &sink{w: w}, level: &level}
}

// SetLevel changes the level of l and of every logger derived from it.
func (l *Logger) SetLevel(level LogLevel) {
	l.out.mu.Lock()
	*l.level = level
	l.out.mu.Unlock()
}

func (l *Logger) enabled(level LogLevel) bool {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	return level >= *l.level && level < LogOff
}

func (l *Logger) IsDebugMode() bool {
	return l.enabled(LogDebug)
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(Fields{key: value})
}

// WithFields returns a logger that appends fields to every line. It shares
// the writer and the level of l.
func (l *Logger) WithFields(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{out: l.out, level: l.level, fields: merged}
}

func (l *Logger) format(level LogLevel, msg string) string {
	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(level.String())
	sb.WriteString("] ")
	sb.WriteString(msg)

	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, l.fields[k])
	}
	sb.WriteByte('\n')
	return sb.String()
}

func (l *Logger) logf(level LogLevel, format string, args []interface{}) {
	if !l.enabled(level) {
		return
	}
	line := l.format(level, fmt.Sprintf(format, args...))
	l.out.mu.Lock()
	io.WriteString(l.out.w, line)
	l.out.mu.Unlock()
}

func (l *Logger) Debug(format string, args ...interface{}) { l.logf(LogDebug, format, args) }
func (l *Logger) Info(format string, args ...interface{})  { l.logf(LogInfo, format, args) }
func (l *Logger) Warn(format string, args ...interface{})  { l.logf(LogWarn, format, args) }
func (l *Logger) Error(format string, args ...interface{}) { l.logf(LogError, format, args) }

// DebugStatistics logs the statistics of a finished module.
func (l *Logger) DebugStatistics(module string, s *Statistics) {
	if !l.IsDebugMode() {
		return
	}
	fields := Fields{
		"module":   module,
		"matches":  s.Matches,
		"removals": s.Removals,
		"elapsed":  s.Elapsed,
	}
	for k, v := range s.Custom {
		fields[k] = v
	}
	l.WithFields(fields).Debug("module finished")
}

var (
	globalLogger     *Logger
	globalLoggerOnce sync.Once
)

func initGlobalLogger() {
	globalLoggerOnce.Do(func() {
		globalLogger = NewLogger(os.Stderr, parseLogLevel(GetGlobalConfig().LogLevel))
	})
}

func init() {
	initGlobalLogger()
}

// std returns the global logger.
func std() *Logger {
	initGlobalLogger()
	return globalLogger
}

func SetLogger(logger *Logger) {
	initGlobalLogger()
	globalLogger = logger
}

func GetLogger() *Logger { return std() }

func Debug(format string, args ...interface{}) { std().logf(LogDebug, format, args) }
func Info(format string, args ...interface{})  { std().logf(LogInfo, format, args) }
func Warn(format string, args ...interface{})  { std().logf(LogWarn, format, args) }
func Error(format string, args ...interface{}) { std().logf(LogError, format, args) }

func WithField(key string, value interface{}) *Logger { return std().WithField(key, value) }
func WithFields(fields Fields) *Logger                 { return std().WithFields(fields) }

// UpdateLoggerFromConfig applies the level of the global configuration to the
// global logger.
func UpdateLoggerFromConfig() {
	std().SetLevel(parseLogLevel(GetGlobalConfig().LogLevel))
}
