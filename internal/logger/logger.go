// Package logger provides the leveled, structured logger shared by all
// droughtcast packages. Output format and minimum level come from the
// LOG_FORMAT and LOG_LEVEL environment variables.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Format selects the output encoding.
type Format int

const (
	TextFormat Format = iota
	JSONFormat
)

// Entry is a single structured log record.
type Entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Component string                 `json:"component,omitempty"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Logger writes leveled log entries to a single output writer.
type Logger struct {
	mu        sync.Mutex
	level     Level
	format    Format
	output    io.Writer
	component string
	exit      func(int)
}

// New creates a logger writing to out with the given minimum level and format.
func New(out io.Writer, level Level, format Format) *Logger {
	if out == nil {
		out = os.Stdout
	}
	return &Logger{
		level:  level,
		format: format,
		output: out,
		exit:   os.Exit,
	}
}

// NewDefault creates a text logger at INFO writing to stdout.
func NewDefault() *Logger {
	return New(os.Stdout, INFO, TextFormat)
}

// WithComponent returns a logger that tags every entry with component.
func (l *Logger) WithComponent(component string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{
		level:     l.level,
		format:    l.format,
		output:    l.output,
		component: component,
		exit:      l.exit,
	}
}

// SetLevel sets the minimum level that will be written.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetFormat sets the output encoding.
func (l *Logger) SetFormat(format Format) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = format
}

// SetOutput redirects the logger, mainly so tests can capture entries.
func (l *Logger) SetOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = out
}

func (l *Logger) log(level Level, message string, fields map[string]interface{}, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Component: l.component,
		Message:   message,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	var out string
	if l.format == JSONFormat {
		encoded, _ := json.Marshal(entry)
		out = string(encoded) + "\n"
	} else {
		out = formatText(entry)
	}
	l.output.Write([]byte(out))

	if level == FATAL {
		l.exit(1)
	}
}

func formatText(entry Entry) string {
	parts := []string{fmt.Sprintf("[%s] %s", entry.Timestamp, entry.Level)}
	if entry.Component != "" {
		parts = append(parts, fmt.Sprintf("[%s]", entry.Component))
	}
	parts = append(parts, entry.Message)
	if len(entry.Fields) > 0 {
		kv := make([]string, 0, len(entry.Fields))
		for k, v := range entry.Fields {
			kv = append(kv, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, "fields={"+strings.Join(kv, ", ")+"}")
	}
	if entry.Error != "" {
		parts = append(parts, "error="+entry.Error)
	}
	return strings.Join(parts, " ") + "\n"
}

// Debug logs a debug message with optional fields.
func (l *Logger) Debug(message string, fields ...map[string]interface{}) {
	l.log(DEBUG, message, firstField(fields), nil)
}

// Info logs an info message with optional fields.
func (l *Logger) Info(message string, fields ...map[string]interface{}) {
	l.log(INFO, message, firstField(fields), nil)
}

// Warn logs a warning message with optional fields.
func (l *Logger) Warn(message string, fields ...map[string]interface{}) {
	l.log(WARN, message, firstField(fields), nil)
}

// Error logs an error message with its cause.
func (l *Logger) Error(message string, err error, fields ...map[string]interface{}) {
	l.log(ERROR, message, firstField(fields), err)
}

// Fatal logs an error message and exits the program.
func (l *Logger) Fatal(message string, err error, fields ...map[string]interface{}) {
	l.log(FATAL, message, firstField(fields), err)
}

// Debugf logs a formatted debug message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

// Infof logs a formatted info message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning message.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...), nil)
}

// Fatalf logs a formatted message and exits the program.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.Fatal(fmt.Sprintf(format, args...), nil)
}

func firstField(fields []map[string]interface{}) map[string]interface{} {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

var global = func() *Logger {
	l := NewDefault()
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, ok := parseLevel(levelStr); ok {
			l.SetLevel(level)
		}
	}
	if formatStr := os.Getenv("LOG_FORMAT"); formatStr != "" {
		if format, ok := parseFormat(formatStr); ok {
			l.SetFormat(format)
		}
	}
	return l
}()

func parseLevel(s string) (Level, bool) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG, true
	case "INFO":
		return INFO, true
	case "WARN", "WARNING":
		return WARN, true
	case "ERROR":
		return ERROR, true
	case "FATAL":
		return FATAL, true
	default:
		return 0, false
	}
}

func parseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "text":
		return TextFormat, true
	case "json":
		return JSONFormat, true
	default:
		return 0, false
	}
}

// ParseLevel maps a configuration string onto a level.
func ParseLevel(s string) (Level, bool) {
	return parseLevel(s)
}

// ParseFormat maps a configuration string onto a format.
func ParseFormat(s string) (Format, bool) {
	return parseFormat(s)
}

// Global returns the process-wide logger.
func Global() *Logger {
	return global
}

// SetGlobal replaces the process-wide logger.
func SetGlobal(l *Logger) {
	global = l
}

// Debug logs a debug message on the global logger.
func Debug(message string, fields ...map[string]interface{}) {
	global.Debug(message, fields...)
}

// Info logs an info message on the global logger.
func Info(message string, fields ...map[string]interface{}) {
	global.Info(message, fields...)
}

// Warn logs a warning message on the global logger.
func Warn(message string, fields ...map[string]interface{}) {
	global.Warn(message, fields...)
}

// Error logs an error message on the global logger.
func Error(message string, err error, fields ...map[string]interface{}) {
	global.Error(message, err, fields...)
}

// Fatal logs an error message on the global logger and exits.
func Fatal(message string, err error, fields ...map[string]interface{}) {
	global.Fatal(message, err, fields...)
}

// Debugf logs a formatted debug message on the global logger.
func Debugf(format string, args ...interface{}) {
	global.Debugf(format, args...)
}

// Infof logs a formatted info message on the global logger.
func Infof(format string, args ...interface{}) {
	global.Infof(format, args...)
}

// Warnf logs a formatted warning message on the global logger.
func Warnf(format string, args ...interface{}) {
	global.Warnf(format, args...)
}

// Errorf logs a formatted error message on the global logger.
func Errorf(format string, args ...interface{}) {
	global.Errorf(format, args...)
}

// Fatalf logs a formatted message on the global logger and exits.
func Fatalf(format string, args ...interface{}) {
	global.Fatalf(format, args...)
}
