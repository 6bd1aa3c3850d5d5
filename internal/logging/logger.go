// Package logging provides the structured logger used across the
// service. Entries are emitted as JSON by default; set LOG_JSON=false
// for human-readable text output during development.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Logger is the logging interface handed to services and handlers.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})

	// WithComponent returns a logger that tags every entry with a
	// component name.
	WithComponent(component string) Logger
}

// Level represents logging levels.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// ParseLevel maps a configuration string to a Level, defaulting to INFO.
func ParseLevel(level string) Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// entry is one structured log record.
type entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Component string                 `json:"component,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// StructuredLogger writes leveled structured entries to stdout.
type StructuredLogger struct {
	level     Level
	component string
	useJSON   bool
}

// New creates a structured logger filtering below the given level.
func New(level Level) Logger {
	useJSON := true
	if v := os.Getenv("LOG_JSON"); v == "false" || v == "0" {
		useJSON = false
	}
	return &StructuredLogger{level: level, useJSON: useJSON}
}

// WithComponent returns a copy of the logger tagged with a component.
func (l *StructuredLogger) WithComponent(component string) Logger {
	return &StructuredLogger{level: l.level, component: component, useJSON: l.useJSON}
}

func (l *StructuredLogger) Debug(msg string, fields ...interface{}) { l.log(DEBUG, msg, fields) }
func (l *StructuredLogger) Info(msg string, fields ...interface{})  { l.log(INFO, msg, fields) }
func (l *StructuredLogger) Warn(msg string, fields ...interface{})  { l.log(WARN, msg, fields) }
func (l *StructuredLogger) Error(msg string, fields ...interface{}) { l.log(ERROR, msg, fields) }

func (l *StructuredLogger) log(level Level, msg string, fields []interface{}) {
	if level < l.level {
		return
	}

	fieldMap := make(map[string]interface{})
	for i := 0; i+1 < len(fields); i += 2 {
		fieldMap[fmt.Sprintf("%v", fields[i])] = fields[i+1]
	}
	if len(fields)%2 != 0 {
		fieldMap["extra"] = fields[len(fields)-1]
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     levelName(level),
		Message:   msg,
		Component: l.component,
		Fields:    fieldMap,
	}
	if l.useJSON {
		if data, err := json.Marshal(e); err == nil {
			fmt.Println(string(data))
		}
		return
	}

	parts := []string{e.Timestamp, "[" + e.Level + "]"}
	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}
	parts = append(parts, e.Message)
	for k, v := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	fmt.Println(strings.Join(parts, " "))
}

func levelName(level Level) string {
	switch level {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Default logger instance and package-level convenience functions.
var defaultLogger Logger = New(INFO)

// SetDefault replaces the default logger, typically after config load.
func SetDefault(logger Logger) {
	defaultLogger = logger
}

func Debug(msg string, fields ...interface{}) { defaultLogger.Debug(msg, fields...) }
func Info(msg string, fields ...interface{})  { defaultLogger.Info(msg, fields...) }
func Warn(msg string, fields ...interface{})  { defaultLogger.Warn(msg, fields...) }
func Error(msg string, fields ...interface{}) { defaultLogger.Error(msg, fields...) }

// WithComponent returns a component logger derived from the default.
func WithComponent(component string) Logger {
	return defaultLogger.WithComponent(component)
}
