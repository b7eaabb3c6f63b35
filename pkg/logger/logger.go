package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Logger is a levelled logger. A nil *Logger discards everything, so engines can be
// built without one.
type Logger struct {
	level  Level
	name   string
	logger *log.Logger
}

func New(levelStr string) *Logger {
	return NewWithWriter(levelStr, os.Stdout)
}

// NewWithWriter returns a logger writing to w
func NewWithWriter(levelStr string, w io.Writer) *Logger {
	return &Logger{
		level:  parseLevel(levelStr),
		logger: log.New(w, "", 0),
	}
}

// Named returns a child logger that tags every line with name
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return nil
	}
	child := *l
	if child.name != "" {
		name = child.name + "." + name
	}
	child.name = name
	return &child
}

func parseLevel(levelStr string) Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l *Logger) log(level Level, prefix string, msg string) {
	if l == nil || level < l.level {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	if l.name != "" {
		l.logger.Printf("[%s] %s (%s) %s", timestamp, prefix, l.name, msg)
		return
	}
	l.logger.Printf("[%s] %s %s", timestamp, prefix, msg)
}

func (l *Logger) Debug(v ...interface{}) {
	l.log(DebugLevel, "[DEBUG]", fmt.Sprint(v...))
}

func (l *Logger) Info(v ...interface{}) {
	l.log(InfoLevel, "[INFO]", fmt.Sprint(v...))
}

func (l *Logger) Warn(v ...interface{}) {
	l.log(WarnLevel, "[WARN]", fmt.Sprint(v...))
}

func (l *Logger) Error(v ...interface{}) {
	l.log(ErrorLevel, "[ERROR]", fmt.Sprint(v...))
}

func (l *Logger) Fatal(v ...interface{}) {
	l.log(ErrorLevel, "[FATAL]", fmt.Sprint(v...))
	os.Exit(1)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.log(DebugLevel, "[DEBUG]", fmt.Sprintf(format, v...))
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.log(InfoLevel, "[INFO]", fmt.Sprintf(format, v...))
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.log(WarnLevel, "[WARN]", fmt.Sprintf(format, v...))
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.log(ErrorLevel, "[ERROR]", fmt.Sprintf(format, v...))
}

func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.log(ErrorLevel, "[FATAL]", fmt.Sprintf(format, v...))
	os.Exit(1)
}
