package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Logger provides leveled, printf-style logging throughout the application.
// Messages carry a "[component]" prefix by convention.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
	debug *log.Logger

	debugEnabled bool
}

// NewLogger creates a Logger writing info/warn/debug to stdout and errors to stderr.
func NewLogger() *Logger {
	return &Logger{
		info:         log.New(os.Stdout, "", 0),
		warn:         log.New(os.Stdout, "", 0),
		err:          log.New(os.Stderr, "", 0),
		debug:        log.New(os.Stdout, "", 0),
		debugEnabled: true,
	}
}

// NewLoggerTo sends every level to w. Tests pass a buffer or io.Discard.
func NewLoggerTo(w io.Writer) *Logger {
	l := log.New(w, "", 0)
	return &Logger{info: l, warn: l, err: l, debug: l, debugEnabled: true}
}

// SetDebug toggles Debug output.
func (l *Logger) SetDebug(enabled bool) {
	l.debugEnabled = enabled
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) Info(format string, args ...any) {
	l.info.Printf("[%s] \033[32mINFO\033[0m  %s", l.timestamp(), fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.warn.Printf("[%s] \033[33mWARN\033[0m  %s", l.timestamp(), fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Printf("[%s] \033[31mERROR\033[0m %s", l.timestamp(), fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.debugEnabled {
		return
	}
	l.debug.Printf("[%s] \033[36mDEBUG\033[0m %s", l.timestamp(), fmt.Sprintf(format, args...))
}
