// Package logger provides the logging interface used across tcnotify.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger defines the interface for logging throughout the application.
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// ConsoleLogger writes human-readable log lines.
// Info and Debug go to out, Error goes to errOut.
type ConsoleLogger struct {
	out     io.Writer
	errOut  io.Writer
	verbose bool
	now     func() time.Time
	mu      sync.Mutex
}

// NewConsoleLogger creates a logger writing to stdout/stderr.
// Debug lines are only written when verbose is true.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewWriterLogger(os.Stdout, os.Stderr, verbose)
}

// NewWriterLogger creates a logger writing to the given writers.
func NewWriterLogger(out, errOut io.Writer, verbose bool) *ConsoleLogger {
	return &ConsoleLogger{
		out:     out,
		errOut:  errOut,
		verbose: verbose,
		now:     time.Now,
	}
}

func (c *ConsoleLogger) Info(msg string, args ...interface{}) {
	c.write(c.out, "INFO", msg, args...)
}

func (c *ConsoleLogger) Error(msg string, args ...interface{}) {
	c.write(c.errOut, "ERROR", msg, args...)
}

func (c *ConsoleLogger) Debug(msg string, args ...interface{}) {
	if !c.verbose {
		return
	}
	c.write(c.out, "DEBUG", msg, args...)
}

func (c *ConsoleLogger) write(w io.Writer, level, msg string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(w, "%s [%s] %s\n", c.now().Format("15:04:05"), level, fmt.Sprintf(msg, args...))
}

// SilentLogger discards all log messages.
// Used while the TUI owns the terminal.
type SilentLogger struct{}

func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

func (s *SilentLogger) Info(msg string, args ...interface{})  {}
func (s *SilentLogger) Error(msg string, args ...interface{}) {}
func (s *SilentLogger) Debug(msg string, args ...interface{}) {}
