package logging

import (
	"fmt"
	"os"
)

// ConsoleLogger writes diagnostics to stderr. Debug output is gated so
// normal CLI runs stay quiet and interactive console rendering is not
// disturbed.
type ConsoleLogger struct {
	debug  bool
	prefix string
}

// NewConsoleLogger creates a console logger. The prefix identifies the
// component in debug lines, e.g. "[ConsoleClient]".
func NewConsoleLogger(prefix string, debug bool) *ConsoleLogger {
	return &ConsoleLogger{debug: debug, prefix: prefix}
}

// Debugf logs a formatted debug line when debug mode is on.
func (l *ConsoleLogger) Debugf(format string, args ...interface{}) {
	if l == nil || !l.debug {
		return
	}
	fmt.Fprintf(os.Stderr, l.prefix+" "+format+"\n", args...)
}

// Errorf always logs a formatted error line.
func (l *ConsoleLogger) Errorf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	fmt.Fprintf(os.Stderr, l.prefix+" error: "+format+"\n", args...)
}
