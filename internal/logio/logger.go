package logio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// Logger writes leveled lines like "LEVEL: message\n" to an output stream,
// remembering whether any error has been logged so that a command can exit
// non-zero.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	buf      bytes.Buffer
	exitCode int
}

// SetOutput sets the logger's output stream; a nil stream discards all
// lines.
func (log *Logger) SetOutput(out io.Writer) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.out = out
}

// ExitCode returns a code to pass to os.Exit: 0 if nothing was logged by
// Errorf, 1 if so, or 2 if the output stream itself failed.
func (log *Logger) ExitCode() int {
	log.mu.Lock()
	defer log.mu.Unlock()
	return log.exitCode
}

// Leveledf returns a printf-style function that logs at the given level,
// suitable for use as a VM trace function.
func (log *Logger) Leveledf(level string) func(mess string, args ...interface{}) {
	return func(mess string, args ...interface{}) { log.Printf(level, mess, args...) }
}

// Errorf is like Printf("ERROR", ...) but additionally marks the logger so
// that ExitCode() will return non-zero.
func (log *Logger) Errorf(mess string, args ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.printf("ERROR", mess, args...)
	if log.exitCode == 0 {
		log.exitCode = 1
	}
}

// Printf logs a line at the given level; an empty level logs just the
// message.
func (log *Logger) Printf(level, mess string, args ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.printf(level, mess, args...)
}

func (log *Logger) printf(level, mess string, args ...interface{}) {
	log.buf.Reset()
	if level != "" {
		log.buf.WriteString(level)
		log.buf.WriteString(": ")
	}
	if len(args) > 0 {
		fmt.Fprintf(&log.buf, mess, args...)
	} else {
		log.buf.WriteString(mess)
	}
	if b := log.buf.Bytes(); len(b) == 0 || b[len(b)-1] != '\n' {
		log.buf.WriteByte('\n')
	}
	if log.out == nil {
		return
	}
	if _, err := log.buf.WriteTo(log.out); err != nil {
		log.exitCode = 2
	}
}
