package main

import "fmt"

// logging carries an optional trace function; every line it logs starts with
// the current indent, then a one character mark classifying the line:
//   - "#" for lifecycle events and state dumps
//   - "@" for each executed code
//   - "<" for input
type logging struct {
	logfn  func(mess string, args ...interface{})
	indent string
}

// withLogIndent adds to the indent of subsequent lines, returning a function
// that restores the prior indent.
func (log *logging) withLogIndent(indent string) func() {
	prior := log.indent
	log.indent += indent
	return func() { log.indent = prior }
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%s%s %s", log.indent, mark, mess)
}

// logLine logs a line under the current indent, without any mark.
func (log *logging) logLine(mess string, args ...interface{}) {
	log.logfn("%s"+mess, append([]interface{}{log.indent}, args...)...)
}
