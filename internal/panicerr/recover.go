package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Recover runs f in its own goroutine, returning its error; a panic or a call
// to runtime.Goexit within f is turned into a non-nil error attributed to name.
func Recover(name string, f func() error) (err error) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		returned := false
		defer func() {
			if e := recover(); e != nil {
				err = panicError{name: name, e: e, stack: debug.Stack()}
			} else if !returned {
				err = exitError(name)
			}
		}()
		err = f()
		returned = true
	}()
	<-done
	return err
}

type panicError struct {
	name  string
	e     interface{}
	stack []byte
}

func (pe panicError) Error() string { return fmt.Sprint(pe) }

func (pe panicError) Format(f fmt.State, c rune) {
	if pe.name == "" {
		fmt.Fprintf(f, "panicked: %v", pe.e)
	} else {
		fmt.Fprintf(f, "%v panicked: %v", pe.name, pe.e)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

// Unwrap returns the panic value if it was an error.
func (pe panicError) Unwrap() error {
	err, _ := pe.e.(error)
	return err
}

type exitError string

func (name exitError) Error() string {
	if name == "" {
		return "runtime.Goexit called"
	}
	return fmt.Sprintf("%v called runtime.Goexit", string(name))
}

// IsPanic returns true if err indicates a recovered panic.
func IsPanic(err error) bool {
	var pe panicError
	return errors.As(err, &pe)
}

// IsExit returns true if err indicates a recovered runtime.Goexit.
func IsExit(err error) bool {
	var xe exitError
	return errors.As(err, &xe)
}

// PanicStack returns the stack trace captured for a recovered panic, or ""
// for any other error.
func PanicStack(err error) string {
	var pe panicError
	if errors.As(err, &pe) {
		return string(pe.stack)
	}
	return ""
}
