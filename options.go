package main

import (
	"fmt"
	"io"

	"github.com/jcorbin/gobf/internal/flushio"
)

// VMOption configures a VM, see New.
type VMOption interface{ apply(vm *VM) }

var defaultOptions = VMOptions(
	withOutput(io.Discard),
	withTapeSize(DefaultTapeSize),
)

// VMOptions combines any number of options into one, applied in order.
func VMOptions(opts ...VMOption) VMOption {
	var res vmOptions
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case vmOptions:
			res = append(res, impl...)
		default:
			res = append(res, impl)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

type vmOptions []VMOption

func (opts vmOptions) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) {
	vm.logfn = logfn
}

type inputOption struct{ io.Reader }
type outputOption struct{ flushio.WriteFlusher }
type teeOption struct{ io.Writer }
type tapeSizeOption int

func withInput(r io.Reader) inputOption       { return inputOption{r} }
func withOutput(w io.Writer) outputOption     { return outputOption{flushio.NewWriteFlusher(w)} }
func withLineOutput(w io.Writer) outputOption { return outputOption{flushio.NewLineFlusher(w)} }
func withTee(w io.Writer) teeOption           { return teeOption{w} }
func withTapeSize(size int) tapeSizeOption    { return tapeSizeOption(size) }

func (i inputOption) apply(vm *VM) {
	vm.in.Queue = append(vm.in.Queue, i.Reader)
}

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = o.WriteFlusher
}

func (o teeOption) apply(vm *VM) {
	vm.out = flushio.Tee(vm.out, flushio.NewWriteFlusher(o.Writer))
}

func (size tapeSizeOption) apply(vm *VM) {
	vm.tapeSize = int(size)
}

// EOFMode determines what a Read does once all input has been exhausted.
type EOFMode uint8

// EOF modes, EOFZero being the default.
const (
	EOFZero  EOFMode = iota // store 0 in the cell
	EOFKeep                 // leave the cell unchanged
	EOFMax                  // store 255 in the cell
	EOFError                // halt with an InputExhausted error
)

var eofModeNames = [...]string{"zero", "keep", "max", "error"}

func (mode EOFMode) apply(vm *VM) { vm.eof = mode }

func (mode EOFMode) String() string {
	if int(mode) < len(eofModeNames) {
		return eofModeNames[mode]
	}
	return fmt.Sprintf("EOFMode(%d)", uint8(mode))
}

// Set implements flag.Value.
func (mode *EOFMode) Set(s string) error {
	for i, name := range eofModeNames {
		if s == name {
			*mode = EOFMode(i)
			return nil
		}
	}
	return fmt.Errorf("invalid EOF mode %q, must be one of %v", s, eofModeNames)
}

// OutputMode determines how a Write encodes a cell's byte.
type OutputMode uint8

// Output modes, OutputByte being the default.
const (
	OutputByte OutputMode = iota // the raw byte
	OutputRune                   // the byte as a Latin-1 code point, utf8 encoded
)

var outputModeNames = [...]string{"byte", "rune"}

func (mode OutputMode) apply(vm *VM) { vm.outMode = mode }

func (mode OutputMode) String() string {
	if int(mode) < len(outputModeNames) {
		return outputModeNames[mode]
	}
	return fmt.Sprintf("OutputMode(%d)", uint8(mode))
}

// Set implements flag.Value.
func (mode *OutputMode) Set(s string) error {
	for i, name := range outputModeNames {
		if s == name {
			*mode = OutputMode(i)
			return nil
		}
	}
	return fmt.Errorf("invalid output mode %q, must be one of %v", s, outputModeNames)
}

// InputMode determines how a Read decodes the first character of a line.
type InputMode uint8

// Input modes, InputByte being the default.
const (
	InputByte InputMode = iota // the line's first byte
	InputRune                  // the line's first utf8 rune, truncated to a byte
)

var inputModeNames = [...]string{"byte", "rune"}

func (mode InputMode) apply(vm *VM) { vm.inMode = mode }

func (mode InputMode) String() string {
	if int(mode) < len(inputModeNames) {
		return inputModeNames[mode]
	}
	return fmt.Sprintf("InputMode(%d)", uint8(mode))
}

// Set implements flag.Value.
func (mode *InputMode) Set(s string) error {
	for i, name := range inputModeNames {
		if s == name {
			*mode = InputMode(i)
			return nil
		}
	}
	return fmt.Errorf("invalid input mode %q, must be one of %v", s, inputModeNames)
}
