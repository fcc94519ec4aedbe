package main

import (
	"context"
	"errors"
	"io"

	"github.com/jcorbin/gobf/internal/panicerr"
)

// New creates a VM with the given options applied over the defaults: no
// input, discarded output, and a tape of DefaultTapeSize cells.
func New(opts ...VMOption) *VM {
	var vm VM
	defaultOptions.apply(&vm)
	if opt := VMOptions(opts...); opt != nil {
		opt.apply(&vm)
	}
	return &vm
}

// Run executes the given program to completion on a freshly zeroed tape,
// returning any SyntaxError or RuntimeError that halted it, any I/O error, or
// ctx.Err() if the context is done while the program is looping.
func (vm *VM) Run(ctx context.Context, prog []Instruction) error {
	err := panicerr.Recover("VM", func() error {
		vm.load(prog)
		vm.exec(ctx)
		return nil
	})
	var halted haltError
	if errors.As(err, &halted) {
		err = halted.error
	}
	return err
}

// RunSource lexes, parses, and runs program source text; any SyntaxError
// returned has its Location filled in from src.
func (vm *VM) RunSource(ctx context.Context, src Source) error {
	prog, err := Parse(Lex(src.Text))
	if err != nil {
		var serr SyntaxError
		if errors.As(err, &serr) {
			serr.Location = src.Locate(serr.Index)
			err = serr
		}
		return err
	}
	return vm.Run(ctx, prog)
}

// WithInput queues an input stream for Read instructions to consume line by
// line; multiple inputs are consumed in the order given.
func WithInput(r io.Reader) VMOption { return withInput(r) }

// WithOutput sets the stream that Write instructions emit into; output is
// buffered, being flushed before every Read and after the program halts.
func WithOutput(w io.Writer) VMOption { return withOutput(w) }

// WithLineOutput is like WithOutput, but also flushes after every line feed.
func WithLineOutput(w io.Writer) VMOption { return withLineOutput(w) }

// WithTee copies all output into an additional stream.
func WithTee(w io.Writer) VMOption { return withTee(w) }

// WithTapeSize sets the number of tape cells.
func WithTapeSize(size int) VMOption { return withTapeSize(size) }

// WithEOF sets what Read does once input is exhausted.
func WithEOF(mode EOFMode) VMOption { return mode }

// WithOutputMode sets how Write encodes cell bytes.
func WithOutputMode(mode OutputMode) VMOption { return mode }

// WithInputMode sets how Read decodes the first character of each line;
// InputRune pairs with OutputRune so that Latin-1 text round trips.
func WithInputMode(mode InputMode) VMOption { return mode }

// WithLogf enables trace logging of each executed instruction.
func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }
