package main

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/jcorbin/gobf/internal/flushio"
	"github.com/jcorbin/gobf/internal/lineinput"
	"github.com/jcorbin/gobf/internal/logio"
	"github.com/jcorbin/gobf/internal/runeio"
)

// DefaultTapeSize is the number of cells on the tape unless WithTapeSize says
// otherwise.
const DefaultTapeSize = 1024

// VM executes programs against a fixed size tape of byte cells, under a
// cursor that starts at cell 0. The tape, cursor, and program state are
// exclusively owned by the VM for the duration of a Run.
type VM struct {
	logging
	in  lineinput.Input
	out flushio.WriteFlusher

	tapeSize int
	eof      EOFMode
	inMode   InputMode
	outMode  OutputMode

	pending chan readResult // an abandoned read still in flight

	prog   program
	pc     int // program counter
	tape   []byte
	cursor int
}

func (vm *VM) load(tree []Instruction) {
	vm.prog = flatten(tree)
	vm.pc = 0
	if vm.tapeSize <= 0 {
		vm.tapeSize = DefaultTapeSize
	}
	vm.tape = make([]byte, vm.tapeSize)
	vm.cursor = 0
	vm.logf("#", "load %v codes onto %v cells", len(vm.prog), len(vm.tape))
}

func (vm *VM) exec(ctx context.Context) {
	defer vm.withLogIndent("\t")()

	for vm.pc < len(vm.prog) {
		c := vm.prog[vm.pc]
		if vm.logfn != nil {
			vm.logf("@", "%v %v -- cursor:%v cell:%v", vm.pc, c.op, vm.cursor, vm.tape[vm.cursor])
		}

		switch c.op {
		case OpIncrementPointer:
			if vm.cursor >= len(vm.tape)-1 {
				vm.halt(vm.runtimeError(CursorOutOfBounds))
			}
			vm.cursor++

		case OpDecrementPointer:
			if vm.cursor <= 0 {
				vm.halt(vm.runtimeError(CursorOutOfBounds))
			}
			vm.cursor--

		case OpIncrement:
			vm.tape[vm.cursor]++

		case OpDecrement:
			vm.tape[vm.cursor]--

		case OpWrite:
			vm.write(vm.tape[vm.cursor])

		case OpRead:
			vm.read(ctx)

		case opLoopBegin:
			if vm.tape[vm.cursor] == 0 {
				vm.pc = c.jump
				continue
			}

		case opLoopEnd:
			if vm.tape[vm.cursor] != 0 {
				vm.haltif(ctx.Err())
				vm.pc = c.jump
				continue
			}

		default:
			vm.halt(codeError{vm.pc, c.op})
		}

		vm.pc++
	}

	vm.haltif(vm.out.Flush())
	vm.logf("#", "done")
	vm.dumpToLog()
}

func (vm *VM) write(b byte) {
	var err error
	switch vm.outMode {
	case OutputRune:
		err = runeio.WriteLatin1(vm.out, b)
	default:
		err = runeio.WriteByte(vm.out, b)
	}
	vm.haltif(err)
}

// read stores the first character of the next input line into the cursor
// cell; all further bytes on the line are discarded. A read blocked on input
// halts with ctx.Err() once ctx is done; the abandoned line is then left
// pending for any later read.
func (vm *VM) read(ctx context.Context) {
	vm.haltif(vm.out.Flush())

	if vm.pending == nil {
		pending := make(chan readResult, 1)
		go func() {
			line, err := vm.in.ReadLine()
			pending <- readResult{line, err}
		}()
		vm.pending = pending
	}

	var res readResult
	select {
	case <-ctx.Done():
		vm.halt(ctx.Err())
	case res = <-vm.pending:
		vm.pending = nil
	}

	if res.err == io.EOF {
		vm.logf("<", "read EOF -> %v", vm.eof)
		switch vm.eof {
		case EOFKeep:
		case EOFMax:
			vm.tape[vm.cursor] = 0xff
		case EOFError:
			vm.halt(vm.runtimeError(InputExhausted))
		default:
			vm.tape[vm.cursor] = 0
		}
		return
	}
	vm.haltif(res.err)

	vm.logf("<", "read %q from %v", res.line, vm.in.Last)
	vm.tape[vm.cursor] = vm.decode(res.line)
}

func (vm *VM) decode(line []byte) byte {
	if vm.inMode == InputRune {
		if r, size := utf8.DecodeRune(line); r != utf8.RuneError || size > 1 {
			return byte(r)
		}
	}
	return line[0]
}

type readResult struct {
	line []byte
	err  error
}

func (vm *VM) runtimeError(kind RuntimeErrorKind) RuntimeError {
	return RuntimeError{
		Kind:   kind,
		Op:     vm.prog[vm.pc].op,
		PC:     vm.pc,
		Cursor: vm.cursor,
	}
}

func (vm *VM) halt(err error) {
	// ignore any panics while trying to flush output
	func() {
		defer func() { recover() }()
		if vm.out != nil {
			if ferr := vm.out.Flush(); err == nil {
				err = ferr
			}
		}
	}()

	// ignore any panics while logging
	func() {
		defer func() { recover() }()
		vm.logf("#", "halt error: %v", err)
		vm.dumpToLog()
	}()

	panic(haltError{err})
}

func (vm *VM) haltif(err error) {
	if err != nil {
		vm.halt(err)
	}
}

func (vm *VM) dumpToLog() {
	if vm.logfn == nil {
		return
	}
	lw := logio.Writer{Logf: vm.logLine}
	defer lw.Close()
	tapeDumper{vm: vm, out: &lw}.dump()
}

// Tape returns the VM's tape, as left by the last Run.
func (vm *VM) Tape() []byte { return vm.tape }

// Cursor returns the VM's cursor, as left by the last Run.
func (vm *VM) Cursor() int { return vm.cursor }

// Close flushes any buffered output, and closes any remaining input streams,
// unless a read abandoned by a cancelled Run still owns them.
func (vm *VM) Close() (err error) {
	if vm.out != nil {
		err = vm.out.Flush()
	}
	if vm.pending != nil {
		return err
	}
	if cerr := vm.in.Close(); err == nil {
		err = cerr
	}
	return err
}

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}
func (err haltError) Unwrap() error { return err.error }

type codeError struct {
	pc int
	op Op
}

func (err codeError) Error() string { return fmt.Sprintf("invalid code %v @%v", err.op, err.pc) }
