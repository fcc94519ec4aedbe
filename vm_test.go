package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jcorbin/gobf/internal/lineinput"
	"github.com/jcorbin/gobf/internal/logio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloWorld = `
	++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]
	>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.
`

func TestVM(t *testing.T) {
	vmTestCases{
		vmTest("empty").
			expectOutput("").
			expectCursor(0).
			expectCellsAt(0, 0, 0, 0),

		vmTest("comments only").
			withSource("nothing to see here\n\tmove along").
			expectOutput("").
			expectCursor(0),

		vmTest("echo a byte").
			withSource(",.").
			withInput("A\n").
			expectOutput("A"),

		vmTest("echo without a line feed").
			withSource(",.").
			withInput("A").
			expectOutput("A"),

		vmTest("empty line reads a line feed").
			withSource(",.").
			withInput("\n").
			expectOutput("\n"),

		vmTest("reads first byte of each line").
			withSource(",.,.").
			withInput("AB\nCD\n").
			expectOutput("AC"),

		vmTest("reads across inputs").
			withSource(",.,.,.").
			withInput("a\n").
			withInput("b").
			withInput("c\n").
			expectOutput("abc"),

		vmTest("empty loop").
			withSource("[]").
			expectOutput("").
			expectCursor(0).
			expectCellsAt(0, 0),

		vmTest("skipped loop body").
			withSource("[.+>]").
			expectOutput("").
			expectCursor(0).
			expectCellsAt(0, 0, 0),

		vmTest("transfer loop").
			withSource("+++>++<[->+<]").
			expectCursor(0).
			expectCellsAt(0, 0, 5),

		vmTest("nested loops").
			withSource("++[>+++[>++<-]<-]").
			expectCursor(0).
			expectCellsAt(0, 0, 0, 12),

		vmTest("deeply nested loops").
			withSource("+"+strings.Repeat("[", 1000)+"-"+strings.Repeat("]", 1000)).
			expectCursor(0).
			expectCellsAt(0, 0),

		vmTest("long running loop").
			withSource("+[>+[-]<+]").
			expectCellsAt(0, 0, 0),

		vmTest("increment wraps").
			withSource(strings.Repeat("+", 256)).
			expectCellsAt(0, 0),

		vmTest("decrement wraps").
			withSource("-").
			expectCellsAt(0, 255),

		vmTest("cursor underflow").
			withSource("+<").
			expectError(CursorOutOfBounds).
			expectCursor(0).
			expectCellsAt(0, 1),

		vmTest("cursor overflow").
			withTapeSize(4).
			withSource(">>>+>").
			expectError(CursorOutOfBounds).
			expectCursor(3).
			expectCellsAt(0, 0, 0, 0, 1),

		vmTest("last cell").
			withTapeSize(4).
			withSource(">>>+").
			expectCursor(3).
			expectCellsAt(0, 0, 0, 0, 1),

		vmTest("unmatched close").
			withSource("+]").
			expectError(UnmatchedClose),

		vmTest("unmatched open").
			withSource("[[]").
			expectError(UnmatchedOpen),

		vmTest("hello world").
			withSource(helloWorld).
			withTestOutput().
			expectOutput("Hello World!\n"),

		vmTest("later options override earlier").
			withOptions(WithTapeSize(2), WithTapeSize(3)).
			withSource(">>").
			expectCursor(2),

		vmTest("wrapped builders").apply(
			withVMSource("+++."),
			withVMOptions(WithTapeSize(4), WithOutputMode(OutputRune)),
			withVMTimeout(time.Second),
			expectVMOutput("\x03"),
			expectVMDump(lines(
				`# Tape Dump`,
				`  pc: 4/4`,
				`  cursor: 0`,
				`  @ 0 3 <ETX> <- cursor`,
				`  ... 3 zero cells`,
			)),
		),

		vmTest("eof zero").
			withSource("+,").
			expectCellsAt(0, 0),

		vmTest("eof keep").
			withEOF(EOFKeep).
			withSource("+,").
			expectCellsAt(0, 1),

		vmTest("eof max").
			withEOF(EOFMax).
			withSource("+,").
			expectCellsAt(0, 255),

		vmTest("eof error").
			withEOF(EOFError).
			withInput("x\n").
			withSource(",.,.").
			expectError(InputExhausted).
			expectOutput("x"),

		vmTest("byte output").
			withSource("-" + strings.Repeat("-", 22) + ".").
			expectOutput("\xe9"),

		vmTest("rune input").
			withInputMode(InputRune).
			withInput("é\n").
			withSource(",").
			expectCellsAt(0, 0xe9),

		vmTest("rune input round trips").
			withInputMode(InputRune).
			withOutputMode(OutputRune).
			withInput("éa\n").
			withInput("ÿ\n").
			withSource(",.,.").
			expectOutput("éÿ"),

		vmTest("byte input").
			withInput("é\n").
			withSource(",").
			expectCellsAt(0, 0xc3),

		vmTest("rune input of invalid utf8").
			withInputMode(InputRune).
			withInput("\xff\n").
			withSource(",").
			expectCellsAt(0, 0xff),

		vmTest("rune output").
			withOutputMode(OutputRune).
			withSource("-" + strings.Repeat("-", 22) + ".").
			expectOutput("é"),

		vmTest("infinite loop times out").
			withSource("+[]").
			withTimeout(50 * time.Millisecond).
			expectError(context.DeadlineExceeded),

		vmTest("dump").
			withTapeSize(8).
			withSource("+++>++<[->+<]>").
			expectDump(lines(
				`# Tape Dump`,
				`  pc: 14/14`,
				`  cursor: 1`,
				`  ... 1 zero cells`,
				`  @ 1 5 <ENQ> <- cursor`,
				`  ... 6 zero cells`,
			)),
	}.run(t)
}

func TestVM_runtimeErrorContext(t *testing.T) {
	vm := New(WithTapeSize(2))
	err := vm.RunSource(context.Background(), Source{Name: t.Name(), Text: "+>+>"})

	var rerr RuntimeError
	require.True(t, errors.As(err, &rerr), "expected a RuntimeError, got: %+v", err)
	assert.Equal(t, RuntimeError{
		Kind:   CursorOutOfBounds,
		Op:     OpIncrementPointer,
		PC:     3,
		Cursor: 1,
	}, rerr)
	assert.EqualError(t, err, "cursor out of bounds: IncrementPointer @3 with cursor at 1")
}

func TestVM_syntaxErrorLocation(t *testing.T) {
	vm := New()
	err := vm.RunSource(context.Background(), Source{
		Name: "test.bf",
		Text: "+ add one\n- remove it ]\n",
	})

	var serr SyntaxError
	require.True(t, errors.As(err, &serr), "expected a SyntaxError, got: %+v", err)
	assert.Equal(t, SyntaxError{
		Kind:     UnmatchedClose,
		Index:    2,
		Location: Location{Name: "test.bf", Line: 2, Col: 13},
	}, serr)
	assert.EqualError(t, err, "test.bf:2:13: unmatched closing bracket at token #2")
}

func TestVM_flushBeforeRead(t *testing.T) {
	var out unbufferedSink
	var seen []string
	in := readerFunc(func(p []byte) (int, error) {
		seen = append(seen, string(out))
		if len(seen) > 1 {
			return 0, io.EOF
		}
		return copy(p, "y\n"), nil
	})

	vm := New(WithOutput(&out), WithInput(in))
	require.NoError(t, vm.RunSource(context.Background(), Source{
		Name: t.Name(),
		Text: "++++++++[>++++++++<-]>+.,.",
	}))
	require.NoError(t, vm.Close())

	assert.Equal(t, "Ay", string(out), "expected output")
	if assert.NotEmpty(t, seen, "expected input to be read") {
		assert.Equal(t, "A", seen[0], "expected prompt output to be flushed before read")
	}
}

func TestVM_reuse(t *testing.T) {
	var out strings.Builder
	vm := New(WithOutput(&out))
	prog, err := Parse(Lex("+++>++<[->+<]>."))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, vm.Run(context.Background(), prog), "run #%v", i+1)
		assert.Equal(t, []byte{0, 5, 0, 0}, vm.Tape()[:4], "expected fresh tape after run #%v", i+1)
		assert.Equal(t, 1, vm.Cursor(), "expected cursor after run #%v", i+1)
	}
	assert.Equal(t, "\x05\x05", out.String())
}

//// vmTestCase builder

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	for _, vmt := range vmts {
		t.Run(vmt.name, vmt.run)
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type vmTestCase struct {
	name    string
	source  string
	opts    []interface{}
	expect  []func(t *testing.T, vm *VM)
	timeout time.Duration
	wantErr error

	nextInputID int
}

func (vmt vmTestCase) apply(wraps ...func(vmTestCase) vmTestCase) vmTestCase {
	for _, wrap := range wraps {
		vmt = wrap(vmt)
	}
	return vmt
}

func (vmt vmTestCase) withSource(source string) vmTestCase {
	vmt.source = source
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	for _, opt := range opts {
		vmt.opts = append(vmt.opts, opt)
	}
	return vmt
}

func (vmt vmTestCase) withTapeSize(size int) vmTestCase {
	vmt.opts = append(vmt.opts, WithTapeSize(size))
	return vmt
}

func (vmt vmTestCase) withEOF(mode EOFMode) vmTestCase {
	vmt.opts = append(vmt.opts, WithEOF(mode))
	return vmt
}

func (vmt vmTestCase) withInputMode(mode InputMode) vmTestCase {
	vmt.opts = append(vmt.opts, WithInputMode(mode))
	return vmt
}

func (vmt vmTestCase) withOutputMode(mode OutputMode) vmTestCase {
	vmt.opts = append(vmt.opts, WithOutputMode(mode))
	return vmt
}

func (vmt vmTestCase) withInput(input string) vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		name := fmt.Sprintf("%v/input_%v", t.Name(), vmt.nextInputID+1)
		vmt.nextInputID++
		return WithInput(lineinput.NamedReader(name, strings.NewReader(input)))
	})
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectCursor(cursor int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, cursor, vm.Cursor(), "expected cursor")
	})
	return vmt
}

func (vmt vmTestCase) expectCellsAt(addr int, values ...byte) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		tape := vm.Tape()
		if !assert.True(t, addr+len(values) <= len(tape),
			"expected %v cells @%v within tape of %v cells", len(values), addr, len(tape)) {
			return
		}
		assert.Equal(t, values, tape[addr:addr+len(values)], "expected cell values @%v", addr)
	})
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	var out strings.Builder
	vmt.opts = append(vmt.opts, WithOutput(&out))
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return vmt
}

func (vmt vmTestCase) expectDump(dump string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		var out strings.Builder
		tapeDumper{
			vm:  vm,
			out: &out,
		}.dump()
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return vmt
}

func (vmt vmTestCase) withTestOutput() vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		return WithTee(&logio.Writer{Logf: func(mess string, args ...interface{}) {
			t.Logf("out: "+mess, args...)
		}})
	})
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	const traceTailSize = 64

	vm := vmt.buildVM(t)
	trace := traceTail{lines: make([]string, 0, traceTailSize)}
	WithLogf(trace.logf).apply(vm)
	defer func() {
		if t.Failed() {
			trace.logTo(t)
			vmt.dumpToTest(t, vm)
		}
	}()

	vmt.runVMTest(context.Background(), t, vm)
}

func (vmt vmTestCase) runVMTest(ctx context.Context, t *testing.T, vm *VM) {
	const defaultTimeout = time.Second
	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := vmt.runVM(ctx, vm); vmt.wantErr != nil {
		assert.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected VM run error")
	}

	if !t.Failed() {
		for _, expect := range vmt.expect {
			expect(t, vm)
		}
	}
}

func (vmt vmTestCase) runVM(ctx context.Context, vm *VM) (rerr error) {
	defer func() {
		if err := vm.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("vm.Close failed: %w", err)
		}
	}()
	return vm.RunSource(ctx, Source{Name: vmt.name, Text: vmt.source})
}

func (vmt vmTestCase) buildVM(t *testing.T) *VM {
	var opts []VMOption
	for _, o := range vmt.opts {
		switch impl := o.(type) {
		case func(vmt *vmTestCase, t *testing.T) VMOption:
			opts = append(opts, impl(&vmt, t))
		case VMOption:
			opts = append(opts, impl)
		default:
			t.Fatalf("unsupported vmTestCase opt type %T", o)
		}
	}
	return New(opts...)
}

func (vmt vmTestCase) dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	tapeDumper{vm: vm, out: &lw}.dump()
}

//// utilities

// traceTail retains only the last few trace lines logged, so that long running
// programs may be traced without unbounded memory use.
type traceTail struct {
	lines   []string
	next    int
	dropped int
}

func (tt *traceTail) logf(mess string, args ...interface{}) {
	line := fmt.Sprintf(mess, args...)
	if len(tt.lines) < cap(tt.lines) {
		tt.lines = append(tt.lines, line)
		return
	}
	tt.lines[tt.next] = line
	tt.next = (tt.next + 1) % len(tt.lines)
	tt.dropped++
}

func (tt *traceTail) logTo(t *testing.T) {
	if tt.dropped > 0 {
		t.Logf("... %v trace lines dropped", tt.dropped)
	}
	for i := range tt.lines {
		t.Log(tt.lines[(tt.next+i)%len(tt.lines)])
	}
}

type unbufferedSink []byte

func (sink *unbufferedSink) Write(p []byte) (int, error) {
	*sink = append(*sink, p...)
	return len(p), nil
}

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func TestVM_readCanceled(t *testing.T) {
	in, inw := io.Pipe()
	defer inw.Close()

	var out strings.Builder
	vm := New(WithInput(in), WithOutput(&out))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := vm.RunSource(ctx, Source{Name: t.Name(), Text: "+.,."})
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "expected deadline exceeded, got %v", err)
	assert.Equal(t, "\x01", out.String(), "expected output flushed before the blocked read")
	require.NoError(t, vm.Close())

	// the abandoned line is still delivered to the next run
	_, err = io.WriteString(inw, "z\n")
	require.NoError(t, err)
	out.Reset()
	require.NoError(t, vm.RunSource(context.Background(), Source{Name: t.Name(), Text: ",."}))
	assert.Equal(t, "z", out.String())
}
