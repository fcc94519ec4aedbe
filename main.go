package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/jcorbin/gobf/internal/lineinput"
	"github.com/jcorbin/gobf/internal/logio"
)

type config struct {
	timeout  time.Duration
	trace    bool
	tapeSize int
	eof      EOFMode
	inMode   InputMode
	outMode  OutputMode
	input    string
}

func (cfg *config) register(fs *flag.FlagSet) {
	fs.DurationVar(&cfg.timeout, "timeout", 0, "specify a time limit")
	fs.BoolVar(&cfg.trace, "trace", false, "enable trace logging")
	fs.IntVar(&cfg.tapeSize, "tape-size", DefaultTapeSize, "number of tape cells")
	fs.Var(&cfg.eof, "eof", "what reading exhausted input does: zero, keep, max, or error")
	fs.Var(&cfg.inMode, "in", "how input characters are read: byte, or rune")
	fs.Var(&cfg.outMode, "out", "how output bytes are written: byte, or rune")
	fs.StringVar(&cfg.input, "input", "", "read program input from a file rather than stdin")
}

func main() {
	var log logio.Logger
	log.SetOutput(os.Stderr)

	var cfg config
	cfg.register(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %v [options] <file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, stop := interruptContext(context.Background())
	err := cfg.run(ctx, &log, flag.Args(), os.Stdin, os.Stdout)
	stop()

	var usage UsageError
	if errors.As(err, &usage) {
		flag.Usage()
	}
	if err != nil {
		log.Errorf("%+v", err)
	}
	os.Exit(log.ExitCode())
}

// interruptContext returns a context that is cancelled by the first
// interrupt signal; default handling is then restored, so that a second
// interrupt kills the process even if it does not wind down.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}

func (cfg config) run(ctx context.Context, log *logio.Logger, args []string, stdin io.Reader, stdout io.Writer) (rerr error) {
	if len(args) != 1 {
		return UsageError(fmt.Sprintf("expected exactly one source file argument, got %v", len(args)))
	}

	path := args[0]
	text, err := os.ReadFile(path)
	if err != nil {
		return SourceReadError{path, err}
	}

	var opts = []VMOption{
		WithLineOutput(stdout),
		WithTapeSize(cfg.tapeSize),
		WithEOF(cfg.eof),
		WithInputMode(cfg.inMode),
		WithOutputMode(cfg.outMode),
	}
	if cfg.input != "" {
		f, err := os.Open(cfg.input)
		if err != nil {
			return fmt.Errorf("unable to open input: %w", err)
		}
		opts = append(opts, WithInput(f))
	} else {
		// not closed along with the VM
		opts = append(opts, WithInput(lineinput.NamedReader("stdin", stdin)))
	}
	if cfg.trace {
		opts = append(opts, WithLogf(log.Leveledf("TRACE")))
	}
	vm := New(opts...)
	defer func() {
		if cerr := vm.Close(); rerr == nil {
			rerr = cerr
		}
	}()

	if cfg.timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}
	return vm.RunSource(ctx, Source{Name: path, Text: string(text)})
}
