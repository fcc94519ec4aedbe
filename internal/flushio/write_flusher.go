package flushio

import (
	"bufio"
	"bytes"
	"io"
)

// WriteFlusher is a flush-able io.Writer.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

var discardWriteFlusher WriteFlusher = nopFlusher{io.Discard}

// NewWriteFlusher creates a new flushable writer: if the given writer is a
// buffer, a wrapping with a noop Flush is returned; otherwise, unless the
// original writer is already a WriteFlusher, a new bufio.Writer is returned.
func NewWriteFlusher(w io.Writer) WriteFlusher {
	// discard writer does not need flushing
	if w == io.Discard {
		return discardWriteFlusher
	}

	if wf, is := w.(WriteFlusher); is {
		return wf
	}

	// in memory buffers, as implemented by types like bytes.Buffer and
	// strings.Builder, do not need to be flushed
	type buffer interface {
		io.Writer
		Cap() int
		Len() int
		Grow(n int)
		Reset()
	}
	if _, isBuffer := w.(buffer); isBuffer {
		return nopFlusher{w}
	}

	return bufio.NewWriter(w)
}

// NewLineFlusher returns a WriteFlusher that buffers writes into w, flushing
// whenever a line feed has been written.
func NewLineFlusher(w io.Writer) WriteFlusher {
	wf := NewWriteFlusher(w)
	if _, isNop := wf.(nopFlusher); isNop {
		return wf
	}
	return lineFlusher{wf}
}

type lineFlusher struct{ WriteFlusher }

func (lf lineFlusher) Write(p []byte) (n int, err error) {
	n, err = lf.WriteFlusher.Write(p)
	if err == nil && bytes.IndexByte(p[:n], '\n') >= 0 {
		err = lf.Flush()
	}
	return n, err
}

func (lf lineFlusher) WriteByte(c byte) error {
	if bw, ok := lf.WriteFlusher.(io.ByteWriter); ok {
		if err := bw.WriteByte(c); err != nil {
			return err
		}
	} else if _, err := lf.WriteFlusher.Write([]byte{c}); err != nil {
		return err
	}
	if c == '\n' {
		return lf.Flush()
	}
	return nil
}

type nopFlusher struct{ io.Writer }

func (nf nopFlusher) Flush() error { return nil }
