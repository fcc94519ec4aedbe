package lineinput

import (
	"bufio"
	"fmt"
	"io"
)

// Location names a line in an Input stream.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }

// Input implements sequential line reading through a Queue of one or more
// input streams. The location of the last line read is tracked to facilitate
// user feedback.
type Input struct {
	br    *bufio.Reader
	cl    io.Closer
	Queue []io.Reader
	Last  Location
	scan  Location
}

// ReadLine reads the next line from the current input stream, including any
// trailing line feed, moving on to the next queued stream once the current one
// is exhausted. A final line without a line feed is still returned as a line.
// Returns io.EOF only after all queued streams have been exhausted.
func (in *Input) ReadLine() ([]byte, error) {
	for {
		if in.br == nil && !in.nextIn() {
			return nil, io.EOF
		}

		line, err := in.br.ReadBytes('\n')
		if len(line) > 0 {
			in.scan.Line++
			in.Last = in.scan
			return line, nil
		}
		if err != io.EOF {
			return nil, err
		}
		in.closeIn()
	}
}

// Close closes any current input stream and any queued streams, if they
// implement io.Closer.
func (in *Input) Close() (err error) {
	if in.cl != nil {
		err = in.cl.Close()
	}
	in.br, in.cl = nil, nil
	for _, r := range in.Queue {
		if cl, ok := r.(io.Closer); ok {
			if cerr := cl.Close(); err == nil {
				err = cerr
			}
		}
	}
	in.Queue = nil
	return err
}

func (in *Input) closeIn() {
	if in.cl != nil {
		in.cl.Close()
	}
	in.br, in.cl = nil, nil
}

func (in *Input) nextIn() bool {
	if len(in.Queue) > 0 {
		r := in.Queue[0]
		in.Queue = in.Queue[1:]
		in.br = bufio.NewReader(r)
		in.cl, _ = r.(io.Closer)
		in.scan.Name = nameOf(r)
		in.scan.Line = 0
	}
	return in.br != nil
}

// NamedReader attaches a name to an io.Reader, for use in Location feedback.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
