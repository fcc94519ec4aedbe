package logio

import "bytes"

// Writer adapts a printf-style logging function into an io.Writer: each
// complete line written is logged once, without its line feed.
type Writer struct {
	Logf func(mess string, args ...interface{})

	buf []byte
}

// Write buffers p, logging any lines that it completes.
func (lw *Writer) Write(p []byte) (n int, err error) {
	lw.buf = append(lw.buf, p...)
	for {
		i := bytes.IndexByte(lw.buf, '\n')
		if i < 0 {
			break
		}
		lw.Logf("%s", lw.buf[:i])
		lw.buf = lw.buf[i+1:]
	}
	return len(p), nil
}

// Close logs any final partial line.
func (lw *Writer) Close() error {
	if len(lw.buf) > 0 {
		lw.Logf("%s", lw.buf)
		lw.buf = nil
	}
	return nil
}
