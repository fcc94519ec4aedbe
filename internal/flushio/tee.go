package flushio

import "io"

// Tee returns a WriteFlusher that copies every write into each of wfs in
// order, and flushes all of them. Nil entries are skipped, and nested tees are
// flattened; Tee returns nil if nothing remains, or the sole remaining
// WriteFlusher unwrapped.
func Tee(wfs ...WriteFlusher) WriteFlusher {
	var t tee
	for _, wf := range wfs {
		switch wf := wf.(type) {
		case nil:
		case tee:
			t = append(t, wf...)
		default:
			t = append(t, wf)
		}
	}
	switch len(t) {
	case 0:
		return nil
	case 1:
		return t[0]
	}
	return t
}

type tee []WriteFlusher

// Write stops at the first stream that fails or writes short.
func (t tee) Write(p []byte) (int, error) {
	for _, wf := range t {
		if n, err := wf.Write(p); err != nil {
			return n, err
		} else if n < len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

// Flush flushes every stream, returning the first error.
func (t tee) Flush() (err error) {
	for _, wf := range t {
		if ferr := wf.Flush(); err == nil {
			err = ferr
		}
	}
	return err
}
