package runeio

import (
	"io"
	"unicode/utf8"
)

// WriteByte writes a single raw byte to the given writer.
func WriteByte(w io.Writer, b byte) error {
	if bw, ok := w.(io.ByteWriter); ok {
		return bw.WriteByte(b)
	}
	_, err := w.Write([]byte{b})
	return err
}

// WriteRune writes a rune to the given writer:
// - ASCII runes are written directly as bytes
// - all other runes are written in utf8 form
func WriteRune(w io.Writer, r rune) error {
	type runeWriter interface {
		WriteRune(r rune) (n int, err error)
	}
	if r < utf8.RuneSelf {
		return WriteByte(w, byte(r))
	}
	if rw, ok := w.(runeWriter); ok {
		_, err := rw.WriteRune(r)
		return err
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	_, err := w.Write(buf[:n])
	return err
}

// WriteLatin1 writes a byte as the Latin-1 code point of the same value, in
// utf8 form.
func WriteLatin1(w io.Writer, b byte) error {
	return WriteRune(w, rune(b))
}
