package main

import "fmt"

// SyntaxErrorKind distinguishes bracket matching failures; each kind is also
// usable as an errors.Is target.
type SyntaxErrorKind uint8

// Syntax error kinds.
const (
	UnmatchedClose SyntaxErrorKind = iota + 1
	UnmatchedOpen
)

func (kind SyntaxErrorKind) Error() string {
	switch kind {
	case UnmatchedClose:
		return "unmatched closing bracket"
	case UnmatchedOpen:
		return "unmatched opening bracket"
	}
	return fmt.Sprintf("syntax error #%d", uint8(kind))
}

// SyntaxError reports an unmatched bracket token by its index in the lexed
// token sequence; Location may be filled in later by Source.Locate.
type SyntaxError struct {
	Kind  SyntaxErrorKind
	Index int
	Location
}

func (err SyntaxError) Error() string {
	if err.Location.Name != "" || err.Location.Line != 0 {
		return fmt.Sprintf("%v: %v at token #%v", err.Location, err.Kind, err.Index)
	}
	return fmt.Sprintf("%v at token #%v", err.Kind, err.Index)
}

func (err SyntaxError) Unwrap() error { return err.Kind }

// RuntimeErrorKind distinguishes fatal execution failures; each kind is also
// usable as an errors.Is target.
type RuntimeErrorKind uint8

// Runtime error kinds.
const (
	CursorOutOfBounds RuntimeErrorKind = iota + 1
	InputExhausted
)

func (kind RuntimeErrorKind) Error() string {
	switch kind {
	case CursorOutOfBounds:
		return "cursor out of bounds"
	case InputExhausted:
		return "input exhausted"
	}
	return fmt.Sprintf("runtime error #%d", uint8(kind))
}

// RuntimeError reports a fatal execution failure, along with the program
// counter, cursor, and operation that caused it.
type RuntimeError struct {
	Kind   RuntimeErrorKind
	Op     Op
	PC     int
	Cursor int
}

func (err RuntimeError) Error() string {
	return fmt.Sprintf("%v: %v @%v with cursor at %v", err.Kind, err.Op, err.PC, err.Cursor)
}

func (err RuntimeError) Unwrap() error { return err.Kind }

// SourceReadError reports failure to load program source.
type SourceReadError struct {
	Path string
	Err  error
}

func (err SourceReadError) Error() string {
	return fmt.Sprintf("unable to read source %q: %v", err.Path, err.Err)
}

func (err SourceReadError) Unwrap() error { return err.Err }

// UsageError reports invalid command line usage.
type UsageError string

func (err UsageError) Error() string { return string(err) }
