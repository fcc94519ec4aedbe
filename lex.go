package main

import "fmt"

// Token is one recognized command character of program source.
type Token uint8

// The eight command tokens; the zero Token is not a command.
const (
	TokenIncrementPointer Token = iota + 1 // >
	TokenDecrementPointer                  // <
	TokenIncrement                         // +
	TokenDecrement                         // -
	TokenWrite                             // .
	TokenRead                              // ,
	TokenLoopBegin                         // [
	TokenLoopEnd                           // ]
)

var tokenChars = [...]byte{
	TokenIncrementPointer: '>',
	TokenDecrementPointer: '<',
	TokenIncrement:        '+',
	TokenDecrement:        '-',
	TokenWrite:            '.',
	TokenRead:             ',',
	TokenLoopBegin:        '[',
	TokenLoopEnd:          ']',
}

var charTokens [256]Token

func init() {
	for tok, c := range tokenChars {
		if tok != 0 {
			charTokens[c] = Token(tok)
		}
	}
}

func (tok Token) String() string {
	if int(tok) < len(tokenChars) && tok != 0 {
		return string(tokenChars[tok])
	}
	return fmt.Sprintf("Token(%d)", uint8(tok))
}

// Lex scans src for command characters, returning their tokens in order.
// All other characters are comments, and silently dropped.
func Lex(src string) (toks []Token) {
	for i := 0; i < len(src); i++ {
		if tok := charTokens[src[i]]; tok != 0 {
			toks = append(toks, tok)
		}
	}
	return toks
}

// Source names program text for diagnostics.
type Source struct {
	Name string
	Text string
}

// Location names a single command character within a Source.
type Location struct {
	Name string
	Line int
	Col  int
}

func (loc Location) String() string {
	if loc.Line == 0 {
		return loc.Name
	}
	return fmt.Sprintf("%v:%v:%v", loc.Name, loc.Line, loc.Col)
}

// Locate returns the location of the i-th command character, as numbered by
// Lex; the returned Location has a zero Line if there are not that many.
func (src Source) Locate(i int) Location {
	loc := Location{Name: src.Name, Line: 1}
	n := 0
	for _, r := range src.Text {
		loc.Col++
		if r < 0x80 && charTokens[r] != 0 {
			if n == i {
				return loc
			}
			n++
		}
		if r == '\n' {
			loc.Line++
			loc.Col = 0
		}
	}
	return Location{Name: src.Name}
}
