package main

import (
	"fmt"
	"strings"
)

// Op is the operation of a parsed Instruction.
type Op uint8

// Operations; all but OpLoop correspond 1:1 with a non-bracket Token.
const (
	OpIncrementPointer Op = iota + 1
	OpDecrementPointer
	OpIncrement
	OpDecrement
	OpWrite
	OpRead
	OpLoop

	// flat program operations, never found in a parsed tree
	opLoopBegin
	opLoopEnd
)

var opNames = [...]string{
	OpIncrementPointer: "IncrementPointer",
	OpDecrementPointer: "DecrementPointer",
	OpIncrement:        "Increment",
	OpDecrement:        "Decrement",
	OpWrite:            "Write",
	OpRead:             "Read",
	OpLoop:             "Loop",
	opLoopBegin:        "LoopBegin",
	opLoopEnd:          "LoopEnd",
}

func (op Op) String() string {
	if int(op) < len(opNames) && op != 0 {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

var leafOps = [...]Op{
	TokenIncrementPointer: OpIncrementPointer,
	TokenDecrementPointer: OpDecrementPointer,
	TokenIncrement:        OpIncrement,
	TokenDecrement:        OpDecrement,
	TokenWrite:            OpWrite,
	TokenRead:             OpRead,
	TokenLoopBegin:        0,
	TokenLoopEnd:          0,
}

// Instruction is a node in a parsed program tree.
// Body is only used by OpLoop instructions.
type Instruction struct {
	Op   Op
	Body []Instruction
}

// Parse builds an instruction tree from a token sequence, validating that all
// brackets are matched. Any returned error is a SyntaxError; no partial tree
// is ever returned alongside it.
func Parse(toks []Token) ([]Instruction, error) {
	return parseTokens(toks, 0)
}

// parseTokens implements Parse on a sub-sequence of tokens starting at base
// within the whole program, so that error indices stay absolute.
//
// Each loop body is rescanned by its own sub-parse, so parsing costs time
// quadratic in nesting depth; recursion depth is also the nesting depth.
func parseTokens(toks []Token, base int) ([]Instruction, error) {
	var prog []Instruction

	// depth counts unmatched LoopBegin tokens; loopStart marks the outermost
	// one while depth > 0
	depth, loopStart := 0, 0

	for i, tok := range toks {
		if depth == 0 {
			switch tok {
			case TokenLoopBegin:
				loopStart = i
				depth++
			case TokenLoopEnd:
				return nil, SyntaxError{Kind: UnmatchedClose, Index: base + i}
			default:
				prog = append(prog, Instruction{Op: leafOps[tok]})
			}
			continue
		}

		switch tok {
		case TokenLoopBegin:
			depth++
		case TokenLoopEnd:
			if depth--; depth == 0 {
				body, err := parseTokens(toks[loopStart+1:i], base+loopStart+1)
				if err != nil {
					return nil, err
				}
				prog = append(prog, Instruction{Op: OpLoop, Body: body})
			}
		}
	}

	if depth != 0 {
		return nil, SyntaxError{Kind: UnmatchedOpen, Index: base + loopStart}
	}
	return prog, nil
}

// CountLoops returns the number of OpLoop instructions within prog, counting
// all nested loop bodies.
func CountLoops(prog []Instruction) (n int) {
	for _, in := range prog {
		if in.Op == OpLoop {
			n += 1 + CountLoops(in.Body)
		}
	}
	return n
}

// FormatInstructions renders prog as canonical source text.
func FormatInstructions(prog []Instruction) string {
	var sb strings.Builder
	formatInstructions(&sb, prog)
	return sb.String()
}

func formatInstructions(sb *strings.Builder, prog []Instruction) {
	for _, in := range prog {
		switch in.Op {
		case OpIncrementPointer:
			sb.WriteByte('>')
		case OpDecrementPointer:
			sb.WriteByte('<')
		case OpIncrement:
			sb.WriteByte('+')
		case OpDecrement:
			sb.WriteByte('-')
		case OpWrite:
			sb.WriteByte('.')
		case OpRead:
			sb.WriteByte(',')
		case OpLoop:
			sb.WriteByte('[')
			formatInstructions(sb, in.Body)
			sb.WriteByte(']')
		}
	}
}

func (in Instruction) String() string {
	return FormatInstructions([]Instruction{in})
}
