package main

import "github.com/emirpasic/gods/stacks/arraystack"

// code is a single step of a flat program; jump is only meaningful for the
// loop begin and end operations, naming the code index to continue at when
// the jump is taken.
type code struct {
	op   Op
	jump int
}

type program []code

// flatten compiles an instruction tree into a flat program, replacing each
// loop with a begin / end pair of conditional jumps:
//   - opLoopBegin jumps just past its matching end if the cell is zero
//   - opLoopEnd jumps just past its matching begin if the cell is nonzero
//
// Nesting is tracked with an explicit stack, so no amount of loop depth
// recurses on the Go stack.
func flatten(tree []Instruction) (prog program) {
	type frame struct {
		body  []Instruction
		begin int // index of the opLoopBegin for body, or -1 at top level
	}

	stack := arraystack.New()
	stack.Push(&frame{body: tree, begin: -1})
	for !stack.Empty() {
		top, _ := stack.Peek()
		fr := top.(*frame)

		if len(fr.body) == 0 {
			stack.Pop()
			if fr.begin >= 0 {
				end := len(prog)
				prog = append(prog, code{op: opLoopEnd, jump: fr.begin + 1})
				prog[fr.begin].jump = end + 1
			}
			continue
		}

		in := fr.body[0]
		fr.body = fr.body[1:]
		if in.Op != OpLoop {
			prog = append(prog, code{op: in.Op})
			continue
		}

		begin := len(prog)
		prog = append(prog, code{op: opLoopBegin})
		stack.Push(&frame{body: in.Body, begin: begin})
	}
	return prog
}

func (prog program) String() string {
	var buf []byte
	for _, c := range prog {
		switch c.op {
		case OpIncrementPointer:
			buf = append(buf, '>')
		case OpDecrementPointer:
			buf = append(buf, '<')
		case OpIncrement:
			buf = append(buf, '+')
		case OpDecrement:
			buf = append(buf, '-')
		case OpWrite:
			buf = append(buf, '.')
		case OpRead:
			buf = append(buf, ',')
		case opLoopBegin:
			buf = append(buf, '[')
		case opLoopEnd:
			buf = append(buf, ']')
		}
	}
	return string(buf)
}
