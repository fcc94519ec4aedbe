/*
Package main implements gobf, a tape machine interpreter.

The language has eight commands, each a single character; every other
character in program source is a comment. Programs operate on a tape of byte
cells, all initially zero, under a cursor that starts on the first cell:

	>   move the cursor one cell right
	<   move the cursor one cell left
	+   increment the cell under the cursor
	-   decrement the cell under the cursor
	.   write the cell under the cursor as a single character
	,   read a line of input, storing its first byte under the cursor
	[   if the cell under the cursor is zero, skip past the matching ]
	]   if the cell under the cursor is nonzero, go back to the matching [

Cell arithmetic wraps around: incrementing 255 yields 0, and decrementing 0
yields 255. Moving the cursor off either end of the tape is an error, rather
than wrapping around or growing the tape.

Section 1: Lexing

Lex turns source text into a sequence of Tokens, one per command character.
Lexing never fails; a source with no commands is just an empty program.

Section 2: Parsing

Parse turns Tokens into a tree of Instructions, where every [ ... ] span
becomes a single Loop instruction holding its body. It does so in one pass,
counting bracket depth: at depth zero commands are emitted directly, and once
depth returns to zero on a closing bracket, the tokens in between are parsed
recursively as the loop body. A ] at depth zero, or a [ never closed by the end
of input, is a SyntaxError; no partial tree is returned.

Section 3: Execution

A VM owns the tape and cursor for a run. Rather than re-entering itself for
each loop iteration, the VM first flattens the instruction tree into a list of
codes where every loop becomes a pair of conditional jumps, so that running a
program needs only a program counter, no matter how deeply loops nest or how
long they run.

Reads block on the input stream, consuming a whole line at a time. What
happens once input is exhausted is configurable, see EOFMode; the default is
to store a zero. Output is buffered, but always flushed before reading input,
so that interactive prompts are seen.

Section 4: Usage

	gobf [options] <file>

Exactly one source file must be given. Syntax and runtime errors are reported
on stderr, and cause a non-zero exit status. See -help for options.
*/
package main
