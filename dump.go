package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/jcorbin/gobf/internal/runeio"
)

// tapeDumper writes a human readable dump of VM state: every nonzero cell,
// and the cursor cell, with runs of zero cells elided.
type tapeDumper struct {
	vm  *VM
	out io.Writer

	addrWidth int
}

func (dump tapeDumper) dump() {
	fmt.Fprintf(dump.out, "# Tape Dump\n")
	fmt.Fprintf(dump.out, "  pc: %v/%v\n", dump.vm.pc, len(dump.vm.prog))
	fmt.Fprintf(dump.out, "  cursor: %v\n", dump.vm.cursor)
	dump.dumpTape()
}

func (dump *tapeDumper) dumpTape() {
	tape := dump.vm.tape
	if dump.addrWidth == 0 {
		dump.addrWidth = len(strconv.Itoa(len(tape))) + 1
	}

	var buf bytes.Buffer
	skipped := 0
	for addr, val := range tape {
		if val == 0 && addr != dump.vm.cursor {
			skipped++
			continue
		}
		if skipped > 0 {
			fmt.Fprintf(&buf, "  ... %v zero cells\n", skipped)
			skipped = 0
		}
		fmt.Fprintf(&buf, "  @% *v %v %v", dump.addrWidth, addr, val, runeio.Mnemonic(val))
		if addr == dump.vm.cursor {
			buf.WriteString(" <- cursor")
		}
		buf.WriteByte('\n')
		buf.WriteTo(dump.out)
	}
	if skipped > 0 {
		fmt.Fprintf(dump.out, "  ... %v zero cells\n", skipped)
	}
}
