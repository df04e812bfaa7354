// Package proc is the C3/C4 process layer: the fixed-layout PCB, the
// six-slot pid bitmap, command-line parsing, and the execute/halt
// lifecycle, grounded on original_source/student-distrib/pcb.h and
// systemcall.c.
//
// pcb.h is explicit that the first three fields of its C struct
// ("esp, ebp, eip... DO NOT MOVE OR CHANGE ORDER") exist purely so a
// hand-written assembly stub can restore a suspended process by
// reading known offsets. Go code can't pun a struct onto a stack
// pointer, so the rendezvous those three fields implement is done
// with a channel instead: Execute blocks on trap.Enter's result until the child's
// halt (or a panic standing in for a CPU exception) delivers a status,
// the same contract "jump to the eip/esp/ebp saved in the PCB" gives
// the original. Eip itself is kept as a real field because the kernel
// still needs to log and expose it.
package proc

import (
	"unsafe"

	"github.com/ece391/coreterm/internal/defs"
	"github.com/ece391/coreterm/internal/fd"
)

const MaxArgLen = 32

// Pcb_t is one process control block. Field order is fixed the same
// way pcb.h's is: pcb_test.go asserts it with unsafe.Offsetof so a
// careless edit here fails a test instead of silently breaking the
// save/restore contract.
type Pcb_t struct {
	done chan int32 // holds the first layout position; Execute never sets it and waits on trap.Enter's result instead
	Eip  uint32      // entry point of the running program image

	Fds fd.Table_t

	Parent defs.Pid_t
	Child  defs.Pid_t

	Args [MaxArgLen]byte

	Pid defs.Pid_t
	Tid defs.Tid_t
}

// This blank use of unsafe.Offsetof exists only so the compiler keeps
// unsafe imported even if a future edit removes every other use.
var _ = unsafe.Offsetof(Pcb_t{}.Eip)

// ArgString returns the stored argument sequence as a Go string, cut
// at the first NUL the way exe_args is read in getargs.
func (p *Pcb_t) ArgString() string {
	n := 0
	for n < MaxArgLen && p.Args[n] != 0 {
		n++
	}
	return string(p.Args[:n])
}
