// Package vm is the C1 paging-manager contract: it owns the single
// global page directory (internal/mem.Directory_t) and exposes the
// three operations the rest of the kernel calls to remap it, mirroring
// biscuit's Vm_t / Lock_pmap pattern but over a directory of fixed
// slots instead of a real four-level page table.
package vm

import (
	"sync"

	"github.com/ece391/coreterm/internal/defs"
	"github.com/ece391/coreterm/internal/mem"
)

// Addrspace_t serializes every mutation of the shared directory behind
// one mutex, the same way Vm_t's lock protects Pmap and Vmregion in
// the teacher: there is one address space for the whole kernel here
// (spec.md §3 — the directory is mutated in place, not copied per
// process), so the lock's job is purely to make SetUser/SetVideo calls
// from different terminal goroutines atomic with each other.
type Addrspace_t struct {
	mu  sync.Mutex
	dir mem.Directory_t
}

// Init builds the fixed slot 0 / slot 1 mapping once at boot.
func (as *Addrspace_t) Init() {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.dir.Init()
}

// MapUser installs the user super-page slot for pid, paging in that
// process's 4 MiB frame (spec.md §4.1: done on every context switch
// into pid, not just the first time).
func (as *Addrspace_t) MapUser(pid defs.Pid_t) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.dir.SetUser(int(pid))
}

// MapVideo installs the video slot for the process currently running
// on curTid. When curTid == displayTid the slot targets the real VGA
// buffer; otherwise it targets that terminal's off-screen backing
// page (spec.md §4.1, §6's vidmap semantics).
func (as *Addrspace_t) MapVideo(curTid, displayTid defs.Tid_t, vgaTarget, backingTarget mem.Pa_t) {
	as.mu.Lock()
	defer as.mu.Unlock()
	if curTid == displayTid {
		as.dir.SetVideo(vgaTarget)
	} else {
		as.dir.SetVideo(backingTarget)
	}
}

// ClearVideo removes the video slot, used before any process in a
// terminal has called vidmap.
func (as *Addrspace_t) ClearVideo() {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.dir.ClearVideo()
}

// Slot exposes the current directory entry at i, for tests and for
// internal/kernel's boot-sequence log lines.
func (as *Addrspace_t) Slot(i int) mem.Slot_t {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.dir.Slot(i)
}

// Generation reports the TLB-flush counter: callers that need to know
// whether a remap actually happened compare this before and after.
func (as *Addrspace_t) Generation() uint64 {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.dir.Generation
}
