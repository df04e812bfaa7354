// Package sched implements the round-robin scheduler (C5): a PIT tick
// rotates which terminal's process is "current" the way scheduler()
// rotates cur_terminal, skipping any terminal with nothing running in
// it and no-opping entirely once the scan loops back to its start.
//
// Grounded on original_source/student-distrib/scheduling.c and pit.c.
// There is no real stack to save and restore (internal/proc already
// runs every process body as its own goroutine), so the context-switch
// half of scheduler() collapses to Multiplexer_t.Reschedule, which
// updates cur_terminal and remaps video exactly as video_paging() and
// paging_syscall() did.
package sched

import (
	"github.com/ece391/coreterm/internal/defs"
	"github.com/ece391/coreterm/internal/term"
)

// Scheduler_t owns the round-robin rotation over term.Multiplexer_t.
type Scheduler_t struct {
	mux *term.Multiplexer_t
}

// New builds a scheduler bound to mux.
func New(mux *term.Multiplexer_t) *Scheduler_t {
	return &Scheduler_t{mux: mux}
}

// Tick runs one round of scheduler(): find the next terminal after the
// current one that has a running process, and switch to it. Mirrors
// the original's two no-op cases: the boot race before any shell has
// executed (cur pid == -1), and looping all the way around without
// finding another runnable terminal.
func (s *Scheduler_t) Tick() {
	cur := s.mux.Current()
	curPid, _ := s.mux.RunningPid(cur)
	if curPid == defs.NoPid {
		return
	}

	next := (cur + 1) % defs.NumTerminals
	for {
		pid, running := s.mux.RunningPid(next)
		if running != 0 && pid != defs.NoPid {
			break
		}
		next = (next + 1) % defs.NumTerminals
		if next == cur {
			return
		}
	}

	s.mux.Reschedule(next)
}
