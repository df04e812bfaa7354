package term

import (
	"sync"

	"github.com/ece391/coreterm/internal/defs"
)

// Multiplexer_t owns all NumTerminals sessions plus the two
// terminal-id globals terminals.c keeps at file scope: cur_terminal
// (which terminal's process is executing) and display_terminal (which
// terminal's screen is on the real VGA buffer). They are two separate
// ids because a background terminal keeps running while another is
// displayed (spec.md §2, §4.7).
type Multiplexer_t struct {
	mu   sync.Mutex
	term [defs.NumTerminals]*Terminal_t
	cur  defs.Tid_t
	disp defs.Tid_t

	// RemapVideo is called with (cur, display) after display changes,
	// standing in for terminal_switch's video_paging() call. Supplied
	// by internal/kernel, which owns the internal/vm.Addrspace_t.
	RemapVideo func(cur, display defs.Tid_t)
	// MapUser is called with the newly-scheduled terminal's pid on
	// every context switch, standing in for scheduler()'s
	// paging_syscall(cur_pid) call. Supplied by internal/kernel.
	MapUser func(pid defs.Pid_t)
	// LaunchShell is called exactly once per terminal, the first time
	// it is switched to (terminal_switch step 8's execute("shell")).
	LaunchShell func(tid defs.Tid_t)
}

// NewMultiplexer builds three empty terminals, all initially
// associated with terminal 0 (boot state).
func NewMultiplexer() *Multiplexer_t {
	m := &Multiplexer_t{}
	for i := range m.term {
		m.term[i] = New(defs.Tid_t(i))
	}
	return m
}

// Terminal returns the session for tid.
func (m *Multiplexer_t) Terminal(tid defs.Tid_t) *Terminal_t {
	return m.term[tid]
}

// Current and Display report the two id globals.
func (m *Multiplexer_t) Current() defs.Tid_t {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur
}

func (m *Multiplexer_t) Display() defs.Tid_t {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disp
}

// SetCurrent records which terminal's process is executing (driven by
// internal/sched on every context switch).
func (m *Multiplexer_t) SetCurrent(tid defs.Tid_t) {
	m.mu.Lock()
	m.cur = tid
	m.mu.Unlock()
}

// Reschedule switches which terminal's process is executing without
// touching display_terminal or launching anything — scheduler()'s
// video_paging()+paging_syscall() half of a round-robin context switch,
// as opposed to terminal_switch's full eight-step sequence.
func (m *Multiplexer_t) Reschedule(next defs.Tid_t) {
	m.mu.Lock()
	m.cur = next
	disp := m.disp
	m.mu.Unlock()

	pid, _ := m.RunningPid(next)
	if m.MapUser != nil {
		m.MapUser(pid)
	}
	if m.RemapVideo != nil {
		m.RemapVideo(next, disp)
	}
}

// RunningPid reports tid's current Pid and RunningProcesses count in
// one call, the two fields scheduler()'s skip condition tests.
func (m *Multiplexer_t) RunningPid(tid defs.Tid_t) (defs.Pid_t, int) {
	tm := m.Terminal(tid)
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.Pid, tm.RunningProcesses
}

// IsForeground reports whether tid is the currently displayed
// terminal, the gate terminal_read's spin waits on; cur_terminal is
// not consulted.
func (m *Multiplexer_t) IsForeground(tid defs.Tid_t) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disp == tid
}

// SwitchTerminal follows terminal_switch: no-op on same terminal,
// refuse (return false) when the target has never run and no pid slot
// is free, flip display_terminal, remap video, and, if the target has
// never run a process, make it current and launch a shell in it. No
// snapshot or restore is taken: each Terminal_t keeps its own cursor,
// line buffer and screen across switches. hasFreePid reports whether
// execute() could claim a pid right now (internal/proc owns the bitmap).
func (m *Multiplexer_t) SwitchTerminal(tid defs.Tid_t, hasFreePid func() bool) bool {
	m.mu.Lock()
	if tid == m.disp {
		m.mu.Unlock()
		return true
	}
	target := m.term[tid]
	neverLaunched := target.RunningProcesses == 0
	if neverLaunched && !hasFreePid() {
		m.mu.Unlock()
		return false
	}

	outgoing := m.term[m.disp]
	m.disp = tid
	m.mu.Unlock()

	_ = outgoing // outgoing's screen state already lives in its own Terminal_t; nothing further to snapshot here
	if m.RemapVideo != nil {
		m.RemapVideo(m.Current(), tid)
	}

	if neverLaunched {
		m.mu.Lock()
		m.cur = tid
		m.mu.Unlock()
		if m.RemapVideo != nil {
			m.RemapVideo(tid, tid)
		}
		if m.LaunchShell != nil {
			m.LaunchShell(tid)
		}
	}
	return true
}
