package proc

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/ece391/coreterm/internal/defs"
	"github.com/ece391/coreterm/internal/fd"
	"github.com/ece391/coreterm/internal/fdops"
	"github.com/ece391/coreterm/internal/fs"
	"github.com/ece391/coreterm/internal/mem"
	"github.com/ece391/coreterm/internal/term"
	"github.com/ece391/coreterm/internal/trap"
	"github.com/ece391/coreterm/internal/vm"
)

// Table_t is the whole process layer: the six-slot pid bitmap, the
// registered program bodies, and the filesystem/terminal/address-space
// handles execute/halt need to set a process up and tear it down
// (systemcall.c's execute/halt_extend, generalized from one flat
// global terminal to NumTerminals of them).
type Table_t struct {
	mu       sync.Mutex
	pcbs     [defs.MaxProcesses]*Pcb_t
	registry Registry

	Img  *fs.Image_t
	Mux  *term.Multiplexer_t
	As   *vm.Addrspace_t
	Phys *mem.Physmem_t

	rtcWait    func(ctx context.Context, tid defs.Tid_t) defs.Err_t
	rtcSetFreq func(freq int32) defs.Err_t
}

// New builds an empty process table bound to the kernel's shared
// filesystem image, terminal multiplexer, and address space. rtcWait
// and rtcSetFreq are an rtc.Device_t's Wait/SetFreq methods, taken as
// plain functions so this package never imports internal/rtc.
func New(img *fs.Image_t, mux *term.Multiplexer_t, as *vm.Addrspace_t, phys *mem.Physmem_t, reg Registry,
	rtcWait func(context.Context, defs.Tid_t) defs.Err_t, rtcSetFreq func(int32) defs.Err_t) *Table_t {
	return &Table_t{Img: img, Mux: mux, As: as, Phys: phys, registry: reg, rtcWait: rtcWait, rtcSetFreq: rtcSetFreq}
}

// claimPid reserves and returns the lowest free pid slot, or ENFILE if
// all six are taken (find_avail_pid plus pid_status[cur_pid] = 1,
// done atomically so two concurrent execute()s never claim the same
// slot).
func (t *Table_t) claimPid() (defs.Pid_t, defs.Err_t) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := 0; i < defs.MaxProcesses; i++ {
		if t.pcbs[i] == nil {
			t.pcbs[i] = &Pcb_t{}
			return defs.Pid_t(i), 0
		}
	}
	return defs.NoPid, defs.ENFILE
}

// HasFreePid reports whether execute() could claim a pid right now,
// the gate terminal switch checks before launching a new shell.
func (t *Table_t) HasFreePid() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := 0; i < defs.MaxProcesses; i++ {
		if t.pcbs[i] == nil {
			return true
		}
	}
	return false
}

// Execute parses cmdline, resolves the executable, claims a pid,
// builds its PCB, pages it in, and runs its body to completion,
// blocking until the body halts (or panics, treated as an exception
// routed through halt(256)) — execute()'s synchronous "switch to user
// process ... return value from halt" contract.
//
// tid is only consulted when callerPid is NoPid (a terminal's very
// first process, launched directly by a terminal switch or by halt's
// shell-relaunch); a process executed from within another process
// always inherits its parent's terminal, the same way cur_terminal is
// never touched by execute() itself.
func (t *Table_t) Execute(ctx context.Context, cmdline string, callerPid defs.Pid_t, tid defs.Tid_t) (int32, defs.Err_t) {
	name, args, ok := parseCommand(cmdline)
	if !ok {
		return -1, defs.EINVAL
	}
	if !t.Img.IsExecutable(name) {
		return -1, defs.ENOENT
	}
	body, ok := t.registry[name]
	if !ok {
		return -1, defs.ENOENT
	}

	pid, err := t.claimPid()
	if err != 0 {
		return -1, err
	}

	pcb := &Pcb_t{Pid: pid, Parent: defs.NoPid, Child: defs.NoPid, Tid: tid}
	if callerPid != defs.NoPid {
		pcb.Tid = t.pcbs[callerPid].Tid
	}
	copy(pcb.Args[:], args)

	var entryBuf [4]byte
	if _, eerr := t.Img.ReadData(mustInode(t.Img, name), 24, entryBuf[:]); eerr != 0 {
		t.freePid(pid)
		return -1, eerr
	}
	pcb.Eip = binary.LittleEndian.Uint32(entryBuf[:])

	imgBuf := t.Phys.Frame(int(pid))[mem.ProgramImageAddr-mem.UserBase:]
	if _, cerr := t.Img.CopyImage(name, imgBuf); cerr != 0 {
		t.freePid(pid)
		return -1, cerr
	}

	stdinFile := fdops.NewTerminalIn(func(c context.Context, buf []byte) (int, defs.Err_t) {
		return t.Mux.Terminal(pcb.Tid).ReadLine(c, buf, func() bool { return t.Mux.IsForeground(pcb.Tid) })
	})
	stdoutFile := fdops.NewTerminalOut(func(buf []byte) (int, defs.Err_t) {
		return t.Mux.Terminal(pcb.Tid).Write(buf)
	})
	pcb.Fds.Bind(stdinFile, stdoutFile)

	t.mu.Lock()
	if callerPid != defs.NoPid {
		parent := t.pcbs[callerPid]
		parent.Child = pid
		pcb.Parent = callerPid
	}
	t.pcbs[pid] = pcb
	t.mu.Unlock()

	t.As.MapUser(pid)
	t.Mux.SetCurrent(pcb.Tid)
	tm := t.Mux.Terminal(pcb.Tid)
	tm.RunningProcesses++
	tm.Pid = pid

	sc := &Syscalls{table: t, pid: pid}
	status := trap.New().Enter(ctx, func(ctx context.Context) int32 {
		return body(ctx, sc)
	})
	if status == 256 {
		_, _ = t.Mux.Terminal(pcb.Tid).Write([]byte("Exception: program terminated\n"))
	}
	t.halt(pid, status)
	return status, 0
}

// freePid releases a pid claimed by claimPid but never handed off to a
// running body, the cleanup path for a setup failure between claim and
// launch.
func (t *Table_t) freePid(pid defs.Pid_t) {
	t.mu.Lock()
	t.pcbs[pid] = nil
	t.mu.Unlock()
}

// mustInode looks up name's inode number; Execute already confirmed
// the dentry exists via IsExecutable, so the error path here is only
// reachable on a corrupt image between those two calls.
func mustInode(img *fs.Image_t, name string) uint32 {
	d, err := img.ReadDentryByName(name)
	if err != 0 {
		return 0
	}
	return d.Inode
}

// halt tears pid down: closes every open fd in [2,7] (fd.Table_t.Close
// refuses stdin and stdout), clears its argument buffer, decrements its
// terminal's running-process count and hands the terminal's Pid back to
// the parent (NoPid for a terminal's first process), frees the pid
// slot, and relaunches a shell there if that was the last process
// (halt_extend).
func (t *Table_t) halt(pid defs.Pid_t, status int32) {
	t.mu.Lock()
	pcb := t.pcbs[pid]
	t.mu.Unlock()
	if pcb == nil {
		return
	}
	for i := 0; i < fd.NumFds; i++ {
		_ = pcb.Fds.Close(i)
	}
	pcb.Args = [MaxArgLen]byte{}

	tm := t.Mux.Terminal(pcb.Tid)
	tm.RunningProcesses--
	tm.Pid = pcb.Parent

	t.mu.Lock()
	if pcb.Parent != defs.NoPid {
		t.pcbs[pcb.Parent].Child = defs.NoPid
	}
	t.pcbs[pid] = nil
	t.mu.Unlock()

	if tm.RunningProcesses == 0 {
		go t.Execute(context.Background(), "shell", defs.NoPid, pcb.Tid)
	}
}

// Pcb returns pid's PCB, for Syscalls and for tests.
func (t *Table_t) Pcb(pid defs.Pid_t) *Pcb_t {
	return t.pcbs[pid]
}
