// Package fd is the per-process file descriptor table: eight fixed
// slots (fd 0 and 1 pre-bound to the terminal, 2..7 available to
// open), adapted from biscuit's Fd_t (a file-operations interface
// plus permission bits) and spec.md §3/§7's fixed eight-entry layout.
package fd

import (
	"context"

	"github.com/ece391/coreterm/internal/defs"
	"github.com/ece391/coreterm/internal/fdops"
)

const (
	NumFds  = 8
	StdinFd = 0
	StdoutFd = 1
)

// Fd_t is one open file descriptor: the operations it dispatches to,
// and whether it is in use at all (biscuit's Fd_t has no "empty"
// state of its own; the table here tracks that in Used).
type Fd_t struct {
	Fops fdops.File_i
	Used bool
}

// Table_t is the fixed eight-slot descriptor table for one process.
type Table_t struct {
	slots [NumFds]Fd_t
}

// Bind installs stdin/stdout at fd 0 and 1, matching every process's
// inherited terminal streams (spec.md §4.4: "fd 0 and 1 are
// pre-populated").
func (t *Table_t) Bind(stdin, stdout fdops.File_i) {
	t.slots[StdinFd] = Fd_t{Fops: stdin, Used: true}
	t.slots[StdoutFd] = Fd_t{Fops: stdout, Used: true}
}

// Open installs f in the lowest free slot in [2,7] and returns its fd,
// or EMFILE if the table is full (spec.md §7's open()).
func (t *Table_t) Open(f fdops.File_i) (int, defs.Err_t) {
	for i := 2; i < NumFds; i++ {
		if !t.slots[i].Used {
			t.slots[i] = Fd_t{Fops: f, Used: true}
			return i, 0
		}
	}
	return -1, defs.EMFILE
}

// Get returns the open file at fd, or EINVAL if out of range or
// unused.
func (t *Table_t) Get(fdNum int) (fdops.File_i, defs.Err_t) {
	if fdNum < 0 || fdNum >= NumFds || !t.slots[fdNum].Used {
		return nil, defs.EINVAL
	}
	return t.slots[fdNum].Fops, 0
}

// Read dispatches to fdNum's Reader_i, or ENOSYS if the open file
// kind does not support reads (a TerminalOut_t, for instance).
func (t *Table_t) Read(ctx context.Context, fdNum int, buf []byte) (int, defs.Err_t) {
	f, err := t.Get(fdNum)
	if err != 0 {
		return 0, err
	}
	r, ok := f.(fdops.Reader_i)
	if !ok {
		return 0, defs.ENOSYS
	}
	return r.Read(ctx, buf)
}

// Write dispatches to fdNum's Writer_i, or ENOSYS if unsupported.
func (t *Table_t) Write(ctx context.Context, fdNum int, buf []byte) (int, defs.Err_t) {
	f, err := t.Get(fdNum)
	if err != 0 {
		return 0, err
	}
	w, ok := f.(fdops.Writer_i)
	if !ok {
		return 0, defs.ENOSYS
	}
	return w.Write(ctx, buf)
}

// Close frees fdNum, rejecting fd 0 and 1: stdin/stdout are not
// user-closable (the open question spec.md left unresolved, decided
// in favor of a single reject-uniformly policy rather than biscuit's
// no-op-success for those two slots).
func (t *Table_t) Close(fdNum int) defs.Err_t {
	if fdNum < 2 {
		return defs.EINVAL
	}
	f, err := t.Get(fdNum)
	if err != 0 {
		return err
	}
	cerr := f.Close()
	t.slots[fdNum] = Fd_t{}
	if cerr != 0 {
		return cerr
	}
	return 0
}
