package proc

import (
	"context"

	"github.com/ece391/coreterm/internal/defs"
	"github.com/ece391/coreterm/internal/fdops"
	"github.com/ece391/coreterm/internal/mem"
	"github.com/ece391/coreterm/internal/trap"
)

// Syscalls is the ten-call surface a registered Body_i sees, bound to
// its own pid (spec.md §4.8). It is the hosted-Go stand-in for int
// 0x80: a Body_i calls these methods directly instead of trapping.
type Syscalls struct {
	table *Table_t
	pid   defs.Pid_t
}

func (sc *Syscalls) pcb() *Pcb_t { return sc.table.pcbs[sc.pid] }

// Halt ends the calling process immediately with status, exactly like
// halt() never returning to its caller.
func (sc *Syscalls) Halt(status int32) {
	trap.Halt(status)
}

// Execute runs cmdline as a child of the calling process and returns
// its exit status (execute()).
func (sc *Syscalls) Execute(ctx context.Context, cmdline string) (int32, defs.Err_t) {
	return sc.table.Execute(ctx, cmdline, sc.pid, sc.pcb().Tid)
}

// Read validates fd and forwards to its Reader_i, or ENOSYS if the
// open file kind doesn't support reads (read()).
func (sc *Syscalls) Read(ctx context.Context, fdNum int, buf []byte) (int, defs.Err_t) {
	if fdNum < 0 || fdNum > 7 || buf == nil {
		return -1, defs.EINVAL
	}
	return sc.pcb().Fds.Read(ctx, fdNum, buf)
}

// Write validates fd and forwards to its Writer_i (write()).
func (sc *Syscalls) Write(ctx context.Context, fdNum int, buf []byte) (int, defs.Err_t) {
	if fdNum < 0 || fdNum > 7 || buf == nil {
		return -1, defs.EINVAL
	}
	return sc.pcb().Fds.Write(ctx, fdNum, buf)
}

// Open resolves name, allocates the lowest free fd in [2,7], and
// installs the type-appropriate File_i (open()).
func (sc *Syscalls) Open(name string) (int, defs.Err_t) {
	d, err := sc.table.Img.ReadDentryByName(name)
	if err != 0 {
		return -1, err
	}

	var f fdops.File_i
	switch d.Filetype {
	case defs.FtRTC:
		f = fdops.NewRtc(sc.pcb().Tid, sc.table.rtcWait, sc.table.rtcSetFreq)
	case defs.FtDir:
		f = fdops.NewDirectory(sc.table.Img)
	case defs.FtRegular:
		f = fdops.NewRegularFile(sc.table.Img, d.Inode)
	default:
		return -1, defs.EINVAL
	}

	return sc.pcb().Fds.Open(f)
}

// Close rejects fd outside [0,7] and otherwise forwards (close()).
func (sc *Syscalls) Close(fdNum int) defs.Err_t {
	if fdNum < 0 || fdNum > 7 {
		return defs.EINVAL
	}
	return sc.pcb().Fds.Close(fdNum)
}

// Getargs copies the calling process's stored argument string into
// buf, failing if none were given (getargs()).
func (sc *Syscalls) Getargs(buf []byte) defs.Err_t {
	args := sc.pcb().ArgString()
	if len(args) == 0 {
		return defs.EINVAL
	}
	n := copy(buf, args)
	if n < len(buf) {
		buf[n] = 0
	}
	return 0
}

// Vidmap validates that outAddr lies in the user super-page
// [UserBase, VideoBase), maps the video slot for the caller's terminal
// (the VGA buffer if it is displayed, its backing page otherwise), and
// returns VideoBase as the address of the mapped video memory
// (vidmap()).
func (sc *Syscalls) Vidmap(outAddr uint32) (uint32, defs.Err_t) {
	if outAddr < mem.UserBase || outAddr >= mem.VideoBase {
		return 0, defs.EINVAL
	}
	backing := mem.Pa_t(0xB9000 + uint32(sc.pcb().Tid)*mem.PGSIZE)
	sc.table.As.MapVideo(sc.pcb().Tid, sc.table.Mux.Display(), 0xB8000, backing)
	return mem.VideoBase, 0
}

// SetHandler and Sigreturn are unimplemented signal syscalls that
// always fail (spec.md §4.8).
func (sc *Syscalls) SetHandler(signum int32, handlerAddr uint32) defs.Err_t { return defs.ENOSYS }
func (sc *Syscalls) Sigreturn() defs.Err_t                                   { return defs.ENOSYS }
