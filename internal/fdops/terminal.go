package fdops

import (
	"context"

	"github.com/ece391/coreterm/internal/defs"
)

// TerminalIn_t is stdin: reading pulls a completed line out of the
// terminal's keyboard buffer. It has no Write method, so a write(1)
// onto an fd backed by TerminalIn_t always fails the Writer_i type
// assertion in internal/fd with ENOSYS, matching terminal_write's
// behavior of only accepting writes to the output side.
type TerminalIn_t struct {
	readLine func(ctx context.Context, buf []byte) (int, defs.Err_t)
}

// NewTerminalIn adapts a terminal's line-read method.
func NewTerminalIn(readLine func(context.Context, []byte) (int, defs.Err_t)) *TerminalIn_t {
	return &TerminalIn_t{readLine: readLine}
}

func (t *TerminalIn_t) Read(ctx context.Context, buf []byte) (int, defs.Err_t) {
	return t.readLine(ctx, buf)
}

func (t *TerminalIn_t) Close() defs.Err_t { return 0 }

// TerminalOut_t is stdout: writing appends to the terminal's visible
// screen. It has no Read method, so read(1) fails the Reader_i
// assertion with ENOSYS.
type TerminalOut_t struct {
	write func(buf []byte) (int, defs.Err_t)
}

// NewTerminalOut adapts a terminal's screen-write method.
func NewTerminalOut(write func([]byte) (int, defs.Err_t)) *TerminalOut_t {
	return &TerminalOut_t{write: write}
}

func (t *TerminalOut_t) Write(ctx context.Context, buf []byte) (int, defs.Err_t) {
	return t.write(buf)
}

func (t *TerminalOut_t) Close() defs.Err_t { return 0 }
