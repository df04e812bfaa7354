// Package term implements the terminal multiplexer (C6): one
// Terminal_t per on-screen session, each with its own cursor, 128-byte
// line buffer, and simulated screen contents, plus the keyboard
// line discipline (keyboard.go) that feeds it. Grounded on
// original_source/student-distrib/terminals.c (terminal_switch) and
// keyboard.c (terminal_read/terminal_write), translated from a
// polling/volatile-flag design to a condition variable since there is
// no interrupt-disable critical section to lean on in hosted Go.
package term

import (
	"context"
	"sync"

	"github.com/ece391/coreterm/internal/defs"
)

const LineBufSize = 128

// Terminal_t is one multiplexed session.
type Terminal_t struct {
	mu sync.Mutex

	id   defs.Tid_t
	mods Modifiers_t

	line     [LineBufSize]byte
	lineLen  int
	hasEnter bool
	enterCond *sync.Cond

	screen [][]byte // simulated VGA text: one row per line, grows as written
	cursorRow int
	cursorCol int

	RunningProcesses int
	Pid              defs.Pid_t
}

// New builds an empty terminal with id tid.
func New(tid defs.Tid_t) *Terminal_t {
	t := &Terminal_t{id: tid, Pid: defs.NoPid}
	t.enterCond = sync.NewCond(&t.mu)
	return t
}

// PushScancode feeds one hardware scancode through the line
// discipline, mutating the terminal's modifier state and line buffer.
// It returns the decoded key so Multiplexer can act on
// RequestSwitch/ClearScreen, which live above a single terminal.
func (t *Terminal_t) PushScancode(scancode uint8) Key_t {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := Decode(scancode, &t.mods)
	switch {
	case key.RequestSwitch, key.ClearScreen:
		return key
	case key.Backspace:
		t.backspaceLocked()
	case key.Tab:
		for i := 0; i < 4; i++ {
			t.appendLocked(' ')
		}
	case key.HasChar:
		t.appendLocked(key.Char)
	}
	return key
}

// FeedLine appends line plus a trailing newline to the buffer as if
// each rune had arrived as its own scancode, for front ends (like a
// liner.Prompt-driven console) that hand over whole lines instead of
// raw keystrokes. It does not run the shift/caps/ctrl line discipline
// in keyboard.go, since there is no scancode to decode.
func (t *Terminal_t) FeedLine(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := 0; i < len(line); i++ {
		t.appendLocked(line[i])
	}
	t.appendLocked('\n')
}

func (t *Terminal_t) appendLocked(c byte) {
	// A full buffer (127 chars + reserved newline slot) silently
	// drops further characters until Enter (spec.md §4.7).
	if t.lineLen >= LineBufSize || (t.lineLen >= LineBufSize-1 && c != '\n') {
		return
	}
	t.line[t.lineLen] = c
	t.lineLen++
	t.writeLocked([]byte{c})
	if c == '\n' {
		t.hasEnter = true
		t.enterCond.Broadcast()
	}
}

func (t *Terminal_t) backspaceLocked() {
	if t.lineLen == 0 {
		return
	}
	t.lineLen--
	t.line[t.lineLen] = 0
	t.redrawLocked()
}

// redrawLocked repaints the current input line (Backspace "deletes
// the last buffered character and redraws", spec.md §4.7).
func (t *Terminal_t) redrawLocked() {
	if t.cursorCol > 0 {
		t.cursorCol--
	}
	if len(t.screen) > 0 {
		row := t.screen[len(t.screen)-1]
		if len(row) > 0 {
			t.screen[len(t.screen)-1] = row[:len(row)-1]
		}
	}
}

func (t *Terminal_t) writeLocked(buf []byte) {
	for _, c := range buf {
		if len(t.screen) == 0 {
			t.screen = append(t.screen, nil)
		}
		if c == '\n' {
			t.screen = append(t.screen, nil)
			t.cursorRow++
			t.cursorCol = 0
			continue
		}
		t.screen[len(t.screen)-1] = append(t.screen[len(t.screen)-1], c)
		t.cursorCol++
	}
}

// ClearScreen implements Control+L: clears the visible screen without
// touching the line buffer.
func (t *Terminal_t) ClearScreen() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen = nil
	t.cursorRow, t.cursorCol = 0, 0
}

// Write appends buf verbatim to the screen (terminal_write), used by
// both direct program output and the echo path above.
func (t *Terminal_t) Write(buf []byte) (int, defs.Err_t) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeLocked(buf)
	return len(buf), 0
}

// Screen returns the rendered lines, for tests and for the console
// front-end to flush to the real display.
func (t *Terminal_t) Screen() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.screen))
	for i, row := range t.screen {
		out[i] = string(row)
	}
	return out
}

// ReadLine blocks until Enter has been pressed AND isForeground
// reports true (terminal_read's
// "!enter_status || display_terminal != cur_terminal" spin), then
// copies up to min(len(buf), 127) bytes, appends '\n' if the buffer
// hit its cap without one, and clears it.
func (t *Terminal_t) ReadLine(ctx context.Context, buf []byte, isForeground func() bool) (int, defs.Err_t) {
	t.mu.Lock()
	for !t.hasEnter || !isForeground() {
		if ctx.Err() != nil {
			t.mu.Unlock()
			return 0, defs.EIO
		}
		t.mu.Unlock()
		t.waitForEnterOrCtx(ctx)
		t.mu.Lock()
	}

	n := t.lineLen
	foundNewline := false
	limit := LineBufSize - 1
	if len(buf) < limit {
		limit = len(buf)
	}
	if n > limit {
		n = limit
	}
	for i := 0; i < n; i++ {
		buf[i] = t.line[i]
		if t.line[i] == '\n' {
			n = i + 1
			foundNewline = true
			break
		}
	}
	if n == limit && !foundNewline && n < len(buf) {
		buf[n] = '\n'
		n++
	}

	t.line = [LineBufSize]byte{}
	t.lineLen = 0
	t.hasEnter = false
	t.mu.Unlock()
	return n, 0
}

// waitForEnterOrCtx blocks on the enter condition, waking early if ctx
// is cancelled.
func (t *Terminal_t) waitForEnterOrCtx(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			t.mu.Lock()
			t.enterCond.Broadcast()
			t.mu.Unlock()
		case <-done:
		}
	}()
	defer close(done)

	t.mu.Lock()
	if !t.hasEnter && ctx.Err() == nil {
		t.enterCond.Wait()
	}
	t.mu.Unlock()
}

// Snapshot and Restore carry the per-terminal state terminal_switch
// saves/restores: cursor, line buffer plus index (spec.md §4.7 step
// 4/7). The video backing-page blit itself is the caller's
// responsibility (internal/vm + internal/mem own the pixels).
type Snapshot_t struct {
	Line    [LineBufSize]byte
	LineLen int
	CursorRow, CursorCol int
	Mods    Modifiers_t
}

func (t *Terminal_t) Snapshot() Snapshot_t {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot_t{
		Line: t.line, LineLen: t.lineLen,
		CursorRow: t.cursorRow, CursorCol: t.cursorCol,
		Mods: t.mods,
	}
}

func (t *Terminal_t) Restore(s Snapshot_t) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.line = s.Line
	t.lineLen = s.LineLen
	t.cursorRow, t.cursorCol = s.CursorRow, s.CursorCol
	t.mods = s.Mods
}
