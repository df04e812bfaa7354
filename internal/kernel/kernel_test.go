package kernel

import (
	"bytes"
	"context"
	"encoding/binary"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ece391/coreterm/internal/config"
	"github.com/ece391/coreterm/internal/defs"
	"github.com/ece391/coreterm/internal/fs"
	"github.com/ece391/coreterm/internal/klog"
	"github.com/ece391/coreterm/internal/mem"
	"github.com/ece391/coreterm/internal/proc"
)

// buildBootImage assembles a one-inode, ELF-tagged "shell" executable,
// the minimum a boot image needs for Boot to get past the executable
// gate.
func buildBootImage(t *testing.T) []byte {
	t.Helper()
	buf := make([]byte, fs.BlockSize*3)
	binary.LittleEndian.PutUint32(buf[0:4], 1)
	binary.LittleEndian.PutUint32(buf[4:8], 1)
	binary.LittleEndian.PutUint32(buf[8:12], 1)

	off := 12 + 52
	copy(buf[off:off+32], "shell")
	binary.LittleEndian.PutUint32(buf[off+32:off+36], uint32(defs.FtRegular))
	binary.LittleEndian.PutUint32(buf[off+36:off+40], 0)

	content := make([]byte, 28)
	content[0], content[1], content[2], content[3] = 0x7F, 'E', 'L', 'F'
	binary.LittleEndian.PutUint32(buf[fs.BlockSize:], uint32(len(content)))
	copy(buf[fs.BlockSize*2:], content)
	return buf
}

func testConfig() config.Config_t {
	return config.Config_t{TickInterval: 2 * time.Millisecond, RtcFreq: 2}
}

func TestBootRunsShellUntilExit(t *testing.T) {
	img := buildBootImage(t)
	var logbuf bytes.Buffer
	log := klog.New(&logbuf, slog.LevelInfo, false)

	var calls int
	reg := proc.Registry{"shell": func(ctx context.Context, sc *proc.Syscalls) int32 {
		calls++
		sc.Halt(0)
		panic("unreachable")
	}}

	k, err := New(testConfig(), img, log, reg)
	require.Equal(t, defs.Err_t(0), err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	status := k.Boot(ctx)
	require.EqualValues(t, 0, status)
	require.Equal(t, 1, calls)
}

func TestBootWiresRemapVideoOnTerminalSwitch(t *testing.T) {
	img := buildBootImage(t)
	var logbuf bytes.Buffer
	log := klog.New(&logbuf, slog.LevelInfo, false)

	block := make(chan struct{})
	reg := proc.Registry{"shell": func(ctx context.Context, sc *proc.Syscalls) int32 {
		<-block
		sc.Halt(0)
		panic("unreachable")
	}}

	k, err := New(testConfig(), img, log, reg)
	require.Equal(t, defs.Err_t(0), err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan int32, 1)
	go func() { done <- k.Boot(ctx) }()
	time.Sleep(10 * time.Millisecond)

	ok := k.Mux.SwitchTerminal(1, k.Proc.HasFreePid)
	require.True(t, ok)
	require.True(t, k.As.Slot(mem.SlotVideo).Present)
	require.Eventually(t, func() bool { return k.Mux.Current() == 1 }, 100*time.Millisecond, 2*time.Millisecond)

	close(block)
	cancel()
	<-done
}
