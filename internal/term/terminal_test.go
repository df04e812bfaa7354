package term

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ece391/coreterm/internal/defs"
)

func TestPushScancodeAppendsAndEchoes(t *testing.T) {
	tm := New(0)
	tm.PushScancode(16) // q
	tm.PushScancode(17) // w
	require.Equal(t, []string{"qw"}, tm.Screen())
}

func TestFeedLineAppendsNewlineAndSetsHasEnter(t *testing.T) {
	tm := New(0)
	tm.FeedLine("ls -la")

	var buf [128]byte
	n, err := tm.ReadLine(context.Background(), buf[:], func() bool { return true })
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, "ls -la\n", string(buf[:n]))
}

func TestBackspaceRemovesLastChar(t *testing.T) {
	tm := New(0)
	tm.PushScancode(16)
	tm.PushScancode(0x0E) // backspace
	require.Equal(t, []string{""}, tm.Screen())
}

func TestClearScreenLeavesLineBufferIntact(t *testing.T) {
	tm := New(0)
	tm.PushScancode(16)
	tm.ClearScreen()
	require.Empty(t, tm.Screen())
	require.Equal(t, 1, tm.Snapshot().LineLen)
}

func TestReadLineBlocksUntilForegroundAndEnter(t *testing.T) {
	tm := New(0)
	foreground := false
	var mu = make(chan struct{}, 1)
	mu <- struct{}{}
	isForeground := func() bool {
		<-mu
		v := foreground
		mu <- struct{}{}
		return v
	}

	result := make(chan int, 1)
	go func() {
		buf := make([]byte, 32)
		n, _ := tm.ReadLine(context.Background(), buf, isForeground)
		result <- n
	}()

	time.Sleep(5 * time.Millisecond)
	tm.PushScancode(16)    // q
	tm.PushScancode(0x1C) // Enter (scancode 28); kbdScan maps it to '\n' while not foreground

	select {
	case <-result:
		t.Fatal("ReadLine returned before foreground was true")
	case <-time.After(20 * time.Millisecond):
	}

	<-mu
	foreground = true
	mu <- struct{}{}
	tm.PushScancode(28) // ENTER char scancode in kbd_scan produces '\n'

	select {
	case n := <-result:
		require.GreaterOrEqual(t, n, 1)
	case <-time.After(time.Second):
		t.Fatal("ReadLine never returned")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	tm := New(0)
	tm.PushScancode(16)
	snap := tm.Snapshot()
	require.Equal(t, 1, snap.LineLen)

	tm2 := New(1)
	tm2.Restore(snap)
	require.Equal(t, snap.Line, tm2.Snapshot().Line)
}

func TestWriteAppendsVerbatim(t *testing.T) {
	tm := New(defs.Tid_t(0))
	n, err := tm.Write([]byte("hi\n"))
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, 3, n)
	require.Equal(t, []string{"hi", ""}, tm.Screen())
}
