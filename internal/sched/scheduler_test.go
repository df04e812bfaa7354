package sched

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ece391/coreterm/internal/defs"
	"github.com/ece391/coreterm/internal/term"
)

func TestTickNoopBeforeAnyShellLaunched(t *testing.T) {
	mux := term.NewMultiplexer()
	s := New(mux)

	s.Tick()
	require.Equal(t, defs.Tid_t(0), mux.Current())
}

func TestTickSkipsIdleTerminals(t *testing.T) {
	mux := term.NewMultiplexer()
	mux.Terminal(0).Pid = 0
	mux.Terminal(0).RunningProcesses = 1
	mux.Terminal(2).Pid = 2
	mux.Terminal(2).RunningProcesses = 1
	// terminal 1 has nothing running and should be skipped.

	var remapped []defs.Tid_t
	mux.RemapVideo = func(cur, display defs.Tid_t) { remapped = append(remapped, cur) }
	var mapped []defs.Pid_t
	mux.MapUser = func(pid defs.Pid_t) { mapped = append(mapped, pid) }

	s := New(mux)
	s.Tick()

	require.Equal(t, defs.Tid_t(2), mux.Current())
	require.Equal(t, []defs.Tid_t{2}, remapped)
	require.Equal(t, []defs.Pid_t{2}, mapped)
}

func TestTickMapsUserSlotToNewlyScheduledPid(t *testing.T) {
	mux := term.NewMultiplexer()
	for i := 0; i < defs.NumTerminals; i++ {
		mux.Terminal(defs.Tid_t(i)).Pid = defs.Pid_t(i)
		mux.Terminal(defs.Tid_t(i)).RunningProcesses = 1
	}

	var mapped []defs.Pid_t
	mux.MapUser = func(pid defs.Pid_t) { mapped = append(mapped, pid) }

	s := New(mux)
	s.Tick()

	require.Equal(t, defs.Tid_t(1), mux.Current())
	require.Equal(t, []defs.Pid_t{1}, mapped)
}

func TestTickNoopWhenNoOtherTerminalRunnable(t *testing.T) {
	mux := term.NewMultiplexer()
	mux.Terminal(0).Pid = 0
	mux.Terminal(0).RunningProcesses = 1

	remapCalls := 0
	mux.RemapVideo = func(cur, display defs.Tid_t) { remapCalls++ }

	s := New(mux)
	s.Tick()

	require.Equal(t, defs.Tid_t(0), mux.Current())
	require.Equal(t, 0, remapCalls)
}

func TestTickWrapsAroundToTerminalZero(t *testing.T) {
	mux := term.NewMultiplexer()
	for i := 0; i < defs.NumTerminals; i++ {
		mux.Terminal(defs.Tid_t(i)).Pid = defs.Pid_t(i)
		mux.Terminal(defs.Tid_t(i)).RunningProcesses = 1
	}
	mux.SetCurrent(2)

	s := New(mux)
	s.Tick()

	require.Equal(t, defs.Tid_t(0), mux.Current())
}
