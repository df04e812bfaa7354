package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ece391/coreterm/internal/defs"
	"github.com/ece391/coreterm/internal/mem"
)

func TestMapUserBumpsGeneration(t *testing.T) {
	var as Addrspace_t
	as.Init()
	g0 := as.Generation()

	as.MapUser(2)
	require.Greater(t, as.Generation(), g0)

	slot := as.Slot(mem.SlotUser)
	require.True(t, slot.Present)
	require.Equal(t, mem.KernelFrameBase+2*mem.SuperpageSize, slot.Target)
}

func TestMapVideoPicksRealOrBackingBuffer(t *testing.T) {
	var as Addrspace_t
	as.Init()

	as.MapVideo(defs.Tid_t(0), defs.Tid_t(0), 0xB8000, 0xB9000)
	require.Equal(t, mem.Pa_t(0xB8000), as.Slot(mem.SlotVideo).Target)

	as.MapVideo(defs.Tid_t(1), defs.Tid_t(0), 0xB8000, 0xB9000)
	require.Equal(t, mem.Pa_t(0xB9000), as.Slot(mem.SlotVideo).Target)
}

func TestClearVideoRemovesSlot(t *testing.T) {
	var as Addrspace_t
	as.Init()
	as.MapVideo(defs.Tid_t(0), defs.Tid_t(0), 0xB8000, 0xB9000)
	as.ClearVideo()
	require.False(t, as.Slot(mem.SlotVideo).Present)
}
