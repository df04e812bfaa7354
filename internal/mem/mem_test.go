package mem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectoryInitFixedSlots(t *testing.T) {
	var d Directory_t
	d.Init()

	require.True(t, d.Slot(0).Present)
	require.True(t, d.Slot(0).SuperPage)

	kslot := d.Slot(SlotKernel)
	require.True(t, kslot.Present)
	require.True(t, kslot.Global)
	require.Equal(t, Pa_t(SuperpageSize), kslot.Target)

	for i := 2; i < NumDirSlots; i++ {
		if i == SlotKernel || i == SlotUser || i == SlotVideo {
			continue
		}
		require.False(t, d.Slot(i).Present, "slot %d should be absent", i)
	}
}

func TestSetUserTargetsPidFrame(t *testing.T) {
	var d Directory_t
	d.Init()
	gen := d.Generation

	d.SetUser(3)
	slot := d.Slot(SlotUser)
	require.True(t, slot.Present)
	require.True(t, slot.User)
	require.Equal(t, KernelFrameBase+3*SuperpageSize, slot.Target)
	require.Greater(t, d.Generation, gen, "SetUser must bump the TLB generation")
}

func TestSetUserRejectsOutOfRangePid(t *testing.T) {
	var d Directory_t
	d.Init()
	require.Panics(t, func() { d.SetUser(6) })
	require.Panics(t, func() { d.SetUser(-1) })
}

func TestVideoSlotTogglesPresence(t *testing.T) {
	var d Directory_t
	d.Init()

	d.SetVideo(0xB8000)
	require.True(t, d.Slot(SlotVideo).Present)
	require.Equal(t, Pa_t(0xB8000), d.Slot(SlotVideo).Target)

	d.ClearVideo()
	require.False(t, d.Slot(SlotVideo).Present)
}

func TestPhysmemFramesAreIndependent(t *testing.T) {
	var p Physmem_t
	p.Init()

	p.Frame(0)[0] = 0xAA
	require.Equal(t, byte(0xAA), p.Frame(0)[0])
	require.Equal(t, byte(0), p.Frame(1)[0])
}
