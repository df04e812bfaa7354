package mem

// VideoCols and VideoRows are the VGA text-mode dimensions.
const VideoCols = 80
const VideoRows = 25

// VideoBytes is the size in bytes of one screen's worth of VGA text
// (two bytes per cell: character + attribute).
const VideoBytes = VideoCols * VideoRows * 2

// Physmem_t is the simulated physical memory backing the kernel: the
// real VGA buffer, one 4 KiB off-screen backing page per terminal
// (spec.md §3: "located immediately after the real VGA buffer... at
// 0xB8000 + 4 KiB*(tid+1)"), and one 4 MiB frame per pid slot.
type Physmem_t struct {
	Vga     [VideoBytes]byte
	Backing [3][PGSIZE]byte
	frames  [6][]byte
}

// Init allocates the per-pid user frames.
func (p *Physmem_t) Init() {
	for i := range p.frames {
		p.frames[i] = make([]byte, SuperpageSize)
	}
}

// Frame returns the 4 MiB physical frame owned by pid.
func (p *Physmem_t) Frame(pid int) []byte {
	return p.frames[pid]
}
