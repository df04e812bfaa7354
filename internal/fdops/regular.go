package fdops

import (
	"context"

	"github.com/ece391/coreterm/internal/defs"
	"github.com/ece391/coreterm/internal/fs"
)

// RegularFile_t is an open regular file: its own read position, like
// file_read's pcb->file_array[fd].file_position (filesystem.c), kept
// here instead of in the PCB since biscuit keeps per-fd state inside
// the Fdops_i implementation rather than the process.
type RegularFile_t struct {
	img    *fs.Image_t
	inode  uint32
	pos    uint32
	closed bool
}

// NewRegularFile opens inode for reading from position 0.
func NewRegularFile(img *fs.Image_t, inode uint32) *RegularFile_t {
	return &RegularFile_t{img: img, inode: inode}
}

// Read copies the next len(buf) bytes (or fewer, at EOF) and advances
// the file position.
func (f *RegularFile_t) Read(ctx context.Context, buf []byte) (int, defs.Err_t) {
	if f.closed {
		return 0, defs.EINVAL
	}
	n, err := f.img.ReadData(f.inode, f.pos, buf)
	if err != 0 {
		return 0, err
	}
	f.pos += uint32(n)
	return n, 0
}

// Close marks the file unusable for further reads.
func (f *RegularFile_t) Close() defs.Err_t {
	f.closed = true
	return 0
}
