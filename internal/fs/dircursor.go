package fs

import "github.com/ece391/coreterm/internal/defs"

// DirCursor_t tracks the directory_read enumeration position for one
// open directory fd (filesystem.c's global dir_index, made per-fd
// instead of a single global since this kernel allows more than one
// fd to have a directory open at once).
type DirCursor_t struct {
	img   *Image_t
	index uint32
}

// NewDirCursor starts a cursor at entry 0.
func NewDirCursor(img *Image_t) *DirCursor_t {
	return &DirCursor_t{img: img}
}

// Next copies the next directory entry's name into buf, truncated to
// MaxFilenameSize, and advances the cursor. It returns 0 once every
// entry has been read, mirroring read_dentry_by_index's "no more
// entries" case in directory_read.
func (c *DirCursor_t) Next(buf []byte) (int, defs.Err_t) {
	d, err := c.img.ReadDentryByIndex(c.index)
	if err != 0 {
		return 0, 0
	}
	c.index++
	n := len(d.Name)
	if n > MaxFilenameSize {
		n = MaxFilenameSize
	}
	if n > len(buf) {
		n = len(buf)
	}
	copy(buf, d.Name[:n])
	return n, 0
}
