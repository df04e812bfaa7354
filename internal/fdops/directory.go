package fdops

import (
	"context"

	"github.com/ece391/coreterm/internal/defs"
	"github.com/ece391/coreterm/internal/fs"
)

// Directory_t is the open "." directory: each Read call returns the
// next filename, not arbitrary bytes (directory_read in filesystem.c).
// This image format only ever has the one directory, so there is
// nothing to distinguish which directory was opened; the name is
// accepted at open time purely so a lookup miss still surfaces
// ENOENT.
type Directory_t struct {
	cursor *fs.DirCursor_t
	closed bool
}

// NewDirectory opens img's directory for enumeration.
func NewDirectory(img *fs.Image_t) *Directory_t {
	return &Directory_t{cursor: fs.NewDirCursor(img)}
}

// Read writes the next filename into buf and advances the cursor; it
// returns 0 once every entry has been enumerated.
func (d *Directory_t) Read(ctx context.Context, buf []byte) (int, defs.Err_t) {
	if d.closed {
		return 0, defs.EINVAL
	}
	return d.cursor.Next(buf)
}

// Close marks the directory unusable for further reads; each open
// builds a new Directory_t with its own cursor.
func (d *Directory_t) Close() defs.Err_t {
	d.closed = true
	return 0
}
