// Package fdops defines the open-file contract every fd-table entry
// satisfies (spec.md §9's tagged-variant design note) and the five
// concrete file kinds the kernel ever opens: a regular file, the
// single "." directory, the RTC device, and the two terminal stream
// halves.
//
// Rather than one File_i with both Read and Write and a runtime
// "not supported" check inside every implementation (the shape
// biscuit's own Fdops_i would suggest were it present in this
// checkout), read and write capability are split into Reader_i and
// Writer_i. TerminalIn_t has no Write method and TerminalOut_t has no
// Read method: the absence is a compile-time fact about the type, not
// a branch inside a method body. internal/fd's dispatch type-asserts
// Fops against the interface it needs and returns ENOSYS when the
// assertion fails, which is the only place the "this kind of file
// doesn't support that operation" check lives.
package fdops

import (
	"context"

	"github.com/ece391/coreterm/internal/defs"
)

// File_i is satisfied by every open file kind.
type File_i interface {
	Close() defs.Err_t
}

// Reader_i is satisfied by file kinds that support read.
type Reader_i interface {
	File_i
	Read(ctx context.Context, buf []byte) (int, defs.Err_t)
}

// Writer_i is satisfied by file kinds that support write.
type Writer_i interface {
	File_i
	Write(ctx context.Context, buf []byte) (int, defs.Err_t)
}
