package proc

import "context"

// Body_i is the executable content of a registered program: since
// this kernel never interprets x86 instructions, a "program image" is
// a Go function that runs with a Syscalls handle, standing in for
// user code trapping into the kernel (spec.md §9's design note on
// representing execution without an instruction interpreter). It
// returns the status halt() would have been called with, or the
// caller can call Syscalls.Halt explicitly partway through to end
// early with a specific code.
type Body_i func(ctx context.Context, sc *Syscalls) int32

// Registry maps an executable's filesystem name to its body. A name
// present here and IsExecutable in the filesystem image are two
// independent gates execute() must pass (spec.md §4.4): this is the
// "is there actually code to run" half.
type Registry map[string]Body_i
