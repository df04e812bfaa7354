package proc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// TestPcbFieldOrder pins the fixed layout pcb.h demands of its C
// struct: the rendezvous channel and entry point must precede
// everything else, mirroring esp/ebp/eip's "DO NOT MOVE OR CHANGE
// ORDER" comment.
func TestPcbFieldOrder(t *testing.T) {
	var p Pcb_t
	require.Less(t, unsafe.Offsetof(p.done), unsafe.Offsetof(p.Eip))
	require.Less(t, unsafe.Offsetof(p.Eip), unsafe.Offsetof(p.Fds))
	require.Less(t, unsafe.Offsetof(p.Fds), unsafe.Offsetof(p.Parent))
	require.Less(t, unsafe.Offsetof(p.Parent), unsafe.Offsetof(p.Child))
}

func TestArgStringCutsAtNul(t *testing.T) {
	var p Pcb_t
	copy(p.Args[:], "hello")
	require.Equal(t, "hello", p.ArgString())
}
