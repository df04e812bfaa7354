package fs

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ece391/coreterm/internal/defs"
)

// buildImage assembles a minimal two-entry image: one directory entry
// "." (FtDir) and one regular file "hello" (FtRegular) whose data
// spans two data blocks, in the same boot-block/inode-block/data-block
// layout filesystem.c uses.
func buildImage(t *testing.T, content []byte) []byte {
	t.Helper()
	const numInodes = 2
	const numData = 3

	buf := make([]byte, BlockSize*(1+numInodes+numData))
	binary.LittleEndian.PutUint32(buf[0:4], 2)         // dir_count
	binary.LittleEndian.PutUint32(buf[4:8], numInodes) // inode_count
	binary.LittleEndian.PutUint32(buf[8:12], numData)  // data_count

	writeDentry := func(i int, name string, ft defs.Filetype, inode uint32) {
		off := 12 + bootReserved + i*dentrySize
		copy(buf[off:off+MaxFilenameSize], name)
		binary.LittleEndian.PutUint32(buf[off+32:off+36], uint32(ft))
		binary.LittleEndian.PutUint32(buf[off+36:off+40], inode)
	}
	writeDentry(0, ".", defs.FtDir, 0)
	writeDentry(1, "hello", defs.FtRegular, 1)

	// inode 0: the directory's own inode, length 0, no data blocks.
	inodeOff := func(i uint32) int { return BlockSize + int(i)*BlockSize }
	binary.LittleEndian.PutUint32(buf[inodeOff(0):], 0)

	// inode 1: "hello", spans data blocks 0 and 1.
	binary.LittleEndian.PutUint32(buf[inodeOff(1):], uint32(len(content)))
	binary.LittleEndian.PutUint32(buf[inodeOff(1)+4:], 0)
	binary.LittleEndian.PutUint32(buf[inodeOff(1)+8:], 1)

	dataOff := func(i uint32) int { return BlockSize + numInodes*BlockSize + int(i)*BlockSize }
	copy(buf[dataOff(0):dataOff(0)+BlockSize], content[:min(len(content), BlockSize)])
	if len(content) > BlockSize {
		copy(buf[dataOff(1):], content[BlockSize:])
	}
	return buf
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func TestReadDentryByNameAndIndex(t *testing.T) {
	img, err := Load(buildImage(t, []byte("hi")))
	require.Equal(t, defs.Err_t(0), err)

	d, err := img.ReadDentryByName("hello")
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, defs.FtRegular, d.Filetype)

	d0, err := img.ReadDentryByIndex(0)
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, ".", d0.Name)

	_, err = img.ReadDentryByName("missing")
	require.Equal(t, defs.ENOENT, err)
}

func TestReadDataAcrossBlockBoundary(t *testing.T) {
	content := make([]byte, BlockSize+100)
	for i := range content {
		content[i] = byte(i % 251)
	}
	img, err := Load(buildImage(t, content))
	require.Equal(t, defs.Err_t(0), err)

	buf := make([]byte, len(content))
	n, err := img.ReadData(1, 0, buf)
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, len(content), n)
	require.Equal(t, content, buf)
}

func TestReadDataAtEndOfFileReturnsZero(t *testing.T) {
	img, err := Load(buildImage(t, []byte("hi")))
	require.Equal(t, defs.Err_t(0), err)

	buf := make([]byte, 10)
	n, err := img.ReadData(1, 2, buf)
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, 0, n)
}

func TestReadDataPastEndOfFileFails(t *testing.T) {
	img, err := Load(buildImage(t, []byte("hi")))
	require.Equal(t, defs.Err_t(0), err)

	buf := make([]byte, 10)
	n, err := img.ReadData(1, 100, buf)
	require.Equal(t, defs.EINVAL, err)
	require.Equal(t, 0, n)
}

func TestDirCursorEnumeratesThenStops(t *testing.T) {
	img, err := Load(buildImage(t, []byte("hi")))
	require.Equal(t, defs.Err_t(0), err)

	c := NewDirCursor(img)
	buf := make([]byte, MaxFilenameSize)

	n, err := c.Next(buf)
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, ".", string(buf[:n]))

	n, err = c.Next(buf)
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, "hello", string(buf[:n]))

	n, err = c.Next(buf)
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, 0, n)
}

func TestIsExecutableChecksElfMagic(t *testing.T) {
	content := append([]byte{0x7F, 'E', 'L', 'F'}, []byte("rest")...)
	img, err := Load(buildImage(t, content))
	require.Equal(t, defs.Err_t(0), err)
	require.True(t, img.IsExecutable("hello"))

	img2, err := Load(buildImage(t, []byte("not an elf file")))
	require.Equal(t, defs.Err_t(0), err)
	require.False(t, img2.IsExecutable("hello"))
}
