// Package fs reads the read-only, flat-directory filesystem image
// spec.md §3 describes: a boot block of fixed-size directory entries,
// followed by inode blocks, followed by data blocks, all addressed by
// block number within one contiguous image. The layout and every
// helper here (ReadDentryByName, ReadDentryByIndex, ReadData,
// GetFilesize, GetFiletype, IsExecutable) is ground-truthed against
// original_source/student-distrib/filesystem.c rather than invented,
// since spec.md leaves the exact block-walking arithmetic implicit.
//
// The accessor-over-[]byte shape (BlockSize-wide fields read with
// encoding/binary rather than a cast C struct) follows biscuit's
// fs.Superblock_t convention of small typed field readers over a raw
// backing buffer.
package fs

import (
	"encoding/binary"

	"github.com/ece391/coreterm/internal/defs"
)

const (
	BlockSize       = 4096
	MaxFilenameSize = 32
	MaxDirEntries   = 63
	MaxDataBlocks   = 1023
	dentrySize      = 64
	bootReserved    = 52
	dentryReserved  = 24
)

// Dentry_t is one 64-byte directory entry.
type Dentry_t struct {
	Name     string
	Filetype defs.Filetype
	Inode    uint32
}

// Image_t is a parsed filesystem image: the boot block fields plus the
// raw bytes, which inode and data block reads index back into.
type Image_t struct {
	raw        []byte
	dirCount   uint32
	inodeCount uint32
	dataCount  uint32
}

// Load parses the boot block of a raw image. It does not copy raw;
// the image is expected to live for the lifetime of the kernel.
func Load(raw []byte) (*Image_t, defs.Err_t) {
	if len(raw) < BlockSize {
		return nil, defs.EIO
	}
	img := &Image_t{
		raw:        raw,
		dirCount:   binary.LittleEndian.Uint32(raw[0:4]),
		inodeCount: binary.LittleEndian.Uint32(raw[4:8]),
		dataCount:  binary.LittleEndian.Uint32(raw[8:12]),
	}
	if img.dirCount > MaxDirEntries {
		return nil, defs.EIO
	}
	return img, 0
}

func (img *Image_t) inodeBlockAt(i uint32) []byte {
	off := BlockSize + int(i)*BlockSize
	return img.raw[off : off+BlockSize]
}

func (img *Image_t) dataBlockAt(i uint32) []byte {
	off := BlockSize + int(img.inodeCount)*BlockSize + int(i)*BlockSize
	return img.raw[off : off+BlockSize]
}

func (img *Image_t) dentryAt(i uint32) Dentry_t {
	const headerSize = 12 + bootReserved
	off := headerSize + int(i)*dentrySize
	raw := img.raw[off : off+dentrySize]

	nameEnd := 0
	for nameEnd < MaxFilenameSize && raw[nameEnd] != 0 {
		nameEnd++
	}
	return Dentry_t{
		Name:     string(raw[:nameEnd]),
		Filetype: defs.Filetype(binary.LittleEndian.Uint32(raw[32:36])),
		Inode:    binary.LittleEndian.Uint32(raw[36:40]),
	}
}

// ReadDentryByName scans every directory entry for an exact name
// match (filesystem.c: strncmp over MAX_FILENAME_SIZE).
func (img *Image_t) ReadDentryByName(name string) (Dentry_t, defs.Err_t) {
	if len(name) > MaxFilenameSize {
		return Dentry_t{}, defs.EINVAL
	}
	for i := uint32(0); i < img.dirCount; i++ {
		d := img.dentryAt(i)
		if d.Name == name {
			return d, 0
		}
	}
	return Dentry_t{}, defs.ENOENT
}

// ReadDentryByIndex fetches directory entry index, used by
// directory_read to enumerate one name per call.
func (img *Image_t) ReadDentryByIndex(index uint32) (Dentry_t, defs.Err_t) {
	if index >= img.dirCount {
		return Dentry_t{}, defs.ENOENT
	}
	return img.dentryAt(index), 0
}

// inodeLength and inodeBlockNum read the fixed inode layout: a 4-byte
// length followed by up to 1023 4-byte data block numbers.
func (img *Image_t) inodeLength(inode uint32) uint32 {
	blk := img.inodeBlockAt(inode)
	return binary.LittleEndian.Uint32(blk[0:4])
}

func (img *Image_t) inodeBlockNum(inode, i uint32) uint32 {
	blk := img.inodeBlockAt(inode)
	off := 4 + int(i)*4
	return binary.LittleEndian.Uint32(blk[off : off+4])
}

// ReadData copies up to len(buf) bytes from inode starting at offset,
// walking the inode's data block list exactly as filesystem.c's
// read_data does: crop length to the remaining file size, then copy
// block by block, the first block partial from byte_offset and every
// following block whole or partial depending on what remains.
func (img *Image_t) ReadData(inode uint32, offset uint32, buf []byte) (int, defs.Err_t) {
	if inode >= img.inodeCount {
		return 0, defs.EIO
	}
	length := uint32(len(buf))
	flen := img.inodeLength(inode)
	if offset > flen {
		return 0, defs.EINVAL
	}
	if offset == flen {
		return 0, 0
	}
	if length > flen-offset {
		length = flen - offset
	}

	blockOffset := offset / BlockSize
	byteOffset := offset % BlockSize

	copySize := length
	if rest := BlockSize - byteOffset; length > rest {
		copySize = rest
	}
	blockIdx := img.inodeBlockNum(inode, blockOffset)
	if blockIdx >= img.dataCount {
		return 0, defs.EIO
	}
	src := img.dataBlockAt(blockIdx)[byteOffset : byteOffset+copySize]
	copy(buf[:copySize], src)
	copied := copySize

	i := uint32(1)
	for copied < length {
		remaining := length - copied
		copySize = remaining
		if remaining > BlockSize {
			copySize = BlockSize
		}
		blockIdx = img.inodeBlockNum(inode, i+blockOffset)
		if blockIdx >= img.dataCount {
			return 0, defs.EIO
		}
		src = img.dataBlockAt(blockIdx)[:copySize]
		copy(buf[copied:copied+copySize], src)
		copied += copySize
		i++
	}
	return int(copied), 0
}

// GetFilesize returns the byte length recorded in name's inode.
func (img *Image_t) GetFilesize(name string) (uint32, defs.Err_t) {
	d, err := img.ReadDentryByName(name)
	if err != 0 {
		return 0, err
	}
	return img.inodeLength(d.Inode), 0
}

// GetFiletype returns name's directory-entry filetype.
func (img *Image_t) GetFiletype(name string) (defs.Filetype, defs.Err_t) {
	d, err := img.ReadDentryByName(name)
	if err != 0 {
		return 0, err
	}
	return d.Filetype, 0
}

// IsExecutable reports whether name is a regular file whose first
// four bytes are the ELF magic (0x7F 'E' 'L' 'F').
func (img *Image_t) IsExecutable(name string) bool {
	d, err := img.ReadDentryByName(name)
	if err != 0 || d.Filetype != defs.FtRegular {
		return false
	}
	var magic [4]byte
	n, err := img.ReadData(d.Inode, 0, magic[:])
	if err != 0 || n < 4 {
		return false
	}
	return magic[0] == 0x7F && magic[1] == 'E' && magic[2] == 'L' && magic[3] == 'F'
}

// CopyImage reads all of name's data into dst (spec.md §6: copying a
// program image to ProgramImageAddr before execution).
func (img *Image_t) CopyImage(name string, dst []byte) (int, defs.Err_t) {
	d, err := img.ReadDentryByName(name)
	if err != 0 {
		return 0, err
	}
	return img.ReadData(d.Inode, 0, dst)
}
