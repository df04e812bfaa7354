// Command mkimage builds a coreterm filesystem image from a flat host
// directory, the way biscuit's mkfs walks a skeleton directory tree
// and replicates it into a disk image (mkfs.go's addfiles/copydata).
// This image format has no subdirectories (spec.md §3: "." is the
// only directory entry this format has), so unlike mkfs the walk is
// one level deep and every regular file in skeldir becomes one
// top-level dentry.
package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ece391/coreterm/internal/defs"
	"github.com/ece391/coreterm/internal/fs"
)

func usage(me string) {
	fmt.Printf("%s <skeldir> <output-image>\n\nBuild a coreterm filesystem image from skeldir's top-level files.\n", me)
	os.Exit(1)
}

func main() {
	if len(os.Args) != 3 {
		usage(os.Args[0])
	}
	skelDir, outPath := os.Args[1], os.Args[2]

	entries, err := os.ReadDir(skelDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mkimage: %v\n", err)
		os.Exit(1)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			fmt.Printf("mkimage: skipping subdirectory %q, this image format is flat\n", e.Name())
			continue
		}
		files = append(files, e.Name())
	}
	if len(files) > fs.MaxDirEntries-1 {
		fmt.Fprintf(os.Stderr, "mkimage: %d files exceeds the %d-entry directory cap\n", len(files), fs.MaxDirEntries-1)
		os.Exit(1)
	}

	img, err2 := build(skelDir, files)
	if err2 != nil {
		fmt.Fprintf(os.Stderr, "mkimage: %v\n", err2)
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, img, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "mkimage: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("mkimage: wrote %s (%d dentries, %d bytes)\n", outPath, len(files)+1, len(img))
}

const (
	blockSize      = fs.BlockSize
	dentrySize     = 64
	headerSize     = 12 + 52
	maxDataBlocks  = fs.MaxDataBlocks
)

// build lays out the boot block, one inode block per file, and as
// many data blocks as every file's contents need, in that order,
// exactly the section order internal/fs.Image_t expects.
func build(skelDir string, files []string) ([]byte, error) {
	contents := make([][]byte, len(files))
	for i, name := range files {
		b, err := os.ReadFile(filepath.Join(skelDir, name))
		if err != nil {
			return nil, err
		}
		contents[i] = b
	}

	inodeCount := uint32(len(files))
	var dataBlocks [][]byte
	inodeDataStart := make([]uint32, len(files))
	for i, b := range contents {
		inodeDataStart[i] = uint32(len(dataBlocks))
		for off := 0; off < len(b); off += blockSize {
			end := off + blockSize
			if end > len(b) {
				end = len(b)
			}
			block := make([]byte, blockSize)
			copy(block, b[off:end])
			dataBlocks = append(dataBlocks, block)
		}
	}
	if len(dataBlocks) > maxDataBlocks {
		return nil, fmt.Errorf("%d data blocks exceeds the %d-block cap", len(dataBlocks), maxDataBlocks)
	}

	dirCount := uint32(len(files) + 1) // "." plus one dentry per file
	totalBlocks := 1 + int(inodeCount) + len(dataBlocks)
	out := make([]byte, totalBlocks*blockSize)

	binary.LittleEndian.PutUint32(out[0:4], dirCount)
	binary.LittleEndian.PutUint32(out[4:8], inodeCount)
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(dataBlocks)))

	writeDentry(out, 0, ".", defs.FtDir, 0)
	for i, name := range files {
		writeDentry(out, uint32(i+1), name, defs.FtRegular, uint32(i))
	}

	for i, b := range contents {
		blk := out[blockSize+int(i)*blockSize : blockSize+(int(i)+1)*blockSize]
		binary.LittleEndian.PutUint32(blk[0:4], uint32(len(b)))
		nblocks := (len(b) + blockSize - 1) / blockSize
		for j := 0; j < nblocks; j++ {
			binary.LittleEndian.PutUint32(blk[4+j*4:8+j*4], inodeDataStart[i]+uint32(j))
		}
	}

	dataStart := blockSize * (1 + int(inodeCount))
	for i, block := range dataBlocks {
		copy(out[dataStart+i*blockSize:dataStart+(i+1)*blockSize], block)
	}

	return out, nil
}

func writeDentry(out []byte, index uint32, name string, ftype defs.Filetype, inode uint32) {
	off := headerSize + int(index)*dentrySize
	slot := out[off : off+dentrySize]
	copy(slot[0:fs.MaxFilenameSize], name)
	binary.LittleEndian.PutUint32(slot[32:36], uint32(ftype))
	binary.LittleEndian.PutUint32(slot[36:40], inode)
}
