package tinyfs

import (
	"errors"
	"fmt"

	"github.com/tinyfs-project/tinyfs/codec"
	"github.com/tinyfs-project/tinyfs/internal/timestamp"
)

// diskIOErr narrows a block-layer failure to ErrDiskIO, per spec.md §6's
// error table: write/delete/rename report disk failures as DiskIO, reserving
// DiskRead/DiskWrite for mount/mkfs. CorruptFS, ErrNoSpace, and other
// non-disk errors pass through unchanged.
func diskIOErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrDiskRead) || errors.Is(err, ErrDiskWrite) {
		return fmt.Errorf("%w: %v", ErrDiskIO, err)
	}
	return err
}

// Open returns the descriptor for name, creating its inode if this is the
// first time name has been seen. Opening an already-open name returns the
// same descriptor rather than a new one (spec.md §4.4).
func (v *Volume) Open(name string) (FileDescriptor, error) {
	if !v.mounted() {
		return 0, ErrNotMounted
	}
	if err := validateName(name); err != nil {
		return 0, err
	}
	if fd, ok := v.findOpenByName(name); ok {
		return fd, nil
	}
	fd := v.findFreeSlot()
	if fd < 0 {
		return 0, ErrTooManyOpen
	}

	inodeBlock, found, err := v.findByName(name)
	if err != nil {
		return 0, err
	}
	if !found {
		inodeBlock, err = v.createInode(name)
		if err != nil {
			return 0, err
		}
	}

	v.openFiles[fd] = openFileEntry{inUse: true, inodeBlock: inodeBlock, filePtr: 0, name: name}
	return fd, nil
}

// Close releases fd's slot in the open-file table.
func (v *Volume) Close(fd FileDescriptor) error {
	if !v.mounted() {
		return ErrNotMounted
	}
	if !v.isValidFD(fd) {
		return ErrBadFD
	}
	v.openFiles[fd] = openFileEntry{}
	return nil
}

// Write replaces fd's contents with buffer and resets its file pointer to 0.
func (v *Volume) Write(fd FileDescriptor, buffer []byte) error {
	if !v.mounted() {
		return ErrNotMounted
	}
	if !v.isValidFD(fd) {
		return ErrBadFD
	}
	inodeBlock := v.openFiles[fd].inodeBlock
	if err := v.writeFile(inodeBlock, buffer); err != nil {
		return diskIOErr(err)
	}
	v.openFiles[fd].filePtr = 0
	return nil
}

// Delete removes fd's file entirely: its extent chain, its inode block, and
// its open-file table entry.
func (v *Volume) Delete(fd FileDescriptor) error {
	if !v.mounted() {
		return ErrNotMounted
	}
	if !v.isValidFD(fd) {
		return ErrBadFD
	}
	inodeBlock := v.openFiles[fd].inodeBlock
	if err := v.deleteInode(inodeBlock); err != nil {
		return diskIOErr(err)
	}
	v.openFiles[fd] = openFileEntry{}
	return nil
}

// Seek sets fd's file pointer to offset, which must be within [0, size].
func (v *Volume) Seek(fd FileDescriptor, offset int) error {
	if !v.mounted() {
		return ErrNotMounted
	}
	if !v.isValidFD(fd) {
		return ErrBadFD
	}
	if offset < 0 {
		return ErrSeekOutOfRange
	}
	in, err := v.readInode(v.openFiles[fd].inodeBlock)
	if err != nil {
		return err
	}
	if offset > int(in.SizeBytes) {
		return ErrSeekOutOfRange
	}
	v.openFiles[fd].filePtr = offset
	return nil
}

// ReadByte reads the single byte at fd's current file pointer into out,
// then advances the pointer by one. It returns ErrEndOfFile once the
// pointer reaches the file's size.
func (v *Volume) ReadByte(fd FileDescriptor, out *byte) error {
	if !v.mounted() {
		return ErrNotMounted
	}
	if !v.isValidFD(fd) {
		return ErrBadFD
	}
	in, err := v.readInode(v.openFiles[fd].inodeBlock)
	if err != nil {
		return err
	}
	fp := v.openFiles[fd].filePtr
	if fp >= int(in.SizeBytes) {
		return ErrEndOfFile
	}

	extentIndex := fp / codec.ExtentPayloadSize
	within := fp % codec.ExtentPayloadSize
	block, err := v.extentBlockAt(in.FirstExtentBlock, extentIndex)
	if err != nil {
		return err
	}
	ext, err := v.readExtent(block)
	if err != nil {
		return err
	}
	*out = ext.Data[within]
	v.openFiles[fd].filePtr = fp + 1
	return nil
}

// Rename changes fd's name both on disk and in the open-file table.
func (v *Volume) Rename(fd FileDescriptor, newName string) error {
	if !v.mounted() {
		return ErrNotMounted
	}
	if !v.isValidFD(fd) {
		return ErrBadFD
	}
	if err := validateName(newName); err != nil {
		return err
	}
	inodeBlock := v.openFiles[fd].inodeBlock
	in, err := v.readInode(inodeBlock)
	if err != nil {
		return diskIOErr(err)
	}
	in.Name = newName
	now := timestamp.Epoch32()
	in.Mtime = now
	in.Atime = now
	if err := v.writeInode(inodeBlock, in); err != nil {
		return diskIOErr(err)
	}
	v.openFiles[fd].name = newName
	return nil
}

// FileInfo is the metadata Stat returns, matching the original's
// tfsFileInfo fields (spec.md §4.7, SPEC_FULL.md §7).
type FileInfo struct {
	Name             string
	SizeBytes        int
	Ctime, Mtime, Atime uint32
	InodeBlock       int
}

// Stat loads fd's inode metadata.
func (v *Volume) Stat(fd FileDescriptor) (FileInfo, error) {
	if !v.mounted() {
		return FileInfo{}, ErrNotMounted
	}
	if !v.isValidFD(fd) {
		return FileInfo{}, ErrBadFD
	}
	inodeBlock := v.openFiles[fd].inodeBlock
	in, err := v.readInode(inodeBlock)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{
		Name:       in.Name,
		SizeBytes:  int(in.SizeBytes),
		Ctime:      in.Ctime,
		Mtime:      in.Mtime,
		Atime:      in.Atime,
		InodeBlock: inodeBlock,
	}, nil
}

// DirEntry is one line of a Readdir listing.
type DirEntry struct {
	InodeBlock int
	Name       string
	SizeBytes  int
}

// Readdir scans every block of the mounted volume and returns one DirEntry
// per live inode, including the root (spec.md §9's pinned resolution).
func (v *Volume) Readdir() ([]DirEntry, error) {
	if !v.mounted() {
		return nil, ErrNotMounted
	}
	var entries []DirEntry
	for b := 0; b < v.blockCount; b++ {
		buf, err := v.readBlock(b)
		if err != nil {
			return nil, err
		}
		bt, err := codec.PeekType(buf)
		if err != nil {
			continue
		}
		if bt != codec.TypeInode {
			continue
		}
		in, err := codec.DecodeInode(buf)
		if err != nil {
			continue
		}
		if !in.InUse() {
			continue
		}
		if in.Name == "" && in.SizeBytes == 0 && b != codec.RootInodeBlock {
			continue
		}
		entries = append(entries, DirEntry{InodeBlock: b, Name: in.Name, SizeBytes: int(in.SizeBytes)})
	}
	return entries, nil
}
