package tinyfs

import (
	"github.com/tinyfs-project/tinyfs/codec"
	"github.com/tinyfs-project/tinyfs/internal/timestamp"
)

// findByName scans blocks [2, blockCount-1] for a live inode with the given
// name, per spec.md §4.3. The scan is pinned to the volume's actual block
// count rather than a hardcoded ceiling (spec.md §9).
func (v *Volume) findByName(name string) (block int, found bool, err error) {
	for b := 2; b < v.blockCount; b++ {
		buf, err := v.readBlock(b)
		if err != nil {
			return 0, false, err
		}
		bt, err := codec.PeekType(buf)
		if err != nil {
			continue // not a TinyFS block we recognize; keep scanning
		}
		if bt != codec.TypeInode {
			continue
		}
		in, err := codec.DecodeInode(buf)
		if err != nil {
			continue
		}
		if in.InUse() && in.Name == name {
			return b, true, nil
		}
	}
	return 0, false, nil
}

// createInode allocates a block and writes a new, empty inode for name.
func (v *Volume) createInode(name string) (int, error) {
	block, err := v.allocate()
	if err != nil {
		return 0, err
	}
	now := timestamp.Epoch32()
	in := codec.Inode{
		Name:             name,
		SizeBytes:        0,
		FirstExtentBlock: 0,
		Metaflags:        codec.MetaflagInUse,
		Ctime:            now,
		Mtime:            now,
		Atime:            now,
	}
	if err := v.writeInode(block, in); err != nil {
		_ = v.release(block)
		return 0, err
	}
	return block, nil
}

// deleteInode walks inodeBlock's extent chain releasing each block, then
// releases the inode block itself (spec.md §4.3). A read error mid-walk
// releases what has been collected so far and surfaces the error, which
// may leak extent blocks but preserves I3 for blocks already released.
func (v *Volume) deleteInode(inodeBlock int) error {
	in, err := v.readInode(inodeBlock)
	if err != nil {
		return err
	}
	if err := v.releaseExtentChain(in.FirstExtentBlock); err != nil {
		return err
	}
	return v.release(inodeBlock)
}
