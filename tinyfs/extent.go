package tinyfs

import (
	"github.com/tinyfs-project/tinyfs/codec"
	"github.com/tinyfs-project/tinyfs/internal/timestamp"
)

// writeFile replaces inodeBlock's data with buffer, per spec.md §4.5: the
// old chain is released before the new one is built. If the new allocation
// fails partway through, every block taken during this attempt is released
// and the file is left empty — losing the previous contents is a deliberate,
// documented trade-off of this eager free-then-allocate design, not a bug.
func (v *Volume) writeFile(inodeBlock int, buffer []byte) error {
	in, err := v.readInode(inodeBlock)
	if err != nil {
		return err
	}

	if err := v.releaseExtentChain(in.FirstExtentBlock); err != nil {
		return err
	}

	size := len(buffer)
	if size == 0 {
		in.FirstExtentBlock = 0
		in.SizeBytes = 0
		in.Mtime = timestamp.Epoch32()
		return v.writeInode(inodeBlock, in)
	}

	need := (size + codec.ExtentPayloadSize - 1) / codec.ExtentPayloadSize
	allocated := make([]int, 0, need)
	for i := 0; i < need; i++ {
		block, err := v.allocate()
		if err != nil {
			for _, b := range allocated {
				_ = v.release(b)
			}
			in.FirstExtentBlock = 0
			in.SizeBytes = 0
			in.Mtime = timestamp.Epoch32()
			if err := v.writeInode(inodeBlock, in); err != nil {
				return err
			}
			return ErrNoSpace
		}
		allocated = append(allocated, block)
	}

	written := 0
	for i, block := range allocated {
		var next uint32
		if i < len(allocated)-1 {
			next = uint32(allocated[i+1])
		}
		end := written + codec.ExtentPayloadSize
		if end > size {
			end = size
		}
		ext := codec.FileExtentRecord{NextBlock: next, Data: buffer[written:end]}
		if err := v.writeExtent(block, ext); err != nil {
			return err
		}
		written = end
	}

	in.FirstExtentBlock = int32(allocated[0])
	in.SizeBytes = int32(size)
	in.Mtime = timestamp.Epoch32()
	if err := v.writeInode(inodeBlock, in); err != nil {
		return err
	}
	return nil
}

// extentBlockAt walks the chain rooted at first, extentIndex hops in,
// following NextBlock pointers. A zero pointer before reaching extentIndex
// hops, or a wrong-typed block along the way, is a CorruptFS condition per
// spec.md §4.6.
func (v *Volume) extentBlockAt(first int32, extentIndex int) (int, error) {
	block := first
	for i := 0; i < extentIndex; i++ {
		if block == 0 {
			return 0, ErrCorruptFS
		}
		ext, err := v.readExtent(int(block))
		if err != nil {
			return 0, err
		}
		block = int32(ext.NextBlock)
	}
	if block == 0 {
		return 0, ErrCorruptFS
	}
	return int(block), nil
}
