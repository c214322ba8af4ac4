package tinyfs

import "github.com/tinyfs-project/tinyfs/codec"

// allocate removes and returns the block at the head of the free list,
// per spec.md §4.2. It writes the updated superblock before returning, so
// by the time the caller starts repurposing the block, the allocator's own
// bookkeeping is already durable — a crash between here and the caller's
// first write leaves the block merely un-overwritten, never double-issued.
func (v *Volume) allocate() (int, error) {
	sb, err := v.readSuperblock()
	if err != nil {
		return 0, err
	}
	if sb.FreeHead == 0 {
		return 0, ErrNoSpace
	}
	block := int(sb.FreeHead)
	head, err := v.readFree(block)
	if err != nil {
		return 0, err
	}
	sb.FreeHead = head.NextFree
	if err := v.writeSuperblock(sb); err != nil {
		return 0, err
	}
	v.logger().WithField("block", block).Debug("tinyfs: allocated block")
	return block, nil
}

// release returns block to the head of the free list. Per spec.md §4.2's
// ordering rule, the FREE record is written before the superblock is
// updated to point at it: a crash in between leaves block un-tracked (a
// leak) rather than making the free list cyclic or double-counting it.
func (v *Volume) release(block int) error {
	sb, err := v.readSuperblock()
	if err != nil {
		return err
	}
	if err := v.writeFree(block, codec.FreeRecord{NextFree: sb.FreeHead}); err != nil {
		return err
	}
	sb.FreeHead = int32(block)
	if err := v.writeSuperblock(sb); err != nil {
		return err
	}
	v.logger().WithField("block", block).Debug("tinyfs: released block")
	return nil
}

// releaseExtentChain walks the extent chain starting at first (0 = empty
// chain), releasing each block, tolerating a partial walk on read error as
// spec.md §4.3/§4.5 require: blocks already released remain released
// (preserving I3/I4), and the error surfaces to the caller afterward.
func (v *Volume) releaseExtentChain(first int32) error {
	block := first
	for block != 0 {
		ext, err := v.readExtent(int(block))
		if err != nil {
			return err
		}
		next := ext.NextBlock
		if err := v.release(int(block)); err != nil {
			return err
		}
		block = int32(next)
	}
	return nil
}
