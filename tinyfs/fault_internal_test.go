package tinyfs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tinyfs-project/tinyfs/codec"
	"github.com/tinyfs-project/tinyfs/internal/timestamp"
	"github.com/tinyfs-project/tinyfs/testhelper"
)

// mountFaultyInternal formats a small image directly onto a FaultyStorage
// double (bypassing Mkfs's path-based Registry.Open) and mounts it, so a
// test can arm fault injection against operations that follow, per the
// blockdev seam in blockdev.Registry.OpenStorage. Setup writes are excluded
// from the fault counters by the caller resetting them afterward.
func mountFaultyInternal(t *testing.T, blocks int) (*Volume, *testhelper.FaultyStorage) {
	t.Helper()
	storage := testhelper.NewFaultyStorage(blocks * BlockSize)

	v := NewVolume()
	handle, err := v.reg.OpenStorage(storage, blocks)
	require.NoError(t, err)

	sb := codec.Superblock{RootInodeBlock: codec.RootInodeBlock, FreeHead: 2}
	sbBuf := sb.Encode()
	require.NoError(t, v.reg.WriteBlock(handle, codec.SuperblockBlock, sbBuf[:]))

	now := timestamp.Epoch32()
	root := codec.Inode{Name: "/", Metaflags: codec.MetaflagInUse, Ctime: now, Mtime: now, Atime: now}
	rootBuf, err := root.Encode()
	require.NoError(t, err)
	require.NoError(t, v.reg.WriteBlock(handle, codec.RootInodeBlock, rootBuf[:]))

	for i := 2; i < blocks; i++ {
		var next int32
		if i != blocks-1 {
			next = int32(i + 1)
		}
		fr := codec.FreeRecord{NextFree: next}
		buf := fr.Encode()
		require.NoError(t, v.reg.WriteBlock(handle, i, buf[:]))
	}

	v.diskHandle = handle
	v.blockCount = blocks
	t.Cleanup(func() { _ = v.Unmount() })
	return v, storage
}

// freeListBlocks walks the superblock's free list and returns every block on
// it, in order.
func freeListBlocks(t *testing.T, v *Volume) []int {
	t.Helper()
	sb, err := v.readSuperblock()
	require.NoError(t, err)

	var blocks []int
	next := sb.FreeHead
	for next != 0 {
		blocks = append(blocks, int(next))
		fr, err := v.readFree(int(next))
		require.NoError(t, err)
		next = fr.NextFree
	}
	return blocks
}

// TestDeleteInterruptedByDiskFaultReturnsErrDiskIO exercises the write/delete
// translation required by spec.md §6's error table: a block-layer failure
// during Delete surfaces as ErrDiskIO, not the lower-level ErrDiskWrite.
func TestDeleteInterruptedByDiskFaultReturnsErrDiskIO(t *testing.T) {
	v, storage := mountFaultyInternal(t, 8) // blocks 2..7 free

	fd, err := v.Open("f")
	require.NoError(t, err)
	// 4 extents: blocks 3,4,5,6 get chained off inode block 2, leaving 7 free.
	require.NoError(t, v.Write(fd, make([]byte, 4*codec.ExtentPayloadSize-10)))

	storage.ResetFaultCounters()
	// release(3): writeFree(#1) + writeSuperblock(#2)
	// release(4): writeFree(#3) + writeSuperblock(#4)
	// release(5): writeFree(#5) <- fails here, mid-chain.
	storage.WriteAtFailAt = 5
	storage.WriteAtErr = errors.New("simulated write fault")

	err = v.Delete(fd)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrDiskIO)
	require.False(t, errors.Is(err, ErrDiskWrite), "ErrDiskIO should supersede ErrDiskWrite for Delete, per spec.md's error table")
}

// TestDeleteInterruptedByDiskFaultLeavesBoundedLeak is P2's crash-safety
// claim (spec.md:196): a release sequence interrupted by a disk fault frees
// exactly the blocks it finished releasing before the fault, corrupts
// nothing, and leaves the allocator able to keep handing out the blocks it
// did reclaim — the leak is bounded to the blocks the interrupted release
// never reached, not the whole chain.
func TestDeleteInterruptedByDiskFaultLeavesBoundedLeak(t *testing.T) {
	v, storage := mountFaultyInternal(t, 8)

	fd, err := v.Open("f")
	require.NoError(t, err)
	require.NoError(t, v.Write(fd, make([]byte, 4*codec.ExtentPayloadSize-10)))

	storage.ResetFaultCounters()
	storage.WriteAtFailAt = 5
	storage.WriteAtErr = errors.New("simulated write fault")

	err = v.Delete(fd)
	require.ErrorIs(t, err, ErrDiskIO)

	free := freeListBlocks(t, v)
	require.Contains(t, free, 3, "block 3 was fully released before the fault and must be reusable")
	require.Contains(t, free, 4, "block 4 was fully released before the fault and must be reusable")
	require.NotContains(t, free, 5, "block 5's release was interrupted by the fault before its FREE record was written; it must not be on the free list")
	require.NotContains(t, free, 6, "block 6 was never reached by the interrupted release")

	// The allocator must still function: the next allocation reuses what the
	// interrupted release did manage to free, LIFO.
	storage.WriteAtFailAt = 0
	next, err := v.allocate()
	require.NoError(t, err)
	require.Equal(t, 4, next)
}
