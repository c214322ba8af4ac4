package tinyfs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tinyfs-project/tinyfs/codec"
	"github.com/tinyfs-project/tinyfs/tinyfs"
)

func TestMkfsWritesSuperblockAndFreeChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.fs")
	nBytes := 16 * tinyfs.BlockSize

	require.NoError(t, tinyfs.Mkfs(path, nBytes))

	vol := tinyfs.NewVolume()
	require.NoError(t, vol.Mount(path))
	defer func() { _ = vol.Unmount() }()

	entries, err := vol.Readdir()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "/", entries[0].Name)
	require.Equal(t, codec.RootInodeBlock, entries[0].InodeBlock)

	// blocks 2..15 are on the free chain: exactly 14 single-block inodes fit
	require.Equal(t, 14, remainingCapacity(t, vol))
}

func TestMkfsRejectsTooFewBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.fs")
	err := tinyfs.Mkfs(path, 2*tinyfs.BlockSize)
	require.ErrorIs(t, err, tinyfs.ErrCorruptFS)
}

func TestMkfsRejectsBadName(t *testing.T) {
	err := tinyfs.Mkfs("way-too-long-a-filename.fs", tinyfs.DefaultDiskSize)
	require.ErrorIs(t, err, tinyfs.ErrBadName)
}
