package tinyfs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mountFreshInternal(t *testing.T, blocks int) *Volume {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.fs")
	require.NoError(t, Mkfs(path, blocks*BlockSize))
	v := NewVolume()
	require.NoError(t, v.Mount(path))
	t.Cleanup(func() { _ = v.Unmount() })
	return v
}

func TestAllocateWalksFreeListInOrder(t *testing.T) {
	v := mountFreshInternal(t, 6)

	b1, err := v.allocate()
	require.NoError(t, err)
	require.Equal(t, 2, b1)

	b2, err := v.allocate()
	require.NoError(t, err)
	require.Equal(t, 3, b2)

	sb, err := v.readSuperblock()
	require.NoError(t, err)
	require.EqualValues(t, 4, sb.FreeHead)
}

func TestAllocateExhaustionReturnsNoSpace(t *testing.T) {
	v := mountFreshInternal(t, 4) // blocks 2,3 free

	_, err := v.allocate()
	require.NoError(t, err)
	_, err = v.allocate()
	require.NoError(t, err)

	_, err = v.allocate()
	require.ErrorIs(t, err, ErrNoSpace)
}

func TestReleasePushesBackToFreeListHead(t *testing.T) {
	v := mountFreshInternal(t, 6)

	_, err := v.allocate() // block 2
	require.NoError(t, err)
	b2, err := v.allocate() // block 3; free head is now 4
	require.NoError(t, err)

	require.NoError(t, v.release(b2))

	sb, err := v.readSuperblock()
	require.NoError(t, err)
	require.EqualValues(t, b2, sb.FreeHead)

	fr, err := v.readFree(b2)
	require.NoError(t, err)
	require.EqualValues(t, 4, fr.NextFree) // the head before the release

	// allocating again must hand back b2 first (LIFO reuse)
	next, err := v.allocate()
	require.NoError(t, err)
	require.Equal(t, b2, next)
}

func TestReleaseExtentChainToleratesEmptyChain(t *testing.T) {
	v := mountFreshInternal(t, 6)
	require.NoError(t, v.releaseExtentChain(0))
}
