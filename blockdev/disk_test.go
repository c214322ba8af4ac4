package blockdev_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tinyfs-project/tinyfs/blockdev"
	"github.com/tinyfs-project/tinyfs/testhelper"
)

func TestOpenCreateAndReadWriteBlock(t *testing.T) {
	var reg blockdev.Registry
	path := filepath.Join(t.TempDir(), "disk.img")

	handle, err := reg.Open(path, 4*blockdev.BlockSize)
	require.NoError(t, err)
	defer func() { _ = reg.Close(handle) }()

	n, err := reg.BlockCount(handle)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	buf := make([]byte, blockdev.BlockSize)
	for i := range buf {
		buf[i] = byte(i)
	}
	require.NoError(t, reg.WriteBlock(handle, 2, buf))

	got := make([]byte, blockdev.BlockSize)
	require.NoError(t, reg.ReadBlock(handle, 2, got))
	require.Equal(t, buf, got)
}

func TestOpenExistingUsesCurrentLength(t *testing.T) {
	var reg blockdev.Registry
	path := filepath.Join(t.TempDir(), "disk.img")

	h1, err := reg.Open(path, 6*blockdev.BlockSize)
	require.NoError(t, err)
	require.NoError(t, reg.Close(h1))

	h2, err := reg.Open(path, 0)
	require.NoError(t, err)
	defer func() { _ = reg.Close(h2) }()

	n, err := reg.BlockCount(h2)
	require.NoError(t, err)
	require.Equal(t, 6, n)
}

func TestOpenRejectsSizeBelowBlockSize(t *testing.T) {
	var reg blockdev.Registry
	path := filepath.Join(t.TempDir(), "disk.img")
	_, err := reg.Open(path, blockdev.BlockSize-1)
	require.Error(t, err)
}

func TestReadWriteBlockOutOfRange(t *testing.T) {
	var reg blockdev.Registry
	path := filepath.Join(t.TempDir(), "disk.img")
	handle, err := reg.Open(path, 2*blockdev.BlockSize)
	require.NoError(t, err)
	defer func() { _ = reg.Close(handle) }()

	buf := make([]byte, blockdev.BlockSize)
	require.ErrorIs(t, reg.ReadBlock(handle, 2, buf), blockdev.ErrBadBlock)
	require.ErrorIs(t, reg.WriteBlock(handle, -1, buf), blockdev.ErrBadBlock)
}

func TestOperationsOnClosedHandleFail(t *testing.T) {
	var reg blockdev.Registry
	path := filepath.Join(t.TempDir(), "disk.img")
	handle, err := reg.Open(path, 2*blockdev.BlockSize)
	require.NoError(t, err)
	require.NoError(t, reg.Close(handle))

	_, err = reg.BlockCount(handle)
	require.ErrorIs(t, err, blockdev.ErrNotOpen)
	require.ErrorIs(t, reg.Close(handle), blockdev.ErrNotOpen)
}

func TestRegistryExhaustsHandles(t *testing.T) {
	var reg blockdev.Registry
	dir := t.TempDir()

	var handles []int
	for i := 0; i < blockdev.MaxOpenDisks; i++ {
		path := filepath.Join(dir, string(rune('a'+i)))
		h, err := reg.Open(path, 2*blockdev.BlockSize)
		require.NoError(t, err)
		handles = append(handles, h)
	}
	defer func() {
		for _, h := range handles {
			_ = reg.Close(h)
		}
	}()

	_, err := reg.Open(filepath.Join(dir, "overflow"), 2*blockdev.BlockSize)
	require.ErrorIs(t, err, blockdev.ErrNoHandles)
}

func TestOpenSameFileTwiceFailsOnFlock(t *testing.T) {
	var reg blockdev.Registry
	path := filepath.Join(t.TempDir(), "disk.img")

	h1, err := reg.Open(path, 2*blockdev.BlockSize)
	require.NoError(t, err)
	defer func() { _ = reg.Close(h1) }()

	_, err = reg.Open(path, 0)
	require.Error(t, err)
}

func TestFaultyStorageSurfacesReadErrorAsBlockdevFailure(t *testing.T) {
	storage := testhelper.NewFaultyStorage(4 * blockdev.BlockSize)
	storage.ReadAtFailAt = 1
	storage.ReadAtErr = errors.New("simulated disk read failure")

	var reg blockdev.Registry
	handle, err := reg.OpenStorage(storage, 4)
	require.NoError(t, err)

	buf := make([]byte, blockdev.BlockSize)
	err = reg.ReadBlock(handle, 1, buf)
	require.ErrorIs(t, err, storage.ReadAtErr)

	w, err := storage.Writable()
	require.NoError(t, err)
	n, err := w.WriteAt(buf, blockdev.BlockSize)
	require.NoError(t, err)
	require.Equal(t, blockdev.BlockSize, n)
}
