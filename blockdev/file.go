package blockdev

import (
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// fileStorage is a Storage backed by a real OS file, with an advisory
// flock(2) held for the lifetime of the handle so a second process (or a
// second Open within this one) opening the same path for read-write fails
// fast instead of corrupting the volume silently.
type fileStorage struct {
	f        *os.File
	readOnly bool
	locked   bool
}

var _ Storage = (*fileStorage)(nil)

// openExisting opens an existing backing file as-is, taking its current
// length as the device size (rounded down to a BlockSize multiple). This is
// the size==0 case of the block device open() contract in spec.md §6.
func openExisting(pathName string) (*fileStorage, int64, error) {
	if pathName == "" {
		return nil, 0, fmt.Errorf("blockdev: empty path")
	}
	f, err := os.OpenFile(pathName, os.O_RDWR, 0o600)
	if err != nil {
		return nil, 0, fmt.Errorf("blockdev: open %s: %w", pathName, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("blockdev: stat %s: %w", pathName, err)
	}
	if err := flockExclusive(f); err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	size := st.Size() - (st.Size() % BlockSize)
	return &fileStorage{f: f, locked: true}, size, nil
}

// createOrTruncate creates (or truncates) the backing file to nBytes rounded
// down to a BlockSize multiple. nBytes below BlockSize is rejected by the
// caller per spec.md §6; this helper assumes nBytes has already been
// validated as >= BlockSize.
func createOrTruncate(pathName string, nBytes int64) (*fileStorage, int64, error) {
	if pathName == "" {
		return nil, 0, fmt.Errorf("blockdev: empty path")
	}
	size := nBytes - (nBytes % BlockSize)
	f, err := os.OpenFile(pathName, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, 0, fmt.Errorf("blockdev: create %s: %w", pathName, err)
	}
	if err := f.Truncate(size); err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("blockdev: truncate %s to %d: %w", pathName, size, err)
	}
	if err := flockExclusive(f); err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return &fileStorage{f: f, locked: true}, size, nil
}

func flockExclusive(f *os.File) error {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return fmt.Errorf("blockdev: %s is already locked by another handle: %w", f.Name(), err)
	}
	return nil
}

func (s *fileStorage) Writable() (WritableFile, error) {
	if s.readOnly {
		return nil, ErrReadOnly
	}
	return s.f, nil
}

func (s *fileStorage) Stat() (fs.FileInfo, error) { return s.f.Stat() }
func (s *fileStorage) Read(b []byte) (int, error) { return s.f.Read(b) }
func (s *fileStorage) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}
func (s *fileStorage) Seek(offset int64, whence int) (int64, error) {
	return s.f.Seek(offset, whence)
}

func (s *fileStorage) Close() error {
	if s.locked {
		_ = unix.Flock(int(s.f.Fd()), unix.LOCK_UN)
		s.locked = false
	}
	return s.f.Close()
}
