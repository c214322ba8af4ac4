package blockdev

import (
	"errors"
	"fmt"
	"sync"
)

// MaxOpenDisks bounds the handle table, mirroring the fixed-size disk
// registry of the original libDisk.c (ALLOC_DISKS).
const MaxOpenDisks = 10

var (
	// ErrNoHandles is returned when every disk handle slot is in use.
	ErrNoHandles = errors.New("blockdev: no free disk handles")
	// ErrNotOpen is returned for operations against an unopened/closed handle.
	ErrNotOpen = errors.New("blockdev: disk handle is not open")
	// ErrBadBlock is returned for a block index outside the device.
	ErrBadBlock = errors.New("blockdev: block index out of range")
)

type entry struct {
	storage Storage
	nBlocks int
}

// Registry is a table of open emulated block devices, each identified by a
// small non-negative integer handle, exactly as spec.md §6 specifies.
// The zero value is a usable, empty Registry.
type Registry struct {
	mu      sync.Mutex
	entries [MaxOpenDisks]*entry
}

// Open opens path as a block device. nBytes == 0 opens the existing file and
// uses its current length; nBytes > 0 creates (or truncates) the file to
// nBytes rounded down to a BlockSize multiple. A positive nBytes below
// BlockSize is rejected. Returns a small non-negative handle.
func (r *Registry) Open(path string, nBytes int64) (int, error) {
	if nBytes < 0 {
		return -1, fmt.Errorf("blockdev: negative size %d", nBytes)
	}
	if nBytes > 0 && nBytes < BlockSize {
		return -1, fmt.Errorf("blockdev: size %d is smaller than block size %d", nBytes, BlockSize)
	}

	r.mu.Lock()
	slot := r.nextFreeLocked()
	if slot >= 0 {
		r.entries[slot] = &entry{} // reserve the slot before releasing the lock
	}
	r.mu.Unlock()
	if slot < 0 {
		return -1, ErrNoHandles
	}

	var (
		storage Storage
		size    int64
		err     error
	)
	if nBytes == 0 {
		var fs *fileStorage
		fs, size, err = openExisting(path)
		storage = fs
	} else {
		var fs *fileStorage
		fs, size, err = createOrTruncate(path, nBytes)
		storage = fs
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.entries[slot] = nil
		return -1, err
	}
	r.entries[slot] = &entry{storage: storage, nBlocks: int(size / BlockSize)}
	return slot, nil
}

// OpenStorage registers an already-constructed Storage under a handle,
// bypassing file-backed Open. It exists so tests can substitute a
// fault-injecting Storage (e.g. testhelper.FaultyStorage) and drive it
// through a Registry handle exactly as Open's callers do.
func (r *Registry) OpenStorage(storage Storage, nBlocks int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot := r.nextFreeLocked()
	if slot < 0 {
		return -1, ErrNoHandles
	}
	r.entries[slot] = &entry{storage: storage, nBlocks: nBlocks}
	return slot, nil
}

// Close releases a disk handle.
func (r *Registry) Close(handle int) error {
	r.mu.Lock()
	e := r.get(handle)
	if e == nil {
		r.mu.Unlock()
		return ErrNotOpen
	}
	r.entries[handle] = nil
	r.mu.Unlock()
	return e.storage.Close()
}

// BlockCount returns the number of BlockSize blocks on the device.
func (r *Registry) BlockCount(handle int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.get(handle)
	if e == nil {
		return 0, ErrNotOpen
	}
	return e.nBlocks, nil
}

// ReadBlock reads exactly BlockSize bytes from the given block index.
func (r *Registry) ReadBlock(handle, blockIndex int, buf []byte) error {
	if len(buf) != BlockSize {
		return fmt.Errorf("blockdev: read buffer must be %d bytes, got %d", BlockSize, len(buf))
	}
	r.mu.Lock()
	e := r.get(handle)
	r.mu.Unlock()
	if e == nil {
		return ErrNotOpen
	}
	if blockIndex < 0 || blockIndex >= e.nBlocks {
		return ErrBadBlock
	}
	n, err := e.storage.ReadAt(buf, int64(blockIndex)*BlockSize)
	if err != nil {
		return fmt.Errorf("blockdev: read block %d: %w", blockIndex, err)
	}
	if n != BlockSize {
		return fmt.Errorf("blockdev: short read of block %d: got %d bytes", blockIndex, n)
	}
	return nil
}

// WriteBlock writes exactly BlockSize bytes to the given block index.
func (r *Registry) WriteBlock(handle, blockIndex int, buf []byte) error {
	if len(buf) != BlockSize {
		return fmt.Errorf("blockdev: write buffer must be %d bytes, got %d", BlockSize, len(buf))
	}
	r.mu.Lock()
	e := r.get(handle)
	r.mu.Unlock()
	if e == nil {
		return ErrNotOpen
	}
	if blockIndex < 0 || blockIndex >= e.nBlocks {
		return ErrBadBlock
	}
	w, err := e.storage.Writable()
	if err != nil {
		return err
	}
	n, err := w.WriteAt(buf, int64(blockIndex)*BlockSize)
	if err != nil {
		return fmt.Errorf("blockdev: write block %d: %w", blockIndex, err)
	}
	if n != BlockSize {
		return fmt.Errorf("blockdev: short write of block %d: wrote %d bytes", blockIndex, n)
	}
	return nil
}

func (r *Registry) nextFreeLocked() int {
	for i, e := range r.entries {
		if e == nil {
			return i
		}
	}
	return -1
}

func (r *Registry) get(handle int) *entry {
	if handle < 0 || handle >= MaxOpenDisks {
		return nil
	}
	return r.entries[handle]
}
