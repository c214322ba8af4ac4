// Package testhelper provides fault-injecting doubles for tinyfs's
// interfaces, for exercising error paths (DiskRead, DiskWrite, partial
// release) that a real backing file won't reliably produce on demand.
package testhelper

import (
	"fmt"
	"io/fs"
	"sync"

	"github.com/tinyfs-project/tinyfs/blockdev"
)

// FaultyStorage is an in-memory blockdev.Storage backed by a plain byte
// slice, with optional fault injection on the Nth ReadAt or WriteAt call.
// Adapted from the teacher's FileImpl (a func-backed stub implementing
// github.com/diskfs/go-diskfs/util.File) into a byte-buffer-backed double
// that also satisfies blockdev.Storage/WritableFile, since tinyfs needs to
// inject failures at a specific call count rather than stub out every
// read/write with a closure per test.
type FaultyStorage struct {
	mu sync.Mutex

	buf    []byte
	offset int64

	// ReadAtFailAt, if non-zero, makes the ReadAtFailAt'th ReadAt call (1
	// indexed) fail with ReadAtErr instead of touching buf.
	ReadAtFailAt int
	ReadAtErr    error

	// WriteAtFailAt is the WriteAt analog of ReadAtFailAt.
	WriteAtFailAt int
	WriteAtErr    error

	readCalls  int
	writeCalls int
	closed     bool
}

var _ blockdev.Storage = (*FaultyStorage)(nil)
var _ blockdev.WritableFile = (*FaultyStorage)(nil)

// NewFaultyStorage returns a FaultyStorage whose backing buffer is size
// bytes, all zero-initialized.
func NewFaultyStorage(size int) *FaultyStorage {
	return &FaultyStorage{buf: make([]byte, size)}
}

func (f *FaultyStorage) Stat() (fs.FileInfo, error) {
	return nil, fmt.Errorf("testhelper: FaultyStorage does not implement Stat")
}

func (f *FaultyStorage) Read(b []byte) (int, error) {
	f.mu.Lock()
	off := f.offset
	f.mu.Unlock()
	n, err := f.ReadAt(b, off)
	f.mu.Lock()
	f.offset += int64(n)
	f.mu.Unlock()
	return n, err
}

func (f *FaultyStorage) ReadAt(b []byte, offset int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCalls++
	if f.ReadAtFailAt != 0 && f.readCalls == f.ReadAtFailAt {
		return 0, f.ReadAtErr
	}
	if offset < 0 || offset > int64(len(f.buf)) {
		return 0, fmt.Errorf("testhelper: read offset %d out of range", offset)
	}
	n := copy(b, f.buf[offset:])
	return n, nil
}

func (f *FaultyStorage) WriteAt(b []byte, offset int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	if f.WriteAtFailAt != 0 && f.writeCalls == f.WriteAtFailAt {
		return 0, f.WriteAtErr
	}
	if offset < 0 || offset > int64(len(f.buf)) {
		return 0, fmt.Errorf("testhelper: write offset %d out of range", offset)
	}
	n := copy(f.buf[offset:], b)
	return n, nil
}

func (f *FaultyStorage) Seek(offset int64, whence int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch whence {
	case 0:
		f.offset = offset
	case 1:
		f.offset += offset
	case 2:
		f.offset = int64(len(f.buf)) + offset
	default:
		return 0, fmt.Errorf("testhelper: invalid whence %d", whence)
	}
	return f.offset, nil
}

func (f *FaultyStorage) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Writable returns f itself: FaultyStorage always supports writes, since
// read-only fault injection is controlled via ReadAtFailAt instead.
func (f *FaultyStorage) Writable() (blockdev.WritableFile, error) {
	return f, nil
}

// ResetFaultCounters zeroes the ReadAt/WriteAt call counters without
// touching the configured fault fields, so a test can format or otherwise
// prime an image through a handful of untracked calls before arming
// ReadAtFailAt/WriteAtFailAt against the operation under test.
func (f *FaultyStorage) ResetFaultCounters() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCalls = 0
	f.writeCalls = 0
}
