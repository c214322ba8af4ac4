package tinyfs

import "errors"

// Error taxonomy, per spec.md §7. Every File API operation fails with one
// of these (possibly wrapped with additional context via fmt.Errorf's %w),
// so callers can recover the kind with errors.Is.
var (
	// Configuration errors.
	ErrBadName        = errors.New("tinyfs: name must be 1-8 bytes and NUL-free")
	ErrBadFD          = errors.New("tinyfs: invalid or closed file descriptor")
	ErrSeekOutOfRange = errors.New("tinyfs: seek offset out of range")

	// State errors.
	ErrNotMounted     = errors.New("tinyfs: no volume mounted")
	ErrAlreadyMounted = errors.New("tinyfs: a volume is already mounted")
	ErrTooManyOpen    = errors.New("tinyfs: too many open files")
	ErrEndOfFile      = errors.New("tinyfs: end of file")

	// Resource errors.
	ErrNoSpace = errors.New("tinyfs: no free blocks available")

	// Integrity errors.
	ErrCorruptFS = errors.New("tinyfs: corrupt or unexpected on-disk structure")

	// I/O errors.
	ErrDiskOpen  = errors.New("tinyfs: failed to open backing disk")
	ErrDiskRead  = errors.New("tinyfs: failed to read a block")
	ErrDiskWrite = errors.New("tinyfs: failed to write a block")
	ErrDiskClose = errors.New("tinyfs: failed to close backing disk")
	ErrDiskIO    = errors.New("tinyfs: disk I/O error")
)
