package tinyfs

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tinyfs-project/tinyfs/blockdev"
	"github.com/tinyfs-project/tinyfs/diagnostics"
)

// openFileEntry is one slot of a mounted volume's resource table: an
// in-memory record mapping a file descriptor to the inode block it refers
// to, the caller's current byte offset, and the name under which it was
// opened (spec.md §4.4).
type openFileEntry struct {
	inUse      bool
	inodeBlock int
	filePtr    int
	name       string
}

// Volume is a mount-controller value: it binds at most one backing block
// device to the logical layer (allocator, inode store, extent engine,
// open-file table) for the duration of a mount. Unlike the original's
// module-level globals (spec.md §9), every File API operation is a method
// on an explicit *Volume, so a process may hold several independent
// volumes (useful in tests) while each still enforces its own
// single-mount-per-instance rule.
type Volume struct {
	reg        blockdev.Registry
	diskHandle int // -1 when not mounted
	blockCount int
	openFiles  [MaxOpenFiles]openFileEntry
	session    string
	log        *logrus.Entry
}

// NewVolume creates an unmounted Volume ready for Mount. Its session ID is
// chosen once here and kept across later Mount/Unmount cycles.
func NewVolume() *Volume {
	return &Volume{
		diskHandle: -1,
		session:    uuid.NewString(),
	}
}

func (v *Volume) logger() *logrus.Entry {
	if v.log == nil {
		v.log = logrus.WithField("session", v.session)
	}
	return v.log
}

func (v *Volume) mounted() bool { return v.diskHandle >= 0 }

func validateName(name string) error {
	if len(name) < 1 || len(name) > MaxNameLen {
		return ErrBadName
	}
	for i := 0; i < len(name); i++ {
		if name[i] == 0 {
			return ErrBadName
		}
	}
	return nil
}

// MaxNameLen is the largest number of significant bytes a TinyFS name (file
// name, mkfs image name) may occupy, per spec.md §3/§6.
const MaxNameLen = 8

// Mount binds path as this Volume's backing device. It fails with
// ErrAlreadyMounted if this Volume already has a device bound, with
// ErrDiskOpen/ErrDiskRead on I/O failure, and with ErrCorruptFS if the
// superblock doesn't validate.
func (v *Volume) Mount(path string) error {
	if v.mounted() {
		return ErrAlreadyMounted
	}
	handle, err := v.reg.Open(path, 0)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDiskOpen, err)
	}
	blockCount, err := v.reg.BlockCount(handle)
	if err != nil {
		_ = v.reg.Close(handle)
		return fmt.Errorf("%w: %v", ErrDiskOpen, err)
	}
	if blockCount < 3 {
		_ = v.reg.Close(handle)
		return ErrCorruptFS
	}

	buf := make([]byte, BlockSize)
	if err := v.reg.ReadBlock(handle, 0, buf); err != nil {
		_ = v.reg.Close(handle)
		return fmt.Errorf("%w: %v", ErrDiskRead, err)
	}
	if _, err := decodeSuperblock(buf); err != nil {
		v.logger().WithField("path", path).Debugf("tinyfs: superblock decode failed, dump:\n%s", diagnostics.DumpBlock(buf, 16))
		_ = v.reg.Close(handle)
		return ErrCorruptFS
	}

	v.diskHandle = handle
	v.blockCount = blockCount
	v.openFiles = [MaxOpenFiles]openFileEntry{}
	v.logger().WithFields(logrus.Fields{"path": path, "blocks": blockCount}).Info("tinyfs: mounted volume")
	if hs, err := diagnostics.StatImage(path); err == nil {
		v.logger().WithFields(logrus.Fields{"host_mtime": hs.ModTime}).Debug("tinyfs: host image metadata")
	}
	return nil
}

// Unmount releases this Volume's backing device and resets its open-file
// table. It fails with ErrNotMounted if no device is currently bound.
func (v *Volume) Unmount() error {
	if !v.mounted() {
		return ErrNotMounted
	}
	if err := v.reg.Close(v.diskHandle); err != nil {
		return fmt.Errorf("%w: %v", ErrDiskClose, err)
	}
	v.logger().Info("tinyfs: unmounted volume")
	v.diskHandle = -1
	v.blockCount = 0
	v.openFiles = [MaxOpenFiles]openFileEntry{}
	return nil
}
