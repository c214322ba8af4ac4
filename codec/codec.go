// Package codec translates between the typed on-disk block records of a
// TinyFS volume and the raw 256-byte buffers a block device reads and
// writes. Encoding is fixed little-endian regardless of host, and every
// record is padded to exactly BlockSize bytes with zeroed reserved bytes.
package codec

import (
	"errors"
	"fmt"
)

// BlockSize is the fixed size, in bytes, of every on-disk block.
const BlockSize = 256

// Magic is the byte every valid TinyFS block carries at offset 1.
const Magic byte = 0x44

// BlockType tags the variant a 256-byte record decodes to.
type BlockType byte

const (
	TypeSuperblock BlockType = 1
	TypeInode      BlockType = 2
	TypeFileExtent BlockType = 3
	TypeFree       BlockType = 4
)

func (t BlockType) String() string {
	switch t {
	case TypeSuperblock:
		return "superblock"
	case TypeInode:
		return "inode"
	case TypeFileExtent:
		return "fileextent"
	case TypeFree:
		return "free"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// ErrInvalidBlock is returned by Decode when the magic byte is wrong or the
// block's tag doesn't match what the caller expected.
var ErrInvalidBlock = errors.New("codec: invalid block")

// ExtentPayloadSize is the number of payload bytes a FileExtent record can
// carry: BlockSize minus the 2-byte header and the 4-byte next-block pointer.
const ExtentPayloadSize = BlockSize - 2 - 4

// NameSize is the size, in bytes, of the on-disk inode name field
// (8 significant bytes plus a guaranteed trailing NUL).
const NameSize = 9

// MaxNameLen is the largest number of significant bytes a name may occupy.
const MaxNameLen = NameSize - 1

func checkMagicAndType(buf []byte, want BlockType) error {
	if len(buf) != BlockSize {
		return fmt.Errorf("%w: buffer is %d bytes, want %d", ErrInvalidBlock, len(buf), BlockSize)
	}
	if buf[1] != Magic {
		return fmt.Errorf("%w: bad magic byte 0x%02x", ErrInvalidBlock, buf[1])
	}
	if BlockType(buf[0]) != want {
		return fmt.Errorf("%w: tag %s, want %s", ErrInvalidBlock, BlockType(buf[0]), want)
	}
	return nil
}

// PeekType reads the tag byte of a block without validating it against an
// expected type. Used by scans (find-by-name, readdir) that must tolerate
// any block type while walking the volume.
func PeekType(buf []byte) (BlockType, error) {
	if len(buf) != BlockSize {
		return 0, fmt.Errorf("%w: buffer is %d bytes, want %d", ErrInvalidBlock, len(buf), BlockSize)
	}
	if buf[1] != Magic {
		return 0, fmt.Errorf("%w: bad magic byte 0x%02x", ErrInvalidBlock, buf[1])
	}
	return BlockType(buf[0]), nil
}
