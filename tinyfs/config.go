// Package tinyfs implements the TinyFS logical layer: a free-list
// allocator, inode store, file-extent chain engine, open-file table, mount
// controller and user-facing File API, composed on top of the blockdev
// emulated block device and the codec on-disk record formats.
package tinyfs

import "github.com/tinyfs-project/tinyfs/codec"

// BlockSize is the fixed size, in bytes, of every block on a TinyFS volume.
const BlockSize = codec.BlockSize

// DefaultDiskSize is the default volume size in bytes (40 blocks).
const DefaultDiskSize = 10240

// DefaultDiskName is the default TinyFS image file name. The demo driver does
// not use it: each of its commands takes the image path from -image.
const DefaultDiskName = "tinyFSDisk"

// MaxOpenFiles bounds the per-mount open-file table.
const MaxOpenFiles = 20

// FileDescriptor identifies an open file within a mounted Volume's
// open-file table; it is the slot index (0..MaxOpenFiles-1).
type FileDescriptor = int
