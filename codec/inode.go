package codec

import (
	"encoding/binary"
	"fmt"
)

// MetaflagInUse marks an inode record as a live, allocated file.
const MetaflagInUse byte = 1 << 0

// Inode is the per-file metadata record stored one per block.
type Inode struct {
	Name              string // up to MaxNameLen significant bytes
	SizeBytes         int32
	FirstExtentBlock  int32 // 0 = no data
	Metaflags         byte
	Ctime, Mtime, Atime uint32 // seconds since epoch
}

// InUse reports whether the inode's in-use bit is set.
func (in Inode) InUse() bool { return in.Metaflags&MetaflagInUse != 0 }

// Encode writes the Inode as a BlockSize-byte record. The name is
// zero-filled across the full 9-byte field before the significant bytes are
// copied in, per spec.md §4.1.
func (in Inode) Encode() ([BlockSize]byte, error) {
	var buf [BlockSize]byte
	if len(in.Name) > MaxNameLen {
		return buf, fmt.Errorf("codec: inode name %q exceeds %d bytes", in.Name, MaxNameLen)
	}
	buf[0] = byte(TypeInode)
	buf[1] = Magic
	copy(buf[2:2+NameSize], make([]byte, NameSize)) // explicit zero-fill, mirrors the spec's wording
	copy(buf[2:2+len(in.Name)], in.Name)
	binary.LittleEndian.PutUint32(buf[11:15], uint32(in.SizeBytes))
	binary.LittleEndian.PutUint32(buf[15:19], uint32(in.FirstExtentBlock))
	buf[19] = in.Metaflags
	binary.LittleEndian.PutUint32(buf[20:24], in.Ctime)
	binary.LittleEndian.PutUint32(buf[24:28], in.Mtime)
	binary.LittleEndian.PutUint32(buf[28:32], in.Atime)
	return buf, nil
}

// DecodeInode parses and validates an inode record.
func DecodeInode(buf []byte) (Inode, error) {
	if err := checkMagicAndType(buf, TypeInode); err != nil {
		return Inode{}, err
	}
	nameField := buf[2 : 2+NameSize]
	nul := len(nameField)
	for i, b := range nameField {
		if b == 0 {
			nul = i
			break
		}
	}
	return Inode{
		Name:             string(nameField[:nul]),
		SizeBytes:        int32(binary.LittleEndian.Uint32(buf[11:15])),
		FirstExtentBlock: int32(binary.LittleEndian.Uint32(buf[15:19])),
		Metaflags:        buf[19],
		Ctime:            binary.LittleEndian.Uint32(buf[20:24]),
		Mtime:            binary.LittleEndian.Uint32(buf[24:28]),
		Atime:            binary.LittleEndian.Uint32(buf[28:32]),
	}, nil
}
