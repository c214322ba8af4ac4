package codec

import "encoding/binary"

// RootInodeBlock is the fixed block index of the root inode in this design.
const RootInodeBlock = 1

// SuperblockBlock is the fixed block index of the superblock.
const SuperblockBlock = 0

// Superblock is block 0: volume-wide metadata pointing at the root inode
// and the head of the free list.
type Superblock struct {
	RootInodeBlock int32
	FreeHead       int32 // block index of the first free block, or 0 if none
}

// Encode writes the Superblock as a BlockSize-byte record.
func (s Superblock) Encode() [BlockSize]byte {
	var buf [BlockSize]byte
	buf[0] = byte(TypeSuperblock)
	buf[1] = Magic
	binary.LittleEndian.PutUint32(buf[2:6], uint32(s.RootInodeBlock))
	binary.LittleEndian.PutUint32(buf[6:10], uint32(s.FreeHead))
	return buf
}

// DecodeSuperblock parses and validates a superblock record.
func DecodeSuperblock(buf []byte) (Superblock, error) {
	if err := checkMagicAndType(buf, TypeSuperblock); err != nil {
		return Superblock{}, err
	}
	return Superblock{
		RootInodeBlock: int32(binary.LittleEndian.Uint32(buf[2:6])),
		FreeHead:       int32(binary.LittleEndian.Uint32(buf[6:10])),
	}, nil
}
