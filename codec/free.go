package codec

import "encoding/binary"

// FreeRecord is an unused block: a single forward pointer to the next free
// block, or 0 at the tail of the list.
type FreeRecord struct {
	NextFree int32
}

// Encode writes the free record as a BlockSize-byte record.
func (f FreeRecord) Encode() [BlockSize]byte {
	var buf [BlockSize]byte
	buf[0] = byte(TypeFree)
	buf[1] = Magic
	binary.LittleEndian.PutUint32(buf[2:6], uint32(f.NextFree))
	return buf
}

// DecodeFree parses and validates a free-block record.
func DecodeFree(buf []byte) (FreeRecord, error) {
	if err := checkMagicAndType(buf, TypeFree); err != nil {
		return FreeRecord{}, err
	}
	return FreeRecord{NextFree: int32(binary.LittleEndian.Uint32(buf[2:6]))}, nil
}
