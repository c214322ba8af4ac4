package codec

import (
	"encoding/binary"
	"fmt"
)

// FileExtentRecord is a data-carrying block: up to ExtentPayloadSize bytes
// of file content plus a pointer to the next extent in the chain (0 = end).
type FileExtentRecord struct {
	NextBlock uint32
	Data      []byte // up to ExtentPayloadSize bytes; shorter is zero-padded on encode
}

// Encode writes the extent as a BlockSize-byte record.
func (e FileExtentRecord) Encode() ([BlockSize]byte, error) {
	var buf [BlockSize]byte
	if len(e.Data) > ExtentPayloadSize {
		return buf, fmt.Errorf("codec: extent payload of %d bytes exceeds %d", len(e.Data), ExtentPayloadSize)
	}
	buf[0] = byte(TypeFileExtent)
	buf[1] = Magic
	binary.LittleEndian.PutUint32(buf[2:6], e.NextBlock)
	copy(buf[6:6+len(e.Data)], e.Data)
	return buf, nil
}

// DecodeFileExtent parses and validates a file-extent record. The returned
// Data always has length ExtentPayloadSize; callers slice it down using the
// inode's recorded size.
func DecodeFileExtent(buf []byte) (FileExtentRecord, error) {
	if err := checkMagicAndType(buf, TypeFileExtent); err != nil {
		return FileExtentRecord{}, err
	}
	data := make([]byte, ExtentPayloadSize)
	copy(data, buf[6:6+ExtentPayloadSize])
	return FileExtentRecord{
		NextBlock: binary.LittleEndian.Uint32(buf[2:6]),
		Data:      data,
	}, nil
}
