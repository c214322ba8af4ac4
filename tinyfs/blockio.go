package tinyfs

import (
	"fmt"

	"github.com/tinyfs-project/tinyfs/codec"
	"github.com/tinyfs-project/tinyfs/diagnostics"
)

// readBlock reads one raw block from the mounted device.
func (v *Volume) readBlock(block int) ([]byte, error) {
	buf := make([]byte, BlockSize)
	if err := v.reg.ReadBlock(v.diskHandle, block, buf); err != nil {
		return nil, fmt.Errorf("%w: block %d: %v", ErrDiskRead, block, err)
	}
	return buf, nil
}

// writeBlock writes one raw block to the mounted device.
func (v *Volume) writeBlock(block int, buf []byte) error {
	if err := v.reg.WriteBlock(v.diskHandle, block, buf); err != nil {
		return fmt.Errorf("%w: block %d: %v", ErrDiskWrite, block, err)
	}
	return nil
}

func decodeSuperblock(buf []byte) (codec.Superblock, error) {
	return codec.DecodeSuperblock(buf)
}

func (v *Volume) readSuperblock() (codec.Superblock, error) {
	buf, err := v.readBlock(codec.SuperblockBlock)
	if err != nil {
		return codec.Superblock{}, err
	}
	sb, err := codec.DecodeSuperblock(buf)
	if err != nil {
		return codec.Superblock{}, fmt.Errorf("%w: %v", ErrCorruptFS, err)
	}
	return sb, nil
}

func (v *Volume) writeSuperblock(sb codec.Superblock) error {
	buf := sb.Encode()
	return v.writeBlock(codec.SuperblockBlock, buf[:])
}

func (v *Volume) readInode(block int) (codec.Inode, error) {
	buf, err := v.readBlock(block)
	if err != nil {
		return codec.Inode{}, err
	}
	in, err := codec.DecodeInode(buf)
	if err != nil {
		v.logger().Debugf("tinyfs: inode block %d decode failed, dump:\n%s", block, diagnostics.DumpBlock(buf, 16))
		return codec.Inode{}, fmt.Errorf("%w: %v", ErrCorruptFS, err)
	}
	return in, nil
}

func (v *Volume) writeInode(block int, in codec.Inode) error {
	buf, err := in.Encode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadName, err)
	}
	return v.writeBlock(block, buf[:])
}

func (v *Volume) readFree(block int) (codec.FreeRecord, error) {
	buf, err := v.readBlock(block)
	if err != nil {
		return codec.FreeRecord{}, err
	}
	fr, err := codec.DecodeFree(buf)
	if err != nil {
		return codec.FreeRecord{}, fmt.Errorf("%w: %v", ErrCorruptFS, err)
	}
	return fr, nil
}

func (v *Volume) writeFree(block int, fr codec.FreeRecord) error {
	buf := fr.Encode()
	return v.writeBlock(block, buf[:])
}

func (v *Volume) readExtent(block int) (codec.FileExtentRecord, error) {
	buf, err := v.readBlock(block)
	if err != nil {
		return codec.FileExtentRecord{}, err
	}
	ext, err := codec.DecodeFileExtent(buf)
	if err != nil {
		return codec.FileExtentRecord{}, fmt.Errorf("%w: %v", ErrCorruptFS, err)
	}
	return ext, nil
}

func (v *Volume) writeExtent(block int, ext codec.FileExtentRecord) error {
	buf, err := ext.Encode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDiskWrite, err)
	}
	return v.writeBlock(block, buf[:])
}
