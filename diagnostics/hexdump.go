// Package diagnostics provides debugging aids for TinyFS that sit outside
// the on-disk format proper: hex-dumping a raw block when it fails to
// decode, and reporting host-level file metadata for the backing image.
package diagnostics

import "fmt"

// DumpBlock renders a raw block in hex and ASCII, xxd-style, for inclusion
// in CorruptFS error context. Adapted from the teacher's general-purpose
// byte-slice dumper, narrowed to the fixed-width case this repo needs.
func DumpBlock(b []byte, bytesPerRow int) string {
	if bytesPerRow <= 0 {
		bytesPerRow = 16
	}
	var out string
	numRows := (len(b) + bytesPerRow - 1) / bytesPerRow
	for i := 0; i < numRows; i++ {
		firstByte := i * bytesPerRow
		lastByte := firstByte + bytesPerRow
		row := fmt.Sprintf("%08x  ", firstByte)
		var ascii []byte
		for j := firstByte; j < lastByte; j++ {
			if j < len(b) {
				row += fmt.Sprintf("%02x ", b[j])
				if b[j] < 32 || b[j] > 126 {
					ascii = append(ascii, '.')
				} else {
					ascii = append(ascii, b[j])
				}
			} else {
				row += "   "
			}
		}
		row += " " + string(ascii) + "\n"
		out += row
	}
	return out
}
