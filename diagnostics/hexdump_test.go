package diagnostics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpBlockPrintableRow(t *testing.T) {
	buf := make([]byte, 16)
	copy(buf, []byte("hello tinyfs!!!!"))
	out := DumpBlock(buf, 16)
	require.Contains(t, out, "00000000")
	require.Contains(t, out, "hello tinyfs!!!!")
	require.Equal(t, 1, strings.Count(out, "\n"))
}

func TestDumpBlockNonPrintableBytes(t *testing.T) {
	buf := []byte{0x00, 0x01, 0x02, 0xff}
	out := DumpBlock(buf, 4)
	require.Contains(t, out, "....")
	require.Contains(t, out, "00 01 02 ff")
}

func TestDumpBlockDefaultsRowWidth(t *testing.T) {
	buf := make([]byte, 32)
	out := DumpBlock(buf, 0)
	require.Equal(t, 2, strings.Count(out, "\n"))
}

func TestDumpBlockMultipleRowsPadsLastRow(t *testing.T) {
	buf := make([]byte, 20)
	out := DumpBlock(buf, 16)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "00000000")
	require.Contains(t, lines[1], "00000010")
}
