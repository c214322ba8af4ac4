package diagnostics

import (
	"fmt"
	"time"

	times "gopkg.in/djherbis/times.v1"
)

// HostStat is host-filesystem metadata about the backing image file itself,
// distinct from any in-volume inode's 32-bit ctime/mtime/atime (spec.md
// §3). It is purely diagnostic and never participates in the on-disk
// format.
type HostStat struct {
	ModTime   time.Time
	AccessTime time.Time
	// BirthTime is the file's creation time, when the host platform exposes
	// one; HasBirthTime reports whether it does.
	BirthTime    time.Time
	HasBirthTime bool
}

// StatImage reports host-level timestamps for the TinyFS image file at path.
func StatImage(path string) (HostStat, error) {
	t, err := times.Stat(path)
	if err != nil {
		return HostStat{}, fmt.Errorf("diagnostics: stat %s: %w", path, err)
	}
	hs := HostStat{
		ModTime:    t.ModTime(),
		AccessTime: t.AccessTime(),
	}
	if t.HasBirthTime() {
		hs.BirthTime = t.BirthTime()
		hs.HasBirthTime = true
	}
	return hs, nil
}
