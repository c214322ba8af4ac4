// Package timestamp supplies the wall-clock source for TinyFS's on-disk
// inode timestamps (ctime/mtime/atime), honoring SOURCE_DATE_EPOCH so
// volume images built in CI are byte-for-byte reproducible.
package timestamp

import (
	"os"
	"strconv"
	"time"
)

// sourceDateEpochVar is the environment variable reproducible-build tooling
// sets to pin every timestamp this package hands out to a fixed instant.
const sourceDateEpochVar = "SOURCE_DATE_EPOCH"

// Now returns the current time in UTC, or the instant named by
// SOURCE_DATE_EPOCH when that variable holds a parseable Unix timestamp. An
// unset or unparseable value falls back to time.Now().UTC() rather than
// failing the caller.
func Now() time.Time {
	if t, ok := parseSourceDateEpoch(os.Getenv(sourceDateEpochVar)); ok {
		return t
	}
	return time.Now().UTC()
}

func parseSourceDateEpoch(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(seconds, 0).UTC(), true
}

// Epoch32 returns Now() as the 32-bit seconds-since-epoch value the on-disk
// inode format stores. Per spec.md §9 this wraps in the year 2106 exactly as
// a plain uint32 conversion of Unix seconds would; that limitation is
// inherited from the format and intentionally not compensated for here.
func Epoch32() uint32 {
	return uint32(Now().Unix())
}
