// Package importer bulk-copies files between the host filesystem and a
// mounted TinyFS volume. It is adapted from the teacher's CopyFileSystem
// (sync/copy.go), narrowed to TinyFS's flat, non-recursive namespace: only
// top-level regular files are copied, and subdirectories and symlinks are
// skipped rather than erroring, since TinyFS has no concept of either.
package importer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/tinyfs-project/tinyfs/tinyfs"
)

// excludedNames mirrors the teacher's filter for host-filesystem noise that
// should never become a TinyFS entry, trimmed to the handful of names this
// tool's authors actually tripped over.
var excludedNames = map[string]bool{
	".DS_Store": true,
}

// Import copies every top-level regular file under hostDir into vol,
// skipping directories, symlinks, and any name too long for TinyFS's
// 8-byte limit (logged, not treated as fatal). It returns the count of
// files copied.
func Import(vol *tinyfs.Volume, hostDir string) (int, error) {
	entries, err := os.ReadDir(hostDir)
	if err != nil {
		return 0, fmt.Errorf("importer: read dir %s: %w", hostDir, err)
	}

	log := logrus.WithField("hostDir", hostDir)
	copied := 0
	for _, entry := range entries {
		name := entry.Name()
		if excludedNames[name] {
			continue
		}
		if entry.IsDir() {
			log.WithField("name", name).Debug("importer: skipping subdirectory, TinyFS has no subdirectories")
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return copied, fmt.Errorf("importer: stat %s: %w", name, err)
		}
		if info.Mode()&os.ModeSymlink != 0 || !info.Mode().IsRegular() {
			log.WithField("name", name).Debug("importer: skipping non-regular file")
			continue
		}
		if len(name) > tinyfs.MaxNameLen {
			log.WithField("name", name).Warn("importer: skipping file, name exceeds 8 bytes")
			continue
		}

		if err := importOneFile(vol, hostDir, name); err != nil {
			return copied, fmt.Errorf("importer: copy %s: %w", name, err)
		}
		copied++
	}
	return copied, nil
}

func importOneFile(vol *tinyfs.Volume, hostDir, name string) error {
	data, err := os.ReadFile(filepath.Join(hostDir, name))
	if err != nil {
		return err
	}
	fd, err := vol.Open(name)
	if err != nil {
		return err
	}
	defer func() { _ = vol.Close(fd) }()
	return vol.Write(fd, data)
}

// Export copies every live file in vol out to hostDir as a regular host
// file, creating hostDir if it does not already exist. It returns the
// count of files copied.
func Export(vol *tinyfs.Volume, hostDir string) (int, error) {
	if err := os.MkdirAll(hostDir, 0o755); err != nil {
		return 0, fmt.Errorf("importer: mkdir %s: %w", hostDir, err)
	}

	entries, err := vol.Readdir()
	if err != nil {
		return 0, fmt.Errorf("importer: readdir: %w", err)
	}

	log := logrus.WithField("hostDir", hostDir)
	copied := 0
	for _, e := range entries {
		if e.Name == "" || e.Name == "/" {
			log.WithField("inode", e.InodeBlock).Debug("importer: skipping root inode")
			continue
		}
		if err := exportOneFile(vol, hostDir, e.Name); err != nil {
			return copied, fmt.Errorf("importer: export %s: %w", e.Name, err)
		}
		copied++
	}
	return copied, nil
}

func exportOneFile(vol *tinyfs.Volume, hostDir, name string) error {
	fd, err := vol.Open(name)
	if err != nil {
		return err
	}
	defer func() { _ = vol.Close(fd) }()

	info, err := vol.Stat(fd)
	if err != nil {
		return err
	}
	data := make([]byte, info.SizeBytes)
	for i := range data {
		if err := vol.ReadByte(fd, &data[i]); err != nil {
			return err
		}
	}

	outPath := filepath.Join(hostDir, name)
	return os.WriteFile(outPath, data, 0o644)
}
