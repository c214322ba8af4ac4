// Command tinyfsdemo drives a single TinyFS image from the shell: format,
// mount, list, import a host directory, export back out, or dump a file's
// bytes. It is grounded in the teacher's examples/serve-image flag-parsing
// style, generalized from one flat flag set into subcommands since TinyFS
// needs several distinct verbs rather than one "serve" action.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/tinyfs-project/tinyfs/importer"
	"github.com/tinyfs-project/tinyfs/tinyfs"
)

func usage() {
	fmt.Fprintf(os.Stderr, `tinyfsdemo <command> [flags]

Commands:
  mkfs   -image PATH [-size BYTES]           format a new TinyFS image
  ls     -image PATH                         list files on a mounted image
  cat    -image PATH -name NAME              print a file's contents
  import -image PATH -dir HOSTDIR            copy host files into the image
  export -image PATH -dir HOSTDIR            copy image files out to the host

`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "mkfs":
		err = runMkfs(args)
	case "ls":
		err = runLs(args)
	case "cat":
		err = runCat(args)
	case "import":
		err = runImport(args)
	case "export":
		err = runExport(args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logrus.WithError(err).Fatal("tinyfsdemo: command failed")
	}
}

func runMkfs(args []string) error {
	fs := flag.NewFlagSet("mkfs", flag.ExitOnError)
	image := fs.String("image", "", "path to the TinyFS image to create")
	size := fs.Int("size", tinyfs.DefaultDiskSize, "image size in bytes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *image == "" {
		return fmt.Errorf("mkfs: -image is required")
	}
	if err := tinyfs.Mkfs(*image, *size); err != nil {
		return fmt.Errorf("mkfs %s: %w", *image, err)
	}
	fmt.Printf("formatted %s (%d bytes)\n", *image, *size)
	return nil
}

func mountImage(path string) (*tinyfs.Volume, error) {
	vol := tinyfs.NewVolume()
	if err := vol.Mount(path); err != nil {
		return nil, fmt.Errorf("mount %s: %w", path, err)
	}
	return vol, nil
}

func runLs(args []string) error {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	image := fs.String("image", "", "path to the TinyFS image")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *image == "" {
		return fmt.Errorf("ls: -image is required")
	}
	vol, err := mountImage(*image)
	if err != nil {
		return err
	}
	defer func() { _ = vol.Unmount() }()

	entries, err := vol.Readdir()
	if err != nil {
		return fmt.Errorf("readdir: %w", err)
	}
	for _, e := range entries {
		fmt.Printf("%-8s %8d bytes (inode block %d)\n", e.Name, e.SizeBytes, e.InodeBlock)
	}
	return nil
}

func runCat(args []string) error {
	fs := flag.NewFlagSet("cat", flag.ExitOnError)
	image := fs.String("image", "", "path to the TinyFS image")
	name := fs.String("name", "", "file name to print")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *image == "" || *name == "" {
		return fmt.Errorf("cat: -image and -name are required")
	}
	vol, err := mountImage(*image)
	if err != nil {
		return err
	}
	defer func() { _ = vol.Unmount() }()

	fd, err := vol.Open(*name)
	if err != nil {
		return fmt.Errorf("open %s: %w", *name, err)
	}
	defer func() { _ = vol.Close(fd) }()

	var b byte
	for {
		if err := vol.ReadByte(fd, &b); err != nil {
			if errors.Is(err, tinyfs.ErrEndOfFile) {
				break
			}
			return fmt.Errorf("read %s: %w", *name, err)
		}
		if _, err := os.Stdout.Write([]byte{b}); err != nil {
			return err
		}
	}
	return nil
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	image := fs.String("image", "", "path to the TinyFS image")
	dir := fs.String("dir", "", "host directory to import from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *image == "" || *dir == "" {
		return fmt.Errorf("import: -image and -dir are required")
	}
	vol, err := mountImage(*image)
	if err != nil {
		return err
	}
	defer func() { _ = vol.Unmount() }()

	n, err := importer.Import(vol, *dir)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d file(s)\n", n)
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	image := fs.String("image", "", "path to the TinyFS image")
	dir := fs.String("dir", "", "host directory to export to")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *image == "" || *dir == "" {
		return fmt.Errorf("export: -image and -dir are required")
	}
	vol, err := mountImage(*image)
	if err != nil {
		return err
	}
	defer func() { _ = vol.Unmount() }()

	n, err := importer.Export(vol, *dir)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d file(s)\n", n)
	return nil
}
