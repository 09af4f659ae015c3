package mmap

import (
	pkgErrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// File is a class file mapped read-only into memory, such that its contents
// can be parsed in place.
type File struct {
	*Mapping
	Path string
}

// Open maps the whole of a given file.
func Open(path string) (*File, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, pkgErrors.Wrapf(err, "failed to open file %#v", path)
	}

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		_ = unix.Close(fd)
		return nil, pkgErrors.Wrapf(err, "failed to obtain size of file %#v", path)
	}

	m, err := NewMapping(fd, int(stat.Size))

	if err != nil {
		_ = unix.Close(fd)
		return nil, pkgErrors.Wrapf(err, "file %#v", path)
	} else if err := unix.Close(fd); err != nil {
		_ = m.Close()
		return nil, pkgErrors.Wrapf(err, "failed to close file %#v", path)
	}

	return &File{Mapping: m, Path: path}, nil
}
