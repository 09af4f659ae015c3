package mmap

import (
	"errors"
	"runtime/debug"
	"syscall"

	pkgErrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// errPageFault is reported when the file backing a mapping becomes unreadable
// (e.g. it was truncated) while being accessed.
var errPageFault = errors.New("page fault occurred while reading from memory map")

// Mapping is a read-only, shared memory map of an open file.  The mapped bytes
// must never be written to.
type Mapping struct {
	Data []byte
}

// NewMapping maps the first sizeBytes bytes of a given file descriptor.  The
// descriptor can be closed once the mapping exists.
func NewMapping(fileDescriptor, sizeBytes int) (*Mapping, error) {
	// Zero-length mappings are not permitted.
	if sizeBytes == 0 {
		return &Mapping{Data: []byte{}}, nil
	}

	data, err := unix.Mmap(fileDescriptor, 0, sizeBytes, syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "failed to memory map class file")
	}

	return &Mapping{Data: data}, nil
}

// Guard runs a function over the mapped bytes, converting any page fault which
// occurs (e.g., due to the file being truncated underneath the mapping) into an
// error, rather than crashing.
func (m *Mapping) Guard(fn func(data []byte) error) (err error) {
	old := debug.SetPanicOnFault(true)
	defer func() {
		debug.SetPanicOnFault(old)

		if r := recover(); r != nil {
			if _, ok := r.(interface{ Addr() uintptr }); !ok {
				panic(r)
			}

			err = errPageFault
		}
	}()

	return fn(m.Data)
}

// Close unmaps the file.  The mapped bytes (and anything which refers to them)
// must not be used afterwards.
func (m *Mapping) Close() error {
	if len(m.Data) == 0 {
		return nil
	}

	data := m.Data
	m.Data = nil

	return pkgErrors.Wrap(unix.Munmap(data), "failed to unmap class file")
}
