// Package volume opens a FAT image as a borrowed, read-only byte slice
// suitable for fat.ParseHeader: either memory-mapped from a regular
// file, read fully from an arbitrary io.ReaderAt, or (for legacy
// callers that still want stream semantics) wrapped back into an
// io.ReadWriteSeeker.
package volume

import (
	"fmt"
	"io"
	"os"

	"github.com/xaionaro-go/bytesextra"
	"golang.org/x/sys/unix"
)

// Mapping is a memory-mapped view of a regular file. Close unmaps it;
// using Data after Close is undefined.
type Mapping struct {
	Data []byte
	file *os.File
}

// Open memory-maps path read-only for its full length.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("volume: opening %q: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("volume: stating %q: %w", path, err)
	}
	if fi.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("volume: %q is empty", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("volume: mmap %q: %w", path, err)
	}

	return &Mapping{Data: data, file: f}, nil
}

// Close unmaps the region and closes the underlying file.
func (m *Mapping) Close() error {
	var err error
	if m.Data != nil {
		err = unix.Munmap(m.Data)
		m.Data = nil
	}
	if m.file != nil {
		if cerr := m.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
		m.file = nil
	}
	return err
}

// LoadFromReaderAt reads size bytes from r into a freshly allocated
// slice. It exists for sources that can't be mmap'd (an in-memory
// fixture, a network-backed reader, a fault-injecting test double).
func LoadFromReaderAt(r io.ReaderAt, size int64) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(r, 0, size), buf); err != nil {
		return nil, fmt.Errorf("volume: reading %d bytes: %w", size, err)
	}
	return buf, nil
}

// NewReadSeeker wraps an already-loaded image back into an
// io.ReadWriteSeeker, for callers built against stream-oriented APIs
// rather than a borrowed slice.
func NewReadSeeker(data []byte) io.ReadWriteSeeker {
	return bytesextra.NewReadWriteSeeker(data)
}

// LoadFromReadSeeker drains an io.ReadSeeker into a freshly allocated
// slice, for legacy callers that hand the volume in as a stream (e.g.
// wrapped through NewReadSeeker) rather than as a borrowed slice or an
// io.ReaderAt. It seeks to the start before reading, so a partially
// consumed stream is read from its beginning.
func LoadFromReadSeeker(rs io.ReadSeeker) ([]byte, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("volume: seeking to start: %w", err)
	}
	data, err := io.ReadAll(rs)
	if err != nil {
		return nil, fmt.Errorf("volume: draining stream: %w", err)
	}
	return data, nil
}
