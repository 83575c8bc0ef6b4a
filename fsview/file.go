package fsview

import (
	"io"
	"os"
	"syscall"

	"github.com/example-os/fatvol/fat"
)

// File is a read-only afero.File backed by a resolved directory entry.
// Content is lazily materialized via fat.ReadWholeFile on first Read or
// ReadAt: the core only ever reads a file as a whole (§4.H), there being
// no partial-cluster streaming API to build this on top of.
type File struct {
	fs    *FS
	name  string
	entry *fat.ResolvedEntry

	content []byte
	loaded  bool
	pos     int64

	dirEntries []os.FileInfo
	dirPos     int
}

func (f *File) ensureLoaded() error {
	if f.loaded || f.entry.IsDir() || f.entry.IsRoot() {
		return nil
	}
	buf := make([]byte, f.entry.Size())
	if _, err := fat.ReadWholeFile(f.fs.header, f.entry, buf); err != nil {
		return err
	}
	f.content = buf
	f.loaded = true
	return nil
}

func (f *File) Read(p []byte) (int, error) {
	if f.entry.IsDir() || f.entry.IsRoot() {
		return 0, &os.PathError{Op: "read", Path: f.name, Err: syscall.EISDIR}
	}
	if err := f.ensureLoaded(); err != nil {
		return 0, err
	}
	if f.pos >= int64(len(f.content)) {
		return 0, io.EOF
	}
	n := copy(p, f.content[f.pos:])
	f.pos += int64(n)
	return n, nil
}

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f.entry.IsDir() || f.entry.IsRoot() {
		return 0, &os.PathError{Op: "read", Path: f.name, Err: syscall.EISDIR}
	}
	if err := f.ensureLoaded(); err != nil {
		return 0, err
	}
	if off >= int64(len(f.content)) {
		return 0, io.EOF
	}
	n := copy(p, f.content[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = f.pos + offset
	case io.SeekEnd:
		if err := f.ensureLoaded(); err != nil {
			return 0, err
		}
		newPos = int64(len(f.content)) + offset
	}
	if newPos < 0 {
		return 0, &os.PathError{Op: "seek", Path: f.name, Err: os.ErrInvalid}
	}
	f.pos = newPos
	return newPos, nil
}

func (f *File) Name() string {
	return f.name
}

func (f *File) Stat() (os.FileInfo, error) {
	return newResolvedFileInfo(f.entry), nil
}

func (f *File) Close() error {
	return nil
}

func (f *File) Sync() error {
	return nil
}

// Readdir lists the directory's live entries, paging through count at a
// time like os.File.Readdir; count <= 0 returns the remainder.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	if !f.entry.IsDir() {
		return nil, &os.PathError{Op: "readdir", Path: f.name, Err: syscall.ENOTDIR}
	}

	if f.dirEntries == nil {
		var entries []os.FileInfo
		cb := func(e *fat.DirEntry, longName string) bool {
			if isDotEntry(e) {
				return false
			}
			entries = append(entries, newDirEntryFileInfo(e, longName))
			return false
		}

		var err error
		if f.entry.IsRoot() {
			err = fat.WalkRoot(f.fs.header, cb)
		} else {
			err = fat.WalkDirectory(f.fs.header, f.entry.FirstCluster(), cb)
		}
		if err != nil {
			return nil, err
		}
		f.dirEntries = entries
	}

	if count <= 0 {
		result := f.dirEntries[f.dirPos:]
		f.dirPos = len(f.dirEntries)
		return result, nil
	}

	if f.dirPos >= len(f.dirEntries) {
		return nil, io.EOF
	}
	end := f.dirPos + count
	if end > len(f.dirEntries) {
		end = len(f.dirEntries)
	}
	result := f.dirEntries[f.dirPos:end]
	f.dirPos = end
	return result, nil
}

func (f *File) Readdirnames(n int) ([]string, error) {
	entries, err := f.Readdir(n)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func isDotEntry(e *fat.DirEntry) bool {
	name := fat.ShortName(e)
	return name == "." || name == ".."
}

func (f *File) Write(p []byte) (int, error) {
	panic("implement me: fatvol is read-only")
}

func (f *File) WriteAt(p []byte, off int64) (int, error) {
	panic("implement me: fatvol is read-only")
}

func (f *File) WriteString(s string) (int, error) {
	panic("implement me: fatvol is read-only")
}

func (f *File) Truncate(size int64) error {
	panic("implement me: fatvol is read-only")
}
