// Package fsview adapts the read-only fat core onto afero.Fs and
// io/fs.FS with thin wrappers over fat.Header/fat.ResolvedEntry. All
// mutating operations are unsupported, matching the core's read-only
// scope.
package fsview

import (
	"errors"
	"os"
	"path"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/example-os/fatvol/checkpoint"
	"github.com/example-os/fatvol/fat"
)

// FS is a read-only afero.Fs backed by a borrowed FAT volume image.
type FS struct {
	header *fat.Header
}

// New decodes data as a FAT volume and returns an afero.Fs view over it.
// data must outlive fs and must not be mutated while fs is in use (§5).
func New(data []byte, skipChecks bool) (*FS, error) {
	h, err := fat.ParseHeader(data, skipChecks)
	if err != nil {
		return nil, checkpoint.Wrap(err, errors.New("fsview: opening volume"))
	}
	return &FS{header: h}, nil
}

// Header exposes the decoded volume geometry, e.g. for an info command.
func (f *FS) Header() *fat.Header {
	return f.header
}

func normalize(name string) string {
	return path.Clean("/" + name)
}

func translateErr(op, name string, err error) error {
	var fe *fat.Error
	if errors.As(err, &fe) {
		switch fe.Kind {
		case fat.KindNotFound:
			return &os.PathError{Op: op, Path: name, Err: os.ErrNotExist}
		case fat.KindNotDirectory:
			return &os.PathError{Op: op, Path: name, Err: syscall.ENOTDIR}
		}
	}
	return err
}

// Open resolves name and returns a read-only handle to it.
func (f *FS) Open(name string) (afero.File, error) {
	resolved, err := fat.SearchEntry(f.header, normalize(name))
	if err != nil {
		return nil, translateErr("open", name, err)
	}
	return &File{fs: f, name: name, entry: resolved}, nil
}

// OpenFile only supports read-only flags; anything else is rejected,
// the core having no write path (§1 Non-goals).
func (f *FS) OpenFile(name string, flag int, _ os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_APPEND|os.O_TRUNC) != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Open(name)
}

// Stat resolves name and returns its os.FileInfo.
func (f *FS) Stat(name string) (os.FileInfo, error) {
	resolved, err := fat.SearchEntry(f.header, normalize(name))
	if err != nil {
		return nil, translateErr("stat", name, err)
	}
	return newResolvedFileInfo(resolved), nil
}

// Name identifies this afero.Fs implementation.
func (f *FS) Name() string {
	return "fatvol"
}

func (f *FS) Create(name string) (afero.File, error) {
	panic("implement me: fatvol is read-only")
}

func (f *FS) Mkdir(name string, perm os.FileMode) error {
	panic("implement me: fatvol is read-only")
}

func (f *FS) MkdirAll(path string, perm os.FileMode) error {
	panic("implement me: fatvol is read-only")
}

func (f *FS) Remove(name string) error {
	panic("implement me: fatvol is read-only")
}

func (f *FS) RemoveAll(path string) error {
	panic("implement me: fatvol is read-only")
}

func (f *FS) Rename(oldname, newname string) error {
	panic("implement me: fatvol is read-only")
}

func (f *FS) Chmod(name string, mode os.FileMode) error {
	panic("implement me: fatvol is read-only")
}

func (f *FS) Chtimes(name string, atime time.Time, mtime time.Time) error {
	panic("implement me: fatvol is read-only")
}

func (f *FS) Chown(name string, uid, gid int) error {
	panic("implement me: fatvol is read-only")
}
