package fsview

import (
	"errors"
	"io"
	iofs "io/fs"
)

// dirEntry adapts os.FileInfo to fs.DirEntry for GoFS.ReadDir results.
type dirEntry struct {
	iofs.FileInfo
}

func (d dirEntry) Type() iofs.FileMode {
	return d.FileInfo.Mode().Type()
}

func (d dirEntry) Info() (iofs.FileInfo, error) {
	return d.FileInfo, nil
}

// goFile adapts *File to fs.File/fs.ReadDirFile.
type goFile struct {
	*File
}

func (g goFile) Stat() (iofs.FileInfo, error) {
	return g.File.Stat()
}

func (g goFile) ReadDir(n int) ([]iofs.DirEntry, error) {
	entries, err := g.File.Readdir(n)
	result := make([]iofs.DirEntry, len(entries))
	for i, e := range entries {
		result[i] = dirEntry{e}
	}
	return result, err
}

// GoFS wraps FS to satisfy io/fs.FS and io/fs.ReadDirFS.
type GoFS struct {
	*FS
}

// NewGoFS decodes data as a FAT volume and returns an io/fs.FS view.
func NewGoFS(data []byte, skipChecks bool) (*GoFS, error) {
	f, err := New(data, skipChecks)
	if err != nil {
		return nil, err
	}
	return &GoFS{f}, nil
}

func (g *GoFS) Open(name string) (iofs.File, error) {
	file, err := g.FS.Open(name)
	if err != nil {
		return nil, err
	}
	f, ok := file.(*File)
	if !ok {
		return nil, errors.New("fsview: unexpected afero.File implementation")
	}
	return goFile{f}, nil
}

func (g *GoFS) ReadDir(name string) ([]iofs.DirEntry, error) {
	f, err := g.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rdf, ok := f.(iofs.ReadDirFile)
	if !ok {
		return nil, io.ErrNoProgress
	}
	return rdf.ReadDir(-1)
}
