// Package fsmount exposes a decoded FAT volume as a read-only FUSE
// filesystem, backed by the directory walker and path resolver.
package fsmount

import (
	"context"
	"os"
	"sync"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	"github.com/example-os/fatvol/fat"
)

// FS is the FUSE root, holding the decoded header and the image it
// views. The image must outlive FS and must not be mutated while
// mounted (§5).
type FS struct {
	header *fat.Header
}

// New wraps a decoded header for mounting.
func New(header *fat.Header) *FS {
	return &FS{header: header}
}

func (f *FS) Root() (fusefs.Node, error) {
	root, err := fat.SearchEntry(f.header, "/")
	if err != nil {
		return nil, err
	}
	return &Dir{fs: f, entry: root}, nil
}

// Dir implements fs.Node, fs.HandleReadDirAller and fs.NodeStringLookuper
// for one resolved directory entry.
type Dir struct {
	fs    *FS
	entry *fat.ResolvedEntry

	mtx     sync.Mutex
	entries map[string]*fat.ResolvedEntry
}

func (d *Dir) Attr(_ context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0555
	return nil
}

func (d *Dir) load() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if d.entries != nil {
		return nil
	}

	entries := make(map[string]*fat.ResolvedEntry)
	cb := func(e *fat.DirEntry, longName string) bool {
		name := longName
		if name == "" {
			name = fat.ShortName(e)
		}
		if name == "." || name == ".." {
			return false
		}
		entries[name] = fat.NewEntry(e, longName)
		return false
	}

	var err error
	if d.entry.IsRoot() {
		err = fat.WalkRoot(d.fs.header, cb)
	} else {
		err = fat.WalkDirectory(d.fs.header, d.entry.FirstCluster(), cb)
	}
	if err != nil {
		return err
	}
	d.entries = entries
	return nil
}

func (d *Dir) Lookup(_ context.Context, name string) (fusefs.Node, error) {
	if err := d.load(); err != nil {
		return nil, err
	}
	entry, ok := d.entries[name]
	if !ok {
		return nil, fuse.ENOENT
	}
	if entry.Raw.Attr&fat.AttrDirectory != 0 {
		return &Dir{fs: d.fs, entry: entry}, nil
	}
	return &File{fs: d.fs, entry: entry}, nil
}

func (d *Dir) ReadDirAll(_ context.Context) ([]fuse.Dirent, error) {
	if err := d.load(); err != nil {
		return nil, err
	}

	out := make([]fuse.Dirent, 0, len(d.entries))
	for name, entry := range d.entries {
		typ := fuse.DT_File
		if entry.Raw.Attr&fat.AttrDirectory != 0 {
			typ = fuse.DT_Dir
		}
		out = append(out, fuse.Dirent{Name: name, Type: typ})
	}
	return out, nil
}

// File implements fs.Node and fs.HandleReader for one resolved file
// entry, reading the whole file into memory on first access.
type File struct {
	fs    *FS
	entry *fat.ResolvedEntry

	mtx     sync.Mutex
	content []byte
	loaded  bool
}

func (f *File) Attr(_ context.Context, a *fuse.Attr) error {
	a.Mode = 0444
	a.Size = uint64(f.entry.Size())
	return nil
}

func (f *File) load() error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.loaded {
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

func (f *File) Read(_ context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	if err := f.load(); err != nil {
		return err
	}

	offset, size := req.Offset, req.Size
	if offset >= int64(len(f.content)) {
		resp.Data = []byte{}
		return nil
	}
	if offset+int64(size) > int64(len(f.content)) {
		size = int(int64(len(f.content)) - offset)
	}
	resp.Data = f.content[offset : offset+int64(size)]
	return nil
}

// Mount mounts header read-only at mountpoint and serves until the
// filesystem is unmounted or ctx-equivalent cancellation isn't
// available (bazil.org/fuse.Serve blocks for the mount's lifetime).
func Mount(mountpoint string, header *fat.Header) error {
	c, err := fuse.Mount(mountpoint, fuse.ReadOnly(), fuse.FSName("fatvol"), fuse.Subtype("fatvolfs"))
	if err != nil {
		return err
	}
	defer c.Close()

	return fusefs.Serve(c, New(header))
}
