package fsview

import (
	"os"
	"time"

	"github.com/example-os/fatvol/fat"
)

// fileInfo adapts a decoded directory entry (or the root sentinel) to
// os.FileInfo.
type fileInfo struct {
	name  string
	entry *fat.DirEntry
	isDir bool
	size  int64
}

func newResolvedFileInfo(r *fat.ResolvedEntry) fileInfo {
	if r.IsRoot() {
		return fileInfo{name: "/", isDir: true}
	}
	return fileInfo{name: r.Name(), entry: r.Raw, isDir: r.IsDir(), size: int64(r.Size())}
}

func newDirEntryFileInfo(e *fat.DirEntry, longName string) fileInfo {
	name := longName
	if name == "" {
		name = fat.ShortName(e)
	}
	return fileInfo{
		name:  name,
		entry: e,
		isDir: e.Attr&fat.AttrDirectory != 0,
		size:  int64(e.FileSize),
	}
}

func (fi fileInfo) Name() string { return fi.name }
func (fi fileInfo) Size() int64  { return fi.size }

func (fi fileInfo) Mode() os.FileMode {
	if fi.isDir {
		return os.ModeDir | 0555
	}
	return 0444
}

func (fi fileInfo) ModTime() time.Time {
	if fi.entry == nil {
		return time.Time{}
	}
	writeDate := fat.ParseDate(fi.entry.WrtDate)
	if writeDate.IsZero() {
		return time.Time{}
	}
	writeTime := fat.ParseTime(fi.entry.WrtTime)
	return time.Date(writeDate.Year(), writeDate.Month(), writeDate.Day(),
		writeTime.Hour(), writeTime.Minute(), writeTime.Second(), 0, time.UTC)
}

func (fi fileInfo) IsDir() bool { return fi.isDir }

func (fi fileInfo) Sys() interface{} { return fi.entry }
