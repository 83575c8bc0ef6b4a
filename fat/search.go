package fat

import "strings"

// ResolvedEntry is what SearchEntry returns: either the root-directory
// sentinel (Raw == nil) or a concrete directory entry, paired with its
// long name when one was reassembled.
type ResolvedEntry struct {
	Raw      *DirEntry
	LongName string
	isRoot   bool
	cluster  uint32
}

// IsRoot reports whether this result is the root-directory sentinel
// returned for the path "/".
func (e *ResolvedEntry) IsRoot() bool {
	return e.isRoot
}

// IsDir reports whether this entry is a directory. The root is always a
// directory.
func (e *ResolvedEntry) IsDir() bool {
	if e.isRoot {
		return true
	}
	return e.Raw.Attr&AttrDirectory != 0
}

// FirstCluster returns the cluster to start walking (if a directory) or
// reading (if a file) from.
func (e *ResolvedEntry) FirstCluster() uint32 {
	return e.cluster
}

// SetFirstCluster overrides the cluster to walk/read from, which
// SearchEntry and NewEntry otherwise derive from the entry's
// DIR_FstClusHI/LO fields.
func (e *ResolvedEntry) SetFirstCluster(cluster uint32) {
	e.cluster = cluster
}

// NewEntry wraps a raw directory entry and its long name (if any),
// deriving its walk/read cluster automatically. Used by callers that
// already have an entry from a directory walk and don't need to
// re-resolve it by path.
func NewEntry(raw *DirEntry, longName string) *ResolvedEntry {
	return &ResolvedEntry{Raw: raw, LongName: longName, cluster: FirstClusterOf(raw)}
}

// Size returns the entry's DIR_FileSize; zero for the root sentinel or
// any directory.
func (e *ResolvedEntry) Size() uint32 {
	if e.isRoot {
		return 0
	}
	return e.Raw.FileSize
}

// Name returns the long name when one was reassembled, otherwise the
// decoded short name. The root sentinel has no name.
func (e *ResolvedEntry) Name() string {
	if e.isRoot {
		return ""
	}
	if e.LongName != "" {
		return e.LongName
	}
	return ShortName(e.Raw)
}

// SearchEntry resolves an absolute UNIX-style path to its directory
// entry, per §4.G. No "." or ".." resolution is performed; the caller
// is expected to normalize the path first (§6). A trailing "/" is
// accepted only when the matched entry is a directory.
func SearchEntry(h *Header, path string) (*ResolvedEntry, error) {
	if path == "" || path[0] != '/' {
		panic("fat: SearchEntry requires an absolute path")
	}

	cursor := path[1:]
	if cursor == "" {
		root := GetRootDir(h)
		return &ResolvedEntry{isRoot: true, cluster: root.Cluster}, nil
	}

	dirCluster := GetRootDir(h).Cluster

	for {
		comp, rest := splitPathComponent(cursor)

		var (
			found     *DirEntry
			foundLong string
			notDir    bool
			descend   uint32
			wantDescend bool
		)

		cb := func(entry *DirEntry, longName string) bool {
			// A component matches the long name (case-sensitive) or
			// the short alias (case-insensitive); the alias stays
			// reachable even when the entry also carries a long name.
			match := (longName != "" && longName == comp) || strings.EqualFold(ShortName(entry), comp)
			if !match {
				return false
			}

			switch {
			case rest == "":
				found, foundLong = entry, longName
			case rest == "/":
				if entry.Attr&AttrDirectory == 0 {
					notDir = true
				} else {
					found, foundLong = entry, longName
				}
			default:
				if entry.Attr&AttrDirectory == 0 {
					notDir = true
				} else {
					descend, wantDescend = FirstClusterOf(entry), true
				}
			}
			return true
		}

		var err error
		if dirCluster == 0 {
			err = walkFixedRoot(h, cb)
		} else {
			err = WalkDirectory(h, dirCluster, cb)
		}
		if err != nil {
			return nil, err
		}

		if notDir {
			return nil, newError(KindNotDirectory, "%q is not a directory", comp)
		}
		if wantDescend {
			dirCluster = descend
			cursor = rest[1:]
			continue
		}
		if found == nil {
			return nil, newError(KindNotFound, "%q not found", comp)
		}

		return &ResolvedEntry{Raw: found, LongName: foundLong, cluster: FirstClusterOf(found)}, nil
	}
}

// splitPathComponent extracts the next path component up to the next
// "/" or end of string. rest is "" when comp is the last component, "/"
// when the path ends with a trailing slash after comp, or "/..." when
// more components follow.
func splitPathComponent(s string) (comp, rest string) {
	idx := strings.IndexByte(s, '/')
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx:]
}
