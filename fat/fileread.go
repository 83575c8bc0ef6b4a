package fat

import "github.com/example-os/fatvol/checkpoint"

// FileSize returns an entry's DIR_FileSize.
func FileSize(e *ResolvedEntry) uint32 {
	return e.Size()
}

// ReadWholeFile streams e's cluster chain into dest, which must be at
// least e.Size() bytes (the precondition the original source enforces
// with a bare assertion). Unlike that source, traversal is capped at
// ceil(size/cluster_size) clusters and a repeated cluster number is
// treated as corruption rather than trusted, per the hardening called
// for in the design notes: a malicious or corrupt chain cannot force an
// unbounded read.
func ReadWholeFile(h *Header, e *ResolvedEntry, dest []byte) (int, error) {
	if e.IsRoot() || e.Raw.Attr&AttrDirectory != 0 {
		panic("fat: ReadWholeFile requires a file entry")
	}

	size := e.Size()
	if uint32(len(dest)) < size {
		panic("fat: dest buffer smaller than the file size")
	}
	if size == 0 {
		return 0, nil
	}

	clusterSize := h.clusterSize()
	maxClusters := (size + clusterSize - 1) / clusterSize

	cluster := e.FirstCluster()
	remaining := size
	written := 0
	visited := make(map[uint32]bool, maxClusters)

	for i := uint32(0); i < maxClusters; i++ {
		if cluster < 2 {
			return written, checkpoint.From(newError(KindCorrupt, "file chain ended early after %d bytes of %d", written, size))
		}
		if visited[cluster] {
			return written, checkpoint.From(newError(KindCorrupt, "cluster chain loop at cluster %d while reading file", cluster))
		}
		visited[cluster] = true

		data, err := h.clusterBytes(cluster)
		if err != nil {
			return written, err
		}

		n := remaining
		if n > clusterSize {
			n = clusterSize
		}
		copy(dest[written:written+int(n)], data[:n])
		written += int(n)
		remaining -= n

		if remaining == 0 {
			return written, nil
		}

		next, err := h.ReadFatEntry(cluster, 0)
		if err != nil {
			return written, err
		}
		if IsBadCluster(h.Type, next) {
			return written, checkpoint.From(newError(KindCorrupt, "bad cluster %d while reading file", cluster))
		}
		if IsEndOfChain(h.Type, next) {
			return written, checkpoint.From(newError(KindCorrupt, "end of chain reached with %d bytes still owed", remaining))
		}
		cluster = next
	}

	return written, checkpoint.From(newError(KindCorrupt, "file chain exceeds %d clusters implied by its size", maxClusters))
}

// UsedBytes scans FAT entries from cluster 2 upward until the first free
// (zero) entry and returns the byte offset of the sector corresponding
// to that cluster. This is a best-effort "high water mark" for
// linearly-allocated images, not a true free-space count (§4 ancillary).
func UsedBytes(h *Header) uint32 {
	var cluster uint32 = 2
	for {
		sector := h.SectorForCluster(cluster)
		if uint64(sector)*uint64(h.BytesPerSector) >= uint64(len(h.data)) {
			return uint32(len(h.data))
		}
		entry, err := h.ReadFatEntry(cluster, 0)
		if err != nil || entry == 0 {
			return sector * uint32(h.BytesPerSector)
		}
		cluster++
	}
}
