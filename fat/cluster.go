package fat

import "github.com/example-os/fatvol/checkpoint"

// clusterBytes returns a zero-copy view of cluster n's data, sized to
// exactly one cluster. n must be >= 2 (§3 invariant 1).
func (h *Header) clusterBytes(n uint32) ([]byte, error) {
	if n < 2 {
		panic("fat: cluster number must be >= 2")
	}

	start := uint64(h.SectorForCluster(n)) * uint64(h.BytesPerSector)
	end := start + uint64(h.clusterSize())
	if end > uint64(len(h.data)) {
		return nil, checkpoint.From(newError(KindCorrupt, "cluster %d lies beyond the mapped image", n))
	}
	return h.data[start:end], nil
}

// FirstClusterOf returns an entry's first cluster number, combining the
// high and low words of DIR_FstClusHI/LO (the high word is zero on
// FAT16).
func FirstClusterOf(e *DirEntry) uint32 {
	return uint32(e.FstClusHI)<<16 | uint32(e.FstClusLO)
}
