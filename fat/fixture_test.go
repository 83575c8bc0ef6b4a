package fat

import "encoding/binary"

// Small helpers for hand-building in-memory directory regions and
// Headers, used across the package's table-driven tests. Geometry is
// deliberately tiny and invented directly on a Header literal rather
// than through a real BPB: the tests below exercise the walker,
// resolver and file reader, not BPB decoding (see header_test.go for
// that).

const testClusterSize = 512

// newTestHeader builds a Header over a zeroed image of nClusters data
// clusters, preceded by one reserved sector and one FAT sector. Tests
// that follow a cluster chain fill the FAT with putFatEntry16/32, and
// testClusterRegion lets a caller fill in a specific cluster's bytes
// before the Header is used.
func newTestHeader(t Type, nClusters uint32) (*Header, []byte) {
	const reserved = 1
	const fatSectors = 1
	firstDataSector := uint32(reserved + fatSectors)

	total := firstDataSector + nClusters
	data := make([]byte, total*testClusterSize)

	h := &Header{
		data:                data,
		Type:                t,
		BytesPerSector:      testClusterSize,
		SectorsPerCluster:   1,
		ReservedSectorCount: reserved,
		NumFATs:             1,
		FatSizeSectors:      fatSectors,
		FirstDataSector:     firstDataSector,
	}
	if t == Type32 {
		h.RootCluster = 2
	}
	return h, data
}

// newTestHeaderFlatRoot builds a Type16 Header whose root directory is
// the fixed sector range that precedes the data region, exercising
// walkFixedRoot/GetRootDir's flat-root branch.
func newTestHeaderFlatRoot(rootSectors, nClusters uint32) (*Header, []byte) {
	const reserved = 1
	const fatSectors = 1
	firstDataSector := uint32(reserved+fatSectors) + rootSectors

	total := firstDataSector + nClusters
	data := make([]byte, total*testClusterSize)

	h := &Header{
		data:                data,
		Type:                Type16,
		BytesPerSector:      testClusterSize,
		SectorsPerCluster:   1,
		ReservedSectorCount: reserved,
		NumFATs:             1,
		FatSizeSectors:      fatSectors,
		RootDirSectors:      rootSectors,
		FirstDataSector:     firstDataSector,
	}
	return h, data
}

// testRootRegion returns the byte range backing the flat root directory
// built by newTestHeaderFlatRoot.
func (h *Header) testRootRegion() []byte {
	rootStart := uint64(h.ReservedSectorCount) + uint64(h.NumFATs)*uint64(h.FatSizeSectors)
	start := rootStart * uint64(h.BytesPerSector)
	return h.data[start : start+uint64(h.RootDirSectors)*uint64(h.BytesPerSector)]
}

// testClusterRegion returns the byte range backing cluster n within data,
// for a Header built by newTestHeader.
func (h *Header) testClusterRegion(n uint32) []byte {
	start := uint64(h.SectorForCluster(n)) * uint64(h.BytesPerSector)
	return h.data[start : start+testClusterSize]
}

func shortNameBytes(base, ext string) [11]byte {
	var out [11]byte
	for i := range out {
		out[i] = ' '
	}
	copy(out[0:8], base)
	copy(out[8:11], ext)
	return out
}

// putShortEntry writes a short-name (or subdirectory/volume-id) slot at
// slot index idx (0-based) within region.
func putShortEntry(region []byte, idx int, base, ext string, attr, ntres byte, cluster, size uint32) {
	off := idx * entrySize
	name := shortNameBytes(base, ext)
	copy(region[off:off+11], name[:])
	region[off+11] = attr
	region[off+12] = ntres
	binary.LittleEndian.PutUint16(region[off+20:off+22], uint16(cluster>>16))
	binary.LittleEndian.PutUint16(region[off+26:off+28], uint16(cluster))
	binary.LittleEndian.PutUint32(region[off+28:off+32], size)
}

func putDeletedEntry(region []byte, idx int) {
	off := idx * entrySize
	region[off] = nameDeletedEntry
}

func putEndMarker(region []byte, idx int) {
	off := idx * entrySize
	region[off] = nameNoMoreEntries
}

// putLongEntry writes one VFAT long-name slot at idx. seq is the
// 1-based sequence number (0x40 is ORed in here when last is true);
// text holds up to 13 ASCII characters for this slot.
func putLongEntry(region []byte, idx int, seq byte, last bool, chksum byte, text string) {
	off := idx * entrySize
	ord := seq
	if last {
		ord |= 0x40
	}
	region[off] = ord
	region[off+11] = AttrLongName
	region[off+13] = chksum

	units := make([]uint16, 13)
	for i := range units {
		units[i] = 0xFFFF
	}
	for i, r := range text {
		units[i] = uint16(r)
	}
	if len(text) < 13 {
		units[len(text)] = 0x0000
	}

	for i := 0; i < 5; i++ {
		binary.LittleEndian.PutUint16(region[off+1+i*2:off+3+i*2], units[i])
	}
	for i := 0; i < 6; i++ {
		binary.LittleEndian.PutUint16(region[off+14+i*2:off+16+i*2], units[5+i])
	}
	for i := 0; i < 2; i++ {
		binary.LittleEndian.PutUint16(region[off+28+i*2:off+30+i*2], units[11+i])
	}
}

func putFatEntry16(h *Header, data []byte, cluster uint32, value uint16) {
	sectorNum := uint32(h.ReservedSectorCount) + cluster*2/uint32(h.BytesPerSector)
	entryOffset := cluster * 2 % uint32(h.BytesPerSector)
	sectorStart := uint64(sectorNum) * uint64(h.BytesPerSector)
	binary.LittleEndian.PutUint16(data[sectorStart+uint64(entryOffset):], value)
}

func putFatEntry32(h *Header, data []byte, cluster uint32, value uint32) {
	sectorNum := uint32(h.ReservedSectorCount) + cluster*4/uint32(h.BytesPerSector)
	entryOffset := cluster * 4 % uint32(h.BytesPerSector)
	sectorStart := uint64(sectorNum) * uint64(h.BytesPerSector)
	binary.LittleEndian.PutUint32(data[sectorStart+uint64(entryOffset):], value)
}
