package fat

import (
	"encoding/binary"

	"github.com/example-os/fatvol/checkpoint"
)

// FAT16/FAT32 end-of-chain and bad-cluster sentinels (§3). FAT12 has its
// own packed 12-bit layout and is out of scope (§1 Non-goals).
const (
	fat16EndOfChain = 0xFFF8
	fat16Bad        = 0xFFF7
	fat32EndOfChain = 0x0FFFFFF8
	fat32Bad        = 0x0FFFFFF7
	fat32EntryMask  = 0x0FFFFFFF
)

// ReadFatEntry reads the FAT entry for cluster in FAT number fatIndex,
// zero-extended to 32 bits (masked to 28 bits for FAT32). Calling this
// with Type12 or with cluster <= 1 is a programming error and panics,
// per §7.
func (h *Header) ReadFatEntry(cluster uint32, fatIndex uint8) (uint32, error) {
	if h.Type == Type12 {
		panic("fat: FAT12 is not supported")
	}
	if cluster <= 1 {
		panic("fat: cluster number must be >= 2")
	}
	if fatIndex >= h.NumFATs {
		panic("fat: FAT index out of range")
	}

	width := uint32(2)
	if h.Type == Type32 {
		width = 4
	}

	offset := cluster * width
	sectorNum := uint32(fatIndex)*h.FatSizeSectors + uint32(h.ReservedSectorCount) + offset/uint32(h.BytesPerSector)
	entryOffset := offset % uint32(h.BytesPerSector)

	sector, err := h.sectorBytes(sectorNum)
	if err != nil {
		return 0, checkpoint.Wrap(err, newError(KindCorrupt, "reading FAT entry for cluster %d", cluster))
	}

	if h.Type == Type16 {
		return uint32(binary.LittleEndian.Uint16(sector[entryOffset : entryOffset+2])), nil
	}
	return binary.LittleEndian.Uint32(sector[entryOffset:entryOffset+4]) & fat32EntryMask, nil
}

// IsEndOfChain reports whether value terminates a cluster chain for the
// given FAT type.
func IsEndOfChain(t Type, value uint32) bool {
	if t == Type32 {
		return value&fat32EntryMask >= fat32EndOfChain
	}
	return value >= fat16EndOfChain
}

// IsBadCluster reports whether value marks a bad cluster for the given
// FAT type.
func IsBadCluster(t Type, value uint32) bool {
	if t == Type32 {
		return value&fat32EntryMask == fat32Bad
	}
	return value == fat16Bad
}
