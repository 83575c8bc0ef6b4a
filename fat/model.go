// File model contains the structs which match the on-disk layout of a FAT
// volume: the BPB and its FAT16/FAT32 tails, and the two directory entry
// shapes (short-name and VFAT long-name) that share the same 32-byte slot.

package fat

// BPB is the BIOS Parameter Block occupying the first bytes of every FAT
// volume. FATSpecificData is the raw tail whose layout differs between
// FAT12/16 and FAT32; it is decoded separately once the caller knows
// which applies (FATSize16 == 0 selects the FAT32 tail).
type BPB struct {
	BSJumpBoot          [3]byte
	BSOEMName           [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32
	FATSpecificData     [54]byte
}

// FAT16SpecificData is the BPB tail used by FAT12/16 volumes.
type FAT16SpecificData struct {
	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSig        byte
	BSVolumeId       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

// FAT32SpecificData is the BPB tail used by FAT32 volumes.
type FAT32SpecificData struct {
	FatSize          uint32
	ExtFlags         uint16
	FSVersion        uint16
	RootCluster      uint32
	FSInfo           uint16
	BkBootSector     uint16
	Reserved         [12]byte
	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSig        byte
	BSVolumeID       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

// DirEntry is a 32-byte short-name directory entry (DIR_* fields of the
// FAT spec).
type DirEntry struct {
	Name         [11]byte
	Attr         byte
	NTRes        byte
	CrtTimeTenth byte
	CrtTime      uint16
	CrtDate      uint16
	LstAccDate   uint16
	FstClusHI    uint16
	WrtTime      uint16
	WrtDate      uint16
	FstClusLO    uint16
	FileSize     uint32
}

// LongDirEntry is a 32-byte VFAT long-name slot, identified by Attr ==
// AttrLongName. Name1/Name2/Name3 hold UTF-16 code units, little-endian,
// 5+6+2 = 13 units per slot.
type LongDirEntry struct {
	Ord       byte
	Name1     [10]byte // 5 UTF-16 units
	Attr      byte
	Type      byte
	Chksum    byte
	Name2     [12]byte // 6 UTF-16 units
	FstClusLO uint16
	Name3     [4]byte // 2 UTF-16 units
}

// IsLast reports whether Ord marks the highest-ordinal ("last" in
// forward reading order) slot of a long-name chain.
func (l *LongDirEntry) IsLast() bool {
	return l.Ord&0x40 != 0
}

// Sequence returns the slot's 1-based position within its chain, with
// the "last" marker bit masked off.
func (l *LongDirEntry) Sequence() byte {
	return l.Ord &^ 0x40
}
