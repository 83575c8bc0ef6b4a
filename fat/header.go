package fat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/example-os/fatvol/checkpoint"
)

// These errors may occur while opening or reading a FAT volume.
var (
	ErrInitializeFilesystem = errors.New("could not initialize the volume")
	ErrNotSupported         = errors.New("not supported")
	ErrInvalidPath          = errors.New("invalid path")
)

// Header is the decoded volume geometry plus a borrowed, read-only view
// over the whole mapped image: boot sector, reserved sectors, FAT copies
// and the data region, all contiguous in memory. A Header never copies
// or retains ownership of data; the caller must keep it alive and
// unmodified for as long as the Header is used (§5).
type Header struct {
	data []byte

	Type Type

	BytesPerSector      uint16
	SectorsPerCluster   uint8
	ReservedSectorCount uint16
	NumFATs             uint8
	RootEntryCount      uint16

	FatSizeSectors  uint32
	TotalSectors    uint32
	RootDirSectors  uint32
	FirstDataSector uint32

	// RootCluster is meaningful only for Type32.
	RootCluster uint32

	Label string
}

// ParseHeader decodes the BPB at the start of data and classifies the
// volume. If skipChecks is false, a handful of sanity checks (boot
// signature, jump instruction, power-of-two geometry) reject inputs that
// aren't plausibly a FAT volume; skipping them may allow opening
// slightly non-standard images, at the caller's risk.
func ParseHeader(data []byte, skipChecks bool) (*Header, error) {
	if len(data) < 512 {
		return nil, checkpoint.From(fmt.Errorf("%w: image shorter than one sector", ErrInitializeFilesystem))
	}

	var bpb BPB
	if err := binary.Read(bytes.NewReader(data[:512]), binary.LittleEndian, &bpb); err != nil {
		return nil, checkpoint.Wrap(err, fmt.Errorf("%w: parsing the BPB failed", ErrInitializeFilesystem))
	}

	if !skipChecks {
		if err := validateBPB(bpb, data); err != nil {
			return nil, err
		}
	}

	h := &Header{data: data}

	var fat32Ext FAT32SpecificData
	if bpb.FATSize16 != 0 {
		h.FatSizeSectors = uint32(bpb.FATSize16)
	} else {
		if err := binary.Read(bytes.NewReader(bpb.FATSpecificData[:]), binary.LittleEndian, &fat32Ext); err != nil {
			return nil, checkpoint.Wrap(err, fmt.Errorf("%w: parsing the FAT32 extended BPB failed", ErrInitializeFilesystem))
		}
		h.FatSizeSectors = fat32Ext.FatSize
	}

	if bpb.TotalSectors16 != 0 {
		h.TotalSectors = uint32(bpb.TotalSectors16)
	} else {
		h.TotalSectors = bpb.TotalSectors32
	}

	h.RootDirSectors = (uint32(bpb.RootEntryCount)*entrySize + uint32(bpb.BytesPerSector) - 1) / uint32(bpb.BytesPerSector)
	h.BytesPerSector = bpb.BytesPerSector
	h.SectorsPerCluster = bpb.SectorsPerCluster
	h.ReservedSectorCount = bpb.ReservedSectorCount
	h.NumFATs = bpb.NumFATs
	h.RootEntryCount = bpb.RootEntryCount
	h.FirstDataSector = uint32(bpb.ReservedSectorCount) + uint32(bpb.NumFATs)*h.FatSizeSectors + h.RootDirSectors

	h.Type = classify(h.TotalSectors, h.ReservedSectorCount, uint32(h.NumFATs), h.FatSizeSectors, h.RootDirSectors, h.SectorsPerCluster)

	if h.Type == Type12 {
		return nil, checkpoint.From(fmt.Errorf("%w: FAT12 volumes", ErrNotSupported))
	}

	if h.Type == Type32 {
		h.RootCluster = fat32Ext.RootCluster
		h.Label = trimLabel(fat32Ext.BSVolumeLabel)
	} else {
		var fat16Ext FAT16SpecificData
		if err := binary.Read(bytes.NewReader(bpb.FATSpecificData[:]), binary.LittleEndian, &fat16Ext); err != nil {
			return nil, checkpoint.Wrap(err, fmt.Errorf("%w: parsing the FAT16 extended BPB failed", ErrInitializeFilesystem))
		}
		h.Label = trimLabel(fat16Ext.BSVolumeLabel)
	}

	return h, nil
}

func trimLabel(raw [11]byte) string {
	end := len(raw)
	for end > 0 && raw[end-1] == ' ' {
		end--
	}
	return string(raw[:end])
}

func validateBPB(bpb BPB, data []byte) error {
	if !(bpb.BSJumpBoot[0] == 0xEB && bpb.BSJumpBoot[2] == 0x90) && bpb.BSJumpBoot[0] != 0xE9 {
		return checkpoint.From(fmt.Errorf("%w: no valid jump instruction at the start of the boot sector", ErrInitializeFilesystem))
	}

	switch bpb.BytesPerSector {
	case 512, 1024, 2048, 4096:
	default:
		return checkpoint.From(fmt.Errorf("%w: invalid sector size %d", ErrInitializeFilesystem, bpb.BytesPerSector))
	}

	if bpb.SectorsPerCluster == 0 || bpb.SectorsPerCluster&(bpb.SectorsPerCluster-1) != 0 {
		return checkpoint.From(fmt.Errorf("%w: sectors-per-cluster %d is not a power of two", ErrInitializeFilesystem, bpb.SectorsPerCluster))
	}

	if uint32(bpb.BytesPerSector)*uint32(bpb.SectorsPerCluster) > 32*1024 {
		return checkpoint.From(fmt.Errorf("%w: cluster size exceeds 32K", ErrInitializeFilesystem))
	}

	if bpb.ReservedSectorCount == 0 {
		return checkpoint.From(fmt.Errorf("%w: reserved sector count is zero", ErrInitializeFilesystem))
	}

	if bpb.NumFATs < 1 {
		return checkpoint.From(fmt.Errorf("%w: invalid FAT count", ErrInitializeFilesystem))
	}

	if len(data) < 512 || data[510] != 0x55 || data[511] != 0xAA {
		return checkpoint.From(fmt.Errorf("%w: invalid boot sector signature", ErrInitializeFilesystem))
	}

	return nil
}

// classify implements the Microsoft cluster-count rule (§3): the
// decision depends only on geometry, never on any signature string.
func classify(totalSectors uint32, reservedSectorCount uint16, numFATs, fatSizeSectors, rootDirSectors uint32, sectorsPerCluster uint8) Type {
	dataSectors := totalSectors - (uint32(reservedSectorCount) + numFATs*fatSizeSectors + rootDirSectors)
	countOfClusters := dataSectors / uint32(sectorsPerCluster)

	switch {
	case countOfClusters < 4085:
		return Type12
	case countOfClusters < 65525:
		return Type16
	default:
		return Type32
	}
}

// GetType returns the volume's classified FAT type. It is entry point #1
// of §6 and never fails: classification is total given a decoded Header.
func GetType(h *Header) Type {
	return h.Type
}

// SectorForCluster returns the first sector number of cluster n within
// the data region. n must be >= 2.
func (h *Header) SectorForCluster(n uint32) uint32 {
	return (n-2)*uint32(h.SectorsPerCluster) + h.FirstDataSector
}

// clusterSize returns the size in bytes of a single cluster.
func (h *Header) clusterSize() uint32 {
	return uint32(h.BytesPerSector) * uint32(h.SectorsPerCluster)
}

// sectorBytes returns the byte range of sector n within the borrowed
// image, or an error if it falls outside the mapped region (corruption
// or a truncated image).
func (h *Header) sectorBytes(n uint32) ([]byte, error) {
	return h.sectorRangeBytes(n, 1)
}

// sectorRangeBytes returns count contiguous sectors starting at n. Used
// for the FAT12/16 flat root directory region, which is not a cluster
// chain.
func (h *Header) sectorRangeBytes(n, count uint32) ([]byte, error) {
	start := uint64(n) * uint64(h.BytesPerSector)
	end := start + uint64(count)*uint64(h.BytesPerSector)
	if end > uint64(len(h.data)) {
		return nil, checkpoint.From(newError(KindCorrupt, "sector range [%d, %d) lies beyond the mapped image", n, n+count))
	}
	return h.data[start:end], nil
}
