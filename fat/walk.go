package fat

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/example-os/fatvol/checkpoint"
)

// WalkCallback is invoked once per live directory entry, with its
// reassembled long name if one was present and validated (empty
// otherwise). Returning true stops the walk after the current entry.
type WalkCallback func(entry *DirEntry, longName string) bool

// errNoMoreEntries signals a 0x00 first-name-byte: a normal, successful
// end of directory, not a fault.
var errNoMoreEntries = errors.New("fat: no more directory entries")

// WalkDirectory iterates the entries of a directory whose contents live
// in a cluster chain starting at firstCluster (any directory other than
// a FAT12/16 root; for FAT32 this includes the root). firstCluster must
// be >= 2; use WalkRoot for a FAT16 root's flat sector range.
func WalkDirectory(h *Header, firstCluster uint32, cb WalkCallback) error {
	if firstCluster < 2 {
		panic("fat: WalkDirectory requires a cluster >= 2")
	}

	acc := newLongNameAccumulator()
	visited := make(map[uint32]bool)
	cluster := firstCluster

	for {
		if visited[cluster] {
			return newError(KindCorrupt, "cluster chain loop at cluster %d", cluster)
		}
		visited[cluster] = true

		data, err := h.clusterBytes(cluster)
		if err != nil {
			return err
		}

		stop, err := walkEntries(data, acc, cb)
		if err != nil {
			if errors.Is(err, errNoMoreEntries) {
				return nil
			}
			return err
		}
		if stop {
			return nil
		}

		next, err := h.ReadFatEntry(cluster, 0)
		if err != nil {
			return err
		}
		if IsBadCluster(h.Type, next) {
			return checkpoint.From(newError(KindCorrupt, "bad cluster %d in directory chain", cluster))
		}
		if IsEndOfChain(h.Type, next) {
			return nil
		}
		cluster = next
	}
}

// WalkRoot iterates the volume's root directory, dispatching to the
// fixed sector range on FAT12/16 or the normal cluster chain on FAT32.
func WalkRoot(h *Header, cb WalkCallback) error {
	if h.Type == Type32 {
		return WalkDirectory(h, h.RootCluster, cb)
	}
	return walkFixedRoot(h, cb)
}

// walkFixedRoot iterates the FAT12/16 root directory, a flat region of
// RootDirSectors sectors immediately preceding the data region. Unlike
// the original C source (which reads only a single cluster's worth and
// silently truncates), this iterates the full region up front, per the
// hardening called for in the design notes.
func walkFixedRoot(h *Header, cb WalkCallback) error {
	rootStart := uint32(h.ReservedSectorCount) + uint32(h.NumFATs)*h.FatSizeSectors

	data, err := h.sectorRangeBytes(rootStart, h.RootDirSectors)
	if err != nil {
		return err
	}

	acc := newLongNameAccumulator()
	_, err = walkEntries(data, acc, cb)
	if err != nil && errors.Is(err, errNoMoreEntries) {
		return nil
	}
	return err
}

// walkEntries scans one contiguous region of 32-byte slots, returning
// stop=true if cb requested early termination, or errNoMoreEntries once
// a 0x00 first-name-byte is seen.
func walkEntries(data []byte, acc *longNameAccumulator, cb WalkCallback) (bool, error) {
	for off := 0; off+entrySize <= len(data); off += entrySize {
		slot := data[off : off+entrySize]
		nameByte := slot[0]
		attr := slot[11]

		if attr == AttrLongName {
			l, err := decodeLongDirEntry(slot)
			if err != nil {
				return false, err
			}
			acc.add(l)
			continue
		}

		if nameByte == nameNoMoreEntries {
			return false, errNoMoreEntries
		}

		if nameByte == nameDeletedEntry {
			acc.reset()
			continue
		}

		if attr&AttrVolumeID != 0 {
			acc.reset()
			continue
		}

		entry, err := decodeDirEntry(slot)
		if err != nil {
			return false, err
		}

		longName, _ := acc.finish(entry.Name)
		acc.reset()

		if cb(entry, longName) {
			return true, nil
		}
	}
	return false, nil
}

func decodeDirEntry(slot []byte) (*DirEntry, error) {
	var e DirEntry
	if err := binary.Read(bytes.NewReader(slot), binary.LittleEndian, &e); err != nil {
		return nil, checkpoint.Wrap(err, newError(KindCorrupt, "decoding directory entry"))
	}
	return &e, nil
}

func decodeLongDirEntry(slot []byte) (*LongDirEntry, error) {
	var l LongDirEntry
	if err := binary.Read(bytes.NewReader(slot), binary.LittleEndian, &l); err != nil {
		return nil, checkpoint.Wrap(err, newError(KindCorrupt, "decoding long-name entry"))
	}
	return &l, nil
}
