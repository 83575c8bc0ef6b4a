package fat

import "testing"

type walkHit struct {
	name string
	dir  bool
}

func collectWalk(t *testing.T, run func(cb WalkCallback) error) []walkHit {
	t.Helper()
	var hits []walkHit
	err := run(func(e *DirEntry, longName string) bool {
		name := longName
		if name == "" {
			name = ShortName(e)
		}
		hits = append(hits, walkHit{name: name, dir: e.Attr&AttrDirectory != 0})
		return false
	})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	return hits
}

func TestWalkSkipsDeletedSlotBetweenLiveEntries(t *testing.T) {
	h, data := newTestHeader(Type16, 1)
	region := h.testClusterRegion(2)

	putShortEntry(region, 0, "FIRST", "TXT", 0, 0, 5, 4)
	putDeletedEntry(region, 1)
	putShortEntry(region, 2, "SECOND", "TXT", 0, 0, 6, 4)
	putEndMarker(region, 3)
	_ = data

	hits := collectWalk(t, func(cb WalkCallback) error {
		return WalkDirectory(h, 2, cb)
	})

	if len(hits) != 2 {
		t.Fatalf("got %d entries, want 2 (deleted slot must be skipped silently): %+v", len(hits), hits)
	}
	if hits[0].name != "FIRST.TXT" || hits[1].name != "SECOND.TXT" {
		t.Fatalf("unexpected entries: %+v", hits)
	}
}

func TestWalkRecoversFromCorruptLongNameChecksum(t *testing.T) {
	h, _ := newTestHeader(Type16, 1)
	region := h.testClusterRegion(2)

	valid := shortNameBytes("GOODNAM", "TXT")
	validChksum := ShortNameChecksum(valid)
	putLongEntry(region, 0, 1, true, validChksum, "GoodName.txt")
	putShortEntry(region, 1, "GOODNAM", "TXT", 0, 0, 5, 0)

	bad := shortNameBytes("BADCHK", "TXT")
	badChksum := ShortNameChecksum(bad)
	putLongEntry(region, 2, 1, true, badChksum+1, "IgnoredName")
	putShortEntry(region, 3, "BADCHK", "TXT", 0, 0, 6, 0)

	putEndMarker(region, 4)

	hits := collectWalk(t, func(cb WalkCallback) error {
		return WalkDirectory(h, 2, cb)
	})

	if len(hits) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(hits), hits)
	}
	if hits[0].name != "GoodName.txt" {
		t.Fatalf("valid chain should reassemble: got %q", hits[0].name)
	}
	if hits[1].name != "BADCHK.TXT" {
		t.Fatalf("chain with mismatched checksum should fall back to the short name, got %q", hits[1].name)
	}
}

func TestWalkVolumeIDEntryIsSkipped(t *testing.T) {
	h, _ := newTestHeader(Type16, 1)
	region := h.testClusterRegion(2)

	putShortEntry(region, 0, "MYDISK", "", AttrVolumeID, 0, 0, 0)
	putShortEntry(region, 1, "REAL", "TXT", 0, 0, 5, 1)
	putEndMarker(region, 2)

	hits := collectWalk(t, func(cb WalkCallback) error {
		return WalkDirectory(h, 2, cb)
	})
	if len(hits) != 1 || hits[0].name != "REAL.TXT" {
		t.Fatalf("volume-id slot should not be delivered: %+v", hits)
	}
}

func TestWalkFixedRootReadsWholeRegion(t *testing.T) {
	// Two sectors' worth of root directory (32 slots); the live entries
	// here span past a single cluster's worth, exercising the hardening
	// that reads the whole RootDirSectors region up front.
	h, _ := newTestHeaderFlatRoot(2, 1)
	region := h.testRootRegion()

	// Fill every slot up to the one of interest so a stray zeroed slot
	// never passes for the 0x00 terminator before we're ready.
	for i := 0; i < 17; i++ {
		putShortEntry(region, i, "A", "TXT", 0, 0, 5, 1)
	}
	// Entry 17 lives in the second sector of the flat root.
	putShortEntry(region, 17, "B", "TXT", 0, 0, 5, 1)
	putEndMarker(region, 18)

	hits := collectWalk(t, func(cb WalkCallback) error {
		return WalkRoot(h, cb)
	})
	if len(hits) != 18 {
		t.Fatalf("flat root walk should see every live slot across both sectors, got %d: %+v", len(hits), hits)
	}
	if hits[17].name != "B.TXT" {
		t.Fatalf("last entry should be the one placed in the second sector, got %+v", hits[17])
	}
}

func TestWalkFAT32RootSpansMultipleClusters(t *testing.T) {
	h, data := newTestHeader(Type32, 6)

	// Root chain: cluster 2 -> 5 -> 7 -> end of chain. Clusters 2 and 5
	// are filled with live slots, since a 0x00 slot would end the
	// directory before the walker follows the FAT to the next cluster.
	putFatEntry32(h, data, 2, 5)
	putFatEntry32(h, data, 5, 7)
	putFatEntry32(h, data, 7, fat32EndOfChain)

	var want []string
	for i := 0; i < testClusterSize/entrySize; i++ {
		putShortEntry(h.testClusterRegion(2), i, "ONE", "TXT", 0, 0, 0, 0)
		want = append(want, "ONE.TXT")
	}
	for i := 0; i < testClusterSize/entrySize; i++ {
		putShortEntry(h.testClusterRegion(5), i, "TWO", "TXT", 0, 0, 0, 0)
		want = append(want, "TWO.TXT")
	}

	putShortEntry(h.testClusterRegion(7), 0, "THREE", "TXT", 0, 0, 0, 0)
	putEndMarker(h.testClusterRegion(7), 1)
	want = append(want, "THREE.TXT")

	hits := collectWalk(t, func(cb WalkCallback) error {
		return WalkRoot(h, cb)
	})

	if len(hits) != len(want) {
		t.Fatalf("got %d entries across the chain, want %d: %+v", len(hits), len(want), hits)
	}
	for i, w := range want {
		if hits[i].name != w {
			t.Errorf("entry %d = %q, want %q", i, hits[i].name, w)
		}
	}
}

func TestWalkDirectoryDetectsClusterLoop(t *testing.T) {
	h, data := newTestHeader(Type16, 2)

	putFatEntry16(h, data, 2, 2) // self-loop

	// Fill every slot in the cluster with a live entry so the walker
	// exhausts the whole region without seeing a 0x00/0xE5 terminator,
	// forcing it to consult the FAT and discover the loop.
	region := h.testClusterRegion(2)
	for i := 0; i < testClusterSize/entrySize; i++ {
		putShortEntry(region, i, "X", "TXT", 0, 0, 0, 0)
	}

	err := WalkDirectory(h, 2, func(e *DirEntry, longName string) bool { return false })
	if err == nil {
		t.Fatal("expected a corruption error for a self-referencing cluster chain")
	}
	var fe *Error
	if e, ok := err.(*Error); ok {
		fe = e
	} else if werr, ok := err.(interface{ Unwrap() error }); ok {
		fe, _ = werr.Unwrap().(*Error)
	}
	if fe == nil || fe.Kind != KindCorrupt {
		t.Fatalf("expected KindCorrupt, got %v", err)
	}
}
