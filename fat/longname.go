package fat

// longNameAccumulator collects the UTF-16 slots of a VFAT long-name chain
// as the walker steps backward from the highest ordinal down to 1, then
// yields the assembled name in forward reading order.
//
// On-disk, slot N holds characters [(N-1)*13, N*13) of the name, and
// slots are stored with the highest-ordinal (last) slot first. Callers
// feed entries in that same on-disk order; the accumulator reverses once
// at the end rather than requiring a caller to pre-sort.
type longNameAccumulator struct {
	chunks  [][]uint16
	chksum  byte
	started bool
	broken  bool
}

func newLongNameAccumulator() *longNameAccumulator {
	return &longNameAccumulator{}
}

// reset discards any in-progress chain, e.g. after a short-name entry
// terminates it without consuming it, or a corrupt slot is seen.
func (a *longNameAccumulator) reset() {
	a.chunks = a.chunks[:0]
	a.chksum = 0
	a.started = false
	a.broken = false
}

// add feeds one long-name slot, in on-disk (descending-ordinal) order.
// A chain is expected to start with its IsLast() slot; any other slot
// seen first marks the chain broken, and it is dropped once it
// terminates at a short-name entry.
func (a *longNameAccumulator) add(l *LongDirEntry) {
	if !a.started {
		if !l.IsLast() {
			a.broken = true
			return
		}
		a.started = true
		a.chksum = l.Chksum
		a.chunks = a.chunks[:0]
	} else if l.Chksum != a.chksum {
		a.broken = true
	}

	a.chunks = append(a.chunks, decodeLongNameSlot(l))
}

// decodeLongNameSlot extracts the up-to-13 UTF-16 code units of a single
// slot, stopping at the first NUL terminator (padding beyond it is
// 0xFFFF and is also excluded).
func decodeLongNameSlot(l *LongDirEntry) []uint16 {
	units := make([]uint16, 0, 13)
	read2 := func(b []byte) (uint16, bool) {
		u := uint16(b[0]) | uint16(b[1])<<8
		return u, u != 0x0000 && u != 0xFFFF
	}

	for i := 0; i < 10; i += 2 {
		u, ok := read2(l.Name1[i : i+2])
		if !ok {
			return units
		}
		units = append(units, u)
	}
	for i := 0; i < 12; i += 2 {
		u, ok := read2(l.Name2[i : i+2])
		if !ok {
			return units
		}
		units = append(units, u)
	}
	for i := 0; i < 4; i += 2 {
		u, ok := read2(l.Name3[i : i+2])
		if !ok {
			return units
		}
		units = append(units, u)
	}
	return units
}

// finish validates and assembles the accumulated chain against the
// short-name entry that terminates it, returning ("", false) if the
// chain was never started, is broken, doesn't checksum-match shortName,
// contains a non-ASCII code unit (Non-goal, §1), contains a byte outside
// the character whitelist, or exceeds the maximum long-name length.
func (a *longNameAccumulator) finish(shortName [11]byte) (string, bool) {
	if !a.started || a.broken {
		return "", false
	}
	if a.chksum != ShortNameChecksum(shortName) {
		return "", false
	}

	var buf []uint16
	for i := len(a.chunks) - 1; i >= 0; i-- {
		buf = append(buf, a.chunks[i]...)
	}

	if len(buf) > maxLongNameBytes {
		return "", false
	}

	out := make([]byte, 0, len(buf))
	for _, u := range buf {
		if u > 0x7F {
			return "", false
		}
		b := byte(u)
		if !isValidLongNameByte(b) {
			return "", false
		}
		out = append(out, b)
	}
	return string(out), true
}
