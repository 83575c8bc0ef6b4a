package fat

import "strings"

// ShortName reconstructs the 8.3 name from a directory entry, applying
// the NT-reserved lowercase flags. An empty extension produces no
// trailing dot.
func ShortName(e *DirEntry) string {
	base := strings.TrimRight(string(e.Name[0:8]), " ")
	ext := strings.TrimRight(string(e.Name[8:11]), " ")

	if e.NTRes&NTResNameLower != 0 {
		base = strings.ToLower(base)
	}
	if ext != "" && e.NTRes&NTResExtLower != 0 {
		ext = strings.ToLower(ext)
	}

	if ext == "" {
		return base
	}
	return base + "." + ext
}

// ShortNameChecksum computes the 8-bit rotate-add checksum over the
// 11-byte 8.3 name, the value every LDIR_Chksum in an associated
// long-name chain must match.
func ShortNameChecksum(name [11]byte) byte {
	var sum byte
	for _, b := range name {
		sum = rotateRight8(sum) + b
	}
	return sum
}

func rotateRight8(b byte) byte {
	return (b >> 1) | (b << 7)
}
