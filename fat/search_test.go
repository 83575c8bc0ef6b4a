package fat

import (
	"errors"
	"testing"
)

// buildSearchFixture lays out, over a Type16 volume with a flat root:
//
//	/HELLO.TXT                   (file, cluster 5, 5 bytes)
//	/A/                          (dir, cluster 2)
//	/A/B/                        (dir, cluster 3)
//	/A/B/C.BIN                   (file, cluster 4, 4 bytes)
//	/LongFileNameExample.txt     (file, long name + short alias LONGFI~1.TXT)
func buildSearchFixture(t *testing.T) *Header {
	t.Helper()
	h, _ := newTestHeaderFlatRoot(1, 4)
	root := h.testRootRegion()

	putShortEntry(root, 0, "HELLO", "TXT", 0, 0, 5, 5)
	putShortEntry(root, 1, "A", "", AttrDirectory, 0, 2, 0)

	longAlias := shortNameBytes("LONGFI~1", "TXT")
	chksum := ShortNameChecksum(longAlias)
	putLongEntry(root, 2, 2, true, chksum, "xample.txt")
	putLongEntry(root, 3, 1, false, chksum, "LongFileNameE")
	putShortEntry(root, 4, "LONGFI~1", "TXT", 0, 0, 0, 0)
	putEndMarker(root, 5)

	dirA := h.testClusterRegion(2)
	putShortEntry(dirA, 0, "B", "", AttrDirectory, 0, 3, 0)
	putEndMarker(dirA, 1)

	dirB := h.testClusterRegion(3)
	putShortEntry(dirB, 0, "C", "BIN", 0, 0, 4, 4)
	putEndMarker(dirB, 1)

	copy(h.testClusterRegion(4), []byte{0xDE, 0xAD, 0xBE, 0xEF})
	copy(h.testClusterRegion(5), []byte("Hello"))

	return h
}

func TestSearchEntryTopLevelFile(t *testing.T) {
	h := buildSearchFixture(t)
	e, err := SearchEntry(h, "/hello.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.IsDir() {
		t.Fatal("hello.txt should not resolve as a directory")
	}
	if e.Size() != 5 {
		t.Fatalf("size = %d, want 5", e.Size())
	}
}

func TestSearchEntryNestedPath(t *testing.T) {
	h := buildSearchFixture(t)
	e, err := SearchEntry(h, "/a/b/c.bin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.IsDir() {
		t.Fatal("c.bin should not be a directory")
	}
	if e.Size() != 4 {
		t.Fatalf("size = %d, want 4", e.Size())
	}
}

func TestSearchEntryTrailingSlashOnDirectory(t *testing.T) {
	h := buildSearchFixture(t)
	e, err := SearchEntry(h, "/a/b/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.IsDir() {
		t.Fatal("/a/b/ should resolve to the directory entry for b")
	}
}

func TestSearchEntryTrailingSlashOnFileIsNotDirectory(t *testing.T) {
	h := buildSearchFixture(t)
	_, err := SearchEntry(h, "/a/b/c.bin/")
	if err == nil {
		t.Fatal("expected an error for a trailing slash on a plain file")
	}
	var fe *Error
	if !errors.As(err, &fe) || fe.Kind != KindNotDirectory {
		t.Fatalf("expected KindNotDirectory, got %v", err)
	}
}

func TestSearchEntryLongNameIsCaseSensitive(t *testing.T) {
	h := buildSearchFixture(t)
	if _, err := SearchEntry(h, "/LongFileNameExample.txt"); err != nil {
		t.Fatalf("exact-case long name should resolve: %v", err)
	}

	_, err := SearchEntry(h, "/longfilenameexample.txt")
	if err == nil {
		t.Fatal("long name comparison must be case-sensitive")
	}
	var fe *Error
	if !errors.As(err, &fe) || fe.Kind != KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}

func TestSearchEntryShortAliasIsCaseInsensitive(t *testing.T) {
	h := buildSearchFixture(t)
	e, err := SearchEntry(h, "/longfi~1.txt")
	if err != nil {
		t.Fatalf("short alias lookup should succeed case-insensitively: %v", err)
	}
	if e.Name() != "LongFileNameExample.txt" {
		t.Fatalf("Name() = %q, want the reassembled long name", e.Name())
	}
}

func TestSearchEntryNotFound(t *testing.T) {
	h := buildSearchFixture(t)
	_, err := SearchEntry(h, "/nope.txt")
	var fe *Error
	if !errors.As(err, &fe) || fe.Kind != KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}

func TestSearchEntryRoot(t *testing.T) {
	h := buildSearchFixture(t)
	e, err := SearchEntry(h, "/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.IsRoot() || !e.IsDir() {
		t.Fatal("/ should resolve to the root sentinel")
	}
}
