package nbt

import (
	"errors"
	"testing"
)

// empty document.
func TestParseEmptyDocument(t *testing.T) {
	root, _, marks, _, err := parseDocument([]byte{0x00}, BigEndian)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != TagEnd {
		t.Errorf("root = %s, want End", root)
	}
	if len(marks) != 0 {
		t.Errorf("expected no marks for an End root, got %d", len(marks))
	}
}

// single Byte root.
func TestParseSingleByte(t *testing.T) {
	src := []byte{0x01, 0x00, 0x00, 0x2A}
	root, name, _, end, err := parseDocument(src, BigEndian)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != TagByte {
		t.Errorf("root = %s, want Byte", root)
	}
	if len(name) != 0 {
		t.Errorf("expected empty name, got %q", name)
	}
	if end != len(src) {
		t.Errorf("end = %d, want %d", end, len(src))
	}
}

// little-endian Int round trip through a big-endian rewrite.
func TestParseLittleEndianInt(t *testing.T) {
	src := []byte{0x03, 0x00, 0x00, 0x04, 0x03, 0x02, 0x01}
	doc, err := ReadBorrowed(LittleEndian, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, ok := doc.Root().AsInt()
	if !ok || n != 0x01020304 {
		t.Errorf("AsInt() = (%d, %v), want (0x01020304, true)", n, ok)
	}

	be := doc.Root().WriteToVec(BigEndian)
	want := []byte{0x03, 0x00, 0x00, 0x01, 0x02, 0x03, 0x04}
	if !bytesEqual(be, want) {
		t.Errorf("re-encoded BE bytes = %x, want %x", be, want)
	}
}

// compound with one Int entry.
func TestParseCompoundWithOneEntry(t *testing.T) {
	src := []byte{0x0A, 0x00, 0x00, 0x03, 0x00, 0x01, 'a', 0x00, 0x00, 0x00, 0x01, 0x00}
	doc, err := ReadBorrowed(BigEndian, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root := doc.Root()
	if !root.IsCompound() {
		t.Fatalf("root is not a compound")
	}
	val, ok := root.GetKey("a")
	if !ok {
		t.Fatalf("key %q not found", "a")
	}
	n, ok := val.AsInt()
	if !ok || n != 1 {
		t.Errorf("a = (%d, %v), want (1, true)", n, ok)
	}
	if root.Len() != 1 {
		t.Errorf("Len() = %d, want 1", root.Len())
	}
}

// nested empty lists round-trip exactly.
func TestParseNestedEmptyLists(t *testing.T) {
	src := []byte{
		0x09, 0x00, 0x00, 0x09, 0x00, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00,
	}
	doc, err := ReadBorrowed(BigEndian, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root := doc.Root()
	if root.ElementTag() != TagList {
		t.Fatalf("outer element tag = %s, want List", root.ElementTag())
	}
	if root.Len() != 2 {
		t.Fatalf("outer len = %d, want 2", root.Len())
	}
	for it := root.Iter(); it.Next(); {
		inner := it.Value()
		if !inner.IsEmpty() {
			t.Errorf("expected inner list to be empty")
		}
	}

	out := root.WriteToVec(BigEndian)
	if !bytesEqual(out, src) {
		t.Errorf("round trip mismatch: got %x, want %x", out, src)
	}
}

// any single-byte truncation produces EndOfFile.
func TestParseTruncation(t *testing.T) {
	src := []byte{0x0A, 0x00, 0x00, 0x03, 0x00, 0x01, 'a', 0x00, 0x00, 0x00, 0x01, 0x00}
	for n := 0; n < len(src); n++ {
		_, _, _, _, err := parseDocument(src[:n], BigEndian)
		if !errors.Is(err, ErrEndOfFile) {
			t.Errorf("truncated to %d bytes: err = %v, want ErrEndOfFile", n, err)
		}
	}
}

// tag byte 13 is always invalid.
func TestParseInvalidTag(t *testing.T) {
	_, _, _, _, err := parseDocument([]byte{0x0D, 0x00, 0x00}, BigEndian)
	var invalid *InvalidTagTypeError
	if !errors.As(err, &invalid) || invalid.Byte != 13 {
		t.Errorf("err = %v, want InvalidTagTypeError{13}", err)
	}
}

func TestParseTrailingData(t *testing.T) {
	src := []byte{0x01, 0x00, 0x00, 0x2A, 0xFF}
	_, _, _, _, err := parseDocument(src, BigEndian)
	var trailing *TrailingDataError
	if !errors.As(err, &trailing) || trailing.N != 1 {
		t.Errorf("err = %v, want TrailingDataError{1}", err)
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
