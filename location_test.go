package kmodloader

import "testing"

func TestLocationReadWrite(t *testing.T) {
	buf := make([]byte, 16)
	loc := newLocation(buf)

	loc.Write8(0x42)
	if loc.Read8() != 0x42 {
		t.Errorf("Write8/Read8 mismatch")
	}
	loc.Write16(0xBEEF)
	if loc.Read16() != 0xBEEF {
		t.Errorf("Write16/Read16 mismatch")
	}
	loc.Write32(0xDEADBEEF)
	if loc.Read32() != 0xDEADBEEF {
		t.Errorf("Write32/Read32 mismatch")
	}
	loc.Write64(0x0102030405060708)
	if loc.Read64() != 0x0102030405060708 {
		t.Errorf("Write64/Read64 mismatch")
	}

	next := loc.Add(8)
	next.Write32(0x11223344)
	if le32(buf, 8) != 0x11223344 {
		t.Errorf("Add offset did not land at the expected byte")
	}
}

func TestLocationBytes(t *testing.T) {
	buf := make([]byte, 8)
	loc := newLocation(buf)
	view := loc.Bytes(4)
	view[0] = 0xAB
	if buf[0] != 0xAB {
		t.Errorf("Bytes view is not write-through")
	}
}
