package kmodloader

import "testing"

func TestApplyAArch64Abs64(t *testing.T) {
	buf := make([]byte, 8)
	loc := newLocation(buf)
	if err := ApplyAArch64(AArch64Abs64, loc, 0x1122334455667788); err != nil {
		t.Fatalf("ApplyAArch64: %v", err)
	}
	got := le64(buf, 0)
	if got != 0x1122334455667788 {
		t.Errorf("got 0x%x", got)
	}
}

func TestApplyAArch64AdrpAddPair(t *testing.T) {
	// ADRP x0, . ; ADD x0, x0, #0
	buf := make([]byte, 8)
	putLe32(buf, 0, 0x90000000) // ADRP x0
	putLe32(buf, 4, 0x91000000) // ADD x0, x0, #0

	loc := newLocation(buf)
	target := (uint64(loc) &^ 0xfff) + 0x404123 // non-page-aligned, matches teacher's test fixture

	if err := ApplyAArch64(AArch64AdrPrelPgHi21, loc, target); err != nil {
		t.Fatalf("ApplyAArch64 ADRP: %v", err)
	}
	adrp := le32(buf, 0)
	immlo := (adrp >> 29) & 0x3
	immhi := (adrp >> 5) & 0x7ffff
	if immlo == 0 && immhi == 0 {
		t.Errorf("ADRP immediate still zero after patching")
	}

	addLoc := loc.Add(4)
	if err := ApplyAArch64(AArch64AddAbsLo12NC, addLoc, target); err != nil {
		t.Fatalf("ApplyAArch64 ADD: %v", err)
	}
	add := le32(buf, 4)
	imm12 := (add >> 10) & 0xfff
	if imm12 != 0x123 {
		t.Errorf("ADD imm12: got 0x%x, want 0x123", imm12)
	}
}

func TestApplyAArch64Jump26Range(t *testing.T) {
	buf := make([]byte, 4)
	loc := newLocation(buf)
	err := ApplyAArch64(AArch64Jump26, loc, uint64(loc)+(1<<28))
	if err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestApplyAArch64Unimplemented(t *testing.T) {
	if err := ApplyAArch64(AArch64AdrGotPage, Location(0x1000), 0); err == nil {
		t.Fatalf("expected ADR_GOT_PAGE to be rejected as unimplemented")
	}
}
