package kmodloader

import "testing"

func TestApplyLoongArch64Abs64(t *testing.T) {
	buf := make([]byte, 8)
	loc := newLocation(buf)
	if err := ApplyLoongArch64(LoongArch64, loc, 0xCAFEBABEDEADBEEF); err != nil {
		t.Fatalf("ApplyLoongArch64: %v", err)
	}
	if got := le64(buf, 0); got != 0xCAFEBABEDEADBEEF {
		t.Errorf("got 0x%x", got)
	}
}

func TestApplyLoongArch64B26RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	loc := newLocation(buf)
	target := uint64(loc) + 64
	if err := ApplyLoongArch64(LoongArchB26, loc, target); err != nil {
		t.Fatalf("ApplyLoongArch64: %v", err)
	}
	word := le32(buf, 0)
	// Undo the splice to recover the encoded word offset: low 16 bits
	// of the word-offset sit at [25:10], high 10 bits at [9:0].
	loBits := (word >> 10) & 0xffff
	hiBits := word & 0x3ff
	off := int32((hiBits<<16 | loBits) << 2)
	if off != 64 {
		t.Errorf("decoded offset: got %d, want 64", off)
	}
}

func TestApplyLoongArch64AddSubWrap(t *testing.T) {
	buf := make([]byte, 2)
	putLe16(buf, 0, 5)
	loc := newLocation(buf)
	if err := ApplyLoongArch64(LoongArchSub16, loc, 10); err != nil {
		t.Fatalf("ApplyLoongArch64: %v", err)
	}
	want := uint16(5)
	want -= 10 // wraps
	if got := le16(buf, 0); got != want {
		t.Errorf("got 0x%x, want 0x%x", got, want)
	}
}

func TestApplyLoongArch64Align(t *testing.T) {
	if err := ApplyLoongArch64(LoongArchAlign, Location(0x1000), 0); err == nil {
		t.Fatalf("expected ALIGN to fail")
	}
}

func TestApplyLoongArch64Unimplemented(t *testing.T) {
	if err := ApplyLoongArch64(LoongArchGotPcHi20, Location(0x1000), 0); err == nil {
		t.Fatalf("expected GOT_PC_HI20 to be rejected as unimplemented")
	}
}
