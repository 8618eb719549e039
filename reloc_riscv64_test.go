package kmodloader

import "testing"

func TestApplyRiscv64Abs(t *testing.T) {
	buf := make([]byte, 8)
	loc := newLocation(buf)
	if err := ApplyRiscv(Riscv64, loc, 0xDEADBEEFCAFEBABE); err != nil {
		t.Fatalf("ApplyRiscv: %v", err)
	}
	want := []byte{0xBE, 0xBA, 0xFE, 0xCA, 0xEF, 0xBE, 0xAD, 0xDE}
	for i, b := range want {
		if buf[i] != b {
			t.Errorf("byte %d: got 0x%02x, want 0x%02x", i, buf[i], b)
		}
	}
}

func TestApplyRiscv64Branch(t *testing.T) {
	buf := make([]byte, 4)
	putLe32(buf, 0, 0x00000063) // beq zero,zero,0
	loc := newLocation(buf)
	if err := ApplyRiscv(RiscvBranch, loc, uint64(loc)+16); err != nil {
		t.Fatalf("ApplyRiscv: %v", err)
	}
	got := le32(buf, 0)
	if got != 0x00000863 {
		t.Errorf("got 0x%08x, want 0x00000863", got)
	}
}

func TestApplyRiscv64PCRelHI20Range(t *testing.T) {
	loc := Location(0x1000)
	err := ApplyRiscv(RiscvPCRelHI20, loc, 0x800000000)
	if err == nil {
		t.Fatalf("expected out-of-range error, got nil")
	}
}

func TestApplyRiscv64Call(t *testing.T) {
	buf := make([]byte, 8)
	loc := newLocation(buf)
	if err := ApplyRiscv(RiscvCall, loc, uint64(loc)+0x1234); err != nil {
		t.Fatalf("ApplyRiscv: %v", err)
	}
	auipc := le32(buf, 0)
	jalr := le32(buf, 4)
	if imm20 := auipc >> 12; imm20 != 1 {
		t.Errorf("auipc imm20: got %d, want 1", imm20)
	}
	if imm12 := jalr >> 20; imm12 != 0x234 {
		t.Errorf("jalr imm12: got 0x%x, want 0x234", imm12)
	}
}

func TestApplyRiscv64WrappingSub(t *testing.T) {
	buf := make([]byte, 8)
	putLe64(buf, 0, 10)
	loc := newLocation(buf)
	if err := ApplyRiscv(RiscvSub64, loc, 20); err != nil {
		t.Fatalf("ApplyRiscv: %v", err)
	}
	got := le64(buf, 0)
	want := uint64(10)
	want -= 20 // wraps
	if got != want {
		t.Errorf("got 0x%x, want 0x%x", got, want)
	}
}

func TestApplyRiscv64Align(t *testing.T) {
	if err := ApplyRiscv(RiscvAlign, Location(0x1000), 0); err == nil {
		t.Fatalf("expected ALIGN to fail, got nil")
	}
}

func TestApplyRiscv64Unimplemented(t *testing.T) {
	if err := ApplyRiscv(RiscvGotHI20, Location(0x1000), 0); err == nil {
		t.Fatalf("expected GOT_HI20 to be rejected as unimplemented")
	}
}

func TestRiscvKindStringUnknown(t *testing.T) {
	var k RiscvKind = 9999
	if k.String() != "R_RISCV_UNKNOWN" {
		t.Errorf("got %q, want R_RISCV_UNKNOWN", k.String())
	}
}
