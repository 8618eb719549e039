package kmodloader

import "testing"

func TestSpliceRiscvUType(t *testing.T) {
	word := spliceRiscvUType(0x00000517, 0x3000) // auipc a0, 0 -> auipc a0, 3
	if word != 0x00003517 {
		t.Errorf("got 0x%08x, want 0x00003517", word)
	}
}

func TestSpliceRiscvIType(t *testing.T) {
	word := spliceRiscvIType(0x00000513, 0x234) // addi a0,a0,0 -> addi a0,a0,0x234
	imm := word >> 20
	if imm != 0x234 {
		t.Errorf("got imm 0x%x, want 0x234", imm)
	}
}

func TestSpliceRiscvBType(t *testing.T) {
	word := spliceRiscvBType(0x00000063, 16)
	if word != 0x00000863 {
		t.Errorf("got 0x%08x, want 0x00000863", word)
	}
}

func TestSpliceAArch64Imm12PreservesOtherBits(t *testing.T) {
	word := spliceAArch64Imm12(0x91000000, 0x123)
	if word&0xffc003ff != 0x91000000 {
		t.Errorf("non-immediate bits disturbed: 0x%08x", word)
	}
	if (word>>10)&0xfff != 0x123 {
		t.Errorf("imm12 got 0x%x, want 0x123", (word>>10)&0xfff)
	}
}

func TestSpliceLoongArchReg1i20(t *testing.T) {
	word := spliceLoongArchReg1i20(0, 0xabcde)
	if (word>>5)&0xfffff != 0xabcde {
		t.Errorf("got 0x%x", (word>>5)&0xfffff)
	}
}

func TestLeRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	putLe64(buf, 0, 0x1122334455667788)
	if got := le64(buf, 0); got != 0x1122334455667788 {
		t.Errorf("got 0x%x", got)
	}
	putLe32(buf, 0, 0xAABBCCDD)
	if got := le32(buf, 0); got != 0xAABBCCDD {
		t.Errorf("got 0x%x", got)
	}
	putLe16(buf, 0, 0xBEEF)
	if got := le16(buf, 0); got != 0xBEEF {
		t.Errorf("got 0x%x", got)
	}
}
