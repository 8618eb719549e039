// Completion: 100% - Instruction-field codec complete
package kmodloader

// This file centralizes the scatter/gather of immediates into the
// instruction encodings the loader touches. Every splice preserves all
// other bits of the original word: no splice here ever touches an
// opcode or register field, only the immediate bits a relocation
// formula assigns.

// --- RISC-V (standard 32-bit instructions) ---

// spliceRiscvBType writes a 13-bit signed branch offset into an SB-type
// instruction (bits 31, 7, 30:25, 11:8; bit 0 of the offset is implicit).
func spliceRiscvBType(word uint32, offset int32) uint32 {
	imm12 := uint32(offset&0x1000) << (31 - 12)
	imm11 := uint32(offset&0x800) >> (11 - 7)
	imm10_5 := uint32(offset&0x7e0) << (30 - 10)
	imm4_1 := uint32(offset&0x1e) << (11 - 4)
	return (word & 0x01fff07f) | imm12 | imm11 | imm10_5 | imm4_1
}

// spliceRiscvJType writes a 21-bit signed jump offset into a UJ-type
// instruction (bits 31, 19:12, 20, 30:21; bit 0 implicit).
func spliceRiscvJType(word uint32, offset int32) uint32 {
	imm20 := uint32(offset&0x100000) << (31 - 20)
	imm19_12 := uint32(offset & 0xff000)
	imm11 := uint32(offset&0x800) << (20 - 11)
	imm10_1 := uint32(offset&0x7fe) << (30 - 10)
	return (word & 0xfff) | imm20 | imm19_12 | imm11 | imm10_1
}

// spliceRiscvUType writes a 20-bit value into the imm[31:12] field of a
// U-type instruction (LUI/AUIPC).
func spliceRiscvUType(word uint32, hi20 uint32) uint32 {
	return (word & 0xfff) | (hi20 &^ 0xfff)
}

// spliceRiscvIType writes a 12-bit value into the imm[31:20] field of an
// I-type instruction.
func spliceRiscvIType(word uint32, lo12 uint32) uint32 {
	return (word & 0xfffff) | ((lo12 & 0xfff) << 20)
}

// spliceRiscvSType writes a 12-bit value split across imm[31:25]/imm[11:7]
// of an S-type instruction.
func spliceRiscvSType(word uint32, lo12 uint32) uint32 {
	imm11_5 := (lo12 & 0xfe0) << (31 - 11)
	imm4_0 := (lo12 & 0x1f) << (11 - 4)
	return (word & 0x01fff07f) | imm11_5 | imm4_0
}

// --- RISC-V compressed (16-bit instructions) ---

// spliceRiscvCBType writes a 9-bit signed branch offset into a CB-type
// compressed instruction (bits 12, 6:5, 2, 11:10, 4:3; bit 0 implicit).
func spliceRiscvCBType(word uint16, offset int32) uint16 {
	imm8 := uint16(offset&0x100) << (12 - 8)
	imm7_6 := uint16(offset&0xc0) >> (6 - 5)
	imm5 := uint16(offset&0x20) >> (5 - 2)
	imm4_3 := uint16(offset&0x18) << (12 - 5)
	imm2_1 := uint16(offset&0x6) << (12 - 10)
	return (word & 0xe383) | imm8 | imm7_6 | imm5 | imm4_3 | imm2_1
}

// spliceRiscvCJType writes a 12-bit signed jump offset into a CJ-type
// compressed instruction; bit 0 implicit.
func spliceRiscvCJType(word uint16, offset int32) uint16 {
	imm11 := uint16(offset&0x800) << (12 - 11)
	imm10 := uint16(offset&0x400) >> (10 - 8)
	imm9_8 := uint16(offset&0x300) << (12 - 11)
	imm7 := uint16(offset&0x80) >> (7 - 6)
	imm6 := uint16(offset&0x40) << (12 - 11)
	imm5 := uint16(offset&0x20) >> (5 - 2)
	imm4 := uint16(offset&0x10) << (12 - 5)
	imm3_1 := uint16(offset&0xe) << (12 - 10)
	return (word & 0xe003) | imm11 | imm10 | imm9_8 | imm7 | imm6 | imm5 | imm4 | imm3_1
}

// --- AArch64 (fixed 32-bit instructions) ---

// spliceAArch64ADRP writes a 21-bit signed page offset (already shifted
// right by 12) into an ADRP/ADR-family instruction's immlo (bits 30:29)
// and immhi (bits 23:5) fields.
func spliceAArch64ADRP(word uint32, pageOffsetShifted int32) uint32 {
	immlo := (uint32(pageOffsetShifted) & 0x3) << 29
	immhi := ((uint32(pageOffsetShifted) >> 2) & 0x7ffff) << 5
	return (word &^ (0x3 << 29) &^ (0x7ffff << 5)) | immlo | immhi
}

// spliceAArch64Imm12 writes a 12-bit unsigned immediate into bits
// [21:10] of an ADD/SUB (immediate) instruction.
func spliceAArch64Imm12(word uint32, imm12 uint32) uint32 {
	return (word &^ (0xfff << 10)) | ((imm12 & 0xfff) << 10)
}

// spliceAArch64Imm26 writes a 26-bit signed word-offset into bits
// [25:0] of a B/BL instruction.
func spliceAArch64Imm26(word uint32, wordOffset int32) uint32 {
	return (word &^ 0x3ffffff) | (uint32(wordOffset) & 0x3ffffff)
}

// spliceAArch64Imm19 writes a 19-bit signed word-offset into bits
// [23:5] of a B.cond / CBZ / CBNZ instruction.
func spliceAArch64Imm19(word uint32, wordOffset int32) uint32 {
	return (word &^ (0x7ffff << 5)) | ((uint32(wordOffset) & 0x7ffff) << 5)
}

// --- LoongArch64 (fixed 32-bit instructions) ---
// Field layouts follow the reg1i20/reg1i21/reg2i12 bitfield formats:
// a fixed opcode high-bits region, then an immediate, then low
// register-or-immediate bits.

// spliceLoongArchReg1i20 writes a 20-bit immediate into bits [24:5] of
// a reg1i20-format instruction (pcaddu12i, lu12i.w), preserving rd and
// opcode.
func spliceLoongArchReg1i20(word uint32, imm20 uint32) uint32 {
	return (word &^ (0xfffff << 5)) | ((imm20 & 0xfffff) << 5)
}

// spliceLoongArchReg2i12 writes a 12-bit immediate into bits [21:10] of
// a reg2i12-format instruction (addi.d, ld.d), preserving rd, rj, and
// opcode.
func spliceLoongArchReg2i12(word uint32, imm12 uint32) uint32 {
	return (word &^ (0xfff << 10)) | ((imm12 & 0xfff) << 10)
}

// spliceLoongArchReg1i21 writes a 21-bit signed branch offset into a
// reg1i21-format instruction (beqz/bnez): the word-offset's low 16 bits
// (immediate_l) land at bits [25:10], its high 5 bits (immediate_h) at
// bits [4:0]; rj (bits [9:5]) and opcode are preserved. Bit 0 implicit.
func spliceLoongArchReg1i21(word uint32, offset int32) uint32 {
	off := uint32(offset) >> 2 // word offset, 21 bits signed
	immL := off & 0xffff
	immH := (off >> 16) & 0x1f
	return (word &^ 0x1f &^ (0xffff << 10)) | immH | (immL << 10)
}

// spliceLoongArchReg0i26 writes a 26-bit signed branch offset into a
// reg0i26-format instruction (b/bl): the word-offset's low 16 bits
// (immediate_l) land at bits [25:10], its high 10 bits (immediate_h) at
// bits [9:0]; opcode is preserved. Bit 0 implicit.
func spliceLoongArchReg0i26(word uint32, offset int32) uint32 {
	off := uint32(offset) >> 2
	immL := off & 0xffff
	immH := (off >> 16) & 0x3ff
	return (word &^ 0x3ff &^ (0xffff << 10)) | immH | (immL << 10)
}

// spliceLoongArchReg2i16 writes a 16-bit signed branch offset into a
// reg2i16-format instruction (beq/bne/blt/bge/bltu/bgeu): bits [25:10];
// rd, rj, and opcode are preserved. Bit 0 implicit.
func spliceLoongArchReg2i16(word uint32, offset int32) uint32 {
	off := uint32(offset) >> 2 // word offset, 16 bits signed
	return (word &^ (0xffff << 10)) | ((off & 0xffff) << 10)
}

// --- x86-64 ---

// spliceX86RipRel32 writes a little-endian 32-bit displacement over the
// 4 bytes at the given offset in a byte slice. x86-64 has no register
// fields folded into the displacement, so this is a plain overwrite
// rather than a bitwise splice.
func spliceX86RipRel32(buf []byte, offset int, disp32 uint32) {
	buf[offset] = byte(disp32)
	buf[offset+1] = byte(disp32 >> 8)
	buf[offset+2] = byte(disp32 >> 16)
	buf[offset+3] = byte(disp32 >> 24)
}

func le32(buf []byte, offset int) uint32 {
	return uint32(buf[offset]) | uint32(buf[offset+1])<<8 | uint32(buf[offset+2])<<16 | uint32(buf[offset+3])<<24
}

func putLe32(buf []byte, offset int, v uint32) {
	buf[offset] = byte(v)
	buf[offset+1] = byte(v >> 8)
	buf[offset+2] = byte(v >> 16)
	buf[offset+3] = byte(v >> 24)
}

func le16(buf []byte, offset int) uint16 {
	return uint16(buf[offset]) | uint16(buf[offset+1])<<8
}

func putLe16(buf []byte, offset int, v uint16) {
	buf[offset] = byte(v)
	buf[offset+1] = byte(v >> 8)
}

func putLe64(buf []byte, offset int, v uint64) {
	for i := 0; i < 8; i++ {
		buf[offset+i] = byte(v >> (8 * i))
	}
}

func le64(buf []byte, offset int) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(buf[offset+i]) << (8 * i)
	}
	return v
}
