// Completion: 100% - AArch64 relocation table complete
package kmodloader

// AArch64Kind is the closed, ABI-numbered enumeration of AArch64 ELF64
// relocation kinds this loader understands. Numeric values match the
// ELF for the ARM 64-Bit Architecture (AAPCS64) relocation table.
type AArch64Kind uint32

const (
	AArch64None             AArch64Kind = 0
	AArch64Abs64            AArch64Kind = 257
	AArch64Abs32            AArch64Kind = 258
	AArch64Abs16            AArch64Kind = 259
	AArch64Prel64           AArch64Kind = 260
	AArch64Prel32           AArch64Kind = 261
	AArch64Prel16           AArch64Kind = 262
	AArch64MovwUabsG0       AArch64Kind = 263
	AArch64MovwUabsG0NC     AArch64Kind = 264
	AArch64MovwUabsG1       AArch64Kind = 265
	AArch64MovwUabsG1NC     AArch64Kind = 266
	AArch64MovwUabsG2       AArch64Kind = 267
	AArch64MovwUabsG2NC     AArch64Kind = 268
	AArch64MovwUabsG3       AArch64Kind = 269
	AArch64MovwSabsG0       AArch64Kind = 270
	AArch64MovwSabsG1       AArch64Kind = 271
	AArch64MovwSabsG2       AArch64Kind = 272
	AArch64LdPrelLo19       AArch64Kind = 273
	AArch64AdrPrelLo21      AArch64Kind = 274
	AArch64AdrPrelPgHi21    AArch64Kind = 275
	AArch64AdrPrelPgHi21NC  AArch64Kind = 276
	AArch64AddAbsLo12NC     AArch64Kind = 277
	AArch64Ldst8AbsLo12NC   AArch64Kind = 278
	AArch64Tstbr14          AArch64Kind = 279
	AArch64Condbr19         AArch64Kind = 280
	AArch64Jump26           AArch64Kind = 282
	AArch64Call26           AArch64Kind = 283
	AArch64Ldst16AbsLo12NC  AArch64Kind = 284
	AArch64Ldst32AbsLo12NC  AArch64Kind = 285
	AArch64Ldst64AbsLo12NC  AArch64Kind = 286
	AArch64Ldst128AbsLo12NC AArch64Kind = 299
	AArch64AdrGotPage       AArch64Kind = 311
	AArch64Ld64GotLo12NC    AArch64Kind = 312
	AArch64Copy             AArch64Kind = 1024
	AArch64GlobDat          AArch64Kind = 1025
	AArch64JumpSlot         AArch64Kind = 1026
	AArch64Relative         AArch64Kind = 1027
)

var aarch64KindNames = map[AArch64Kind]string{
	AArch64None: "R_AARCH64_NONE", AArch64Abs64: "R_AARCH64_ABS64",
	AArch64Abs32: "R_AARCH64_ABS32", AArch64Abs16: "R_AARCH64_ABS16",
	AArch64Prel64: "R_AARCH64_PREL64", AArch64Prel32: "R_AARCH64_PREL32", AArch64Prel16: "R_AARCH64_PREL16",
	AArch64MovwUabsG0: "R_AARCH64_MOVW_UABS_G0", AArch64MovwUabsG0NC: "R_AARCH64_MOVW_UABS_G0_NC",
	AArch64MovwUabsG1: "R_AARCH64_MOVW_UABS_G1", AArch64MovwUabsG1NC: "R_AARCH64_MOVW_UABS_G1_NC",
	AArch64MovwUabsG2: "R_AARCH64_MOVW_UABS_G2", AArch64MovwUabsG2NC: "R_AARCH64_MOVW_UABS_G2_NC",
	AArch64MovwUabsG3: "R_AARCH64_MOVW_UABS_G3",
	AArch64MovwSabsG0: "R_AARCH64_MOVW_SABS_G0", AArch64MovwSabsG1: "R_AARCH64_MOVW_SABS_G1", AArch64MovwSabsG2: "R_AARCH64_MOVW_SABS_G2",
	AArch64LdPrelLo19: "R_AARCH64_LD_PREL_LO19",
	AArch64AdrPrelLo21: "R_AARCH64_ADR_PREL_LO21",
	AArch64AdrPrelPgHi21: "R_AARCH64_ADR_PREL_PG_HI21", AArch64AdrPrelPgHi21NC: "R_AARCH64_ADR_PREL_PG_HI21_NC",
	AArch64AddAbsLo12NC: "R_AARCH64_ADD_ABS_LO12_NC",
	AArch64Ldst8AbsLo12NC: "R_AARCH64_LDST8_ABS_LO12_NC", AArch64Ldst16AbsLo12NC: "R_AARCH64_LDST16_ABS_LO12_NC",
	AArch64Ldst32AbsLo12NC: "R_AARCH64_LDST32_ABS_LO12_NC", AArch64Ldst64AbsLo12NC: "R_AARCH64_LDST64_ABS_LO12_NC",
	AArch64Ldst128AbsLo12NC: "R_AARCH64_LDST128_ABS_LO12_NC",
	AArch64Tstbr14: "R_AARCH64_TSTBR14", AArch64Condbr19: "R_AARCH64_CONDBR19",
	AArch64Jump26: "R_AARCH64_JUMP26", AArch64Call26: "R_AARCH64_CALL26",
	AArch64AdrGotPage: "R_AARCH64_ADR_GOT_PAGE", AArch64Ld64GotLo12NC: "R_AARCH64_LD64_GOT_LO12_NC",
	AArch64Copy: "R_AARCH64_COPY", AArch64GlobDat: "R_AARCH64_GLOB_DAT",
	AArch64JumpSlot: "R_AARCH64_JUMP_SLOT", AArch64Relative: "R_AARCH64_RELATIVE",
}

func (k AArch64Kind) String() string {
	if name, ok := aarch64KindNames[k]; ok {
		return name
	}
	return "R_AARCH64_UNKNOWN"
}

var aarch64ValidKinds = map[uint32]AArch64Kind{}

func init() {
	for k := range aarch64KindNames {
		aarch64ValidKinds[uint32(k)] = k
	}
}

// ldstLo12Scale returns the byte-to-field scale factor for the
// LDSTn_ABS_LO12_NC family: the low 12 bits of the address are divided
// by the access size before being written into the 12-bit immediate.
func ldstLo12Scale(kind AArch64Kind) uint32 {
	switch kind {
	case AArch64Ldst8AbsLo12NC:
		return 1
	case AArch64Ldst16AbsLo12NC:
		return 2
	case AArch64Ldst32AbsLo12NC:
		return 4
	case AArch64Ldst64AbsLo12NC:
		return 8
	case AArch64Ldst128AbsLo12NC:
		return 16
	default:
		return 1
	}
}

// ApplyAArch64 applies a single AArch64 relocation.
func ApplyAArch64(kind AArch64Kind, location Location, value uint64) error {
	arch := "aarch64"
	ks := kind.String()
	switch kind {
	case AArch64None:
		return nil

	case AArch64Abs64:
		location.Write64(value)
		return nil

	case AArch64Abs32:
		if value != uint64(uint32(value)) {
			return errValueRange(arch, ks, uint64(location), "", value, "32 bits")
		}
		location.Write32(uint32(value))
		return nil

	case AArch64Abs16:
		if value != uint64(uint16(value)) {
			return errValueRange(arch, ks, uint64(location), "", value, "16 bits")
		}
		location.Write16(uint16(value))
		return nil

	case AArch64Prel64:
		location.Write64(uint64(int64(value) - int64(location)))
		return nil

	case AArch64Prel32:
		offset := int64(value) - int64(location)
		if offset < -(1<<31) || offset >= (1<<31) {
			return errOffsetRange(arch, ks, uint64(location), "", offset, "32-bit signed")
		}
		location.Write32(uint32(int32(offset)))
		return nil

	case AArch64Prel16:
		offset := int64(value) - int64(location)
		if offset < -(1<<15) || offset >= (1<<15) {
			return errOffsetRange(arch, ks, uint64(location), "", offset, "16-bit signed")
		}
		location.Write16(uint16(int16(offset)))
		return nil

	case AArch64AdrPrelLo21:
		offset := int64(value) - int64(location)
		if offset < -(1<<20) || offset >= (1<<20) {
			return errOffsetRange(arch, ks, uint64(location), "", offset, "21-bit signed")
		}
		location.Write32(spliceAArch64ADRP(location.Read32(), int32(offset)))
		return nil

	case AArch64AdrPrelPgHi21, AArch64AdrPrelPgHi21NC:
		instrPage := int64(location) &^ 0xfff
		targetPage := int64(value) &^ 0xfff
		pageOffset := targetPage - instrPage
		if pageOffset < -(int64(1)<<32) || pageOffset >= (int64(1)<<32) {
			return errOffsetRange(arch, ks, uint64(location), "", pageOffset, "32-bit page-relative")
		}
		location.Write32(spliceAArch64ADRP(location.Read32(), int32(pageOffset>>12)))
		return nil

	case AArch64AddAbsLo12NC:
		lo12 := uint32(value) & 0xfff
		location.Write32(spliceAArch64Imm12(location.Read32(), lo12))
		return nil

	case AArch64Ldst8AbsLo12NC, AArch64Ldst16AbsLo12NC, AArch64Ldst32AbsLo12NC,
		AArch64Ldst64AbsLo12NC, AArch64Ldst128AbsLo12NC:
		lo12 := (uint32(value) & 0xfff) / ldstLo12Scale(kind)
		location.Write32(spliceAArch64Imm12(location.Read32(), lo12))
		return nil

	case AArch64Tstbr14:
		offset := int64(value) - int64(location)
		if offset < -(1<<15) || offset >= (1<<15) || offset&3 != 0 {
			return errOffsetRange(arch, ks, uint64(location), "", offset, "14-bit signed word offset")
		}
		wordOff := uint32(offset>>2) & 0x3fff
		location.Write32((location.Read32() &^ (0x3fff << 5)) | (wordOff << 5))
		return nil

	case AArch64Condbr19:
		offset := int64(value) - int64(location)
		if offset < -(1<<20) || offset >= (1<<20) || offset&3 != 0 {
			return errOffsetRange(arch, ks, uint64(location), "", offset, "19-bit signed word offset")
		}
		location.Write32(spliceAArch64Imm19(location.Read32(), int32(offset>>2)))
		return nil

	case AArch64Jump26, AArch64Call26:
		offset := int64(value) - int64(location)
		if offset < -(1<<27) || offset >= (1<<27) || offset&3 != 0 {
			return errOffsetRange(arch, ks, uint64(location), "", offset, "26-bit signed word offset")
		}
		location.Write32(spliceAArch64Imm26(location.Read32(), int32(offset>>2)))
		return nil

	case AArch64MovwUabsG0, AArch64MovwUabsG0NC:
		location.Write32(spliceAArch64Movw(location.Read32(), uint16(value)))
		return nil
	case AArch64MovwUabsG1, AArch64MovwUabsG1NC:
		location.Write32(spliceAArch64Movw(location.Read32(), uint16(value>>16)))
		return nil
	case AArch64MovwUabsG2, AArch64MovwUabsG2NC:
		location.Write32(spliceAArch64Movw(location.Read32(), uint16(value>>32)))
		return nil
	case AArch64MovwUabsG3:
		location.Write32(spliceAArch64Movw(location.Read32(), uint16(value>>48)))
		return nil

	case AArch64MovwSabsG0:
		location.Write32(spliceAArch64Movw(location.Read32(), uint16(int64(value))))
		return nil
	case AArch64MovwSabsG1:
		location.Write32(spliceAArch64Movw(location.Read32(), uint16(int64(value)>>16)))
		return nil
	case AArch64MovwSabsG2:
		location.Write32(spliceAArch64Movw(location.Read32(), uint16(int64(value)>>32)))
		return nil

	default:
		return errUnimplemented(arch, ks)
	}
}

// spliceAArch64Movw writes a 16-bit immediate into bits [20:5] of a
// MOVZ/MOVK/MOVN instruction, preserving hw, rd, and opcode.
func spliceAArch64Movw(word uint32, imm16 uint16) uint32 {
	return (word &^ (0xffff << 5)) | (uint32(imm16) << 5)
}
