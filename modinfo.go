// Completion: 100% - Module metadata codec complete
package kmodloader

import "fmt"

// ModuleMagic identifies a valid .modinfo descriptor. It is stored
// little-endian, so the first four descriptor bytes are 0x55 0x44 0x4F
// 0x4D ("UDOM"); read as a big-endian value the constant spells "MODU".
const ModuleMagic uint32 = 0x4D4F4455

const (
	modinfoNameLen    = 64
	modinfoVersionLen = 32
	// magic(4) + name(64) + version(32) + init_fn(8) + exit_fn(8); the
	// function pointers follow the version field directly, at offsets
	// 100 and 108, with no padding.
	ModinfoSize = 4 + modinfoNameLen + modinfoVersionLen + 8 + 8
)

// ModuleInfo is the decoded form of a module's .modinfo section: its
// name, version, and the (possibly absent) entry points a loader calls
// after relocation. InitFn/ExitFn are the runtime addresses a module
// allocator already fixed up; 0 means absent, matching the descriptor's
// Option<fn> encoding.
type ModuleInfo struct {
	Name    string
	Version string
	InitFn  uintptr
	ExitFn  uintptr
}

// EncodeModuleInfo serializes m into the fixed ModinfoSize-byte
// descriptor layout: magic, name, version, init_fn, exit_fn, all
// little-endian. Name/Version longer than their field are
// truncated, mirroring str_to_array64/str_to_array32's silent clamp.
func EncodeModuleInfo(m ModuleInfo) []byte {
	buf := make([]byte, ModinfoSize)
	putLe32(buf, 0, ModuleMagic)
	copyClamped(buf[4:4+modinfoNameLen], m.Name)
	copyClamped(buf[4+modinfoNameLen:4+modinfoNameLen+modinfoVersionLen], m.Version)
	putLe64(buf, 4+modinfoNameLen+modinfoVersionLen, uint64(m.InitFn))
	putLe64(buf, 4+modinfoNameLen+modinfoVersionLen+8, uint64(m.ExitFn))
	return buf
}

// DecodeModuleInfo parses a ModinfoSize-byte .modinfo descriptor,
// rejecting anything short or carrying the wrong magic.
func DecodeModuleInfo(buf []byte) (ModuleInfo, error) {
	if len(buf) < ModinfoSize {
		return ModuleInfo{}, fmt.Errorf("kmodloader: .modinfo descriptor is %d bytes, need %d", len(buf), ModinfoSize)
	}
	magic := le32(buf, 0)
	if magic != ModuleMagic {
		return ModuleInfo{}, fmt.Errorf("kmodloader: .modinfo magic 0x%x does not match 0x%x", magic, ModuleMagic)
	}
	name := nulTerminated(buf[4 : 4+modinfoNameLen])
	version := nulTerminated(buf[4+modinfoNameLen : 4+modinfoNameLen+modinfoVersionLen])
	initFn := le64(buf, 4+modinfoNameLen+modinfoVersionLen)
	exitFn := le64(buf, 4+modinfoNameLen+modinfoVersionLen+8)
	return ModuleInfo{
		Name:    name,
		Version: version,
		InitFn:  uintptr(initFn),
		ExitFn:  uintptr(exitFn),
	}, nil
}

// copyClamped copies s into dst, truncating to len(dst)-1 bytes so the
// field always carries a trailing NUL, then leaves the remainder zero.
func copyClamped(dst []byte, s string) {
	n := len(s)
	if n > len(dst)-1 {
		n = len(dst) - 1
	}
	copy(dst, s[:n])
}

// nulTerminated returns the string up to the first NUL byte in field,
// or the whole field if none is present.
func nulTerminated(field []byte) string {
	for i, b := range field {
		if b == 0 {
			return string(field[:i])
		}
	}
	return string(field)
}
