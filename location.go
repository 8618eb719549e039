// Completion: 100% - Patch cursor complete
package kmodloader

import "unsafe"

// Location is a patch cursor: a raw, word-addressable pointer into
// already-allocated module memory. The caller of ApplyRelocations
// certifies that every address it hands the driver lies inside a
// writable region the module allocator returned; Location itself
// performs no bounds checking, so that raw-pointer contract lives in
// one small, heavily-exercised abstraction rather than being
// reimplemented per architecture.
type Location uintptr

func (l Location) Add(n uint64) Location {
	return l + Location(n)
}

func (l Location) Read8() uint8   { return *(*uint8)(unsafe.Pointer(l)) }
func (l Location) Read16() uint16 { return *(*uint16)(unsafe.Pointer(l)) }
func (l Location) Read32() uint32 { return *(*uint32)(unsafe.Pointer(l)) }
func (l Location) Read64() uint64 { return *(*uint64)(unsafe.Pointer(l)) }

func (l Location) Write8(v uint8)   { *(*uint8)(unsafe.Pointer(l)) = v }
func (l Location) Write16(v uint16) { *(*uint16)(unsafe.Pointer(l)) = v }
func (l Location) Write32(v uint32) { *(*uint32)(unsafe.Pointer(l)) = v }
func (l Location) Write64(v uint64) { *(*uint64)(unsafe.Pointer(l)) = v }

// Bytes returns a write-through view of the n bytes starting at l, for
// architectures (x86-64) whose relocation fields are plain byte runs
// rather than bit-packed instruction immediates.
func (l Location) Bytes(n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(l)), n)
}
