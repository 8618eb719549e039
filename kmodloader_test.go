// Completion: 100% - Shared test scaffolding
package kmodloader

import "unsafe"

// newLocation returns a Location pointing at buf's backing array, for
// tests that need a real writable address rather than a bare integer.
func newLocation(buf []byte) Location {
	return Location(uintptr(unsafe.Pointer(&buf[0])))
}
