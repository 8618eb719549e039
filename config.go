// Completion: 100% - Configuration complete
package kmodloader

import "github.com/xyproto/env/v2"

// Verbose gates debug-level logging of every relocation the driver
// applies. It defaults to the KMODLOADER_VERBOSE environment variable
// and can be overridden at runtime with SetVerbose.
var Verbose = env.Bool("KMODLOADER_VERBOSE")

// StrictAlign makes the driver log every RELAX entry it passes through
// unapplied (R_RISCV_RELAX, R_LARCH_RELAX). ALIGN entries are already a
// hard error regardless of this flag; StrictAlign never changes whether
// a relocation succeeds or fails, it only adds visibility into the
// linker-relaxation entries a strict build wants surfaced.
var StrictAlign = env.Bool("KMODLOADER_STRICT_ALIGN")

// SetVerbose overrides the verbosity gate at runtime, for a host kernel
// that wants to toggle diagnostics without re-exec'ing.
func SetVerbose(v bool) {
	Verbose = v
}
