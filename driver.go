// Completion: 100% - Relocation driver complete
package kmodloader

import "fmt"

// ApplyRelocations walks every entry of the relocation section at
// relSectionIndex and patches the target section obj identifies via
// that section's Info field. It stops at the first entry that fails,
// matching the reference loader's all-or-nothing contract: a partially
// relocated module must never be allowed to run.
func ApplyRelocations(obj ObjectView, arch Arch, relSectionIndex int) error {
	relSection, err := obj.Section(relSectionIndex)
	if err != nil {
		return err
	}
	if relSection.EntSize != RelaEntrySize {
		return errBadEntSize(relSection.EntSize)
	}
	entries, err := obj.Relocations(relSectionIndex)
	if err != nil {
		return err
	}
	targetSection, err := obj.Section(int(relSection.Info))
	if err != nil {
		return err
	}

	logger.Debugf("relocating %d entries against section %d (%s)", len(entries), relSection.Info, arch)

	for i, rela := range entries {
		logger.Debugf("entry %d: %s kind %d at 0x%x", i, arch, rela.Kind(), targetSection.Addr+rela.Offset)
		if err := applyOne(obj, arch, targetSection, entries, rela); err != nil {
			logger.Errorf("entry %d: %v", i, err)
			return err
		}
	}
	return nil
}

// applyOne resolves and patches a single relocation entry.
func applyOne(obj ObjectView, arch Arch, targetSection SectionHeader, allEntries []RelaEntry, rela RelaEntry) error {
	kind := rela.Kind()
	symIdx := rela.SymIndex()
	sym, err := obj.Symbol(symIdx)
	if err != nil {
		return err
	}

	location := Location(targetSection.Addr + rela.Offset)
	value := uint64(int64(sym.Value) + rela.Addend)

	switch arch {
	case ArchRiscv64:
		rk, ok := riscvValidKinds[kind]
		if !ok {
			return errUnknownKind(arch.String(), kind)
		}
		if rk == RiscvPCRelLO12I || rk == RiscvPCRelLO12S {
			lo12, err := resolveRiscvLO12(obj, arch, targetSection, allEntries, sym, location)
			if err != nil {
				return err
			}
			value = lo12
		}
		return ApplyRiscv(rk, location, value)

	case ArchAArch64:
		ak, ok := aarch64ValidKinds[kind]
		if !ok {
			return errUnknownKind(arch.String(), kind)
		}
		return ApplyAArch64(ak, location, value)

	case ArchLoongArch64:
		lk, ok := loongArchValidKinds[kind]
		if !ok {
			return errUnknownKind(arch.String(), kind)
		}
		if lk == LoongArchPcalaLo12 {
			lo12, err := resolveLoongArchLo12(obj, arch, targetSection, allEntries, sym, location)
			if err != nil {
				return err
			}
			value = lo12
		}
		return ApplyLoongArch64(lk, location, value)

	case ArchX86_64:
		xk, ok := x86_64ValidKinds[kind]
		if !ok {
			return errUnknownKind(arch.String(), kind)
		}
		return ApplyX86_64(xk, location, value)

	default:
		return fmt.Errorf("kmodloader: unsupported architecture %v", arch)
	}
}

// resolveRiscvLO12 finds the PCREL_HI20 (or GOT_HI20) entry whose
// location equals this LO12 relocation's symbol value, then recomputes
// the hi20/lo12 split from that entry's own symbol+addend, returning
// the signed lo12 residue converted to uint64 (the apply step keeps
// only its low 12 bits). The linear scan over
// allEntries mirrors the reference loader exactly: there is no index
// from symbol value to relocation entry, so every LO12 relocation
// re-scans the whole section.
func resolveRiscvLO12(obj ObjectView, arch Arch, targetSection SectionHeader, allEntries []RelaEntry, lo12Sym Symbol, lo12Loc Location) (uint64, error) {
	for _, inner := range allEntries {
		hi20Loc := targetSection.Addr + inner.Offset
		if hi20Loc != lo12Sym.Value {
			continue
		}
		hi20Kind, ok := riscvValidKinds[inner.Kind()]
		if !ok || (hi20Kind != RiscvPCRelHI20 && hi20Kind != RiscvGotHI20) {
			continue
		}
		if hi20Kind == RiscvGotHI20 {
			return 0, errGotPairedHI20(arch.String(), uint64(lo12Loc), "")
		}
		hi20Sym, err := obj.Symbol(inner.SymIndex())
		if err != nil {
			return 0, err
		}
		hi20SymVal := int64(hi20Sym.Value) + inner.Addend
		offset := hi20SymVal - int64(hi20Loc)
		hi20 := (offset + 0x800) & ^int64(0xfff)
		lo12 := offset - hi20
		return uint64(lo12), nil
	}
	return 0, errMissingHI20(arch.String(), uint64(lo12Loc), "")
}

// resolveLoongArchLo12 mirrors resolveRiscvLO12 for the PCALA_HI20/
// PCALA_LO12 pairing; LoongArch uses the identical local-label
// convention (the LO12 relocation's symbol value equals the paired
// HI20 instruction's address).
func resolveLoongArchLo12(obj ObjectView, arch Arch, targetSection SectionHeader, allEntries []RelaEntry, lo12Sym Symbol, lo12Loc Location) (uint64, error) {
	for _, inner := range allEntries {
		hiLoc := targetSection.Addr + inner.Offset
		if hiLoc != lo12Sym.Value {
			continue
		}
		hiKind, ok := loongArchValidKinds[inner.Kind()]
		if !ok || hiKind != LoongArchPcalaHi20 {
			continue
		}
		hiSym, err := obj.Symbol(inner.SymIndex())
		if err != nil {
			return 0, err
		}
		hiSymVal := int64(hiSym.Value) + inner.Addend
		offset := hiSymVal - int64(hiLoc)
		hi20 := (offset + 0x800) & ^int64(0xfff)
		lo12 := offset - hi20
		return uint64(lo12), nil
	}
	return 0, errMissingHI20(arch.String(), uint64(lo12Loc), "")
}
