package kmodloader

import "testing"

func TestApplyX86_64PC32(t *testing.T) {
	// The driver always passes value = S + A (driver.go's applyOne).
	// For a real rel32 operand the addend is -4, already carrying the
	// end-of-instruction adjustment, so the value passed in is
	// S + A = target - 4, not target itself.
	buf := make([]byte, 4)
	loc := newLocation(buf)
	target := uint64(loc) + 0x2000
	const addend = int64(-4)
	value := uint64(int64(target) + addend)

	if err := ApplyX86_64(X86_64PC32, loc, value); err != nil {
		t.Fatalf("ApplyX86_64: %v", err)
	}
	disp := le32(buf, 0)
	want := uint32(int32(int64(value) - int64(loc)))
	if disp != want {
		t.Errorf("got 0x%x, want 0x%x", disp, want)
	}
	// The patched displacement plus P must reach the real target:
	// disp + location == S + A == target - 4, i.e. RIP (location+4)
	// lands exactly on target.
	if int64(loc)+int64(int32(disp))+4 != int64(target) {
		t.Errorf("patched displacement does not resolve to target: disp=0x%x", disp)
	}
}

func TestApplyX86_64Abs64(t *testing.T) {
	buf := make([]byte, 8)
	loc := newLocation(buf)
	if err := ApplyX86_64(X86_64_64, loc, 0x0102030405060708); err != nil {
		t.Fatalf("ApplyX86_64: %v", err)
	}
	if got := le64(buf, 0); got != 0x0102030405060708 {
		t.Errorf("got 0x%x", got)
	}
}

func TestApplyX86_64PC32Range(t *testing.T) {
	loc := Location(0x1000)
	if err := ApplyX86_64(X86_64PC32, loc, uint64(0x1000)+(1<<33)); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestApplyX86_64Unimplemented(t *testing.T) {
	if err := ApplyX86_64(X86_64GOT32, Location(0x1000), 0); err == nil {
		t.Fatalf("expected GOT32 to be rejected as unimplemented")
	}
}
