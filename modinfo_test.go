package kmodloader

import "testing"

func TestModuleInfoRoundTrip(t *testing.T) {
	m := ModuleInfo{
		Name:    "hello",
		Version: "0.1.0",
		InitFn:  0x401000,
		ExitFn:  0x401100,
	}
	buf := EncodeModuleInfo(m)
	if len(buf) != ModinfoSize {
		t.Fatalf("encoded length %d, want %d", len(buf), ModinfoSize)
	}
	got, err := DecodeModuleInfo(buf)
	if err != nil {
		t.Fatalf("DecodeModuleInfo: %v", err)
	}
	if got != m {
		t.Errorf("got %+v, want %+v", got, m)
	}
}

func TestModuleInfoMagic(t *testing.T) {
	buf := EncodeModuleInfo(ModuleInfo{Name: "x"})
	if le32(buf, 0) != ModuleMagic {
		t.Errorf("magic mismatch")
	}
}

func TestModuleInfoBadMagic(t *testing.T) {
	buf := EncodeModuleInfo(ModuleInfo{Name: "x"})
	putLe32(buf, 0, 0)
	if _, err := DecodeModuleInfo(buf); err == nil {
		t.Fatalf("expected bad-magic error")
	}
}

func TestModuleInfoNameTruncation(t *testing.T) {
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	m := ModuleInfo{Name: string(long)}
	buf := EncodeModuleInfo(m)
	got, err := DecodeModuleInfo(buf)
	if err != nil {
		t.Fatalf("DecodeModuleInfo: %v", err)
	}
	if len(got.Name) != modinfoNameLen-1 {
		t.Errorf("truncated name length: got %d, want %d", len(got.Name), modinfoNameLen-1)
	}
}

func TestModuleInfoShortBuffer(t *testing.T) {
	if _, err := DecodeModuleInfo(make([]byte, 4)); err == nil {
		t.Fatalf("expected short-buffer error")
	}
}
