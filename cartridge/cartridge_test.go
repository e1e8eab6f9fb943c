package cartridge

import "testing"

func TestNewRejectsOversizedROM(t *testing.T) {
	if _, err := New(make([]byte, MaxROMSize+2)); err == nil {
		t.Errorf("expected error for oversized ROM")
	}
}

func TestGetROMMasksToPowerOfTwo(t *testing.T) {
	rom := make([]byte, 8) // 4 halfwords
	rom[0], rom[1] = 0xAA, 0xBB
	c, err := New(rom)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if got := c.GetROM(0); got != 0xBBAA {
		t.Errorf("GetROM(0) = %04X, want BBAA", got)
	}
	if got := c.GetROM(4); got != 0xBBAA {
		t.Errorf("GetROM(4) (mirrored) = %04X, want BBAA", got)
	}
}

func TestSRAMWatermarkGrowth(t *testing.T) {
	c, err := New(make([]byte, 4))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	cases := []struct {
		addr     int
		wantSize int
	}{
		{0x0003 / 2, 1024},
		{0x1000 / 2, 4096},
		{0x2_0000 / 2, 262144},
	}

	for i, tc := range cases {
		c.SetRAM(tc.addr, 0x1234)
		if got := len(c.DumpRAM()); got != tc.wantSize {
			t.Errorf("%d: DumpRAM() length = %d, want %d", i, got, tc.wantSize)
		}
	}
}

func TestDumpLoadRAMRoundTrip(t *testing.T) {
	c, err := New(make([]byte, 4))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	c.SetRAM(10, 0xBEEF)
	dump := c.DumpRAM()

	c2, err := New(make([]byte, 4))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := c2.LoadRAM(dump); err != nil {
		t.Fatalf("LoadRAM() error: %v", err)
	}

	if got := c2.GetRAM(10); got != 0xBEEF {
		t.Errorf("GetRAM(10) after round trip = %04X, want BEEF", got)
	}
}
