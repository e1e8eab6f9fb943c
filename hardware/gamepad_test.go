package hardware

import "testing"

func TestGamepadSerialReadOrder(t *testing.T) {
	g := NewGamepad()
	in := Inputs{AButton: true, Start: true}

	g.SetControl(0x04) // start hardware read

	for i := 0; i < 16; i++ {
		g.Step(GamepadHardwareReadCycleCount, in)
	}

	got := g.SerialData()
	// A (slot 13) and Start (slot 3) are set; signature bit 1 always set.
	wantBit := func(slot int) uint16 { return 1 << uint(15-slot) }
	if got&wantBit(13) == 0 {
		t.Errorf("expected A button bit set in serial data %016b", got)
	}
	if got&wantBit(3) == 0 {
		t.Errorf("expected Start bit set in serial data %016b", got)
	}
	if got&0x2 == 0 {
		t.Errorf("expected signature bit always set")
	}
}

func TestGamepadAbortRead(t *testing.T) {
	g := NewGamepad()
	g.SetControl(0x04)
	g.Step(1, Inputs{})
	g.SetControl(0x01) // abort

	if g.isHardwareReading {
		t.Errorf("expected hardware read aborted")
	}
}
