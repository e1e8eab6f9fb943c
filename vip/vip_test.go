package vip

import "testing"

func TestFrameBoundaryRaisesEachInterruptOnce(t *testing.T) {
	v := New()
	v.setRegister(regDPCTRL, 0x2)   // display_enabled
	v.setRegister(regXPCTRL, 0x2)   // drawing_enabled
	v.setRegister(regINTENB, 0xFFFF)

	v.Step(frameCycleCount)

	cases := []struct {
		name string
		bit  interruptBits
	}{
		{"framestart", intFrameStart},
		{"gamestart", intGameStart},
		{"lfbend", intLFBEnd},
		{"rfbend", intRFBEnd},
		{"xpend", intXPEnd},
	}
	for _, c := range cases {
		if v.intPending&c.bit == 0 {
			t.Errorf("%s: expected pending after one frame", c.name)
		}
	}
}

func TestDrawingFramebufferTogglesOncePerDrawnFrame(t *testing.T) {
	v := New()
	v.setRegister(regXPCTRL, 0x2)

	before := v.drawingFramebuffer1
	v.Step(frameCycleCount)
	if v.drawingFramebuffer1 == before {
		t.Errorf("drawing_framebuffer_1 should have toggled once")
	}
}

func TestSBCountStaysWithinBounds(t *testing.T) {
	v := New()
	v.setRegister(regXPCTRL, 0x2)

	v.Step(frameCycleCount * 2)

	if v.sbcount > totalDrawingBlocks {
		t.Errorf("sbcount %d exceeds %d", v.sbcount, totalDrawingBlocks)
	}
}

func TestINTCLEARClearsOnlyRequestedBits(t *testing.T) {
	v := New()
	v.intPending = intFrameStart | intLFBEnd

	v.setRegister(regINTCLR, uint16(intFrameStart))

	if v.intPending&intFrameStart != 0 {
		t.Errorf("framestart should have been cleared")
	}
	if v.intPending&intLFBEnd == 0 {
		t.Errorf("lfbend should remain pending")
	}
}

func TestINTPNDWriteIsIgnored(t *testing.T) {
	v := New()
	v.setRegister(regINTPND, 0xFFFF)
	if v.intPending != 0 {
		t.Errorf("writes to INTPND must have no effect")
	}
}

func TestPaletteRoundTrip(t *testing.T) {
	v := New()
	v.setRegister(regGPLT0, 0x39) // 0b00_11_10_01 -> c1=1 c2=2 c3=3

	got := v.getRegister(regGPLT0)
	if got != 0x39 {
		t.Errorf("got %#x, want 0x39", got)
	}
}

func TestBrightnessClampsTo255(t *testing.T) {
	br := brightness{a: 200, b: 10, c: 10}
	if br.level(1) != 255 {
		t.Errorf("level(1) = %d, want clamped 255", br.level(1))
	}
}

func TestObjectGroupRangeDefaultsStartToZeroWhenInverted(t *testing.T) {
	v := New()
	v.objGroupEnd = [4]uint16{10, 5, 20, 30}

	start, end := v.objectGroupRange(1)
	if start != 0 || end != 5 {
		t.Errorf("got (%d,%d), want (0,5) when start>end", start, end)
	}
}
