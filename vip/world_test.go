package vip

import (
	"testing"

	"github.com/bdwalton/vb810/vram"
)

func TestSignExtend(t *testing.T) {
	cases := []struct {
		v    uint16
		bits uint
		want int16
	}{
		{0x3FF, 10, -1},
		{0x1FF, 10, 511},
		{0x200, 10, -512},
		{0xFFFF, 16, -1},
	}
	for i, c := range cases {
		if got := signExtend(c.v, c.bits); got != c.want {
			t.Errorf("%d: signExtend(%#x,%d) = %d, want %d", i, c.v, c.bits, got, c.want)
		}
	}
}

func TestReadWorldDecodesHeaderAndCoordinates(t *testing.T) {
	v := vram.New()
	base := worldBase

	v.SetBusU16(base+0, 0x40)   // end marker
	v.SetBusU16(base+2, 0x0056) // screen sizes / bg type / display-on
	v.SetBusU16(base+4, 0x3FF)  // destination X = -1 (10-bit signed)

	w := readWorld(v, 0)
	if !w.end {
		t.Errorf("expected end marker set")
	}
	if w.screenYSize != 2 || w.screenXSize != 1 {
		t.Errorf("screen sizes = (%d,%d), want (1,2)", w.screenXSize, w.screenYSize)
	}
	if w.bgType != backgroundHBias {
		t.Errorf("bgType = %v, want backgroundHBias", w.bgType)
	}
	if w.display != displayLeft {
		t.Errorf("display = %v, want displayLeft", w.display)
	}
	if w.destX != -1 {
		t.Errorf("destX = %d, want -1", w.destX)
	}
}

func TestReadWorldDisplayState(t *testing.T) {
	v := vram.New()
	v.SetBusU16(worldBase+2, 0xC0) // left_on|right_on bits set

	w := readWorld(v, 0)
	if w.display != displayBoth {
		t.Errorf("got display %v, want displayBoth", w.display)
	}
}
