package vip

import "github.com/bdwalton/vb810/vram"

// objectBase is the VRAM address of OAM entry 0. Each entry is 4 halfwords
// (8 bytes); up to 1024 entries exist.
const objectBase = 0x3_E000

// object is one decoded OAM sprite record.
type object struct {
	displayX  int16
	displayY  uint8
	parallax  int16
	renderLeft  bool
	renderRight bool
	palette     uint8
	hFlip       bool
	vFlip       bool
	charIndex   uint16
}

func readObject(v *vram.VRAM, index int) object {
	base := objectBase + index*8
	hw := func(n int) uint16 { return v.GetBusU16(base + n*2) }

	h0 := hw(0)
	h1 := hw(1)
	h2 := hw(2)
	h3 := hw(3)

	return object{
		displayX:    signExtend(h0&0x3FF, 10),
		renderRight: h1&0x8000 != 0,
		renderLeft:  h1&0x4000 != 0,
		parallax:    signExtend(h1&0x3FF, 10),
		displayY:    uint8(h2 & 0xFF),
		palette:     uint8((h3 >> 14) & 0x3),
		hFlip:       h3&0x2000 != 0,
		vFlip:       h3&0x1000 != 0,
		charIndex:   h3 & 0x7FF,
	}
}

func (o object) renders(leftEye bool) bool {
	if leftEye {
		return o.renderLeft
	}
	return o.renderRight
}
