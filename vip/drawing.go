package vip

const (
	displayWidth  = 384
	displayHeight = 224

	// framebufferHeight is the hardware's fixed column stride for
	// addressing framebuffer memory, distinct from displayHeight: only
	// the first 224 rows of each 256-row column are visible.
	framebufferHeight = 256

	// Character-table mirror window bases, as resolved by vram.VRAM.
	charTable0 = 0x6000
	charTable1 = 0xE000
	charTable2 = 0x1_6000
	charTable3 = 0x1_E000

	// Background map tiles are 512x512 logical pixels, stored as a 64x64
	// grid of 2-byte character-entries starting at 0x2_0000.
	bgMapBase = 0x2_0000
)

// framebufferBase returns the VRAM byte address of the given eye's buffer
// within the pair selected by useBuffer1.
func framebufferBase(leftEye, useBuffer1 bool) int {
	switch {
	case leftEye && !useBuffer1:
		return 0x0000
	case !leftEye && !useBuffer1:
		return 0x8000
	case leftEye && useBuffer1:
		return 0x1_0000
	default:
		return 0x1_8000
	}
}

// drawBlockRow renders one 8-row block (rows [blockStartY, blockStartY+8))
// across all 32 worlds, stopping at the first end-marker world encountered
// while scanning from world 31 down to 0.
func (v *VIP) drawBlockRow(blockStartY int) {
	v.objGroupPointer = 3

	for i := 31; i >= 0; i-- {
		w := readWorld(v.vram, i)
		if w.end {
			break
		}
		if w.bgType == backgroundOBJ {
			v.renderOBJWorld(blockStartY)
			continue
		}
		if w.display == displayNone {
			continue
		}

		v.renderWorldRow(w, true, blockStartY)
		v.renderWorldRow(w, false, blockStartY)
	}
}

func (v *VIP) renderWorldRow(w world, leftEye bool, blockStartY int) {
	if !w.renders(leftEye) {
		return
	}

	switch w.bgType {
	case backgroundNormal:
		v.renderNormalOrHBias(w, leftEye, false, blockStartY)
	case backgroundHBias:
		v.renderNormalOrHBias(w, leftEye, true, blockStartY)
	case backgroundAffine:
		v.renderAffine(w, leftEye, blockStartY)
	}
}

func (v *VIP) renderNormalOrHBias(w world, leftEye, isHBias bool, blockStartY int) {
	var parallaxX int
	if leftEye {
		parallaxX = int(w.destX) - int(w.destParallax)
	} else {
		parallaxX = int(w.destX) + int(w.destParallax)
	}

	height := int(w.windowHeight) + 1
	width := int(w.windowWidth) + 1

	for windowY := 0; windowY < height; windowY++ {
		pixelY := windowY + int(w.destY)
		if pixelY < blockStartY || pixelY >= blockStartY+8 {
			continue
		}

		lineOffset := 0
		if isHBias {
			paramAddr := bgMapBase + int(w.paramBase)*2 + windowY*4
			if !leftEye {
				paramAddr |= 2
			}
			lineOffset = int(signExtend(v.vram.GetBusU16(paramAddr), 13))
		}

		for windowX := 0; windowX < width; windowX++ {
			pixelX := windowX + parallaxX
			if pixelX < 0 || pixelX >= displayWidth {
				continue
			}

			var bgX, bgY int
			if leftEye {
				bgX = windowX + int(w.srcX) + lineOffset - int(w.srcParallax)
			} else {
				bgX = windowX + int(w.srcX) + lineOffset + int(w.srcParallax)
			}
			bgY = windowY + int(w.srcY)

			v.drawBackgroundPixel(w, leftEye, pixelX, pixelY, bgX, bgY)
		}
	}
}

// affineParam is one decoded per-row affine parameter record (16 bytes).
type affineParam struct {
	srcX      int16
	parallax  int16
	srcY      int16
	xDir      int16
	yDir      int16
}

func readAffineParam(v *VIP, addr int) affineParam {
	hw := func(n int) uint16 { return v.vram.GetBusU16(addr + n*2) }
	return affineParam{
		srcX:     int16(hw(0)),
		parallax: int16(hw(1)),
		srcY:     int16(hw(2)),
		xDir:     int16(hw(3)),
		yDir:     int16(hw(4)),
	}
}

func (v *VIP) renderAffine(w world, leftEye bool, blockStartY int) {
	var parallaxX int
	if leftEye {
		parallaxX = int(w.destX) - int(w.destParallax)
	} else {
		parallaxX = int(w.destX) + int(w.destParallax)
	}

	height := int(w.windowHeight) + 1
	width := int(w.windowWidth) + 1

	for windowY := 0; windowY < height; windowY++ {
		pixelY := windowY + int(w.destY)
		if pixelY < blockStartY || pixelY >= blockStartY+8 {
			continue
		}

		paramAddr := bgMapBase + int(w.paramBase)*2 + windowY*16
		param := readAffineParam(v, paramAddr)

		var affineParallax int
		if leftEye {
			if param.parallax < 0 {
				affineParallax = -int(param.parallax)
			}
		} else {
			if param.parallax >= 0 {
				affineParallax = int(param.parallax)
			}
		}

		for windowX := 0; windowX < width; windowX++ {
			pixelX := windowX + parallaxX
			if pixelX < 0 || pixelX >= displayWidth {
				continue
			}

			parallaxedWindowX := windowX + affineParallax

			srcX23p9 := int32(param.srcX) << 6
			srcY23p9 := int32(param.srcY) << 6

			bgX := srcX23p9 + int32(param.xDir)*int32(parallaxedWindowX)
			bgY := srcY23p9 + int32(param.yDir)*int32(parallaxedWindowX)

			v.drawBackgroundPixel(w, leftEye, pixelX, pixelY, int(bgX>>9), int(bgY>>9))
		}
	}
}

// drawBackgroundPixel resolves one destination pixel of a Normal/HBias/Affine
// world from its background-space coordinate and writes it to the active
// drawing framebuffer.
func (v *VIP) drawBackgroundPixel(w world, leftEye bool, pixelX, pixelY, bgX, bgY int) {
	screenWidthTiles := 1 << w.screenXSize
	screenHeightTiles := 1 << w.screenYSize
	totalWidth := 512 * screenWidthTiles
	totalHeight := 512 * screenHeightTiles

	if w.overplane && (bgX < 0 || bgY < 0 || bgX >= totalWidth || bgY >= totalHeight) {
		v.drawCharacterPixel(leftEye, pixelX, pixelY, 0, 0, w.overplaneChar, bgPalette(v, 0), false, false)
		return
	}

	bgX &= totalWidth - 1
	bgY &= totalHeight - 1

	tileX := (bgX / 512) & (screenWidthTiles - 1)
	tileY := (bgY / 512) & (screenHeightTiles - 1)
	tileIndex := tileY*screenWidthTiles + tileX

	mapBase := bgMapBase + (int(w.mapBase)+tileIndex)*0x2000

	localX := (bgX % 512) / 8
	localY := (bgY % 512) / 8
	entryAddr := mapBase + (localY*64+localX)*2

	entry := v.vram.GetBusU16(entryAddr)
	charIndex := entry & 0x7FF
	hFlip := entry&0x2000 != 0
	vFlip := entry&0x1000 != 0
	palIndex := uint8((entry >> 14) & 0x3)

	charOffsetX := bgX % 8
	charOffsetY := bgY % 8

	v.drawCharacterPixel(leftEye, pixelX, pixelY, charOffsetX, charOffsetY, charIndex, bgPalette(v, palIndex), hFlip, vFlip)
}

func bgPalette(v *VIP, index uint8) paletteRegister {
	if int(index) < len(v.bgPalettes) {
		return v.bgPalettes[index]
	}
	return v.bgPalettes[0]
}

// drawCharacterPixel fetches one pixel from an 8x8 character cell, maps it
// through a palette, and writes it into the active drawing framebuffer.
// Palette index 0 is transparent and performs no write.
func (v *VIP) drawCharacterPixel(leftEye bool, x, y, charOffsetX, charOffsetY int, charIndex uint16, palette paletteRegister, hFlip, vFlip bool) {
	if x < 0 || x >= displayWidth || y < 0 || y >= displayHeight {
		return
	}

	offsetX := charOffsetX
	offsetY := charOffsetY
	if hFlip {
		offsetX = 7 - offsetX
	}
	if vFlip {
		offsetY = 7 - offsetY
	}

	var tableBase int
	var idx int
	switch {
	case charIndex <= 0x1FF:
		tableBase, idx = charTable0, int(charIndex)
	case charIndex <= 0x3FF:
		tableBase, idx = charTable1, int(charIndex&0x1FF)
	case charIndex <= 0x5FF:
		tableBase, idx = charTable2, int(charIndex&0x1FF)
	default:
		tableBase, idx = charTable3, int(charIndex&0x1FF)
	}

	rowAddr := tableBase + idx*16 + offsetY*2
	row := v.vram.GetBusU16(rowAddr)

	pixel := uint8((row >> (uint(offsetX) * 2)) & 0x3)
	if pixel == 0 {
		return
	}

	var mapped uint8
	switch pixel {
	case 1:
		mapped = palette.character1
	case 2:
		mapped = palette.character2
	case 3:
		mapped = palette.character3
	}

	v.writeFramebufferPixel(leftEye, x, y, mapped)
}

func (v *VIP) writeFramebufferPixel(leftEye bool, x, y int, value uint8) {
	base := framebufferBase(leftEye, v.drawingFramebuffer1)
	byteOffset := (x*framebufferHeight + y) / 4
	shift := uint((y & 3) * 2)

	addr := base + byteOffset
	existing := v.vram.GetU8(addr)
	removalMask := ^(uint8(0x3) << shift)
	out := (existing & removalMask) | (value << shift)
	v.vram.SetU8(addr, out)
}

// renderOBJWorld renders the sprite group selected by the rolling
// objGroupPointer, which decrements (wrapping 0->3) on every OBJ world
// encountered in a block.
func (v *VIP) renderOBJWorld(blockStartY int) {
	group := v.objGroupPointer
	if v.objGroupPointer == 0 {
		v.objGroupPointer = 3
	} else {
		v.objGroupPointer--
	}

	start, end := v.objectGroupRange(int(group))
	for idx := end; idx >= start; idx-- {
		obj := readObject(v.vram, idx)
		v.renderObject(obj, true, blockStartY)
		v.renderObject(obj, false, blockStartY)
	}
}

func (v *VIP) objectGroupRange(group int) (start, end int) {
	end = int(v.objGroupEnd[group])
	if group == 0 {
		start = 0
	} else {
		start = int(v.objGroupEnd[group-1]) + 1
	}
	if start > end {
		start = 0
	}
	return start, end
}

func (v *VIP) renderObject(obj object, leftEye bool, blockStartY int) {
	if !obj.renders(leftEye) {
		return
	}

	palette := v.objPalettes[obj.palette]

	var parallax int
	if leftEye {
		parallax = -int(obj.parallax)
	} else {
		parallax = int(obj.parallax)
	}

	pixelYBase := int(int8(obj.displayY))

	for offsetY := 0; offsetY < 8; offsetY++ {
		pixelY := pixelYBase + offsetY
		if pixelY < blockStartY || pixelY >= blockStartY+8 {
			continue
		}

		for offsetX := 0; offsetX < 8; offsetX++ {
			pixelX := int(obj.displayX) + offsetX + parallax
			if pixelX < 0 || pixelX >= displayWidth {
				continue
			}

			v.drawCharacterPixel(leftEye, pixelX, pixelY, offsetX, offsetY, obj.charIndex, palette, obj.hFlip, obj.vFlip)
		}
	}
}
