package vip

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/bdwalton/vb810/vram"
)

// paletteSnapshot mirrors paletteRegister's unexported fields, since gob
// silently drops unexported ones.
type paletteSnapshot struct {
	Character1, Character2, Character3 uint8
}

func snapshotPalette(p paletteRegister) paletteSnapshot {
	return paletteSnapshot{p.character1, p.character2, p.character3}
}

func (s paletteSnapshot) restore() paletteRegister {
	return paletteRegister{character1: s.Character1, character2: s.Character2, character3: s.Character3}
}

// brightnessSnapshot mirrors brightness's unexported fields.
type brightnessSnapshot struct {
	A, B, C uint8
}

type snapshot struct {
	VRAM [vram.Size / 2]uint16

	CurrentDisplayClockCycle int
	DisplayEnabled           bool
	SyncEnabled              bool
	DrawingEnabled           bool
	RefreshRAM               bool
	LockColumnTable          bool
	FCLK                     bool
	DisplayingLeft           bool
	DisplayingRight          bool

	IntPending interruptBits
	IntEnabled interruptBits

	DrawingFramebuffer1 bool
	SBCount             uint8
	SBCMP               uint8
	DrawingCycleCount   int
	InDrawing           bool
	ObjGroupPointer     uint8

	FrameCount int
	FRMCYC     uint8
	FrameReady bool

	BGPalettes  [4]paletteSnapshot
	OBJPalettes [4]paletteSnapshot
	Brightness  brightnessSnapshot

	ObjGroupEnd [4]uint16

	BKCOL     uint8
	LastBKCOL uint8
}

// SaveState gob-encodes every display/drawing register and the backing
// VRAM store.
func (v *VIP) SaveState() []byte {
	snap := snapshot{
		VRAM: v.vram.SaveState(),

		CurrentDisplayClockCycle: v.currentDisplayClockCycle,
		DisplayEnabled:           v.displayEnabled,
		SyncEnabled:              v.syncEnabled,
		DrawingEnabled:           v.drawingEnabled,
		RefreshRAM:               v.refreshRAM,
		LockColumnTable:          v.lockColumnTable,
		FCLK:                     v.fclk,
		DisplayingLeft:           v.displayingLeft,
		DisplayingRight:          v.displayingRight,

		IntPending: v.intPending,
		IntEnabled: v.intEnabled,

		DrawingFramebuffer1: v.drawingFramebuffer1,
		SBCount:             v.sbcount,
		SBCMP:               v.sbcmp,
		DrawingCycleCount:   v.drawingCycleCount,
		InDrawing:           v.inDrawing,
		ObjGroupPointer:     v.objGroupPointer,

		FrameCount: v.frameCount,
		FRMCYC:     v.frmcyc,
		FrameReady: v.frameReady,

		Brightness: brightnessSnapshot{v.brt.a, v.brt.b, v.brt.c},

		ObjGroupEnd: v.objGroupEnd,

		BKCOL:     v.bkcol,
		LastBKCOL: v.lastBkcol,
	}
	for i, p := range v.bgPalettes {
		snap.BGPalettes[i] = snapshotPalette(p)
	}
	for i, p := range v.objPalettes {
		snap.OBJPalettes[i] = snapshotPalette(p)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		panic(fmt.Sprintf("vip: snapshot encode: %v", err))
	}
	return buf.Bytes()
}

// LoadState restores a VIP previously serialized by SaveState.
func (v *VIP) LoadState(data []byte) error {
	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return fmt.Errorf("vip: decode snapshot: %w", err)
	}

	v.vram.LoadState(snap.VRAM)

	v.currentDisplayClockCycle = snap.CurrentDisplayClockCycle
	v.displayEnabled = snap.DisplayEnabled
	v.syncEnabled = snap.SyncEnabled
	v.drawingEnabled = snap.DrawingEnabled
	v.refreshRAM = snap.RefreshRAM
	v.lockColumnTable = snap.LockColumnTable
	v.fclk = snap.FCLK
	v.displayingLeft = snap.DisplayingLeft
	v.displayingRight = snap.DisplayingRight

	v.intPending = snap.IntPending
	v.intEnabled = snap.IntEnabled

	v.drawingFramebuffer1 = snap.DrawingFramebuffer1
	v.sbcount = snap.SBCount
	v.sbcmp = snap.SBCMP
	v.drawingCycleCount = snap.DrawingCycleCount
	v.inDrawing = snap.InDrawing
	v.objGroupPointer = snap.ObjGroupPointer

	v.frameCount = snap.FrameCount
	v.frmcyc = snap.FRMCYC
	v.frameReady = snap.FrameReady

	for i, p := range snap.BGPalettes {
		v.bgPalettes[i] = p.restore()
	}
	for i, p := range snap.OBJPalettes {
		v.objPalettes[i] = p.restore()
	}
	v.brt = brightness{a: snap.Brightness.A, b: snap.Brightness.B, c: snap.Brightness.C}

	v.objGroupEnd = snap.ObjGroupEnd

	v.bkcol = snap.BKCOL
	v.lastBkcol = snap.LastBKCOL
	return nil
}
