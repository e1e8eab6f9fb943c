// Package bus implements the Virtual Boy's address decoder: it routes
// 8/16/32-bit CPU accesses to VIP (VRAM + registers), VSU, the hardware
// register block, WRAM, and the cartridge, mirroring every 128 MiB per the
// top-5-bits-ignored address map.
package bus

import (
	"github.com/bdwalton/vb810/cartridge"
	"github.com/bdwalton/vb810/hardware"
	"github.com/bdwalton/vb810/vip"
	"github.com/bdwalton/vb810/vsu"
)

const (
	wramSize      = 0x1_0000
	wramHalfwords = wramSize / 2
)

// Bus owns every memory-mapped peripheral and performs width-synthesizing
// accesses on their behalf.
type Bus struct {
	wram [wramHalfwords]uint16

	Cartridge *cartridge.Cartridge
	VIP       *vip.VIP
	VSU       *vsu.VSU
	Hardware  *hardware.Hardware
}

// New wires a Bus around a cartridge image. VIP/VSU/Hardware are
// constructed fresh.
func New(cart *cartridge.Cartridge) *Bus {
	return &Bus{
		Cartridge: cart,
		VIP:       vip.New(),
		VSU:       vsu.New(),
		Hardware:  hardware.New(),
	}
}

// Step advances every bus-owned peripheral by cyclesToRun cycles, in the
// fixed order gamepad -> VSU -> timer -> VIP, returning the
// highest-priority pending interrupt request if any (VIP outranks timer).
func (b *Bus) Step(cyclesToRun int, sink vsu.Sink, inputs hardware.Inputs) (hardware.InterruptRequest, bool) {
	b.Hardware.Gamepad.Step(cyclesToRun, inputs)
	b.VSU.Step(cyclesToRun, sink)

	var request hardware.InterruptRequest
	var hasRequest bool

	if b.Hardware.Timer.Step(cyclesToRun) {
		request, hasRequest = hardware.InterruptTimerZero, true
	}

	if b.VIP.Step(cyclesToRun) {
		request, hasRequest = hardware.InterruptVIP, true
	}

	return request, hasRequest
}

// GetU16 performs a 16-bit read, mirroring the top 5 address bits away.
func (b *Bus) GetU16(address uint32) uint16 {
	address &= 0x07FF_FFFF

	switch {
	case address <= 0x00FF_FFFF:
		return b.VIP.GetBus(int(address))
	case address >= 0x0200_0000 && address <= 0x02FF_FFFF:
		return b.Hardware.Get(uint8(address))
	case address >= 0x0500_0000 && address <= 0x05FF_FFFF:
		return b.wram[(address>>1)&0x7FFF]
	case address >= 0x0600_0000 && address <= 0x06FF_FFFF:
		return b.Cartridge.GetRAM(int((address >> 1) & 0x7F_FFFF))
	case address >= 0x0700_0000 && address <= 0x07FF_FFFF:
		return b.Cartridge.GetROM(int((address >> 1) & 0x7F_FFFF))
	default:
		return 0
	}
}

// GetROM is a fast path for instruction fetch, which is cart-only in
// practice.
func (b *Bus) GetROM(address uint32) uint16 {
	return b.Cartridge.GetROM(int(address))
}

// GetU32 synthesizes a 32-bit read from two halfword accesses.
func (b *Bus) GetU32(address uint32) uint32 {
	lower := uint32(b.GetU16(address))
	upper := uint32(b.GetU16(address + 2))
	return (upper << 16) | lower
}

// GetU8 extracts a byte from the enclosing halfword.
func (b *Bus) GetU8(address uint32) uint8 {
	word := b.GetU16(address)
	if address&1 == 0 {
		return uint8(word & 0xFF)
	}
	return uint8(word >> 8)
}

// SetU16 performs a 16-bit write, mirroring the top 5 address bits away.
// ROM writes are silently dropped; VSU, WRAM, SRAM, and the hardware block
// are routed to their owners.
func (b *Bus) SetU16(address uint32, value uint16) {
	address &= 0x07FF_FFFF
	localAddress := address & 0xFF_FFFF

	switch {
	case address <= 0x00FF_FFFF:
		b.VIP.SetBus(address, value)
	case address >= 0x0100_0000 && address <= 0x01FF_FFFF:
		b.VSU.SetU8(int(localAddress), uint8(value))
	case address >= 0x0200_0000 && address <= 0x02FF_FFFF:
		b.Hardware.Set(uint8(address), value)
	case address >= 0x0500_0000 && address <= 0x05FF_FFFF:
		b.wram[(localAddress>>1)&0x7FFF] = value
	case address >= 0x0600_0000 && address <= 0x06FF_FFFF:
		b.Cartridge.SetRAM(int(localAddress>>1), value)
	case address >= 0x0700_0000 && address <= 0x07FF_FFFF:
		// Game Pak ROM: writes are silently ignored.
	}
}

// SetU32 synthesizes a 32-bit write from two halfword writes, low halfword
// first.
func (b *Bus) SetU32(address uint32, value uint32) {
	lower := uint16(value & 0xFFFF)
	upper := uint16(value >> 16)
	b.SetU16(address, lower)
	b.SetU16(address+2, upper)
}

// SetU8 merges a byte write into the enclosing halfword.
func (b *Bus) SetU8(address uint32, value uint8) {
	existing := b.GetU16(address)
	var out uint16
	if address&1 == 0 {
		out = (existing & 0xFF00) | uint16(value)
	} else {
		out = (existing & 0x00FF) | (uint16(value) << 8)
	}
	b.SetU16(address, out)
}

// WRAMSlice exposes the raw WRAM store for savestate serialization.
func (b *Bus) WRAMSlice() []uint16 {
	return b.wram[:]
}
