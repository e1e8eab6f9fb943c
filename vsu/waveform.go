// Package vsu implements the Virtual Boy's six-channel sound mixer: five
// PCM channels sharing five waveform banks, plus a noise channel, with a
// shared 32-entry modulation table feeding channel 5's sweep/modulate unit.
package vsu

// Waveform is one of the five 32-sample, 6-bit-wide PCM tables.
type Waveform struct {
	ram [32]uint8
}

// GetIndexed returns the sample at the given 0-31 index.
func (w *Waveform) GetIndexed(index int) uint8 {
	return w.ram[index&0x1F]
}

// SetU8 writes a byte within the waveform's CPU-visible 0x80-byte window;
// only every fourth byte is backed by a real sample cell.
func (w *Waveform) SetU8(address int, value uint8) {
	w.ram[(address>>2)&0x1F] = value & 0x3F
}
