package vram

// SaveState returns a copy of the raw backing store for inclusion in a
// larger savestate blob. VRAM has no CPU-adjacent decode state beyond the
// flat array, so no gob framing is needed here; the caller folds this into
// its own envelope.
func (v *VRAM) SaveState() [Size / 2]uint16 {
	return v.mem
}

// LoadState replaces the backing store wholesale.
func (v *VRAM) LoadState(mem [Size / 2]uint16) {
	v.mem = mem
}
