package bus

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// SaveState gob-encodes WRAM directly, then each owned peripheral's own
// opaque SaveState blob in a fixed order, matching the GameBoy emulator's
// busState composition pattern for owned subsystems.
func (b *Bus) SaveState() []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(b.wram)
	_ = enc.Encode(b.Cartridge.DumpRAM())
	_ = enc.Encode(b.VIP.SaveState())
	_ = enc.Encode(b.VSU.SaveState())
	_ = enc.Encode(b.Hardware.SaveState())

	return buf.Bytes()
}

// LoadState restores a Bus previously serialized by SaveState. The
// Cartridge's ROM is assumed already populated by the caller; only its RAM
// is replaced.
func (b *Bus) LoadState(data []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(data))

	if err := dec.Decode(&b.wram); err != nil {
		return fmt.Errorf("bus: decode wram: %w", err)
	}

	var cartRAM []byte
	if err := dec.Decode(&cartRAM); err != nil {
		return fmt.Errorf("bus: decode cartridge ram: %w", err)
	}
	if err := b.Cartridge.LoadRAM(cartRAM); err != nil {
		return fmt.Errorf("bus: restore cartridge ram: %w", err)
	}

	var vipBytes, vsuBytes, hardwareBytes []byte
	if err := dec.Decode(&vipBytes); err != nil {
		return fmt.Errorf("bus: decode vip bytes: %w", err)
	}
	if err := b.VIP.LoadState(vipBytes); err != nil {
		return err
	}
	if err := dec.Decode(&vsuBytes); err != nil {
		return fmt.Errorf("bus: decode vsu bytes: %w", err)
	}
	if err := b.VSU.LoadState(vsuBytes); err != nil {
		return err
	}
	if err := dec.Decode(&hardwareBytes); err != nil {
		return fmt.Errorf("bus: decode hardware bytes: %w", err)
	}
	return b.Hardware.LoadState(hardwareBytes)
}
