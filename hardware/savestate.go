package hardware

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

type timerSnapshot struct {
	Reload  uint16
	Counter uint16

	Enabled           bool
	DidZero           bool
	InterruptEnabled  bool
	TimerInterval     bool
	TickIntervalCount int

	DeferredInterrupt bool
}

// SaveState gob-encodes the timer's reload/counter and control state.
func (t *Timer) SaveState() []byte {
	snap := timerSnapshot{
		Reload: t.reload, Counter: t.counter,
		Enabled: t.enabled, DidZero: t.didZero, InterruptEnabled: t.interruptEnabled,
		TimerInterval: t.timerInterval, TickIntervalCount: t.tickIntervalCount,
		DeferredInterrupt: t.deferredInterrupt,
	}
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(snap)
	return buf.Bytes()
}

// LoadState restores a Timer previously serialized by SaveState.
func (t *Timer) LoadState(data []byte) error {
	var snap timerSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return fmt.Errorf("hardware: decode timer snapshot: %w", err)
	}
	t.reload, t.counter = snap.Reload, snap.Counter
	t.enabled, t.didZero, t.interruptEnabled = snap.Enabled, snap.DidZero, snap.InterruptEnabled
	t.timerInterval, t.tickIntervalCount = snap.TimerInterval, snap.TickIntervalCount
	t.deferredInterrupt = snap.DeferredInterrupt
	return nil
}

type gamepadSnapshot struct {
	InterruptEnable bool
	Reset           bool
	SoftClk         bool

	IsHardwareReading       bool
	HardwareReadCounter     int
	HardwareReadButtonIndex int

	ButtonState uint16
}

// SaveState gob-encodes the gamepad's serial shift register state.
func (g *Gamepad) SaveState() []byte {
	snap := gamepadSnapshot{
		InterruptEnable: g.interruptEnable, Reset: g.reset, SoftClk: g.softClk,
		IsHardwareReading: g.isHardwareReading, HardwareReadCounter: g.hardwareReadCounter,
		HardwareReadButtonIndex: g.hardwareReadButtonIndex, ButtonState: g.buttonState,
	}
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(snap)
	return buf.Bytes()
}

// LoadState restores a Gamepad previously serialized by SaveState.
func (g *Gamepad) LoadState(data []byte) error {
	var snap gamepadSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return fmt.Errorf("hardware: decode gamepad snapshot: %w", err)
	}
	g.interruptEnable, g.reset, g.softClk = snap.InterruptEnable, snap.Reset, snap.SoftClk
	g.isHardwareReading, g.hardwareReadCounter = snap.IsHardwareReading, snap.HardwareReadCounter
	g.hardwareReadButtonIndex, g.buttonState = snap.HardwareReadButtonIndex, snap.ButtonState
	return nil
}

type hardwareSnapshot struct {
	CommInterruptEnable bool
	CommExternalClock   bool
	CommInProgress      bool
}

// SaveState gob-encodes the communication-register stub plus the owned
// Timer and Gamepad, concatenated as three length-prefixed gob streams
// the way bus.Bus composes its own owned components.
func (h *Hardware) SaveState() []byte {
	snap := hardwareSnapshot{
		CommInterruptEnable: h.commInterruptEnable,
		CommExternalClock:   h.commExternalClock,
		CommInProgress:      h.commInProgress,
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	_ = enc.Encode(snap)
	_ = enc.Encode(h.Timer.SaveState())
	_ = enc.Encode(h.Gamepad.SaveState())
	return buf.Bytes()
}

// LoadState restores a Hardware block previously serialized by SaveState.
func (h *Hardware) LoadState(data []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(data))

	var snap hardwareSnapshot
	if err := dec.Decode(&snap); err != nil {
		return fmt.Errorf("hardware: decode snapshot: %w", err)
	}
	h.commInterruptEnable, h.commExternalClock, h.commInProgress =
		snap.CommInterruptEnable, snap.CommExternalClock, snap.CommInProgress

	var timerBytes, gamepadBytes []byte
	if err := dec.Decode(&timerBytes); err != nil {
		return fmt.Errorf("hardware: decode timer bytes: %w", err)
	}
	if err := h.Timer.LoadState(timerBytes); err != nil {
		return err
	}
	if err := dec.Decode(&gamepadBytes); err != nil {
		return fmt.Errorf("hardware: decode gamepad bytes: %w", err)
	}
	return h.Gamepad.LoadState(gamepadBytes)
}
