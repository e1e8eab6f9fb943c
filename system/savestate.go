package system

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"
)

// savestateVersion is bumped whenever the envelope or either owned
// component's own snapshot shape changes incompatibly.
const savestateVersion = 1

type envelope struct {
	Version   uint32
	Timestamp int64 // UNIX seconds

	LeftEye  []byte
	RightEye []byte

	CPU []byte
	Bus []byte
}

// CreateSavestate captures the complete emulation state -- CPU registers,
// every bus-owned peripheral, and the two currently-displayed framebuffers
// -- as an opaque, versioned byte stream. The cartridge ROM itself is
// excluded; a host restores by reloading the same ROM and calling
// LoadSavestate on the resulting System.
func (s *System) CreateSavestate() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	left, right := s.bus.VIP.DisplayedFrame()

	env := envelope{
		Version:   savestateVersion,
		Timestamp: time.Now().Unix(),
		LeftEye:   left,
		RightEye:  right,
		CPU:       s.cpu.SaveState(),
		Bus:       s.bus.SaveState(),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		// envelope holds only plain data; a failure here is a
		// programming error, not a transient one.
		panic(fmt.Sprintf("system: savestate encode: %v", err))
	}
	return buf.Bytes()
}

// LoadSavestate restores CPU and Bus state from a blob produced by
// CreateSavestate. The two framebuffer snapshots in the blob are decorative
// (a host can show them immediately, before the first RunAudioFrame after
// restore); they are not re-injected into the VIP, which derives its own
// framebuffers from restored VRAM and drawing state.
func (s *System) LoadSavestate(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return fmt.Errorf("system: decode savestate: %w", err)
	}
	if env.Version != savestateVersion {
		return fmt.Errorf("system: savestate version %d unsupported (want %d)", env.Version, savestateVersion)
	}

	if err := s.cpu.LoadState(env.CPU); err != nil {
		return fmt.Errorf("system: %w", err)
	}
	if err := s.bus.LoadState(env.Bus); err != nil {
		return fmt.Errorf("system: %w", err)
	}
	return nil
}
