package cpu

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// snapshot mirrors State's unexported fields with exported ones so
// encoding/gob can see them, the way the GameBoy emulator's busState
// mirror does for its own Bus.
type snapshot struct {
	PC uint32
	R  [32]uint32

	EIPC  uint32
	EIPSW uint32
	FEPC  uint32
	FEPSW uint32
	ECR   uint32
	PSW   PSW
	TKCW  uint32

	CacheEnabled bool
	ADTRE        uint32

	Unknown29 uint32
	Unknown30 uint32
	Unknown31 uint32

	IsHalted            bool
	ProcessingBitstring bool
	FatallyWedged       bool

	LastBusActivity busActivity
}

// SaveState gob-encodes the complete CPU register file and execution
// flags for inclusion in a System savestate blob.
func (s *State) SaveState() []byte {
	snap := snapshot{
		PC: s.pc, R: s.r,
		EIPC: s.eipc, EIPSW: s.eipsw, FEPC: s.fepc, FEPSW: s.fepsw, ECR: s.ecr,
		PSW: s.psw, TKCW: s.tkcw,
		CacheEnabled: s.cacheEnabled, ADTRE: s.adtre,
		Unknown29: s.unknown29, Unknown30: s.unknown30, Unknown31: s.unknown31,
		IsHalted: s.isHalted, ProcessingBitstring: s.processingBitstring, FatallyWedged: s.fatallyWedged,
		LastBusActivity: s.lastBusActivity,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		// snapshot has no unencodable fields; a failure here means a
		// programming error, not bad input.
		panic(fmt.Sprintf("cpu: snapshot encode: %v", err))
	}
	return buf.Bytes()
}

// LoadState restores a CPU register file previously produced by
// SaveState.
func (s *State) LoadState(data []byte) error {
	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return fmt.Errorf("cpu: decode snapshot: %w", err)
	}

	s.pc, s.r = snap.PC, snap.R
	s.eipc, s.eipsw, s.fepc, s.fepsw, s.ecr = snap.EIPC, snap.EIPSW, snap.FEPC, snap.FEPSW, snap.ECR
	s.psw, s.tkcw = snap.PSW, snap.TKCW
	s.cacheEnabled, s.adtre = snap.CacheEnabled, snap.ADTRE
	s.unknown29, s.unknown30, s.unknown31 = snap.Unknown29, snap.Unknown30, snap.Unknown31
	s.isHalted, s.processingBitstring, s.fatallyWedged = snap.IsHalted, snap.ProcessingBitstring, snap.FatallyWedged
	s.lastBusActivity = snap.LastBusActivity
	return nil
}
