package vsu

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// channelCoreSnapshot mirrors Channel's exported registers plus its
// unexported counters, since gob silently drops unexported fields.
type channelCoreSnapshot struct {
	LiveInterval            uint8
	LiveIntervalCounter     uint8
	LiveIntervalTickCounter int
	AutoDeactivate          bool
	EnablePlayback          bool

	LeftVolume    uint8
	RightVolume   uint8
	EnvelopeLevel uint8

	SamplingFrequency          uint16
	SamplingFrequencyCounter   uint16
	SamplingFrequencyTickCount int

	EnvelopeInterval           uint8
	EnvelopeDirection          bool
	EnvelopeReloadValue        uint8
	EnableEnvelopeModification bool
	LoopEnvelope               bool
	EnvelopeTickCounter        int
	EnvelopeStepCounter        uint8

	SampledValue uint8
}

func (c *Channel) snapshot() channelCoreSnapshot {
	return channelCoreSnapshot{
		LiveInterval: c.LiveInterval, LiveIntervalCounter: c.liveIntervalCounter,
		LiveIntervalTickCounter: c.liveIntervalTickCounter, AutoDeactivate: c.AutoDeactivate,
		EnablePlayback: c.EnablePlayback,
		LeftVolume:     c.LeftVolume, RightVolume: c.RightVolume, EnvelopeLevel: c.EnvelopeLevel,
		SamplingFrequency: c.SamplingFrequency, SamplingFrequencyCounter: c.samplingFrequencyCounter,
		SamplingFrequencyTickCount: c.samplingFrequencyTickCount,
		EnvelopeInterval:           c.EnvelopeInterval, EnvelopeDirection: c.EnvelopeDirection,
		EnvelopeReloadValue: c.EnvelopeReloadValue, EnableEnvelopeModification: c.EnableEnvelopeModification,
		LoopEnvelope: c.LoopEnvelope, EnvelopeTickCounter: c.envelopeTickCounter,
		EnvelopeStepCounter: c.envelopeStepCounter, SampledValue: c.sampledValue,
	}
}

func (c *Channel) restore(snap channelCoreSnapshot) {
	c.LiveInterval, c.liveIntervalCounter = snap.LiveInterval, snap.LiveIntervalCounter
	c.liveIntervalTickCounter, c.AutoDeactivate = snap.LiveIntervalTickCounter, snap.AutoDeactivate
	c.EnablePlayback = snap.EnablePlayback
	c.LeftVolume, c.RightVolume, c.EnvelopeLevel = snap.LeftVolume, snap.RightVolume, snap.EnvelopeLevel
	c.SamplingFrequency, c.samplingFrequencyCounter = snap.SamplingFrequency, snap.SamplingFrequencyCounter
	c.samplingFrequencyTickCount = snap.SamplingFrequencyTickCount
	c.EnvelopeInterval, c.EnvelopeDirection = snap.EnvelopeInterval, snap.EnvelopeDirection
	c.EnvelopeReloadValue, c.EnableEnvelopeModification = snap.EnvelopeReloadValue, snap.EnableEnvelopeModification
	c.LoopEnvelope, c.envelopeTickCounter = snap.LoopEnvelope, snap.EnvelopeTickCounter
	c.envelopeStepCounter, c.sampledValue = snap.EnvelopeStepCounter, snap.SampledValue
}

type sweepSnapshot struct {
	Enable bool

	LoopModulation bool
	ShouldModulate bool
	UseFastClock   bool

	ModificationInterval uint8
	SweepDirection       bool
	SweepShift           uint8

	StepCounter     int
	IntervalCounter uint8

	ModulationIndex int

	LastWrittenFrequency uint16
	CurrentFrequency     uint16
	NextFrequency        uint16
}

func (s *SweepModulate) snapshot() sweepSnapshot {
	return sweepSnapshot{
		Enable: s.enable, LoopModulation: s.loopModulation, ShouldModulate: s.shouldModulate,
		UseFastClock: s.useFastClock, ModificationInterval: s.modificationInterval,
		SweepDirection: s.sweepDirection, SweepShift: s.sweepShift,
		StepCounter: s.stepCounter, IntervalCounter: s.intervalCounter,
		ModulationIndex: s.modulationIndex, LastWrittenFrequency: s.lastWrittenFrequency,
		CurrentFrequency: s.currentFrequency, NextFrequency: s.nextFrequency,
	}
}

func (s *SweepModulate) restore(snap sweepSnapshot) {
	s.enable, s.loopModulation, s.shouldModulate = snap.Enable, snap.LoopModulation, snap.ShouldModulate
	s.useFastClock, s.modificationInterval = snap.UseFastClock, snap.ModificationInterval
	s.sweepDirection, s.sweepShift = snap.SweepDirection, snap.SweepShift
	s.stepCounter, s.intervalCounter = snap.StepCounter, snap.IntervalCounter
	s.modulationIndex, s.lastWrittenFrequency = snap.ModulationIndex, snap.LastWrittenFrequency
	s.currentFrequency, s.nextFrequency = snap.CurrentFrequency, snap.NextFrequency
}

type channelSnapshot struct {
	Core channelCoreSnapshot

	Kind kind

	WaveformBankIndex  uint8
	CurrentSampleIndex int

	HasSweep bool
	Sweep    sweepSnapshot

	LFSR        uint16
	TapSelector uint8
}

func (t *ToneChannel) snapshot() channelSnapshot {
	snap := channelSnapshot{
		Core:               t.Channel.snapshot(),
		Kind:                t.kind,
		WaveformBankIndex:   t.waveformBankIndex,
		CurrentSampleIndex:  t.currentSampleIndex,
		LFSR:                t.lfsr,
		TapSelector:         t.tapSelector,
	}
	if t.sweep != nil {
		snap.HasSweep = true
		snap.Sweep = t.sweep.snapshot()
	}
	return snap
}

func (t *ToneChannel) restore(snap channelSnapshot) {
	t.Channel.restore(snap.Core)
	t.kind = snap.Kind
	t.waveformBankIndex = snap.WaveformBankIndex
	t.currentSampleIndex = snap.CurrentSampleIndex
	t.lfsr = snap.LFSR
	t.tapSelector = snap.TapSelector
	if snap.HasSweep {
		if t.sweep == nil {
			t.sweep = NewSweepModulate()
		}
		t.sweep.restore(snap.Sweep)
	}
}

type vsuSnapshot struct {
	Waveforms           [5][32]uint8
	Modulation          [32]int8
	Channels            [6]channelSnapshot
	SampleOutputCounter int
}

// SaveState gob-encodes every channel, waveform bank, and the shared
// modulation table.
func (v *VSU) SaveState() []byte {
	snap := vsuSnapshot{
		Modulation:          v.modulation,
		SampleOutputCounter: v.sampleOutputCounter,
	}
	for i := range v.waveforms {
		snap.Waveforms[i] = v.waveforms[i].ram
	}
	for i, ch := range v.channels {
		snap.Channels[i] = ch.snapshot()
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		panic(fmt.Sprintf("vsu: snapshot encode: %v", err))
	}
	return buf.Bytes()
}

// LoadState restores a VSU previously serialized by SaveState.
func (v *VSU) LoadState(data []byte) error {
	var snap vsuSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return fmt.Errorf("vsu: decode snapshot: %w", err)
	}

	for i := range v.waveforms {
		v.waveforms[i].ram = snap.Waveforms[i]
	}
	v.modulation = snap.Modulation
	v.sampleOutputCounter = snap.SampleOutputCounter
	for i, chSnap := range snap.Channels {
		v.channels[i].restore(chSnap)
	}
	return nil
}
