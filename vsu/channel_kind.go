package vsu

// kind distinguishes the three channel behaviors. Channels 1-4 are plain
// PCM; channel 5 is PCM plus the sweep/modulate unit; channel 6 is noise.
// This replaces the original's tagged-union enum with a flat Go struct
// carrying kind-specific fields, since all three shapes share the bulk of
// their per-cycle stepping logic.
type kind int

const (
	kindPCM kind = iota
	kindPCMCh5
	kindNoise
)

// ToneChannel wraps the common Channel state with the per-kind extras:
// waveform bank selection for PCM/PCMCh5, the sweep/modulate unit for
// channel 5, and the LFSR for noise.
type ToneChannel struct {
	Channel

	kind kind

	waveformBankIndex  uint8
	currentSampleIndex int

	sweep *SweepModulate

	lfsr        uint16
	tapSelector uint8
}

func newPCMChannel() *ToneChannel {
	return &ToneChannel{kind: kindPCM}
}

func newPCMCh5Channel() *ToneChannel {
	return &ToneChannel{kind: kindPCMCh5, sweep: NewSweepModulate()}
}

func newNoiseChannel() *ToneChannel {
	return &ToneChannel{kind: kindNoise, lfsr: 0x7FFF}
}

// SetU8 routes a register write, masked to the 0x1F common window plus the
// kind-specific extensions at 0x18 (waveform bank) and, for channel 5,
// 0x1C (sweep/mod register).
func (t *ToneChannel) SetU8(address int, value uint8) {
	t.Channel.SetU8(address, value)

	switch address {
	case 0x0:
		switch t.kind {
		case kindPCM, kindPCMCh5:
			t.currentSampleIndex = 0
		case kindNoise:
			t.lfsr = 0x7FFF
		}
	case 0x18:
		if t.kind == kindPCM || t.kind == kindPCMCh5 {
			t.waveformBankIndex = value & 0x5
		} else if t.kind == kindNoise {
			t.tapSelector = value & 0x7
		}
	}

	if t.kind == kindPCMCh5 {
		t.sweep.SetU8(address, value)
	}
}

// step advances one cycle: auto-deactivate, sampling-frequency tick (which
// may draw a fresh sample from the waveform bank or noise LFSR), and
// envelope. Channel 5's sweep/modulate is stepped separately by the VSU
// since it additionally needs the shared modulation table.
func (t *ToneChannel) step(waveforms *[5]Waveform) {
	if !t.EnablePlayback {
		return
	}

	t.stepAutoDeactivate()
	needsNextSample := t.stepSamplingFrequency()
	t.stepEnvelope()

	if needsNextSample {
		t.advanceSample()
		t.refreshSample(waveforms)
	}
}

func (t *ToneChannel) stepAutoDeactivate() {
	if !t.AutoDeactivate {
		return
	}

	t.liveIntervalTickCounter++
	if t.liveIntervalTickCounter < soundLiveIntervalCycleCount {
		return
	}
	t.liveIntervalTickCounter = 0

	if int(t.liveIntervalCounter) >= int(t.LiveInterval)+1 {
		t.EnablePlayback = false
		t.liveIntervalCounter = 0
	} else {
		t.liveIntervalCounter++
	}
}

func (t *ToneChannel) stepSamplingFrequency() bool {
	cyclesPerTick := waveChannelBaseFrequencyCycleCount
	if t.kind == kindNoise {
		cyclesPerTick = noiseChannelBaseFrequencyCycleCount
	}

	t.samplingFrequencyTickCount++
	if t.samplingFrequencyTickCount < cyclesPerTick {
		return false
	}
	t.samplingFrequencyTickCount = 0

	needsNextSample := false
	if int(t.samplingFrequencyCounter) >= 2048-int(t.effectiveFrequency()) {
		needsNextSample = true
		t.samplingFrequencyCounter = 0
	} else {
		t.samplingFrequencyCounter++
	}
	return needsNextSample
}

func (t *ToneChannel) effectiveFrequency() uint16 {
	if t.kind == kindPCMCh5 {
		return t.sweep.Frequency()
	}
	return t.SamplingFrequency
}

func (t *ToneChannel) advanceSample() {
	switch t.kind {
	case kindPCM, kindPCMCh5:
		t.currentSampleIndex = (t.currentSampleIndex + 1) & 0x1F
	case kindNoise:
		t.advanceLFSR()
	}
}

func (t *ToneChannel) advanceLFSR() {
	// 15-bit Fibonacci LFSR. The tap bit is selected by TAP, matching the
	// documented noise-channel control nibble; this logic is original work
	// rather than a port, since the upstream reference left it unimplemented.
	tapBit := uint(7 + t.tapSelector)
	bit0 := t.lfsr & 1
	tap := (t.lfsr >> tapBit) & 1
	feedback := bit0 ^ tap
	t.lfsr = (t.lfsr >> 1) | (feedback << 14)
}

// refreshSample fetches the current sample/LFSR output and caches it for
// the mixer.
func (t *ToneChannel) refreshSample(waveforms *[5]Waveform) {
	switch t.kind {
	case kindPCM, kindPCMCh5:
		if t.waveformBankIndex > 4 {
			t.sampledValue = 0
		} else {
			t.sampledValue = waveforms[t.waveformBankIndex].GetIndexed(t.currentSampleIndex)
		}
	case kindNoise:
		if t.lfsr&1 != 0 {
			t.sampledValue = 0
		} else {
			t.sampledValue = 63
		}
	}
}

// Sample returns the channel's stereo contribution for this output tick,
// using the most recently latched waveform/noise amplitude.
func (t *ToneChannel) Sample() (uint16, uint16) {
	if !t.EnablePlayback {
		return 0, 0
	}
	return t.Channel.Sample(t.sampledValue)
}
