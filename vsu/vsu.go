package vsu

const (
	clockSpeed = 20_000_000

	soundLiveIntervalCycleCount        = 76_805
	waveChannelBaseFrequencyCycleCount = clockSpeed / 5_000_000
	noiseChannelBaseFrequencyCycleCount = clockSpeed / 500_000
	envelopeCycleCount                 = 307219 // CLOCK_SPEED / 65.1, truncated
	sweepSlowCycleCount                 = 153609 // CLOCK_SPEED / 130.2
	sweepFastCycleCount                 = 19201  // CLOCK_SPEED / 1041.6

	soundSampleRateCycleCount = clockSpeed / 41_666
)

// AudioFrame is one stereo sample pair.
type AudioFrame struct {
	Left, Right int16
}

// Sink receives produced audio frames. Host audio-device integration is
// out of scope; this is the contract the core pushes samples through.
type Sink interface {
	Append(AudioFrame)
}

// VSU is the six-channel mixer: four plain PCM channels, one PCM channel
// with sweep/modulate, and one noise channel.
type VSU struct {
	waveforms  [5]Waveform
	modulation [32]int8
	channels   [6]*ToneChannel

	sampleOutputCounter int
}

// New returns a VSU with all channels silent.
func New() *VSU {
	return &VSU{
		channels: [6]*ToneChannel{
			newPCMChannel(),
			newPCMChannel(),
			newPCMChannel(),
			newPCMChannel(),
			newPCMCh5Channel(),
			newNoiseChannel(),
		},
	}
}

// SetU8 decodes a VSU bus write. The VSU is write-only: reads return zero
// and are handled by the bus, not here.
func (v *VSU) SetU8(address int, value uint8) {
	switch {
	case address <= 0x7F:
		if !v.playbackOccurring() {
			v.waveforms[0].SetU8(address, value)
		}
	case address <= 0xFF:
		if !v.playbackOccurring() {
			v.waveforms[1].SetU8(address, value)
		}
	case address <= 0x17F:
		if !v.playbackOccurring() {
			v.waveforms[2].SetU8(address, value)
		}
	case address <= 0x1FF:
		if !v.playbackOccurring() {
			v.waveforms[3].SetU8(address, value)
		}
	case address <= 0x27F:
		if !v.playbackOccurring() {
			v.waveforms[4].SetU8(address, value)
		}
	case address <= 0x2FF:
		if !v.channels[4].EnablePlayback {
			v.modulation[(address-0x280)>>2&0x1F] = int8(value)
		}
	case address == 0x580:
		if value&0x1 != 0 {
			for _, ch := range v.channels {
				ch.EnablePlayback = false
			}
		}
	default:
		v.sendChannelWrite(address, value)
	}
}

func (v *VSU) playbackOccurring() bool {
	for _, ch := range v.channels {
		if ch.EnablePlayback {
			return true
		}
	}
	return false
}

func (v *VSU) sendChannelWrite(address int, value uint8) {
	registerAddress := address & 0x1F

	switch {
	case address >= 0x400 && address <= 0x43F:
		v.channels[0].SetU8(registerAddress, value)
	case address >= 0x440 && address <= 0x47F:
		v.channels[1].SetU8(registerAddress, value)
	case address >= 0x480 && address <= 0x4BF:
		v.channels[2].SetU8(registerAddress, value)
	case address >= 0x4C0 && address <= 0x4FF:
		v.channels[3].SetU8(registerAddress, value)
	case address >= 0x500 && address <= 0x53F:
		v.channels[4].SetU8(registerAddress, value)
	case address >= 0x540 && address <= 0x57F:
		v.channels[5].SetU8(registerAddress, value)
	}
}

// Step advances the mixer by cyclesToRun cycles, pushing completed audio
// frames to sink.
func (v *VSU) Step(cyclesToRun int, sink Sink) {
	for i := 0; i < cyclesToRun; i++ {
		for _, ch := range v.channels {
			ch.step(&v.waveforms)
		}

		v.channels[4].sweep.Step(&v.channels[4].Channel, &v.modulation)

		v.sampleOutputCounter++
		if v.sampleOutputCounter >= soundSampleRateCycleCount {
			v.sample(sink)
			v.sampleOutputCounter = 0
		}
	}
}

func (v *VSU) sample(sink Sink) {
	var leftAcc, rightAcc uint16

	for _, ch := range v.channels {
		left, right := ch.Sample()
		leftAcc += left
		rightAcc += right
	}

	leftOut := int16((leftAcc & 0xFFF8) << 2)
	rightOut := int16((rightAcc & 0xFFF8) << 2)

	sink.Append(AudioFrame{Left: leftOut, Right: rightOut})
}
