package vsu

// Channel holds the register state and counters common to all six VSU
// channels: live-interval auto-deactivate, stereo volume, sampling
// frequency, and envelope.
type Channel struct {
	LiveInterval            uint8
	liveIntervalCounter     uint8
	liveIntervalTickCounter int
	AutoDeactivate          bool
	EnablePlayback          bool

	LeftVolume    uint8
	RightVolume   uint8
	EnvelopeLevel uint8

	SamplingFrequency           uint16
	samplingFrequencyCounter    uint16
	samplingFrequencyTickCount  int

	EnvelopeInterval            uint8
	EnvelopeDirection           bool // true: grow, false: shrink
	EnvelopeReloadValue         uint8
	EnableEnvelopeModification  bool
	LoopEnvelope                bool
	envelopeTickCounter         int
	envelopeStepCounter         uint8

	// sampledValue is the most recently fetched waveform/noise amplitude,
	// refreshed when the sampling-frequency counter rolls over.
	sampledValue uint8
}

// SetU8 decodes the common channel register window (address already masked
// to 0x1F by the caller).
func (c *Channel) SetU8(address int, value uint8) {
	switch address {
	case 0x0:
		c.LiveInterval = value & 0x1F
		c.AutoDeactivate = value&0x20 != 0
		c.EnablePlayback = value&0x80 != 0
		c.samplingFrequencyCounter = 0
		c.envelopeStepCounter = 0
	case 0x4:
		c.LeftVolume = value & 0xF
		c.RightVolume = value >> 4
	case 0x8:
		c.SamplingFrequency = (c.SamplingFrequency & 0xFF00) | uint16(value)
	case 0xC:
		c.SamplingFrequency = (c.SamplingFrequency & 0xFF) | (uint16(value&0x7) << 8)
	case 0x10:
		c.EnvelopeInterval = value & 0x7
		c.EnvelopeDirection = value&0x8 != 0
		c.EnvelopeReloadValue = value >> 4
		c.EnvelopeLevel = c.EnvelopeReloadValue
	case 0x14:
		c.EnableEnvelopeModification = value&0x1 != 0
		c.LoopEnvelope = value&0x2 != 0
	}
}

// stepEnvelope advances the envelope one cycle.
func (c *Channel) stepEnvelope() {
	if !c.EnablePlayback || !c.EnableEnvelopeModification {
		return
	}

	c.envelopeTickCounter++
	if c.envelopeTickCounter < envelopeCycleCount {
		return
	}
	c.envelopeTickCounter = 0

	c.envelopeStepCounter++
	if int(c.envelopeStepCounter) <= int(c.EnvelopeInterval) {
		return
	}
	c.envelopeStepCounter = 0

	if c.EnvelopeDirection {
		if c.EnvelopeLevel < 15 {
			c.EnvelopeLevel++
		} else if c.LoopEnvelope {
			c.EnvelopeLevel = c.EnvelopeReloadValue
		}
	} else {
		if c.EnvelopeLevel > 0 {
			c.EnvelopeLevel--
		} else if c.LoopEnvelope {
			c.EnvelopeLevel = c.EnvelopeReloadValue
		}
	}
}

// Sample returns the left/right amplitude contribution of this channel,
// given the current waveform or noise output value.
func (c *Channel) Sample(outputValue uint8) (uint16, uint16) {
	return c.sampleSide(true, outputValue), c.sampleSide(false, outputValue)
}

func (c *Channel) sampleSide(isLeft bool, outputValue uint8) uint16 {
	stereoLevel := c.RightVolume
	if isLeft {
		stereoLevel = c.LeftVolume
	}

	amplitude := (uint16(c.EnvelopeLevel) * uint16(stereoLevel)) >> 3
	if c.EnvelopeLevel > 0 || stereoLevel > 0 {
		amplitude++
	}

	return amplitude * uint16(outputValue)
}
