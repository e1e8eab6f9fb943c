package vsu

import "testing"

type fakeSink struct {
	frames []AudioFrame
}

func (f *fakeSink) Append(a AudioFrame) { f.frames = append(f.frames, a) }

func TestWaveformLockedWhilePlaying(t *testing.T) {
	v := New()

	v.SetU8(0x400, 0x80) // channel 1 enable_playback
	v.SetU8(0x0, 0xFF)   // attempt waveform 0 write while a channel plays

	if v.waveforms[0].GetIndexed(0) != 0 {
		t.Errorf("waveform write should be locked while any channel plays")
	}
}

func TestSSTOPDisablesAllChannels(t *testing.T) {
	v := New()
	for _, addr := range []int{0x400, 0x440, 0x480, 0x4C0, 0x500, 0x540} {
		v.SetU8(addr, 0x80)
	}

	v.SetU8(0x580, 0x1)

	for i, ch := range v.channels {
		if ch.EnablePlayback {
			t.Errorf("channel %d still enabled after SSTOP", i)
		}
	}
}

func TestSampleProducesFramesAtSampleRate(t *testing.T) {
	v := New()
	sink := &fakeSink{}

	v.Step(soundSampleRateCycleCount*2+1, sink)

	if len(sink.frames) != 2 {
		t.Errorf("got %d frames, want 2", len(sink.frames))
	}
}

func TestSweepHardDisablesAboveMaxFrequency(t *testing.T) {
	v := New()
	ch5 := v.channels[4]
	v.SetU8(0x500, 0x80) // enable playback
	v.SetU8(0x500+0x8, 0xFF)
	v.SetU8(0x500+0xC, 0x07) // frequency = 0x7FF (2047)... still in range

	v.SetU8(0x500+0x1C, 0x10) // modification_interval=1, to force an update soon
	v.SetU8(0x500+0x14, 0x40) // enable sweep

	ch5.sweep.nextFrequency = 2048 // force out-of-range
	ch5.sweep.Step(&ch5.Channel, &v.modulation)
	for i := 0; i < sweepSlowCycleCount+2; i++ {
		ch5.sweep.Step(&ch5.Channel, &v.modulation)
	}

	if ch5.EnablePlayback {
		t.Errorf("channel 5 should hard-disable when frequency exceeds 2047")
	}
}
