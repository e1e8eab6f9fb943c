// Package system wires the cpu, bus, and cartridge packages into the
// single aggregate a host frontend drives: one audio frame at a time, with
// savestate and battery-RAM persistence layered on top.
package system

import (
	"fmt"
	"log"
	"sync"

	"github.com/bdwalton/vb810/bus"
	"github.com/bdwalton/vb810/cartridge"
	"github.com/bdwalton/vb810/cpu"
	"github.com/bdwalton/vb810/hardware"
	"github.com/bdwalton/vb810/vsu"
)

// System owns one CPU and one Bus, serialized behind a mutex so a host can
// call RunAudioFrame from its audio callback while reading framebuffers
// from its render loop, the way the teacher's Bus guards single-threaded
// ebiten-driven access to its own ram/ticks.
type System struct {
	mu sync.Mutex

	cpu *cpu.State
	bus *bus.Bus
}

// AudioFrameResult is what one RunAudioFrame call produced: the audio
// samples generated this call, and -- only when a new display frame
// completed during it -- the two rendered eye buffers.
type AudioFrameResult struct {
	Audio []vsu.AudioFrame

	FrameReady bool
	LeftEye    []byte
	RightEye   []byte
}

type sliceSink struct {
	frames []vsu.AudioFrame
	max    int
}

func (s *sliceSink) Append(frame vsu.AudioFrame) {
	if len(s.frames) >= s.max {
		return
	}
	s.frames = append(s.frames, frame)
}

// New builds a System from a raw ROM image.
func New(romBytes []byte) (*System, error) {
	cart, err := cartridge.New(romBytes)
	if err != nil {
		return nil, fmt.Errorf("system: %w", err)
	}

	return &System{
		cpu: cpu.New(),
		bus: bus.New(cart),
	}, nil
}

// RunAudioFrame steps the CPU/Bus until maxSamples audio frames have been
// produced, offering any bus-raised interrupt to the CPU as it goes and
// reporting whether a VIP display frame completed along the way. A fatal
// duplexed exception (NMI pending while another exception arrives) is
// unrecoverable and terminates the process with a diagnostic, matching the
// teacher's log.Fatalf startup-error idiom rather than a bare panic.
func (s *System) RunAudioFrame(inputs hardware.Inputs, maxSamples int) AudioFrameResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	sink := &sliceSink{max: maxSamples}
	frameReady := false

	for len(sink.frames) < maxSamples {
		cycles := s.cpu.Step(s.bus)
		if s.cpu.IsFatallyWedged() {
			log.Fatalf("system: fatal duplexed exception at pc=%#x psw=%#x",
				s.cpu.PC(), s.cpu.PSW().Get())
		}

		if request, has := s.bus.Step(cycles, sink, inputs); has {
			s.cpu.RequestInterrupt(request.Code())
			continue
		}

		if s.bus.VIP.ConsumeFrameReady() {
			frameReady = true
		}
	}

	result := AudioFrameResult{Audio: sink.frames, FrameReady: frameReady}
	if frameReady {
		result.LeftEye, result.RightEye = s.bus.VIP.DisplayedFrame()
	}
	return result
}

// DumpRAM returns the cartridge's observed SRAM contents.
func (s *System) DumpRAM() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bus.Cartridge.DumpRAM()
}

// LoadRAM replaces the cartridge's SRAM contents from a DumpRAM blob.
func (s *System) LoadRAM(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.bus.Cartridge.LoadRAM(data); err != nil {
		return fmt.Errorf("system: %w", err)
	}
	return nil
}
