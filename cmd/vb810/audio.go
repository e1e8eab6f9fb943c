package main

import (
	"encoding/binary"
	"sync"

	"github.com/bdwalton/vb810/vsu"
)

// sampleStream is the io.Reader an ebiten audio.Player pulls from. RunAudioFrame
// produces samples in bursts (once per emulated video frame); Read is called
// by ebiten's own audio goroutine on its own schedule, so the two are
// decoupled by this buffer the way the teacher's Bus decouples its emulation
// goroutine from ebiten's Update callback.
type sampleStream struct {
	mu  sync.Mutex
	buf []byte
}

// push appends newly produced stereo frames as interleaved little-endian
// 16-bit PCM, the format ebiten's audio.Context expects.
func (s *sampleStream) push(frames []vsu.AudioFrame) {
	if len(frames) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]byte, len(frames)*4)
	for i, f := range frames {
		binary.LittleEndian.PutUint16(out[i*4:], uint16(f.Left))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(f.Right))
	}
	s.buf = append(s.buf, out...)
}

// Read satisfies io.Reader. An underrun (the emulator hasn't produced enough
// samples yet) is filled with silence rather than blocking, since ebiten's
// audio goroutine expects Read to return promptly.
func (s *sampleStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.buf) == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	if n < len(p) {
		for i := n; i < len(p); i++ {
			p[i] = 0
		}
		return len(p), nil
	}
	return n, nil
}
