package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/bdwalton/vb810/hardware"
	"github.com/bdwalton/vb810/system"
	"github.com/bdwalton/vb810/vip"
)

// sampleRate matches the VSU's own fixed output rate of 41,666 Hz (one
// frame every clockSpeed/41_666 cycles).
const sampleRate = 41_666

// samplesPerUpdate is how many audio frames RunAudioFrame is asked to
// produce each ebiten Update tick, targeting ebiten's 60Hz default.
const samplesPerUpdate = sampleRate / 60

// keys mirrors the teacher's controller.go key-table approach: one
// ebiten.Key per gamepad input, polled fresh every Update.
var keys = struct {
	a, b                             ebiten.Key
	rightTrigger, leftTrigger        ebiten.Key
	rUp, rRight, rLeft, rDown        ebiten.Key
	lUp, lRight, lLeft, lDown        ebiten.Key
	start, sel                       ebiten.Key
}{
	a: ebiten.KeyX, b: ebiten.KeyZ,
	rightTrigger: ebiten.KeyQ, leftTrigger: ebiten.KeyE,
	rUp: ebiten.KeyI, rRight: ebiten.KeyL, rLeft: ebiten.KeyJ, rDown: ebiten.KeyK,
	lUp: ebiten.KeyUp, lRight: ebiten.KeyRight, lLeft: ebiten.KeyLeft, lDown: ebiten.KeyDown,
	start: ebiten.KeyEnter, sel: ebiten.KeySpace,
}

func pollInputs() hardware.Inputs {
	return hardware.Inputs{
		AButton:        ebiten.IsKeyPressed(keys.a),
		BButton:        ebiten.IsKeyPressed(keys.b),
		RightTrigger:   ebiten.IsKeyPressed(keys.rightTrigger),
		LeftTrigger:    ebiten.IsKeyPressed(keys.leftTrigger),
		RightDPadUp:    ebiten.IsKeyPressed(keys.rUp),
		RightDPadRight: ebiten.IsKeyPressed(keys.rRight),
		RightDPadLeft:  ebiten.IsKeyPressed(keys.rLeft),
		RightDPadDown:  ebiten.IsKeyPressed(keys.rDown),
		LeftDPadUp:     ebiten.IsKeyPressed(keys.lUp),
		LeftDPadRight:  ebiten.IsKeyPressed(keys.lRight),
		LeftDPadLeft:   ebiten.IsKeyPressed(keys.lLeft),
		LeftDPadDown:   ebiten.IsKeyPressed(keys.lDown),
		Start:          ebiten.IsKeyPressed(keys.start),
		Select:         ebiten.IsKeyPressed(keys.sel),
	}
}

// Game implements ebiten.Game the way console/bus.go's Bus does, driving a
// system.System instead of a mos6502.CPU+ppu.PPU pair.
type Game struct {
	sys    *system.System
	stream *sampleStream
	player *audio.Player

	leftEye, rightEye []byte
	frameCount        uint64
	paused            bool

	face *basicfont.Face
}

// NewGame wires a System to an ebiten audio.Player, the way console.New
// wires a Bus to ebiten's window settings.
func NewGame(sys *system.System) (*Game, error) {
	ebiten.SetWindowSize(vip.Width*2*2, vip.Height*2)
	ebiten.SetWindowTitle("vb810")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	stream := &sampleStream{}
	ctx := audio.NewContext(sampleRate)
	player, err := ctx.NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("cmd/vb810: new audio player: %w", err)
	}
	player.Play()

	return &Game{
		sys:    sys,
		stream: stream,
		player: player,
		face:   basicfont.Face7x13,
	}, nil
}

// Update drives one emulated video frame, the way the teacher's Bus.Run
// drives ticks, except here ebiten itself is the clock rather than a
// separate goroutine: the system has no host-visible concept of "real
// time", so one Update call is one RunAudioFrame call.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused {
		return nil
	}

	result := g.sys.RunAudioFrame(pollInputs(), samplesPerUpdate)
	g.stream.push(result.Audio)
	if result.FrameReady {
		g.leftEye, g.rightEye = result.LeftEye, result.RightEye
	}
	g.frameCount++
	return nil
}

// Layout places the two eyes side by side, unchanged regardless of window
// size, mirroring Bus.Layout's "force ebiten to scale" comment.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return vip.Width * 2, vip.Height
}

// Draw paints both eye buffers as grayscale planes plus a small debug
// overlay, the way Bus.Draw copies PPU pixels into the ebiten screen.
func (g *Game) Draw(screen *ebiten.Image) {
	drawEye(screen, g.leftEye, 0)
	drawEye(screen, g.rightEye, vip.Width)

	status := fmt.Sprintf("frame %d", g.frameCount)
	if g.paused {
		status += " [paused]"
	}
	text.Draw(screen, status, g.face, 4, vip.Height-6, color.White)
}

func drawEye(screen *ebiten.Image, pixels []byte, xOffset int) {
	if pixels == nil {
		return
	}

	img := image.NewGray(image.Rect(0, 0, vip.Width, vip.Height))
	copy(img.Pix, pixels)

	eye := ebiten.NewImageFromImage(img)
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(float64(xOffset), 0)
	screen.DrawImage(eye, opts)
}
