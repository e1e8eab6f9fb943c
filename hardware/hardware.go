package hardware

// InterruptRequest names a hardware interrupt source, along with its fixed
// exception vector code.
type InterruptRequest int

const (
	InterruptGamePad InterruptRequest = iota
	InterruptTimerZero
	InterruptGamePak
	InterruptCommunication
	InterruptVIP
)

// Code returns the exception vector code for the request.
func (r InterruptRequest) Code() uint16 {
	switch r {
	case InterruptVIP:
		return 0xFE40
	case InterruptCommunication:
		return 0xFE30
	case InterruptGamePak:
		return 0xFE20
	case InterruptTimerZero:
		return 0xFE10
	default:
		return 0xFE00
	}
}

// Hardware is the memory-mapped register bank mounted at
// 0x0200_0000-0x02FF_FFFF, decoded on address bits 5:0.
type Hardware struct {
	Gamepad *Gamepad
	Timer   *Timer

	commInterruptEnable bool
	commExternalClock   bool
	commInProgress      bool
}

// New returns a Hardware block with its Gamepad and Timer in their
// power-on states.
func New() *Hardware {
	return &Hardware{
		Gamepad: NewGamepad(),
		Timer:   NewTimer(),
	}
}

// Step advances Timer and Gamepad by cyclesToRun cycles, returning any
// pending interrupt request.
func (h *Hardware) Step(cyclesToRun int, inputs Inputs) (InterruptRequest, bool) {
	h.Gamepad.Step(cyclesToRun, inputs)
	if h.Timer.Step(cyclesToRun) {
		return InterruptTimerZero, true
	}
	return 0, false
}

// Get reads the register selected by the low 6 address bits.
func (h *Hardware) Get(address uint8) uint16 {
	switch address & 0x3F {
	case 0x0, 0x1, 0x2, 0x3:
		value := uint32(0xFF)
		value = setBit32(value, 1, h.commInProgress)
		value = setBit32(value, 4, h.commExternalClock)
		value = setBit32(value, 7, h.commInterruptEnable)
		return uint16(value)
	case 0x4, 0x5, 0x6, 0x7:
		return 0xFF
	case 0x8, 0x9, 0xA, 0xB:
		return 0
	case 0xC, 0xD, 0xE, 0xF:
		return 0
	case 0x10, 0x11, 0x12, 0x13:
		return h.Gamepad.SerialData() & 0xFF
	case 0x14, 0x15, 0x16, 0x17:
		return h.Gamepad.SerialData() >> 8
	case 0x18, 0x19, 0x1A, 0x1B:
		return h.Timer.Counter() & 0xFF
	case 0x1C, 0x1D, 0x1E, 0x1F:
		return h.Timer.Counter() >> 8
	case 0x20, 0x21, 0x22, 0x23:
		return uint16(h.Timer.Config())
	case 0x24, 0x25, 0x26, 0x27:
		return 0
	case 0x28, 0x29, 0x2A, 0x2B:
		return h.Gamepad.Control()
	default:
		return 0xFF
	}
}

// Set writes the register selected by the low 6 address bits.
func (h *Hardware) Set(address uint8, value uint16) {
	switch address & 0x3F {
	case 0x0, 0x1, 0x2, 0x3:
		h.commInProgress = value&(1<<1) != 0
		h.commExternalClock = value&(1<<4) != 0
		h.commInterruptEnable = value&(1<<7) != 0
	case 0x4, 0x5, 0x6, 0x7, 0x8, 0x9, 0xA, 0xB, 0xC, 0xD, 0xE, 0xF:
		// Communication data registers: no observable effect modeled.
	case 0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17:
		// Serial data registers are read-only.
	case 0x18, 0x19, 0x1A, 0x1B:
		h.Timer.SetReload(uint8(value), false)
	case 0x1C, 0x1D, 0x1E, 0x1F:
		h.Timer.SetReload(uint8(value), true)
	case 0x20, 0x21, 0x22, 0x23:
		h.Timer.SetConfig(uint8(value))
	case 0x24, 0x25, 0x26, 0x27:
		// Wait control register: unmodeled.
	case 0x28, 0x29, 0x2A, 0x2B:
		h.Gamepad.SetControl(value)
	}
}

func setBit32(v uint32, bit int, set bool) uint32 {
	if set {
		return v | (1 << uint(bit))
	}
	return v &^ (1 << uint(bit))
}
