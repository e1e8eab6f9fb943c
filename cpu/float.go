package cpu

import (
	"math"
	"math/bits"
)

// floatInst dispatches opcode 0b11_1110: the IEEE-754 float pipeline plus
// the Nintendo-added bit-manipulation extensions (MPYHW, REV, XB, XH).
// Both share a second instruction halfword whose top 6 bits select the
// sub-opcode.
func (s *State) floatInst(instruction uint16, bus Bus) (uint32, busActivity) {
	reg1, reg2 := extractReg12(instruction)

	second := s.fetchInstructionWord(bus)
	subOpcode := second >> 10

	reg1Int := s.r[reg1]
	reg2Int := s.r[reg2]
	reg1Float := math.Float32frombits(reg1Int)
	reg2Float := math.Float32frombits(reg2Int)

	switch subOpcode {
	case 0b00_0100: // ADDF.S
		result := reg2Float + reg1Float
		s.SetReg(reg2, math.Float32bits(result))
		s.psw.updateFloatFlags(result, true, true, true)
		return cyclesFloatAdd, activityStandard

	case 0b00_0000: // CMPF.S
		result := reg2Float - reg1Float
		s.psw.updateFloatFlags(result, true, false, false)
		return cyclesFloatCompare, activityStandard

	case 0b00_0011: // CVT.SW
		result := int32(math.Round(float64(reg1Float)))
		s.SetReg(reg2, uint32(result))
		s.psw.updateFloatFlags(float32(result), true, false, false)
		s.psw.updateALUFlags(uint32(result), false, nil)
		return cyclesFloatConvert, activityStandard

	case 0b00_0010: // CVT.WS
		result := float32(int32(reg1Int))
		s.SetReg(reg2, math.Float32bits(result))
		s.psw.updateFloatFlags(result, false, false, false)
		return cyclesFloatIntToFP, activityStandard

	case 0b00_0111: // DIVF.S
		if reg1Float == 0.0 {
			if reg2Float == 0.0 {
				s.psw.FloatZeroDivide = true
				s.performException(0xFF70)
			} else {
				s.psw.FloatZeroDivide = true
				s.performException(0xFF68)
			}
			return cyclesFloatDiv, activityStandard
		}

		result := reg2Float / reg1Float
		s.SetReg(reg2, math.Float32bits(result))
		s.psw.updateFloatFlags(result, true, true, true)
		return cyclesFloatDiv, activityStandard

	case 0b00_0110: // MULF.S
		result := reg2Float * reg1Float
		s.SetReg(reg2, math.Float32bits(result))
		s.psw.updateFloatFlags(result, true, true, true)
		return cyclesFloatMul, activityStandard

	case 0b00_0101: // SUBF.S
		result := reg2Float - reg1Float
		s.SetReg(reg2, math.Float32bits(result))
		s.psw.updateFloatFlags(result, true, true, true)
		return cyclesFloatSub, activityStandard

	case 0b00_1011: // TRNC.SW
		result := int32(math.Trunc(float64(reg1Float)))
		s.SetReg(reg2, uint32(result))
		s.psw.updateFloatFlags(float32(result), true, false, false)
		return cyclesFloatConvert, activityStandard

	case 0b00_1100: // MPYHW: sign-extend the low 17 bits of reg1 before multiplying
		narrowed := int32(reg1Int<<15) >> 15
		result := int32(reg2Int) * narrowed
		s.SetReg(reg2, uint32(result))
		return cyclesMpyhw, activityStandard

	case 0b00_1010: // REV
		s.SetReg(reg2, bits.Reverse32(reg1Int))
		return cyclesRev, activityStandard

	case 0b00_1000: // XB
		upper := reg2Int & 0xFFFF_0000
		lowerHigh := (reg2Int << 8) & 0xFF00
		lowerLow := (reg2Int >> 8) & 0xFF
		s.SetReg(reg2, upper|lowerHigh|lowerLow)
		return cyclesXB, activityStandard

	case 0b00_1001: // XH
		s.SetReg(reg2, (reg2Int>>16)|(reg2Int<<16))
		return cyclesXH, activityStandard

	default:
		return cyclesStandard, activityStandard
	}
}
