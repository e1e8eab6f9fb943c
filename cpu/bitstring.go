package cpu

// bitStringInst dispatches the opcode 0b01_1111 bit-string instructions.
// Sub-opcodes 0-3 are search operations; 8-15 are word-aligned logical
// ops. Both kinds are resumable: if the operation doesn't finish within
// this call, PC is rewound by 2 so the next Step re-enters it, and
// processingBitstring is set so external tooling can tell a real
// instruction boundary from a mid-word resume point.
func (s *State) bitStringInst(instruction uint16, bus Bus) (uint32, busActivity) {
	subOpcode, _ := extractReg12(instruction)

	s.processingBitstring = false

	if subOpcode < 4 {
		upward, match1 := false, false
		switch subOpcode {
		case 0b0_0000:
			upward, match1 = true, false
		case 0b0_0001:
			upward, match1 = false, false
		case 0b0_0010:
			upward, match1 = true, true
		case 0b0_0011:
			upward, match1 = false, true
		}
		s.bitStringSearch(bus, upward, match1)
	} else {
		s.bitStringProcess(bus, subOpcode)
	}

	return cyclesBitString, activityStandard
}

func (s *State) bitStringSearch(bus Bus, upward, match1 bool) {
	sourceOffset := s.r[27] & 0x3F
	s.SetReg(27, sourceOffset)

	sourceAddr := s.r[30] & 0xFFFF_FFFC
	s.SetReg(30, sourceAddr)

	length := s.r[28]
	sourceWord := bus.GetU32(sourceAddr)

	wordOffset := uint32(0)
	if !upward {
		wordOffset = 31
	}
	examinedBitCount := uint32(0)

	found := false

	for length > 0 {
		var sourceBit bool
		if upward {
			sourceBit = sourceWord&1 != 0
		} else {
			sourceBit = sourceWord&0x8000_0000 != 0
		}

		if sourceBit == match1 {
			found = true
		}

		examinedBitCount++

		if upward {
			if wordOffset == 31 {
				wordOffset = 0
				sourceAddr += 4
				break
			}
			sourceWord <<= 1
			wordOffset++
		} else {
			if wordOffset == 0 {
				wordOffset = 31
				sourceAddr -= 4
				break
			}
			sourceWord >>= 1
			wordOffset--
		}

		if found {
			break
		}

		length--
	}

	if !found && length != 0 {
		s.pc -= 2
		s.processingBitstring = true
	} else if found {
		examinedBitCount--
	}

	s.SetReg(27, sourceOffset)
	s.SetReg(28, wordOffset)
	s.SetReg(29, s.r[29]+examinedBitCount)
	s.SetReg(30, sourceAddr)
}

func (s *State) bitStringProcess(bus Bus, subOpcode int) {
	destOffset := s.r[26] & 0x1F
	s.SetReg(26, destOffset)

	sourceOffset := s.r[27] & 0x1F
	s.SetReg(27, sourceOffset)

	length := s.r[28]

	destAddr := s.r[29] & 0xFFFF_FFFC
	s.SetReg(29, destAddr)

	sourceAddr := s.r[30] & 0xFFFF_FFFC
	s.SetReg(30, sourceAddr)

	for length > 0 {
		sourceWord := bus.GetU32(sourceAddr)
		destWord := bus.GetU32(destAddr)

		sourceBit := sourceWord&(1<<sourceOffset) != 0
		destBit := destWord&(1<<destOffset) != 0

		var result bool
		switch subOpcode {
		case 0b0_1001: // ANDBSU
			result = destBit && sourceBit
		case 0b0_1101: // ANDNBSU
			result = destBit && !sourceBit
		case 0b0_1011: // MOVBSU
			result = sourceBit
		case 0b0_1111: // NOTBSU
			result = !sourceBit
		case 0b0_1000: // ORBSU
			result = destBit || sourceBit
		case 0b0_1100: // ORNBSU
			result = destBit || !sourceBit
		case 0b0_1010: // XORBSU
			result = destBit != sourceBit
		case 0b0_1110: // XORNBSU
			result = destBit != !sourceBit
		default:
			result = destBit
		}

		if result {
			destWord |= 1 << destOffset
		} else {
			destWord &^= 1 << destOffset
		}
		bus.SetU32(destAddr, destWord)

		length--

		if sourceOffset >= 31 {
			sourceOffset = 0
			sourceAddr += 4
		} else {
			sourceOffset++
		}

		if destOffset >= 31 {
			destOffset = 0
			destAddr += 4
			break
		}
		destOffset++
	}

	if length != 0 {
		s.pc -= 2
		s.processingBitstring = true
	}

	s.SetReg(26, destOffset)
	s.SetReg(27, sourceOffset)
	s.SetReg(28, length)
	s.SetReg(29, destAddr)
	s.SetReg(30, sourceAddr)
}
