package cpu

// Instruction timing constants. The V810 manual gives exact cycle counts
// for most opcodes, but a few -- notably load/store pipeline warm-up and
// the bit-string family -- were never nailed down by any of the
// reference implementations this core was checked against; they're kept
// here as named, swappable constants rather than inlined, per the open
// question in §9 ("keep them configurable").
const (
	cyclesStandard = 1
	cyclesBranch   = 3
	cyclesJump     = 3

	cyclesLoadLong     = 1
	cyclesLoadAfterLoad = 2
	cyclesLoadDefault  = 3

	cyclesStoreRepeat = 2
	cyclesStoreFirst  = 1

	cyclesDivSigned   = 38
	cyclesDivUnsigned = 36
	cyclesMul         = 13

	cyclesSysRegIO = 8
	cyclesReti     = 10
	cyclesTrap     = 15
	cyclesCaxi     = 26
	cyclesFlagIO   = 12

	cyclesFloatCompare = 10
	cyclesFloatAdd     = 28
	cyclesFloatSub     = 28
	cyclesFloatMul     = 30
	cyclesFloatDiv     = 44
	cyclesFloatConvert = 14
	cyclesFloatIntToFP = 16

	cyclesMpyhw = 9
	cyclesRev   = 22
	cyclesXB    = 6
	cyclesXH    = 1

	// cyclesBitString is a flat per-call cost; no published timing
	// table for this family is reliably reproduced by any emulator
	// this core was checked against.
	cyclesBitString = 49
)
