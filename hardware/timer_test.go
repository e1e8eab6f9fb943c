package hardware

import "testing"

func TestTimerDisabledIsNoOp(t *testing.T) {
	tm := NewTimer()
	if tm.Step(1_000_000) {
		t.Errorf("disabled timer should never request an interrupt")
	}
}

func TestTimerFiresOnSecondIntervalFromReloadTwo(t *testing.T) {
	tm := NewTimer()
	tm.SetConfig(0x01 | 0x08 | 0x10) // enabled, interrupt enabled, 20us interval
	tm.SetReload(2, false)

	cases := []struct {
		cycles   int
		wantFire bool
	}{
		{TimerMinIntervalCycleCount, false},     // 2 -> 1
		{TimerMinIntervalCycleCount, true},      // 1 -> 0 fires
		{TimerMinIntervalCycleCount + 2, false}, // 0 -> reload, silent
	}

	for i, tc := range cases {
		if got := tm.Step(tc.cycles); got != tc.wantFire {
			t.Errorf("%d: Step(%d) = %t, want %t", i, tc.cycles, got, tc.wantFire)
		}
	}
}

func TestTimerReloadZeroWhileEnabledDefersInterrupt(t *testing.T) {
	tm := NewTimer()
	tm.SetConfig(0x01 | 0x08)
	tm.SetReload(0, false)

	if !tm.Step(1) {
		t.Errorf("expected deferred interrupt on first Step after zero reload")
	}
}

func TestTimerCannotDisableAndClearZeroSimultaneously(t *testing.T) {
	tm := NewTimer()
	tm.SetConfig(0x01)
	tm.SetReload(1, false)
	tm.Step(TimerMinIntervalCycleCount * 5)

	before := tm.Config()
	tm.SetConfig(0x04) // disabled, did_zero_clear set
	if tm.Config() != before {
		t.Errorf("disable+clear-zero in one write should be rejected")
	}
}
