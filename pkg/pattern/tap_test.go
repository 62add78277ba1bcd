package pattern

import "testing"

func TestNextTable(t *testing.T) {
	cases := []struct {
		start State
		tms   bool
		end   State
	}{
		{TestLogicReset, false, RunTestIdle},
		{TestLogicReset, true, TestLogicReset},
		{RunTestIdle, true, SelectDRScan},
		{SelectDRScan, false, CaptureDR},
		{ShiftDR, true, Exit1DR},
		{Exit2DR, false, ShiftDR},
		{SelectIRScan, true, TestLogicReset},
		{CaptureIR, false, ShiftIR},
		{PauseIR, true, Exit2IR},
		{Exit2IR, true, UpdateIR},
		{UpdateDR, true, SelectDRScan},
	}
	for _, tc := range cases {
		if got := Next(tc.start, tc.tms); got != tc.end {
			t.Fatalf("Next(%s, %v) = %s, want %s", tc.start, tc.tms, got, tc.end)
		}
	}
}

func TestPath(t *testing.T) {
	cases := []struct {
		from, to State
		want     []bool
	}{
		{RunTestIdle, ShiftIR, []bool{true, true, false, false}},
		{RunTestIdle, ShiftDR, []bool{true, false, false}},
		{Exit1DR, RunTestIdle, []bool{true, false}},
		{ShiftIR, ShiftIR, nil},
		{TestLogicReset, RunTestIdle, []bool{false}},
	}
	for _, tc := range cases {
		got, err := Path(tc.from, tc.to)
		if err != nil {
			t.Fatalf("Path(%s, %s) returned error: %v", tc.from, tc.to, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("Path(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("Path(%s, %s) bit %d = %v, want %v", tc.from, tc.to, i, got[i], tc.want[i])
			}
		}
		s := tc.from
		for _, b := range got {
			s = Next(s, b)
		}
		if s != tc.to {
			t.Fatalf("Path(%s, %s) ends in %s", tc.from, tc.to, s)
		}
	}

	if _, err := Path(numStates, RunTestIdle); err == nil {
		t.Fatalf("expected error for invalid state")
	}
	if got := State(42).String(); got != "State(42)" {
		t.Fatalf("String() = %q", got)
	}
}
