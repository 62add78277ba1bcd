package pattern

import (
	"errors"
	"fmt"
)

var ErrMismatch = errors.New("pattern: TDO mismatch")

// Mismatch is one failed TDO expectation seen by a Target.
type Mismatch struct {
	Cycle int
	Want  byte
	Got   uint8
}

// Target is a simulated single TAP device. Each instruction selects a data
// register; instructions without one select a one bit bypass register. It
// replays vectors and checks every H or L expectation against what it
// shifts out.
type Target struct {
	irLen int
	ir    uint64
	irSR  uint64
	dr    map[uint64][]bool
	sr    []bool
	state State
}

// NewTarget creates a target with an irLen bit instruction register. After
// reset the instruction is all ones.
func NewTarget(irLen int) *Target {
	t := &Target{irLen: irLen, dr: make(map[uint64][]bool), state: TestLogicReset}
	t.reset()
	return t
}

func (t *Target) reset() {
	t.ir = 1<<uint(t.irLen) - 1
}

// Attach adds a width bit data register selected by instruction ir.
func (t *Target) Attach(ir uint64, width int, value uint64) {
	bits := make([]bool, width)
	for i := range bits {
		bits[i] = (value>>uint(i))&1 == 1
	}
	t.dr[ir] = bits
}

// Data returns the content of the data register selected by ir.
func (t *Target) Data(ir uint64) uint64 {
	var v uint64
	for i, b := range t.dr[ir] {
		if b {
			v |= 1 << uint(i)
		}
	}
	return v
}

// Instruction returns the active instruction.
func (t *Target) Instruction() uint64 {
	return t.ir
}

// State returns the TAP state of the target.
func (t *Target) State() State {
	return t.state
}

func (t *Target) selected() []bool {
	if dr, ok := t.dr[t.ir]; ok {
		return dr
	}
	return []bool{false}
}

// Replay clocks every vector into the target. It returns the mismatches and
// an error wrapping ErrMismatch if there were any.
func (t *Target) Replay(vectors []Vector) ([]Mismatch, error) {
	var bad []Mismatch
	cycle := 0
	for _, v := range vectors {
		for i := 0; i < v.Repeat; i++ {
			out, shifted := t.clock(v.TMS == '1', v.TDI == '1')
			if shifted && (v.TDO == ExpectHigh || v.TDO == ExpectLow) {
				if want := v.TDO == ExpectHigh; want != out {
					bad = append(bad, Mismatch{Cycle: cycle, Want: v.TDO, Got: bitValue(out)})
				}
			}
			cycle++
		}
	}
	if len(bad) > 0 {
		return bad, fmt.Errorf("%w: %d of %d cycles", ErrMismatch, len(bad), cycle)
	}
	return nil, nil
}

// clock applies one TCK. It reports the TDO level and whether a shift
// state drove it.
func (t *Target) clock(tms, tdi bool) (tdo bool, shifted bool) {
	switch t.state {
	case CaptureIR:
		t.irSR = 0b01
	case ShiftIR:
		tdo, shifted = t.irSR&1 == 1, true
		t.irSR >>= 1
		if tdi {
			t.irSR |= 1 << uint(t.irLen-1)
		}
	case CaptureDR:
		t.sr = append(t.sr[:0], t.selected()...)
	case ShiftDR:
		tdo, shifted = t.sr[0], true
		copy(t.sr, t.sr[1:])
		t.sr[len(t.sr)-1] = tdi
	}

	t.state = Next(t.state, tms)
	switch t.state {
	case TestLogicReset:
		t.reset()
	case UpdateIR:
		t.ir = t.irSR & (1<<uint(t.irLen) - 1)
	case UpdateDR:
		if dr, ok := t.dr[t.ir]; ok {
			copy(dr, t.sr)
		}
	}
	return tdo, shifted
}

func bitValue(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
