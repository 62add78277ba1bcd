package pattern

import (
	"fmt"
)

// State is one of the sixteen IEEE 1149.1 TAP controller states.
type State uint8

const (
	TestLogicReset State = iota
	RunTestIdle
	SelectDRScan
	CaptureDR
	ShiftDR
	Exit1DR
	PauseDR
	Exit2DR
	UpdateDR
	SelectIRScan
	CaptureIR
	ShiftIR
	Exit1IR
	PauseIR
	Exit2IR
	UpdateIR
	numStates
)

var stateNames = [numStates]string{
	"TestLogicReset", "RunTestIdle",
	"SelectDRScan", "CaptureDR", "ShiftDR", "Exit1DR", "PauseDR", "Exit2DR", "UpdateDR",
	"SelectIRScan", "CaptureIR", "ShiftIR", "Exit1IR", "PauseIR", "Exit2IR", "UpdateIR",
}

func (s State) String() string {
	if s < numStates {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// next[s][tms] is the state entered on the next TCK edge.
var next = [numStates][2]State{
	TestLogicReset: {RunTestIdle, TestLogicReset},
	RunTestIdle:    {RunTestIdle, SelectDRScan},
	SelectDRScan:   {CaptureDR, SelectIRScan},
	CaptureDR:      {ShiftDR, Exit1DR},
	ShiftDR:        {ShiftDR, Exit1DR},
	Exit1DR:        {PauseDR, UpdateDR},
	PauseDR:        {PauseDR, Exit2DR},
	Exit2DR:        {ShiftDR, UpdateDR},
	UpdateDR:       {RunTestIdle, SelectDRScan},
	SelectIRScan:   {CaptureIR, TestLogicReset},
	CaptureIR:      {ShiftIR, Exit1IR},
	ShiftIR:        {ShiftIR, Exit1IR},
	Exit1IR:        {PauseIR, UpdateIR},
	PauseIR:        {PauseIR, Exit2IR},
	Exit2IR:        {ShiftIR, UpdateIR},
	UpdateIR:       {RunTestIdle, SelectDRScan},
}

// Next returns the state after one TCK with the given TMS level.
func Next(s State, tms bool) State {
	if tms {
		return next[s][1]
	}
	return next[s][0]
}

// Path returns the shortest TMS sequence leading from one state to another.
// It is empty when from equals to.
func Path(from, to State) ([]bool, error) {
	if from >= numStates || to >= numStates {
		return nil, fmt.Errorf("pattern: invalid TAP state %d -> %d", from, to)
	}
	type hop struct {
		prev State
		tms  bool
		seen bool
	}
	var hops [numStates]hop
	hops[from].seen = true
	queue := []State{from}
	for len(queue) > 0 && !hops[to].seen {
		s := queue[0]
		queue = queue[1:]
		for _, tms := range []bool{false, true} {
			n := Next(s, tms)
			if hops[n].seen {
				continue
			}
			hops[n] = hop{prev: s, tms: tms, seen: true}
			queue = append(queue, n)
		}
	}

	var rev []bool
	for s := to; s != from; s = hops[s].prev {
		rev = append(rev, hops[s].tms)
	}
	tms := make([]bool, len(rev))
	for i, b := range rev {
		tms[len(rev)-1-i] = b
	}
	return tms, nil
}
