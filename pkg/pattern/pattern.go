// Package pattern turns register transactions into JTAG test vectors.
//
// Every vector is one TCK cycle: the TMS level, the TDI drive and the TDO
// expectation. Data registers are shifted least significant bit first
// straight out of a regs.BitCollection, so the read, capture and overlay
// flags on each bit decide what the vector expects.
package pattern

import (
	"fmt"
	"io"
	"strings"

	"github.com/OpenTraceLab/OpenTraceRegs/pkg/regs"
)

// TDO expectations.
const (
	ExpectHigh    = 'H'
	ExpectLow     = 'L'
	ExpectCapture = 'C'
	DontCare      = 'X'
)

// Vector is one or more identical TCK cycles.
type Vector struct {
	TMS     byte // '0' or '1'
	TDI     byte // '0', '1' or 'X'
	TDO     byte // 'H', 'L', 'C' or 'X'
	Repeat  int
	Comment string
}

func (v Vector) String() string {
	s := fmt.Sprintf("%c %c %c", v.TMS, v.TDI, v.TDO)
	if v.Repeat > 1 {
		s = fmt.Sprintf("repeat %d %s", v.Repeat, s)
	}
	if v.Comment != "" {
		s += " // " + v.Comment
	}
	return s
}

// JTAG generates vectors while tracking the TAP controller. The controller
// is assumed to be in Test-Logic-Reset until Reset is called.
type JTAG struct {
	state   State
	vectors []Vector
}

// New creates an empty generator.
func New() *JTAG {
	return &JTAG{state: TestLogicReset}
}

// State returns the tracked TAP state.
func (j *JTAG) State() State {
	return j.state
}

// Vectors returns the generated vectors.
func (j *JTAG) Vectors() []Vector {
	return append([]Vector(nil), j.vectors...)
}

// Cycles returns the number of TCK cycles generated.
func (j *JTAG) Cycles() int {
	n := 0
	for _, v := range j.vectors {
		n += v.Repeat
	}
	return n
}

func (j *JTAG) clock(tms bool, tdi, tdo byte, comment string) {
	v := Vector{TMS: bitChar(tms), TDI: tdi, TDO: tdo, Repeat: 1, Comment: comment}
	j.state = Next(j.state, tms)
	if n := len(j.vectors); n > 0 && comment == "" {
		last := &j.vectors[n-1]
		if last.Comment == "" && last.TMS == v.TMS && last.TDI == v.TDI && last.TDO == v.TDO {
			last.Repeat++
			return
		}
	}
	j.vectors = append(j.vectors, v)
}

func (j *JTAG) goTo(target State) error {
	tms, err := Path(j.state, target)
	if err != nil {
		return err
	}
	for _, b := range tms {
		j.clock(b, DontCare, DontCare, "")
	}
	return nil
}

// Reset clocks five TMS=1 cycles into Test-Logic-Reset and parks the
// controller in Run-Test/Idle.
func (j *JTAG) Reset() {
	for i := 0; i < 5; i++ {
		j.clock(true, DontCare, DontCare, "")
	}
	j.clock(false, DontCare, DontCare, "")
}

// Idle clocks n cycles in Run-Test/Idle.
func (j *JTAG) Idle(n int) error {
	if err := j.goTo(RunTestIdle); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		j.clock(false, DontCare, DontCare, "")
	}
	return nil
}

// WriteIR shifts width bits of value into the instruction register, least
// significant bit first, and returns to Run-Test/Idle.
func (j *JTAG) WriteIR(value uint64, width int) error {
	if width < 1 || width > 64 {
		return fmt.Errorf("pattern: instruction width %d out of range", width)
	}
	if width < 64 && value>>uint(width) != 0 {
		return fmt.Errorf("pattern: instruction: %w", regs.ErrValue{Value: value, Width: width})
	}
	if err := j.goTo(ShiftIR); err != nil {
		return err
	}
	for i := 0; i < width; i++ {
		j.clock(i == width-1, bitChar((value>>uint(i))&1 == 1), DontCare, "")
	}
	return j.goTo(RunTestIdle)
}

// WriteDR shifts the bits of bc into the data register and records them as
// written. No TDO is checked.
func (j *JTAG) WriteDR(bc *regs.BitCollection) error {
	if err := j.shiftDR(bc, false); err != nil {
		return err
	}
	bc.UpdateDeviceState()
	return nil
}

// ReadDR shifts the data register. TDI re-drives the current values; TDO
// expects H or L for bits marked to be read, C for captured bits and X for
// everything else. The read and capture flags are cleared afterwards.
func (j *JTAG) ReadDR(bc *regs.BitCollection) error {
	if err := j.shiftDR(bc, true); err != nil {
		return err
	}
	bc.ClearFlags()
	return nil
}

func (j *JTAG) shiftDR(bc *regs.BitCollection, read bool) error {
	n := bc.Len()
	if n == 0 {
		return fmt.Errorf("pattern: empty data register")
	}
	if err := j.goTo(ShiftDR); err != nil {
		return err
	}
	i := 0
	for bit := range bc.ShiftOutRight() {
		tdo := byte(DontCare)
		if read {
			tdo = expect(bit)
		}
		comment, _ := bit.Overlay()
		j.clock(i == n-1, bitChar(bit.Get()), tdo, comment)
		i++
	}
	return j.goTo(RunTestIdle)
}

func expect(bit *regs.Bit) byte {
	switch {
	case bit.IsToBeCaptured():
		return ExpectCapture
	case !bit.IsToBeRead() || !bit.HasKnownValue():
		return DontCare
	case bit.Get():
		return ExpectHigh
	}
	return ExpectLow
}

// Render writes the vectors as text, one vector per line.
func (j *JTAG) Render(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "// TMS TDI TDO"); err != nil {
		return err
	}
	for _, v := range j.vectors {
		if _, err := fmt.Fprintln(w, v.String()); err != nil {
			return err
		}
	}
	return nil
}

func (j *JTAG) String() string {
	var sb strings.Builder
	_ = j.Render(&sb)
	return sb.String()
}

func bitChar(b bool) byte {
	if b {
		return '1'
	}
	return '0'
}
