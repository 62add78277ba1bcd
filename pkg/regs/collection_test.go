package regs

import (
	"errors"
	"slices"
	"testing"
)

func shiftedOut(seq func(func(*Bit) bool)) []uint8 {
	var out []uint8
	for b := range seq {
		out = append(out, b.Data())
	}
	return out
}

func nibbleRegister(t *testing.T) *Register {
	return build(t, "tr1", 8, []decl{
		{"b0", 0, []FieldOption{Width(4), ResetTo(0x5)}},
		{"b1", 4, []FieldOption{Width(4), ResetTo(0xA)}},
	})
}

func status(t *testing.T, bc *BitCollection, op string) string {
	t.Helper()
	s, err := bc.StatusStr(op)
	if err != nil {
		t.Fatalf("StatusStr(%s) failed: %v", op, err)
	}
	return s
}

func checkStatus(t *testing.T, bc *BitCollection, op, want string) {
	t.Helper()
	if got := status(t, bc, op); got != want {
		t.Errorf("StatusStr(%s) = %q, want %q", op, got, want)
	}
}

func checkBits(t *testing.T, what string, got, want []uint8) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

func TestShiftOut(t *testing.T) {
	reg := nibbleRegister(t)
	checkBits(t, "ShiftOutLeft", shiftedOut(reg.ShiftOutLeft()), []uint8{1, 0, 1, 0, 0, 1, 0, 1})
	checkBits(t, "ShiftOutRight", shiftedOut(reg.ShiftOutRight()), []uint8{1, 0, 1, 0, 0, 1, 0, 1})

	mustSet(t, reg.BitCollection, 0xF0)
	checkBits(t, "ShiftOutLeft", shiftedOut(reg.ShiftOutLeft()), []uint8{1, 1, 1, 1, 0, 0, 0, 0})
	checkBits(t, "ShiftOutRight", shiftedOut(reg.ShiftOutRight()), []uint8{0, 0, 0, 0, 1, 1, 1, 1})

	// restartable and side effect free
	checkBits(t, "second ShiftOutLeft", shiftedOut(reg.ShiftOutLeft()), shiftedOut(reg.ShiftOutLeft()))
	checkData(t, "reg", reg.Data(), 0xF0)
}

func TestShiftOutWithHoles(t *testing.T) {
	reg := build(t, "tr1", 8, []decl{
		{"b0", 1, []FieldOption{Width(2), ResetTo(0b11)}},
		{"b1", 6, []FieldOption{ResetTo(1)}},
	})
	checkBits(t, "ShiftOutLeft", shiftedOut(reg.ShiftOutLeft()), []uint8{0, 1, 0, 0, 0, 1, 1, 0})
	checkBits(t, "ShiftOutRight", shiftedOut(reg.ShiftOutRight()), []uint8{0, 1, 1, 0, 0, 0, 1, 0})

	reg = build(t, "tr2", 8, []decl{
		{"b0", 5, nil},
		{"b1", 0, []FieldOption{Width(4)}},
	})
	mustSet(t, reg.BitCollection, 0xFF)
	checkData(t, "reg", reg.Data(), 0b00101111)
	checkBits(t, "ShiftOutLeft", shiftedOut(reg.ShiftOutLeft()), []uint8{0, 0, 1, 0, 1, 1, 1, 1})
}

func TestShiftLeftRight(t *testing.T) {
	reg := nibbleRegister(t)
	mustSet(t, reg.BitCollection, 0b1000_0001)
	if out := reg.ShiftLeft(1); out != 1 {
		t.Errorf("ShiftLeft(1) shifted out %d, want 1", out)
	}
	checkData(t, "reg", reg.Data(), 0b0000_0010)
	if out := reg.ShiftRight(1); out != 0 {
		t.Errorf("ShiftRight(1) shifted out %d, want 0", out)
	}
	checkData(t, "reg", reg.Data(), 0b0000_0001)
	if out := reg.ShiftRight(1); out != 1 {
		t.Errorf("ShiftRight(1) shifted out %d, want 1", out)
	}
	checkData(t, "reg", reg.Data(), 0)

	// n single shifts match one shift of n
	a, b := nibbleRegister(t), nibbleRegister(t)
	for i := 0; i < 3; i++ {
		a.ShiftLeft(1)
	}
	b.ShiftLeft(3)
	checkData(t, "three single shifts", a.Data(), b.Data())
	checkData(t, "ShiftLeft(3)", b.Data(), 0x28)

	if out := reg.ShiftLeft(0); out != 0 {
		t.Errorf("ShiftLeft(0) shifted out %d", out)
	}
}

func TestShiftIn(t *testing.T) {
	steps := []struct {
		in, out uint8
		want    uint64
	}{
		{0, 1, 0b1110},
		{0, 1, 0b1100},
		{1, 1, 0b1001},
		{1, 1, 0b0011},
		{1, 0, 0b0111},
	}
	left, err := SimpleReg("sr1", 0, 4, 0xF)
	if err != nil {
		t.Fatalf("SimpleReg failed: %v", err)
	}
	for i, s := range steps {
		if out := left.ShiftInLeft(s.in); out != s.out {
			t.Errorf("left step %d shifted out %d, want %d", i, out, s.out)
		}
		checkData(t, "shift left", left.Data(), s.want)
	}

	steps = []struct {
		in, out uint8
		want    uint64
	}{
		{0, 1, 0b0111},
		{0, 1, 0b0011},
		{1, 1, 0b1001},
		{1, 1, 0b1100},
		{1, 0, 0b1110},
	}
	right, err := SimpleReg("sr2", 0, 4, 0xF)
	if err != nil {
		t.Fatalf("SimpleReg failed: %v", err)
	}
	for i, s := range steps {
		if out := right.ShiftInRight(s.in); out != s.out {
			t.Errorf("right step %d shifted out %d, want %d", i, out, s.out)
		}
		checkData(t, "shift right", right.Data(), s.want)
	}
}

func TestShiftSkipsHoles(t *testing.T) {
	reg := build(t, "tr1", 8, []decl{
		{"lo", 0, []FieldOption{Width(2)}},
		{"hi", 4, []FieldOption{Width(2)}},
	})
	mustSet(t, reg.BitCollection, 0b0000_0010)
	for i, want := range []struct {
		out  uint8
		data uint64
	}{
		{0, 0b0001_0000},
		{0, 0b0010_0000},
		{1, 0},
	} {
		if out := reg.ShiftLeft(1); out != want.out {
			t.Errorf("shift %d shifted out %d, want %d", i, out, want.out)
		}
		checkData(t, "reg", reg.Data(), want.data)
	}
}

func TestReadMarksBits(t *testing.T) {
	reg, err := SimpleReg("tr1", 0x10, 16, 0)
	if err != nil {
		t.Fatalf("SimpleReg failed: %v", err)
	}
	if reg.IsToBeRead() {
		t.Fatalf("fresh register marked to be read")
	}
	reg.Read()
	for i := 0; i < 16; i++ {
		if !reg.Bit(i).IsToBeRead() {
			t.Errorf("bit %d not marked to be read", i)
		}
	}
	if !reg.IsToBeRead() {
		t.Errorf("register not marked to be read")
	}
}

func TestMaskedFlags(t *testing.T) {
	reg := twoByteRegister(t)
	reg.ReadMasked(0x00F0).CaptureMasked(0x0003)
	checkData(t, "ReadEnables", reg.ReadEnables(), 0x00F0)
	checkData(t, "CaptureEnables", reg.CaptureEnables(), 0x0003)
}

func TestEnables(t *testing.T) {
	reg := twoByteRegister(t)
	checkData(t, "ReadEnables", reg.ReadEnables(), 0)
	checkData(t, "CaptureEnables", reg.CaptureEnables(), 0)
	checkData(t, "OverlayEnables", reg.OverlayEnables(), 0)
	reg.Range(7, 4).Read()
	checkData(t, "ReadEnables", reg.ReadEnables(), 0xF0)
	reg.Field("b1").SetOverlay("blah")
	checkData(t, "OverlayEnables", reg.OverlayEnables(), 0xFF00)
	reg.Range(11, 4).Capture()
	checkData(t, "CaptureEnables", reg.CaptureEnables(), 0x0FF0)

	reg.ClearFlags()
	checkData(t, "enables after ClearFlags", reg.ReadEnables()|reg.CaptureEnables()|reg.OverlayEnables(), 0)
}

func TestUpdateRequired(t *testing.T) {
	reg := build(t, "tr1", 8, []decl{
		{"b0", 5, []FieldOption{ResetTo(1)}},
		{"b1", 0, []FieldOption{Width(4), ResetTo(3)}},
	})
	if reg.IsUpdateRequired() {
		t.Fatalf("fresh register needs an update")
	}
	for _, step := range []struct {
		v    uint64
		want bool
	}{
		{0x23, false},
		{0x0F, true},
		{0x23, false},
	} {
		mustSet(t, reg.BitCollection, step.v)
		if got := reg.IsUpdateRequired(); got != step.want {
			t.Errorf("after 0x%X IsUpdateRequired() = %v, want %v", step.v, got, step.want)
		}
	}

	mustSet(t, reg.BitCollection, 0x0F)
	reg.UpdateDeviceState()
	if reg.IsUpdateRequired() {
		t.Errorf("update required after UpdateDeviceState")
	}
	reg.Reset()
	if !reg.IsUpdateRequired() {
		t.Errorf("reset away from the device state should need an update")
	}
}

func TestDirtyTracking(t *testing.T) {
	reg, err := SimpleReg("treg1", 0x1000, 32, 0)
	if err != nil {
		t.Fatalf("SimpleReg failed: %v", err)
	}
	check := func(step string, modified, inReset bool) {
		t.Helper()
		if got := reg.IsModifiedSinceReset(); got != modified {
			t.Errorf("%s: IsModifiedSinceReset() = %v, want %v", step, got, modified)
		}
		if got := reg.IsInResetState(); got != inReset {
			t.Errorf("%s: IsInResetState() = %v, want %v", step, got, inReset)
		}
	}

	check("fresh", false, true)
	mustSet(t, reg.BitCollection, 0x1234)
	check("written", true, false)
	mustSet(t, reg.BitCollection, 0)
	check("restored", true, true)
	reg.Reset()
	check("reset", false, true)
}

func TestUndefinedReset(t *testing.T) {
	reg := build(t, "areg0", 8, []decl{
		{"aien", 0, []FieldOption{Width(4), ResetToUndefined()}},
		{"mem", 4, []FieldOption{Width(4), ResetFromMemory()}},
	})
	aien := reg.Field("aien")
	if aien.HasKnownValue() {
		t.Errorf("aien should start unknown")
	}
	if r := aien.Bit(0).ResetValue(); r != ResetUndefined {
		t.Errorf("aien reset = %v, want undefined", r)
	}
	if r := reg.Bit(7).ResetValue(); r != ResetMemory {
		t.Errorf("mem reset = %v, want memory", r)
	}
	checkData(t, "ResetVal", reg.ResetVal(), 0)

	mustSet(t, reg.BitCollection, 0)
	if !aien.HasKnownValue() {
		t.Errorf("aien unknown after a write")
	}
	reg.Reset()
	if aien.HasKnownValue() {
		t.Errorf("aien known after reset")
	}
	checkStatus(t, reg.BitCollection, "write", "??")
}

func TestCopy(t *testing.T) {
	reg1, reg2 := twoByteRegister(t), twoByteRegister(t)
	reg1.SetOverlay("hello")
	mustSet(t, reg1.BitCollection, 0x1234)
	if err := reg2.Copy(reg1); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if label, ok := reg2.Overlay(); !ok || label != "hello" {
		t.Errorf("Overlay() = %q, %v, want hello", label, ok)
	}
	checkData(t, "reg2", reg2.Data(), 0x1234)

	bits1, bits2 := twoByteRegister(t).Field("b0"), twoByteRegister(t).Field("b0")
	checkData(t, "bits1", bits1.Data(), 0)
	if bits1.Bit(1).IsToBeRead() {
		t.Fatalf("bits1[1] marked to be read before copy")
	}
	mustSet(t, bits2.BitCollection, 0b0010).Read()
	if err := bits1.Copy(bits2.BitCollection); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	checkData(t, "bits1", bits1.Data(), 0b0010)
	if !bits1.Bit(1).IsToBeRead() || !bits1.IsToBeRead() {
		t.Errorf("read flag not copied")
	}
	checkData(t, "ReadEnables", bits1.ReadEnables(), bits2.ReadEnables())

	if err := bits1.Copy(reg1.BitCollection); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("Copy of a wider view error = %v, want ErrLengthMismatch", err)
	}
}

func TestCopyOverlappingViews(t *testing.T) {
	reg := twoByteRegister(t)
	mustSet(t, reg.BitCollection, 0x00F1)
	if err := reg.Range(11, 4).Copy(reg.Range(7, 0)); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	checkData(t, "reg", reg.Data(), 0x0F11)
}

func TestSubset(t *testing.T) {
	reg := nibbleRegister(t) // 0xA5
	sub := reg.Subset(7, 0, 0)
	if sub == nil {
		t.Fatalf("Subset(7, 0, 0) returned nil")
	}
	if sub.Len() != 3 {
		t.Errorf("subset has %d bits, want 3", sub.Len())
	}
	checkData(t, "subset", sub.Data(), 0b111)
	mustSet(t, sub, 0b000)
	checkData(t, "reg", reg.Data(), 0x24)
	if reg.Subset(1, 8) != nil {
		t.Errorf("Subset with an out of range position should be nil")
	}

	if got := reg.Field("b1").Positions(); !slices.Equal(got, []int{4, 5, 6, 7}) {
		t.Errorf("b1 positions = %v", got)
	}
	if got := reg.Field("b1").Subset(3).Positions(); !slices.Equal(got, []int{7}) {
		t.Errorf("b1[3] positions = %v", got)
	}
}

func TestSubsetWidthLimit(t *testing.T) {
	reg, err := SimpleReg("wide", 0, 64, 0)
	if err != nil {
		t.Fatalf("SimpleReg failed: %v", err)
	}
	positions := make([]int, 64)
	for i := range positions {
		positions[i] = i
	}

	if reg.Subset(append(positions, 0)...) != nil {
		t.Fatalf("Subset of 65 positions should be nil")
	}

	sub := reg.Subset(positions...)
	if sub == nil {
		t.Fatalf("Subset of 64 positions returned nil")
	}
	mustSet(t, sub, 1<<63|1)
	checkData(t, "reg", reg.Data(), 1<<63|1)
	sub.ReadMasked(1 << 63)
	checkData(t, "ReadEnables", reg.ReadEnables(), 1<<63)
}

func TestTryFields(t *testing.T) {
	reg := twoByteRegister(t)
	fld := reg.TryFields("nope", "b1", "b0")
	if fld == nil || fld.Name != "b1" {
		t.Fatalf("TryFields() = %v, want b1", fld)
	}
	if reg.TryFields("x", "y") != nil {
		t.Errorf("TryFields of unknown names should be nil")
	}
	if got := reg.Range(3, 0).TryFields("b0"); got == nil || got.Name != "b0" {
		t.Errorf("TryFields from a sub view = %v, want b0", got)
	}
}

func TestSnapshots(t *testing.T) {
	reg, err := SimpleReg("treg1", 0x1000, 16, 0)
	if err != nil {
		t.Fatalf("SimpleReg failed: %v", err)
	}
	changed := func(name string) bool {
		t.Helper()
		c, err := reg.IsChanged(name)
		if err != nil {
			t.Fatalf("IsChanged(%s) failed: %v", name, err)
		}
		return c
	}

	mustSet(t, reg.BitCollection, 0x1234)
	reg.SetOverlay("blah")
	reg.Snapshot("snap1")
	if changed("snap1") {
		t.Errorf("snap1 changed right after the snapshot")
	}

	mustSet(t, reg.BitCollection, 0xFFFF)
	reg.Snapshot("snap2")
	if !changed("snap1") || changed("snap2") {
		t.Errorf("after write: snap1 changed %v, snap2 changed %v", changed("snap1"), changed("snap2"))
	}

	if err := reg.Rollback("snap1"); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	checkData(t, "reg", reg.Data(), 0x1234)
	if !changed("snap2") {
		t.Errorf("snap2 unchanged after rollback to snap1")
	}

	reg.ClearOverlay()
	if !changed("snap1") {
		t.Errorf("clearing the overlay is not a change")
	}
	if _, ok := reg.Overlay(); ok {
		t.Errorf("overlay still set")
	}
	if err := reg.Rollback("snap1"); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	if label, ok := reg.Overlay(); !ok || label != "blah" {
		t.Errorf("Overlay() = %q, %v, want blah", label, ok)
	}

	if _, err := reg.IsChanged("missing"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("IsChanged(missing) error = %v, want ErrNoSnapshot", err)
	}
	if err := reg.Rollback("missing"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Rollback(missing) error = %v, want ErrNoSnapshot", err)
	}
}

func TestStatusStr(t *testing.T) {
	reg := twoByteRegister(t)
	bc := reg.BitCollection
	mustSet(t, reg.Range(3, 0), 0x5)
	reg.Range(7, 4).SetOverlay("overlayx")
	mustSet(t, reg.Range(15, 8), 0xAA)
	reg.At(10).SetOverlay("overlayy")
	checkStatus(t, bc, "write", "A[1v10]V5")

	reg.Reset()
	reg.ClearFlags()
	reg.ClearOverlay()
	checkStatus(t, bc, "write", "0000")
	checkStatus(t, bc, "read", "XXXX")

	mustSet(t, reg.Range(7, 4), 5).Read()
	checkStatus(t, bc, "read", "XX5X")

	mustSet(t, reg.At(14), 0).Read()
	checkStatus(t, bc, "read", "[x0xx]X5X")

	reg.Range(3, 0).Capture()
	checkStatus(t, bc, "read", "[x0xx]X5S")

	reg.Range(12, 8).SetOverlay("overlayx").Read()
	checkStatus(t, bc, "read", "[x0xv]V5S")

	reg.At(15).Capture()
	checkStatus(t, bc, "read", "[s0xv]V5S")

	reg.Range(7, 4).SetUndefined()
	checkStatus(t, bc, "read", "[s0xv]V?S")

	if _, err := reg.StatusStr("verify"); !errors.Is(err, ErrBadOperation) {
		t.Errorf("StatusStr(verify) error = %v, want ErrBadOperation", err)
	}
}

func TestStatusStrPartialNibble(t *testing.T) {
	reg := build(t, "mr1", 32, []decl{{"b1", 0, []FieldOption{Width(11)}}})
	b1 := reg.Field("b1").BitCollection
	checkStatus(t, b1, "write", "000")
	checkStatus(t, b1, "read", "[xxx]XX")
	b1.Read()
	checkStatus(t, b1, "read", "000")
	mustSet(t, b1, 0x7FF).Read()
	checkStatus(t, b1, "read", "7FF")
}

func TestRenderStatus(t *testing.T) {
	cases := map[string]string{
		"":         "",
		"1":        "1",
		"10100101": "A5",
		"XXXX0101": "X5",
		"VVV":      "[vvv]",
		"??????":   "[??]?",
		"S1S1":     "[s1s1]",
	}
	for in, want := range cases {
		if got := RenderStatus([]byte(in)); got != want {
			t.Errorf("RenderStatus(%q) = %q, want %q", in, got, want)
		}
	}
}
