package regs

import (
	"iter"
)

// BitCollection is an ordered view over bits of one Register. Position i
// carries weight 1<<i in the packed value. Views share bits: a mutation
// through one view is visible through every other view of the same bits.
type BitCollection struct {
	reg   *Register
	pos   []int    // register bit positions, least significant first
	order BitOrder // numbering used by Bit, At and Range
	whole bool     // covers the whole register in storage order
}

func newCollection(reg *Register, pos []int) *BitCollection {
	return &BitCollection{reg: reg, pos: pos}
}

// Register returns the register that owns the bits.
func (bc *BitCollection) Register() *Register {
	return bc.reg
}

// Len returns the number of bits in the view.
func (bc *BitCollection) Len() int {
	return len(bc.pos)
}

// Positions returns the register bit positions in the view, least
// significant first.
func (bc *BitCollection) Positions() []int {
	return append([]int(nil), bc.pos...)
}

func (bc *BitCollection) bit(i int) *Bit {
	return &bc.reg.bits[bc.pos[i]]
}

// storageIndex maps a numbered position to the packed index.
func (bc *BitCollection) storageIndex(i int) int {
	if bc.order == MSB0 {
		return len(bc.pos) - 1 - i
	}
	return i
}

// Bit returns the bit at position i, or nil when i is out of range.
func (bc *BitCollection) Bit(i int) *Bit {
	if i < 0 || i >= len(bc.pos) {
		return nil
	}
	return bc.bit(bc.storageIndex(i))
}

// At returns a one bit view of position i, or nil when i is out of range.
func (bc *BitCollection) At(i int) *BitCollection {
	if i < 0 || i >= len(bc.pos) {
		return nil
	}
	return bc.derive([]int{bc.pos[bc.storageIndex(i)]})
}

// Range returns the view covering positions a..b inclusive, in either order.
// It returns nil when either end is out of range.
func (bc *BitCollection) Range(a, b int) *BitCollection {
	lo, hi := min(a, b), max(a, b)
	if lo < 0 || hi >= len(bc.pos) {
		return nil
	}
	if bc.order == MSB0 {
		lo, hi = bc.storageIndex(hi), bc.storageIndex(lo)
	}
	return bc.derive(append([]int(nil), bc.pos[lo:hi+1]...))
}

// Subset returns a view built from the given positions, which may repeat or
// skip positions. The first position becomes the least significant bit. It
// returns nil when any position is out of range or when more than 64
// positions are given, since such a view could not be packed into a value.
func (bc *BitCollection) Subset(positions ...int) *BitCollection {
	if len(positions) > 64 {
		return nil
	}
	pos := make([]int, 0, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(bc.pos) {
			return nil
		}
		pos = append(pos, bc.pos[bc.storageIndex(p)])
	}
	return bc.derive(pos)
}

func (bc *BitCollection) derive(pos []int) *BitCollection {
	return &BitCollection{reg: bc.reg, pos: pos, order: bc.order}
}

// WithMSB0 returns the same bits numbered from the most significant end.
func (bc *BitCollection) WithMSB0() *BitCollection {
	v := *bc
	v.order = MSB0
	return &v
}

// WithLSB0 returns the same bits numbered from the least significant end.
func (bc *BitCollection) WithLSB0() *BitCollection {
	v := *bc
	v.order = LSB0
	return &v
}

// Data packs the bit values. Holes contribute 0.
func (bc *BitCollection) Data() uint64 {
	return bc.pack(func(b *Bit) bool { return b.value })
}

// GetData is an alias of Data.
func (bc *BitCollection) GetData() uint64 {
	return bc.Data()
}

// SetData unpacks v into the bits. Hole positions ignore their input bit.
// A value wider than the view is rejected and nothing is written.
func (bc *BitCollection) SetData(v uint64) (*BitCollection, error) {
	if !fits(v, len(bc.pos)) {
		return bc, ErrValue{Value: v, Width: len(bc.pos)}
	}
	for i := range bc.pos {
		bc.bit(i).Set((v>>uint(i))&1 == 1)
	}
	return bc, nil
}

// ResetVal packs the reset values. Symbolic resets contribute 0.
func (bc *BitCollection) ResetVal() uint64 {
	return bc.pack(func(b *Bit) bool { return b.reset.Bool() })
}

func (bc *BitCollection) pack(get func(*Bit) bool) uint64 {
	var v uint64
	for i := range bc.pos {
		if get(bc.bit(i)) {
			v |= 1 << uint(i)
		}
	}
	return v
}

func (bc *BitCollection) anyBit(test func(*Bit) bool) bool {
	for i := range bc.pos {
		if test(bc.bit(i)) {
			return true
		}
	}
	return false
}

func (bc *BitCollection) each(mask *uint64, fn func(*Bit)) {
	for i := range bc.pos {
		if mask != nil && (*mask>>uint(i))&1 == 0 {
			continue
		}
		fn(bc.bit(i))
	}
}

// Read marks every bit in the view to be read.
func (bc *BitCollection) Read() *BitCollection {
	bc.each(nil, (*Bit).MarkToBeRead)
	return bc
}

// ReadMasked marks the bits selected by mask to be read.
func (bc *BitCollection) ReadMasked(mask uint64) *BitCollection {
	bc.each(&mask, (*Bit).MarkToBeRead)
	return bc
}

// Capture marks every bit in the view to be captured.
func (bc *BitCollection) Capture() *BitCollection {
	bc.each(nil, (*Bit).MarkToBeCaptured)
	return bc
}

// CaptureMasked marks the bits selected by mask to be captured.
func (bc *BitCollection) CaptureMasked(mask uint64) *BitCollection {
	bc.each(&mask, (*Bit).MarkToBeCaptured)
	return bc
}

// SetOverlay attaches label to every bit in the view.
func (bc *BitCollection) SetOverlay(label string) *BitCollection {
	bc.each(nil, func(b *Bit) { b.SetOverlay(&label) })
	return bc
}

// ClearOverlay removes the overlay from every bit in the view.
func (bc *BitCollection) ClearOverlay() *BitCollection {
	bc.each(nil, func(b *Bit) { b.SetOverlay(nil) })
	return bc
}

// Overlay returns the label shared by every overlaid bit. It reports false
// when no bit is overlaid or the labels differ.
func (bc *BitCollection) Overlay() (string, bool) {
	var label string
	found := false
	for i := range bc.pos {
		l, ok := bc.bit(i).Overlay()
		if !ok {
			continue
		}
		if found && l != label {
			return "", false
		}
		label, found = l, true
	}
	return label, found
}

// ClearFlags clears read, capture and overlay on every bit. Values are kept.
func (bc *BitCollection) ClearFlags() *BitCollection {
	bc.each(nil, (*Bit).ClearFlags)
	return bc
}

// SetUndefined marks every bit as having no determinate value.
func (bc *BitCollection) SetUndefined() *BitCollection {
	bc.each(nil, (*Bit).SetUndefined)
	return bc
}

// Reset restores every bit from its reset value and clears all flags. It
// reports whether any bit changed value.
func (bc *BitCollection) Reset() bool {
	changed := false
	bc.each(nil, func(b *Bit) {
		if b.Reset() {
			changed = true
		}
	})
	return changed
}

// UpdateDeviceState records the current values as synchronized with the
// device.
func (bc *BitCollection) UpdateDeviceState() *BitCollection {
	bc.each(nil, (*Bit).UpdateDeviceState)
	return bc
}

// IsToBeRead reports whether any bit is marked to be read.
func (bc *BitCollection) IsToBeRead() bool {
	return bc.anyBit((*Bit).IsToBeRead)
}

// IsToBeCaptured reports whether any bit is marked to be captured.
func (bc *BitCollection) IsToBeCaptured() bool {
	return bc.anyBit((*Bit).IsToBeCaptured)
}

// HasOverlay reports whether any bit carries an overlay.
func (bc *BitCollection) HasOverlay() bool {
	return bc.anyBit((*Bit).HasOverlay)
}

// IsUpdateRequired reports whether any bit differs from the device state.
func (bc *BitCollection) IsUpdateRequired() bool {
	return bc.anyBit((*Bit).IsUpdateRequired)
}

// IsModifiedSinceReset reports whether any bit changed since the last reset.
func (bc *BitCollection) IsModifiedSinceReset() bool {
	return bc.anyBit((*Bit).IsModifiedSinceReset)
}

// HasKnownValue reports whether every bit has a determinate value.
func (bc *BitCollection) HasKnownValue() bool {
	return !bc.anyBit(func(b *Bit) bool { return !b.known })
}

// IsInResetState reports whether every bit holds its reset value.
func (bc *BitCollection) IsInResetState() bool {
	return !bc.anyBit(func(b *Bit) bool { return !b.IsInResetState() })
}

// IsReadable reports whether any bit is readable.
func (bc *BitCollection) IsReadable() bool {
	return bc.anyBit(func(b *Bit) bool { return b.access.IsReadable() })
}

// IsWritable reports whether any bit is writable.
func (bc *BitCollection) IsWritable() bool {
	return bc.anyBit(func(b *Bit) bool { return b.access.IsWritable() })
}

// ReadEnables packs the read flags.
func (bc *BitCollection) ReadEnables() uint64 {
	return bc.pack((*Bit).IsToBeRead)
}

// CaptureEnables packs the capture flags.
func (bc *BitCollection) CaptureEnables() uint64 {
	return bc.pack((*Bit).IsToBeCaptured)
}

// OverlayEnables packs a 1 for every overlaid bit.
func (bc *BitCollection) OverlayEnables() uint64 {
	return bc.pack((*Bit).HasOverlay)
}

// Copy transfers value, flags and overlay from src position by position.
func (bc *BitCollection) Copy(src *BitCollection) error {
	if src.Len() != bc.Len() {
		return ErrLengthMismatch
	}
	// src may alias bc, so take the source state first
	state := make([]Bit, len(src.pos))
	for i := range src.pos {
		state[i] = *src.bit(i)
	}
	for i := range bc.pos {
		bc.bit(i).copyState(&state[i])
	}
	return nil
}

// ShiftOutLeft yields the bits most significant first, as they would leave
// a shift register shifting left. It does not modify anything.
func (bc *BitCollection) ShiftOutLeft() iter.Seq[*Bit] {
	return func(yield func(*Bit) bool) {
		for i := len(bc.pos) - 1; i >= 0; i-- {
			if !yield(bc.bit(i)) {
				return
			}
		}
	}
}

// ShiftOutRight yields the bits least significant first.
func (bc *BitCollection) ShiftOutRight() iter.Seq[*Bit] {
	return func(yield func(*Bit) bool) {
		for i := range bc.pos {
			if !yield(bc.bit(i)) {
				return
			}
		}
	}
}

// live returns the non-hole bits, least significant first.
func (bc *BitCollection) live() []*Bit {
	var out []*Bit
	for i := range bc.pos {
		if b := bc.bit(i); !b.hole {
			out = append(out, b)
		}
	}
	return out
}

// ShiftLeft shifts the value n places toward the most significant end over
// the non-hole bits, shifting in 0. It returns the last bit shifted out.
func (bc *BitCollection) ShiftLeft(n int) uint8 {
	var out uint8
	for ; n > 0; n-- {
		out = bc.ShiftInLeft(0)
	}
	return out
}

// ShiftInLeft shifts the value one place toward the most significant end
// over the non-hole bits, shifting in the low bit of in. It returns the bit
// shifted out.
func (bc *BitCollection) ShiftInLeft(in uint8) uint8 {
	bits := bc.live()
	if len(bits) == 0 {
		return 0
	}
	out := bits[len(bits)-1].value
	for i := len(bits) - 1; i > 0; i-- {
		bits[i].Set(bits[i-1].value)
	}
	bits[0].Set(in&1 == 1)
	return boolBit(out)
}

// ShiftRight shifts the value n places toward the least significant end over
// the non-hole bits, shifting in 0. It returns the last bit shifted out.
func (bc *BitCollection) ShiftRight(n int) uint8 {
	var out uint8
	for ; n > 0; n-- {
		out = bc.ShiftInRight(0)
	}
	return out
}

// ShiftInRight shifts the value one place toward the least significant end,
// shifting in the low bit of in at the most significant non-hole bit. It
// returns the bit shifted out.
func (bc *BitCollection) ShiftInRight(in uint8) uint8 {
	bits := bc.live()
	if len(bits) == 0 {
		return 0
	}
	out := bits[0].value
	for i := 0; i < len(bits)-1; i++ {
		bits[i].Set(bits[i+1].value)
	}
	bits[len(bits)-1].Set(in&1 == 1)
	return boolBit(out)
}

// TryFields returns the first of names that is a field of the owning
// register, or nil.
func (bc *BitCollection) TryFields(names ...string) *Field {
	for _, name := range names {
		if fld := bc.reg.Field(name); fld != nil {
			return fld
		}
	}
	return nil
}

func fits(v uint64, width int) bool {
	return width >= 64 || v>>uint(width) == 0
}

func boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
