package regs

// Bit is the state of one register bit. Bits are owned by their Register
// and shared by every view that covers them.
type Bit struct {
	value       bool
	known       bool
	reset       ResetState
	deviceState bool // value at the last synchronize
	toBeRead    bool
	toBeCapture bool
	overlay     *string
	modified    bool // value changed since the last reset
	hole        bool
	access      AccessType
}

// newHole returns a padding bit that reads 0 and ignores writes.
func newHole() Bit {
	return Bit{known: true, hole: true, access: Unimplemented}
}

// Get returns the stored value. Holes always read false.
func (b *Bit) Get() bool {
	return b.value
}

// Data returns the stored value as 0 or 1.
func (b *Bit) Data() uint8 {
	if b.value {
		return 1
	}
	return 0
}

// Set stores v. It is a no-op on a hole bit.
func (b *Bit) Set(v bool) {
	if b.hole {
		return
	}
	if b.value != v {
		b.modified = true
	}
	b.value = v
	b.known = true
}

// IsHole reports whether the position is not covered by any field.
func (b *Bit) IsHole() bool {
	return b.hole
}

// HasKnownValue is false after SetUndefined or a symbolic reset.
func (b *Bit) HasKnownValue() bool {
	return b.known
}

// SetUndefined forgets the value without changing what Get returns.
func (b *Bit) SetUndefined() {
	if b.hole {
		return
	}
	b.known = false
}

// MarkToBeRead flags the bit for a read on the next pattern transaction.
func (b *Bit) MarkToBeRead() {
	if !b.hole {
		b.toBeRead = true
	}
}

// MarkToBeCaptured flags the bit for capture.
func (b *Bit) MarkToBeCaptured() {
	if !b.hole {
		b.toBeCapture = true
	}
}

// IsToBeRead reports the pending-read flag.
func (b *Bit) IsToBeRead() bool {
	return b.toBeRead
}

// IsToBeCaptured reports the pending-capture flag.
func (b *Bit) IsToBeCaptured() bool {
	return b.toBeCapture
}

// SetOverlay attaches label, or clears the overlay when label is nil.
func (b *Bit) SetOverlay(label *string) {
	if b.hole {
		return
	}
	if label == nil {
		b.overlay = nil
		return
	}
	l := *label
	b.overlay = &l
}

// Overlay returns the overlay label, if any.
func (b *Bit) Overlay() (string, bool) {
	if b.overlay == nil {
		return "", false
	}
	return *b.overlay, true
}

// HasOverlay reports whether an overlay label is attached.
func (b *Bit) HasOverlay() bool {
	return b.overlay != nil
}

// ClearFlags drops the read and capture flags and the overlay.
func (b *Bit) ClearFlags() {
	b.toBeRead = false
	b.toBeCapture = false
	b.overlay = nil
}

// Reset restores the value from the reset state and clears all flags. It
// reports whether the value changed.
func (b *Bit) Reset() bool {
	b.ClearFlags()
	b.modified = false
	if b.hole {
		return false
	}
	prev := b.value
	b.value = b.reset.Bool()
	b.known = b.reset.Known()
	return prev != b.value
}

// ResetValue returns the reset state of the bit.
func (b *Bit) ResetValue() ResetState {
	return b.reset
}

// IsUpdateRequired reports whether the value differs from the last
// synchronized value.
func (b *Bit) IsUpdateRequired() bool {
	return !b.hole && b.value != b.deviceState
}

// UpdateDeviceState records the current value as synchronized.
func (b *Bit) UpdateDeviceState() {
	b.deviceState = b.value
}

// IsModifiedSinceReset reports whether the value changed since the last
// reset, even if it has since been restored.
func (b *Bit) IsModifiedSinceReset() bool {
	return b.modified
}

// IsInResetState reports whether the value equals the reset value. Bits with
// a symbolic reset are in reset state while their value is unknown.
func (b *Bit) IsInResetState() bool {
	if !b.reset.Known() {
		return !b.known
	}
	return b.known && b.value == b.reset.Bool()
}

// Access returns the access type of the field that owns the bit.
func (b *Bit) Access() AccessType {
	return b.access
}

// copyState copies value, flags and overlay from src. Holes are skipped.
func (b *Bit) copyState(src *Bit) {
	if b.hole {
		return
	}
	if b.value != src.value {
		b.modified = true
	}
	b.value = src.value
	b.known = src.known
	b.toBeRead = src.toBeRead
	b.toBeCapture = src.toBeCapture
	b.SetOverlay(src.overlay)
}

// sameState compares the snapshotted part of two bits.
func (b *Bit) sameState(o *Bit) bool {
	if b.value != o.value || b.known != o.known ||
		b.toBeRead != o.toBeRead || b.toBeCapture != o.toBeCapture {
		return false
	}
	if (b.overlay == nil) != (o.overlay == nil) {
		return false
	}
	return b.overlay == nil || *b.overlay == *o.overlay
}
