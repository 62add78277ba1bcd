package regs

import (
	"fmt"
	"iter"
	"slices"
)

// Register owns a fixed width array of bits and the fields declared over
// them. It embeds the whole register view, so every BitCollection
// operation is available directly on the register.
type Register struct {
	*BitCollection

	Name        string
	Address     uint64
	Description string

	size       int
	order      BitOrder
	bits       []Bit
	fields     map[string]*Field
	fieldOrder []string
	overlay    *string
	snapshots  map[string]*snapshot
}

// Size returns the register width in bits.
func (r *Register) Size() int {
	return r.size
}

// BitOrder returns the numbering used when fields were declared.
func (r *Register) BitOrder() BitOrder {
	return r.order
}

// Bits returns a fresh whole register view.
func (r *Register) Bits() *BitCollection {
	v := *r.BitCollection
	return &v
}

// Field returns the named field, or nil.
func (r *Register) Field(name string) *Field {
	return r.fields[name]
}

// HasField reports whether the register declares name.
func (r *Register) HasField(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Fields returns the fields in the order they were first named.
func (r *Register) Fields() []*Field {
	out := make([]*Field, 0, len(r.fieldOrder))
	for _, name := range r.fieldOrder {
		out = append(out, r.fields[name])
	}
	return out
}

// FieldNames returns the field names in the order they were first named.
func (r *Register) FieldNames() []string {
	return slices.Clone(r.fieldOrder)
}

// SetOverlay sets the register level overlay and overlays every bit.
func (r *Register) SetOverlay(label string) *Register {
	r.overlay = &label
	r.BitCollection.SetOverlay(label)
	return r
}

// ClearOverlay removes the register level overlay and every bit overlay.
func (r *Register) ClearOverlay() *Register {
	r.overlay = nil
	r.BitCollection.ClearOverlay()
	return r
}

// Overlay returns the register level overlay, falling back to the label
// shared by the overlaid bits.
func (r *Register) Overlay() (string, bool) {
	if r.overlay != nil {
		return *r.overlay, true
	}
	return r.BitCollection.Overlay()
}

// Copy transfers bit state and the register level overlay from src.
func (r *Register) Copy(src *Register) error {
	if err := r.BitCollection.Copy(src.BitCollection); err != nil {
		return fmt.Errorf("regs: copy %s to %s: %w", src.Name, r.Name, err)
	}
	if src.overlay != nil {
		l := *src.overlay
		r.overlay = &l
	} else {
		r.overlay = nil
	}
	return nil
}

// ClearFlags clears all bit flags and the register level overlay.
func (r *Register) ClearFlags() *Register {
	r.overlay = nil
	r.BitCollection.ClearFlags()
	return r
}

// Reset restores every bit to its reset value, clears all flags and the
// register level overlay, and reports whether any value changed.
func (r *Register) Reset() bool {
	r.overlay = nil
	return r.BitCollection.Reset()
}

// FieldSummary describes one declared range, or a gap between ranges when
// Spacer is set.
type FieldSummary struct {
	Name   string
	Offset int
	Width  int
	Access AccessType
	Spacer bool
}

// FieldsByOffset yields every declared range and every hole run in storage
// offset order starting from bit 0.
func (r *Register) FieldsByOffset() iter.Seq[FieldSummary] {
	return func(yield func(FieldSummary) bool) {
		type entry struct {
			name   string
			rng    Range
			access AccessType
		}
		var entries []entry
		for _, name := range r.fieldOrder {
			fld := r.fields[name]
			for i, rng := range fld.ranges {
				entries = append(entries, entry{name, rng, fld.accesses[i]})
			}
		}
		slices.SortFunc(entries, func(a, b entry) int { return a.rng.Offset - b.rng.Offset })

		pos := 0
		for _, e := range entries {
			if e.rng.Offset > pos {
				if !yield(FieldSummary{Offset: pos, Width: e.rng.Offset - pos, Spacer: true}) {
					return
				}
			}
			if !yield(FieldSummary{Name: e.name, Offset: e.rng.Offset, Width: e.rng.Width, Access: e.access}) {
				return
			}
			pos = e.rng.Offset + e.rng.Width
		}
		if pos < r.size {
			yield(FieldSummary{Offset: pos, Width: r.size - pos, Spacer: true})
		}
	}
}

func (r *Register) String() string {
	digits := (r.size + 3) / 4
	return fmt.Sprintf("%s @ 0x%X = 0x%0*X", r.Name, r.Address, digits, r.Data())
}
