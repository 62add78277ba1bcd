package regs

import (
	"fmt"
)

// RegisterOption configures a register opened with OpenRegister.
type RegisterOption func(*Register)

// WithSize sets the register width in bits. The default is 32.
func WithSize(size int) RegisterOption {
	return func(r *Register) { r.size = size }
}

// WithBitOrder sets the numbering used by field offsets.
func WithBitOrder(order BitOrder) RegisterOption {
	return func(r *Register) { r.order = order }
}

// WithDescription attaches a description to the register.
func WithDescription(desc string) RegisterOption {
	return func(r *Register) { r.Description = desc }
}

// fieldDecl is one Field call.
type fieldDecl struct {
	width  int
	reset  Reset
	access AccessType
	desc   string
}

// FieldOption configures one field declaration.
type FieldOption func(*fieldDecl)

// Width sets the declared range width. The default is 1.
func Width(w int) FieldOption {
	return func(d *fieldDecl) { d.width = w }
}

// ResetTo sets a concrete reset value for the declared range.
func ResetTo(v uint64) FieldOption {
	return func(d *fieldDecl) { d.reset = Reset{Kind: ResetConcrete, Value: v} }
}

// ResetToUndefined makes the declared range reset to an unknown value.
func ResetToUndefined() FieldOption {
	return func(d *fieldDecl) { d.reset = Reset{Kind: ResetKindUndefined} }
}

// ResetFromMemory makes the declared range reset from external memory.
func ResetFromMemory() FieldOption {
	return func(d *fieldDecl) { d.reset = Reset{Kind: ResetKindMemory} }
}

// WithReset applies an already built Reset.
func WithReset(r Reset) FieldOption {
	return func(d *fieldDecl) { d.reset = r }
}

// Access sets the access type of the declared range. Each range of a split
// field keeps its own access type.
func Access(a AccessType) FieldOption {
	return func(d *fieldDecl) { d.access = a }
}

// Describe attaches a description to the field. The first non-empty
// description of a split field wins.
func Describe(desc string) FieldOption {
	return func(d *fieldDecl) { d.desc = desc }
}

// Builder collects field declarations for one register. Any declaration
// error is returned immediately and again from Build, so a half built
// register is never handed out.
type Builder struct {
	reg    *Register
	owner  []string // field name owning each storage bit
	decls  map[string]*Field
	err    error
	closed bool
}

// OpenRegister starts the declaration of a register.
func OpenRegister(name string, address uint64, opts ...RegisterOption) *Builder {
	reg := &Register{
		Name:    name,
		Address: address,
		size:    32,
		fields:  make(map[string]*Field),
	}
	for _, opt := range opts {
		opt(reg)
	}

	b := &Builder{reg: reg, decls: reg.fields}
	if reg.size < 1 || reg.size > 64 {
		b.err = fmt.Errorf("%w: %s has size %d", ErrBadSize, name, reg.size)
		return b
	}
	b.owner = make([]string, reg.size)
	return b
}

// Field declares a range of the named field. Repeating a name appends
// another range to the same field; earlier ranges are more significant.
// Offsets follow the register's bit order.
func (b *Builder) Field(name string, offset int, opts ...FieldOption) error {
	if b.closed {
		return ErrBuilderClosed
	}
	if b.err != nil {
		return b.err
	}

	decl := fieldDecl{width: 1}
	for _, opt := range opts {
		opt(&decl)
	}

	fail := func(err error) error {
		b.err = ErrField{Register: b.reg.Name, Field: name, Offset: offset, Width: decl.width, Err: err}
		return b.err
	}

	if decl.width < 1 {
		return fail(ErrBadWidth)
	}
	if offset < 0 || offset+decl.width > b.reg.size {
		return fail(ErrOutOfRange)
	}
	if decl.reset.Kind == ResetConcrete && !fits(decl.reset.Value, decl.width) {
		return fail(ErrBadReset)
	}

	lo := offset
	if b.reg.order == MSB0 {
		lo = b.reg.size - offset - decl.width
	}
	for p := lo; p < lo+decl.width; p++ {
		if owner := b.owner[p]; owner != "" {
			return fail(fmt.Errorf("%w: bit %d already belongs to %s", ErrOverlap, p, owner))
		}
	}
	for p := lo; p < lo+decl.width; p++ {
		b.owner[p] = name
	}

	fld, ok := b.decls[name]
	if !ok {
		fld = &Field{Name: name, Access: decl.access}
		b.decls[name] = fld
		b.reg.fieldOrder = append(b.reg.fieldOrder, name)
	}
	if fld.Description == "" {
		fld.Description = decl.desc
	}
	fld.ranges = append(fld.ranges, Range{Offset: lo, Width: decl.width})
	fld.resets = append(fld.resets, decl.reset)
	fld.accesses = append(fld.accesses, decl.access)
	return nil
}

// Err returns the first declaration error.
func (b *Builder) Err() error {
	return b.err
}

// Build finalizes the register. Bits not covered by any field become holes.
// Every bit starts at its reset value and in sync with the device.
func (b *Builder) Build() (*Register, error) {
	if b.closed {
		return nil, ErrBuilderClosed
	}
	b.closed = true
	if b.err != nil {
		return nil, b.err
	}

	reg := b.reg
	reg.bits = make([]Bit, reg.size)
	for p := range reg.bits {
		reg.bits[p] = newHole()
	}

	for _, name := range reg.fieldOrder {
		fld := reg.fields[name]
		for i, rng := range fld.ranges {
			for k := 0; k < rng.Width; k++ {
				reg.bits[rng.Offset+k] = Bit{
					reset:  fld.resets[i].stateAt(k),
					access: fld.accesses[i],
				}
			}
		}
		fld.BitCollection = newCollection(reg, fieldPositions(fld.ranges))
	}

	for p := range reg.bits {
		bit := &reg.bits[p]
		bit.Reset()
		bit.UpdateDeviceState()
	}

	whole := make([]int, reg.size)
	for p := range whole {
		whole[p] = p
	}
	reg.BitCollection = newCollection(reg, whole)
	reg.BitCollection.whole = true
	return reg, nil
}

// SimpleReg builds a register with a single field named "data" covering
// every bit.
func SimpleReg(name string, address uint64, size int, reset uint64, opts ...RegisterOption) (*Register, error) {
	b := OpenRegister(name, address, append([]RegisterOption{WithSize(size)}, opts...)...)
	if err := b.Field("data", 0, Width(size), ResetTo(reset)); err != nil {
		return nil, err
	}
	return b.Build()
}
