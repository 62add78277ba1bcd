package regs

// Range is one declared piece of a field in register storage numbering.
type Range struct {
	Offset int
	Width  int
}

// Field is a named view over one or more bit ranges of a Register. Its value
// is the concatenation of the ranges in declaration order, the first range
// supplying the most significant bits. Access is the access type of the
// first range; Accesses lists every range.
type Field struct {
	*BitCollection

	Name        string
	Description string
	Access      AccessType

	ranges   []Range
	resets   []Reset
	accesses []AccessType
}

// Ranges returns the declared ranges in declaration order.
func (f *Field) Ranges() []Range {
	return append([]Range(nil), f.ranges...)
}

// Resets returns the reset declared for each range.
func (f *Field) Resets() []Reset {
	return append([]Reset(nil), f.resets...)
}

// Accesses returns the access type declared for each range.
func (f *Field) Accesses() []AccessType {
	return append([]AccessType(nil), f.accesses...)
}

// IsSplit reports whether the field was declared as more than one range.
func (f *Field) IsSplit() bool {
	return len(f.ranges) > 1
}

// fieldPositions orders the bits of ranges least significant first.
func fieldPositions(ranges []Range) []int {
	var msbFirst []int
	for _, r := range ranges {
		for p := r.Offset + r.Width - 1; p >= r.Offset; p-- {
			msbFirst = append(msbFirst, p)
		}
	}
	pos := make([]int, len(msbFirst))
	for i, p := range msbFirst {
		pos[len(pos)-1-i] = p
	}
	return pos
}
