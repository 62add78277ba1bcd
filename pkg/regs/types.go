package regs

import (
	"fmt"
	"strings"
)

// BitOrder selects how bit positions are numbered when fields are declared
// and when a view is indexed. Storage is always LSB0.
type BitOrder uint8

const (
	// LSB0 numbers bit 0 as the least significant bit.
	LSB0 BitOrder = iota
	// MSB0 numbers bit 0 as the most significant bit.
	MSB0
)

func (o BitOrder) String() string {
	if o == MSB0 {
		return "msb0"
	}
	return "lsb0"
}

// ParseBitOrder accepts "lsb0" or "msb0" in any case.
func ParseBitOrder(s string) (BitOrder, error) {
	switch strings.ToLower(s) {
	case "lsb0", "":
		return LSB0, nil
	case "msb0":
		return MSB0, nil
	}
	return LSB0, fmt.Errorf("regs: %q is not a valid bit order", s)
}

// ResetState is the reset value of a single bit.
type ResetState uint8

const (
	// ResetNone marks a bit that was never given a reset; it resets to 0.
	ResetNone ResetState = iota
	ResetZero
	ResetOne
	// ResetUndefined resets to an unknown value.
	ResetUndefined
	// ResetMemory resets to a value held in external memory. The value is
	// not modeled and packs as 0.
	ResetMemory
)

// Known reports whether the reset produces a determinate bit value.
func (r ResetState) Known() bool {
	return r != ResetUndefined && r != ResetMemory
}

// Bool returns the concrete reset value, 0 for anything but ResetOne.
func (r ResetState) Bool() bool {
	return r == ResetOne
}

func (r ResetState) String() string {
	switch r {
	case ResetZero:
		return "0"
	case ResetOne:
		return "1"
	case ResetUndefined:
		return "undefined"
	case ResetMemory:
		return "memory"
	}
	return "none"
}

// ResetKind distinguishes a concrete field reset from the symbolic ones.
type ResetKind uint8

const (
	ResetConcrete ResetKind = iota
	ResetKindUndefined
	ResetKindMemory
)

// Reset is the reset value declared for one field range.
type Reset struct {
	Kind  ResetKind
	Value uint64
}

// stateAt returns the reset state for bit i of the declared range.
func (r Reset) stateAt(i int) ResetState {
	switch r.Kind {
	case ResetKindUndefined:
		return ResetUndefined
	case ResetKindMemory:
		return ResetMemory
	}
	if (r.Value>>uint(i))&1 == 1 {
		return ResetOne
	}
	return ResetZero
}

// AccessType describes how software may access a field.
type AccessType uint8

const (
	RW AccessType = iota // Read-write
	RO                   // Read-only
	WO                   // Write-only
	RC                   // Read-only, clear on read
	W1C                  // Write 1 to clear
	W1S                  // Write 1 to set
	W0C                  // Write 0 to clear
	WORZ                 // Write-only, reads zero
	DC                   // Read-write, not checked
	Unimplemented
)

var accessNames = map[AccessType]string{
	RW:            "RW",
	RO:            "RO",
	WO:            "WO",
	RC:            "RC",
	W1C:           "W1C",
	W1S:           "W1S",
	W0C:           "W0C",
	WORZ:          "WORZ",
	DC:            "DC",
	Unimplemented: "Unimplemented",
}

func (a AccessType) String() string {
	if name, ok := accessNames[a]; ok {
		return name
	}
	return fmt.Sprintf("AccessType(%d)", a)
}

// ParseAccess converts an access code such as "rw" or "W1C".
func ParseAccess(s string) (AccessType, error) {
	if s == "" {
		return RW, nil
	}
	for a, name := range accessNames {
		if strings.EqualFold(name, s) {
			return a, nil
		}
	}
	return RW, fmt.Errorf("regs: %q is not a valid access type", s)
}

// IsReadable reports whether a read returns the stored value.
func (a AccessType) IsReadable() bool {
	return a != WO && a != WORZ && a != Unimplemented
}

// IsWritable reports whether a write can change the stored value.
func (a AccessType) IsWritable() bool {
	return a != RO && a != RC && a != Unimplemented
}
