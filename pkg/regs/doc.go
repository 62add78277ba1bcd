// Package regs models device registers at the bit level for test pattern
// generation.
//
// A Register owns a fixed number of bits. Fields are named views over one or
// more bit ranges of the register, and a BitCollection is any ordered view
// over its bits: the whole register, a field, a slice, or an arbitrary
// subset. Views never copy bits, so a write through one view is visible
// through all of them.
//
// # Declaring registers
//
//	b := regs.OpenRegister("tcu", 0x24, regs.WithSize(8))
//	b.Field("peter", 7)
//	b.Field("mike", 4, regs.Width(3))
//	b.Field("peter", 2, regs.Width(2), regs.ResetTo(0b11))
//	b.Field("pan", 1)
//	b.Field("peter", 0)
//	reg, err := b.Build()
//
// A field declared more than once is split. Its value is the concatenation
// of its ranges in declaration order, the first range being the most
// significant. In the example peter reads 0b0110.
//
// Bit positions not covered by a field are holes. Holes always read 0 and
// silently ignore writes, read, capture and overlay.
//
// # Flags
//
// Besides its value each bit tracks whether it is to be read or captured by
// the next pattern transaction, an optional overlay label that replaces the
// value in generated patterns, and whether the value differs from the last
// state synchronized with the device. The pattern generator consumes these
// through ShiftOutLeft/ShiftOutRight and the *Enables masks.
//
// # Status strings
//
// StatusStr renders a view nibble by nibble for debug output, for example
// "A[1v10]V5" for a write with overlays or "XX5X" for a read of bits 7:4.
//
// # Concurrency
//
// Nothing here locks. A register shared between goroutines needs external
// synchronization.
package regs
