package regs

import (
	"fmt"
	"strings"
)

// Status string symbols, one per bit before nibble compression.
const (
	symOverlay   = 'V'
	symCapture   = 'S'
	symDontCare  = 'X'
	symUndefined = '?'
)

// StatusStr renders the view as a compact per-nibble summary for op "write"
// (what will be driven) or "read" (what will be expected).
//
// Each bit gets one symbol. For write: V if overlaid, ? if the value is
// undefined, else 0 or 1. For read: S if captured, else for bits marked to
// be read V if overlaid, ? if undefined, else 0 or 1, and X for bits not
// marked. Nibbles of plain 0/1 print as one hex digit, full nibbles of one
// repeated symbol print as that symbol, and anything else prints as
// [bits] in lower case, most significant first.
func (bc *BitCollection) StatusStr(op string) (string, error) {
	var sym func(*Bit) byte
	switch op {
	case "write":
		sym = writeSymbol
	case "read":
		sym = readSymbol
	default:
		return "", fmt.Errorf("%w: %q", ErrBadOperation, op)
	}

	syms := make([]byte, 0, len(bc.pos))
	for b := range bc.ShiftOutLeft() {
		syms = append(syms, sym(b))
	}
	return RenderStatus(syms), nil
}

func valueSymbol(b *Bit) byte {
	switch {
	case !b.known:
		return symUndefined
	case b.value:
		return '1'
	}
	return '0'
}

func writeSymbol(b *Bit) byte {
	if b.HasOverlay() {
		return symOverlay
	}
	return valueSymbol(b)
}

func readSymbol(b *Bit) byte {
	switch {
	case b.toBeCapture:
		return symCapture
	case !b.toBeRead:
		return symDontCare
	case b.HasOverlay():
		return symOverlay
	}
	return valueSymbol(b)
}

// RenderStatus compresses per-bit symbols, most significant first, into
// nibble groups. A partial nibble sits at the most significant end.
func RenderStatus(syms []byte) string {
	var sb strings.Builder
	first := len(syms) % 4
	if first == 0 {
		first = 4
	}
	for start, end := 0, first; start < len(syms); start, end = end, end+4 {
		sb.WriteString(renderNibble(syms[start:min(end, len(syms))]))
	}
	return sb.String()
}

func renderNibble(n []byte) string {
	plain := true
	same := true
	for _, c := range n {
		if c != '0' && c != '1' {
			plain = false
		}
		if c != n[0] {
			same = false
		}
	}
	if plain {
		var v int
		for _, c := range n {
			v = v<<1 | int(c-'0')
		}
		return fmt.Sprintf("%X", v)
	}
	if same && len(n) == 4 {
		return string(n[0])
	}
	return "[" + strings.ToLower(string(n)) + "]"
}
