package regdef

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// File is one register definition file.
type File struct {
	Device string  `( KwDevice @Ident Semicolon )?`
	Decls  []*Decl `@@*`
}

// Decl is a register declaration with its leading doc comments.
// Example:
//
//	/// Timer control
//	reg tcu @ 0x24 size 8 { field en [0] reset 1; }
type Decl struct {
	Doc    []string    `@DocComment*`
	Reg    *RegDecl    `( @@`
	Simple *SimpleDecl `| @@ )`
}

// RegDecl declares a register and its fields.
type RegDecl struct {
	Pos lexer.Position

	Name    string       `KwReg @Ident`
	Address Number       `At @Number`
	Size    *Number      `( KwSize @Number )?`
	Order   string       `@( KwMsb0 | KwLsb0 )?`
	Fields  []*FieldDecl `LBrace @@* RBrace`
}

// SimpleDecl declares a register holding one full width field named data.
// Example: simplereg data0 @ 0x100 size 16 reset 0xFFFF;
type SimpleDecl struct {
	Pos lexer.Position

	Name    string  `KwSimpleReg @Ident`
	Address Number  `At @Number`
	Size    *Number `( KwSize @Number )?`
	Reset   *Number `( KwReset @Number )? Semicolon`
}

// FieldDecl declares one range of a field. Repeating a name inside the same
// register continues a split field.
// Example: field mike [6:4] reset 0b101 access ro;
type FieldDecl struct {
	Pos lexer.Position

	Doc    []string   `@DocComment*`
	Name   string     `KwField @Ident`
	Hi     Number     `LBracket @Number`
	Lo     *Number    `( Colon @Number )? RBracket`
	Reset  *ResetSpec `( KwReset @@ )?`
	Access string     `( KwAccess @Ident )? Semicolon`
}

// ResetSpec is a concrete or symbolic reset value.
type ResetSpec struct {
	Undefined bool    `  @KwUndefined`
	Memory    bool    `| @KwMemory`
	Value     *Number `| @Number`
}

// Number is an unsigned literal in decimal, 0x hex or 0b binary notation.
type Number uint64

// Capture implements participle.Capture.
func (n *Number) Capture(values []string) error {
	v, err := strconv.ParseUint(values[0], 0, 64)
	if err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

// Bounds returns the low offset and width of the bracketed range.
func (f *FieldDecl) Bounds() (offset, width int) {
	hi, lo := int(f.Hi), int(f.Hi)
	if f.Lo != nil {
		lo = int(*f.Lo)
	}
	if lo > hi {
		hi, lo = lo, hi
	}
	return lo, hi - lo + 1
}

// docText joins doc comment lines without their /// markers.
func docText(lines []string) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimPrefix(l, "///")
		out = append(out, strings.TrimSpace(l))
	}
	return strings.Join(out, "\n")
}
