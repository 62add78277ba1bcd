package regdef

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes register definition files. Keywords are lower case.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	// Doc comments attach to the next declaration, plain comments are dropped
	{Name: "DocComment", Pattern: `///[^\n]*`},
	{Name: "Comment", Pattern: `//[^\n]*`},

	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// Declarations
	{Name: "KwDevice", Pattern: `\bdevice\b`},
	{Name: "KwSimpleReg", Pattern: `\bsimplereg\b`},
	{Name: "KwReg", Pattern: `\breg\b`},
	{Name: "KwField", Pattern: `\bfield\b`},

	// Attributes
	{Name: "KwSize", Pattern: `\bsize\b`},
	{Name: "KwReset", Pattern: `\breset\b`},
	{Name: "KwAccess", Pattern: `\baccess\b`},
	{Name: "KwMsb0", Pattern: `\bmsb0\b`},
	{Name: "KwLsb0", Pattern: `\blsb0\b`},
	{Name: "KwUndefined", Pattern: `\bundefined\b`},
	{Name: "KwMemory", Pattern: `\bmemory\b`},

	{Name: "At", Pattern: `@`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Semicolon", Pattern: `;`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},

	// Numbers: 0x hex, 0b binary, decimal; underscores separate digits
	{Name: "Number", Pattern: `0[xX][0-9a-fA-F_]+|0[bB][01_]+|[0-9][0-9_]*`},

	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})
