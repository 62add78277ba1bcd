package regdef

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser reads register definition files.
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser creates a new register definition parser.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(Lexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("regdef: failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses a definition file from a reader.
func (p *Parser) Parse(name string, r io.Reader) (*File, error) {
	file, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("regdef: parse error: %w", err)
	}
	return file, nil
}

// ParseString parses a definition file held in a string.
func (p *Parser) ParseString(name, input string) (*File, error) {
	file, err := p.parser.ParseString(name, input)
	if err != nil {
		return nil, fmt.Errorf("regdef: parse error: %w", err)
	}
	return file, nil
}

// ParseFile parses a definition file from disk.
func (p *Parser) ParseFile(filename string) (*File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("regdef: failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(filename, file)
}
