package regs

import (
	"errors"

	"github.com/OpenTraceLab/OpenTraceRegs/internal/translate"
)

var f = translate.From

var (
	// Runtime errors
	ErrOverflow       = errors.New(f("regs: value wider than collection"))
	ErrLengthMismatch = errors.New(f("regs: collection lengths differ"))
	ErrBadOperation   = errors.New(f("regs: operation must be \"read\" or \"write\""))
	ErrNoSnapshot     = errors.New(f("regs: no such snapshot"))
	ErrNoField        = errors.New(f("regs: no matching field"))

	// Construction errors
	ErrOverlap       = errors.New(f("regs: overlapping field"))
	ErrOutOfRange    = errors.New(f("regs: bit position outside register"))
	ErrBadWidth      = errors.New(f("regs: field width must be positive"))
	ErrBadSize       = errors.New(f("regs: register size must be 1..64"))
	ErrBuilderClosed = errors.New(f("regs: builder already closed"))
	ErrBadReset      = errors.New(f("regs: reset value wider than field"))
)

// ErrField wraps a construction error with the field declaration that
// caused it.
type ErrField struct {
	Register string
	Field    string
	Offset   int
	Width    int
	Err      error
}

func (err ErrField) Error() string {
	return f("register %v field %v [offset %d width %d]: %v",
		err.Register, err.Field, err.Offset, err.Width, err.Err)
}

func (err ErrField) Unwrap() error {
	return err.Err
}

// ErrValue reports a value that does not fit the target collection.
type ErrValue struct {
	Value uint64
	Width int
}

func (err ErrValue) Error() string {
	return f("value 0x%x does not fit in %d bits", err.Value, err.Width)
}

func (err ErrValue) Unwrap() error {
	return ErrOverflow
}
