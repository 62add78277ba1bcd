package regscript

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/OpenTraceLab/OpenTraceRegs/pkg/regs"
)

// fieldValue is the Starlark value returned by Field. It only carries the
// declaration until Reg applies it.
type fieldValue struct {
	name   string
	offset int
	width  int
	opts   []regs.FieldOption
}

var _ starlark.HasAttrs = (*fieldValue)(nil)

func (f *fieldValue) String() string {
	return fmt.Sprintf("Field(%q, offset=%d, width=%d)", f.name, f.offset, f.width)
}

func (f *fieldValue) Type() string         { return "Field" }
func (f *fieldValue) Freeze()              {}
func (f *fieldValue) Truth() starlark.Bool { return starlark.True }

func (f *fieldValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: Field")
}

func (f *fieldValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "name":
		return starlark.String(f.name), nil
	case "offset":
		return starlark.MakeInt(f.offset), nil
	case "width":
		return starlark.MakeInt(f.width), nil
	}
	return nil, nil
}

func (f *fieldValue) AttrNames() []string {
	return []string{"name", "offset", "width"}
}
