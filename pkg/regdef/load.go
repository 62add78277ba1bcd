package regdef

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceRegs/pkg/device"
	"github.com/OpenTraceLab/OpenTraceRegs/pkg/regs"
)

// Populate adds every register declared in file to dev. Declarations are
// applied in file order and the first failing one stops the load.
func Populate(dev *device.Device, file *File) error {
	if file.Device != "" && dev.Name == "" {
		dev.Name = file.Device
	}
	for _, decl := range file.Decls {
		var err error
		switch {
		case decl.Reg != nil:
			err = addReg(dev, decl.Reg, docText(decl.Doc))
		case decl.Simple != nil:
			err = addSimpleReg(dev, decl.Simple, docText(decl.Doc))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadFile parses filename and adds its registers to a new device.
func LoadFile(filename string, captureDescriptions bool) (*device.Device, error) {
	parser, err := NewParser()
	if err != nil {
		return nil, err
	}
	file, err := parser.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	dev := device.New(file.Device)
	dev.CaptureDescriptions(captureDescriptions)
	if err := Populate(dev, file); err != nil {
		return nil, fmt.Errorf("regdef: %s: %w", filename, err)
	}
	return dev, nil
}

func addReg(dev *device.Device, decl *RegDecl, doc string) error {
	order, err := regs.ParseBitOrder(decl.Order)
	if err != nil {
		return fmt.Errorf("%s: %w", decl.Pos, err)
	}
	opts := []regs.RegisterOption{regs.WithBitOrder(order)}
	if decl.Size != nil {
		opts = append(opts, regs.WithSize(int(*decl.Size)))
	}
	if doc != "" {
		opts = append(opts, regs.WithDescription(doc))
	}

	_, err = dev.AddReg(decl.Name, uint64(decl.Address), func(b *regs.Builder) error {
		for _, fd := range decl.Fields {
			fopts, err := fieldOptions(fd)
			if err != nil {
				return fmt.Errorf("%s: %w", fd.Pos, err)
			}
			offset, _ := fd.Bounds()
			if err := b.Field(fd.Name, offset, fopts...); err != nil {
				return fmt.Errorf("%s: %w", fd.Pos, err)
			}
		}
		return nil
	}, opts...)
	if err != nil {
		return fmt.Errorf("%s: %w", decl.Pos, err)
	}
	return nil
}

func fieldOptions(fd *FieldDecl) ([]regs.FieldOption, error) {
	_, width := fd.Bounds()
	opts := []regs.FieldOption{regs.Width(width)}
	if rs := fd.Reset; rs != nil {
		switch {
		case rs.Undefined:
			opts = append(opts, regs.ResetToUndefined())
		case rs.Memory:
			opts = append(opts, regs.ResetFromMemory())
		case rs.Value != nil:
			opts = append(opts, regs.ResetTo(uint64(*rs.Value)))
		}
	}
	access, err := regs.ParseAccess(fd.Access)
	if err != nil {
		return nil, err
	}
	opts = append(opts, regs.Access(access))
	if doc := docText(fd.Doc); doc != "" {
		opts = append(opts, regs.Describe(doc))
	}
	return opts, nil
}

func addSimpleReg(dev *device.Device, decl *SimpleDecl, doc string) error {
	size := 32
	if decl.Size != nil {
		size = int(*decl.Size)
	}
	var reset uint64
	if decl.Reset != nil {
		reset = uint64(*decl.Reset)
	}
	var opts []regs.RegisterOption
	if doc != "" {
		opts = append(opts, regs.WithDescription(doc))
	}
	if _, err := dev.AddSimpleReg(decl.Name, uint64(decl.Address), size, reset, opts...); err != nil {
		return fmt.Errorf("%s: %w", decl.Pos, err)
	}
	return nil
}
