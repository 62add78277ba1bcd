// Package regscript builds register maps from Starlark scripts.
//
// A script declares registers with three builtins:
//
//	Device("timer")
//	Reg("tcu", 0x24, size=8, bit_order="lsb0", description="", fields=[
//	    Field("peter", offset=7, reset=0),
//	    Field("mike", offset=4, width=3, access="ro"),
//	    Field("peter", offset=2, width=2, reset=3),
//	    Field("peter", offset=0, reset="undefined"),
//	])
//	SimpleReg("data0", 0x100, size=16, reset=0xFFFF)
//
// Repeating a field name continues a split field; earlier ranges are more
// significant. A reset is an int, "undefined" or "memory".
package regscript

import (
	"errors"
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/OpenTraceLab/OpenTraceRegs/internal/translate"
	"github.com/OpenTraceLab/OpenTraceRegs/pkg/device"
	"github.com/OpenTraceLab/OpenTraceRegs/pkg/regs"
)

var ErrBadReset = errors.New(translate.From("regscript: reset must be an int, \"undefined\" or \"memory\""))

// Exec runs a script against dev. src follows starlark.ExecFileOptions:
// nil reads filename, otherwise a string, []byte or io.Reader.
func Exec(dev *device.Device, filename string, src any) error {
	thread := starlark.Thread{Name: filename}
	opts := syntax.FileOptions{TopLevelControl: true}
	_, err := starlark.ExecFileOptions(&opts, &thread, filename, src, Builtins(dev))
	if err != nil {
		return fmt.Errorf("regscript: %w", err)
	}
	return nil
}

// LoadFile runs filename against a new device.
func LoadFile(filename string, captureDescriptions bool) (*device.Device, error) {
	dev := device.New("")
	dev.CaptureDescriptions(captureDescriptions)
	if err := Exec(dev, filename, nil); err != nil {
		return nil, err
	}
	return dev, nil
}

// Builtins returns the predeclared names bound to dev.
func Builtins(dev *device.Device) starlark.StringDict {
	return starlark.StringDict{
		"Device":    starlark.NewBuiltin("Device", deviceBuiltin(dev)),
		"Reg":       starlark.NewBuiltin("Reg", regBuiltin(dev)),
		"SimpleReg": starlark.NewBuiltin("SimpleReg", simpleRegBuiltin(dev)),
		"Field":     starlark.NewBuiltin("Field", fieldBuiltin),
	}
}

type builtinFunc = func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error)

func deviceBuiltin(dev *device.Device) builtinFunc {
	return func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name); err != nil {
			return nil, err
		}
		dev.Name = name
		return starlark.None, nil
	}
}

func regBuiltin(dev *device.Device) builtinFunc {
	return func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			name, order, desc string
			address           starlark.Int
			size              = 32
			fields            starlark.Iterable
		)
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
			"name", &name, "address", &address,
			"size?", &size, "bit_order?", &order, "description?", &desc, "fields?", &fields); err != nil {
			return nil, err
		}
		addr, ok := address.Uint64()
		if !ok {
			return nil, fmt.Errorf("%s: address %v out of range", fn.Name(), address)
		}
		bitOrder, err := regs.ParseBitOrder(order)
		if err != nil {
			return nil, err
		}

		var decls []*fieldValue
		if fields != nil {
			it := fields.Iterate()
			defer it.Done()
			var v starlark.Value
			for it.Next(&v) {
				fv, ok := v.(*fieldValue)
				if !ok {
					return nil, fmt.Errorf("%s: fields must hold Field values, got %s", fn.Name(), v.Type())
				}
				decls = append(decls, fv)
			}
		}

		opts := []regs.RegisterOption{regs.WithSize(size), regs.WithBitOrder(bitOrder)}
		if desc != "" {
			opts = append(opts, regs.WithDescription(desc))
		}
		_, err = dev.AddReg(name, addr, func(b *regs.Builder) error {
			for _, fv := range decls {
				if err := b.Field(fv.name, fv.offset, fv.opts...); err != nil {
					return err
				}
			}
			return nil
		}, opts...)
		if err != nil {
			return nil, err
		}
		return starlark.None, nil
	}
}

func simpleRegBuiltin(dev *device.Device) builtinFunc {
	return func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			name, desc     string
			address, reset starlark.Int
			size           = 32
		)
		reset = starlark.MakeInt(0)
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
			"name", &name, "address", &address,
			"size?", &size, "reset?", &reset, "description?", &desc); err != nil {
			return nil, err
		}
		addr, ok := address.Uint64()
		if !ok {
			return nil, fmt.Errorf("%s: address %v out of range", fn.Name(), address)
		}
		value, ok := reset.Uint64()
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrBadReset, reset)
		}
		var opts []regs.RegisterOption
		if desc != "" {
			opts = append(opts, regs.WithDescription(desc))
		}
		if _, err := dev.AddSimpleReg(name, addr, size, value, opts...); err != nil {
			return nil, err
		}
		return starlark.None, nil
	}
}

func fieldBuiltin(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		name, access, desc string
		offset             int
		width              = 1
		reset              starlark.Value
	)
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
		"name", &name, "offset", &offset,
		"width?", &width, "reset?", &reset, "access?", &access, "description?", &desc); err != nil {
		return nil, err
	}

	fv := &fieldValue{name: name, offset: offset, width: width, opts: []regs.FieldOption{regs.Width(width)}}
	resetOpt, err := resetOption(reset)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", fn.Name(), name, err)
	}
	if resetOpt != nil {
		fv.opts = append(fv.opts, resetOpt)
	}
	at, err := regs.ParseAccess(access)
	if err != nil {
		return nil, err
	}
	fv.opts = append(fv.opts, regs.Access(at))
	if desc != "" {
		fv.opts = append(fv.opts, regs.Describe(desc))
	}
	return fv, nil
}

func resetOption(v starlark.Value) (regs.FieldOption, error) {
	switch v := v.(type) {
	case nil, starlark.NoneType:
		return nil, nil
	case starlark.Int:
		u, ok := v.Uint64()
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrBadReset, v)
		}
		return regs.ResetTo(u), nil
	case starlark.String:
		switch string(v) {
		case "undefined":
			return regs.ResetToUndefined(), nil
		case "memory":
			return regs.ResetFromMemory(), nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrBadReset, v)
}
