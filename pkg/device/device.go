// Package device groups registers into an addressable register map.
package device

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/OpenTraceLab/OpenTraceRegs/internal/translate"
	"github.com/OpenTraceLab/OpenTraceRegs/pkg/regs"
)

var (
	ErrNoRegister = errors.New(translate.From("device: no such register"))
	ErrDuplicate  = errors.New(translate.From("device: register already defined"))
)

// Device owns a set of registers keyed by name. It is safe for concurrent
// lookups; the registers themselves are not synchronized.
type Device struct {
	Name string

	mu           sync.RWMutex
	regs         map[string]*regs.Register
	order        []string
	descriptions bool
}

// New creates an empty device. Description capture starts enabled.
func New(name string) *Device {
	return &Device{
		Name:         name,
		regs:         make(map[string]*regs.Register),
		descriptions: true,
	}
}

// CaptureDescriptions controls whether descriptions supplied to AddReg are
// kept. Registers added while capture is off carry no descriptions.
func (d *Device) CaptureDescriptions(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.descriptions = on
}

// DescriptionsEnabled reports the current capture setting.
func (d *Device) DescriptionsEnabled() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.descriptions
}

// AddReg opens a register, lets declare add its fields and adds the built
// register to the device.
func (d *Device) AddReg(name string, address uint64, declare func(*regs.Builder) error, opts ...regs.RegisterOption) (*regs.Register, error) {
	b := regs.OpenRegister(name, address, opts...)
	if declare != nil {
		if err := declare(b); err != nil {
			return nil, fmt.Errorf("device: %s: %w", name, err)
		}
	}
	reg, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("device: %s: %w", name, err)
	}
	if err := d.Add(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// AddSimpleReg adds a register with a single field named "data".
func (d *Device) AddSimpleReg(name string, address uint64, size int, reset uint64, opts ...regs.RegisterOption) (*regs.Register, error) {
	reg, err := regs.SimpleReg(name, address, size, reset, opts...)
	if err != nil {
		return nil, fmt.Errorf("device: %s: %w", name, err)
	}
	if err := d.Add(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// Add adds an already built register.
func (d *Device) Add(reg *regs.Register) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.regs[reg.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, reg.Name)
	}
	if !d.descriptions {
		reg.Description = ""
		for _, fld := range reg.Fields() {
			fld.Description = ""
		}
	}
	d.regs[reg.Name] = reg
	d.order = append(d.order, reg.Name)
	return nil
}

// Reg returns the named register, or nil.
func (d *Device) Reg(name string) *regs.Register {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.regs[name]
}

// RegAt returns the first register added at address, or nil.
func (d *Device) RegAt(address uint64) *regs.Register {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, name := range d.order {
		if reg := d.regs[name]; reg.Address == address {
			return reg
		}
	}
	return nil
}

// Regs returns the registers in the order they were added.
func (d *Device) Regs() []*regs.Register {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*regs.Register, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.regs[name])
	}
	return out
}

// Len returns the number of registers.
func (d *Device) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}

// Lookup resolves "reg" or "reg.field" to a view of its bits.
func (d *Device) Lookup(path string) (*regs.BitCollection, error) {
	regName, fieldName, hasField := strings.Cut(path, ".")
	reg := d.Reg(regName)
	if reg == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRegister, regName)
	}
	if !hasField {
		return reg.BitCollection, nil
	}
	fld := reg.Field(fieldName)
	if fld == nil {
		return nil, fmt.Errorf("device: %s: %w %q", regName, regs.ErrNoField, fieldName)
	}
	return fld.BitCollection, nil
}

// ResetAll resets every register and reports whether any value changed.
func (d *Device) ResetAll() bool {
	changed := false
	for _, reg := range d.Regs() {
		if reg.Reset() {
			changed = true
		}
	}
	return changed
}

// UpdateRequired returns the registers whose value differs from the last
// synchronized device state.
func (d *Device) UpdateRequired() []*regs.Register {
	var out []*regs.Register
	for _, reg := range d.Regs() {
		if reg.IsUpdateRequired() {
			out = append(out, reg)
		}
	}
	return out
}

// Synchronize records every register value as written to the device.
func (d *Device) Synchronize() {
	for _, reg := range d.Regs() {
		reg.UpdateDeviceState()
	}
}
