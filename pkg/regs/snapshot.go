package regs

import "fmt"

type snapshot struct {
	bits    []Bit
	overlay *string
}

// Snapshot stores the state of the bits in the view under name. Bits
// outside the view keep whatever an earlier snapshot of the same name held.
func (bc *BitCollection) Snapshot(name string) *BitCollection {
	r := bc.reg
	if r.snapshots == nil {
		r.snapshots = make(map[string]*snapshot)
	}
	snap, ok := r.snapshots[name]
	if !ok {
		snap = &snapshot{bits: append([]Bit(nil), r.bits...)}
		r.snapshots[name] = snap
	}
	for _, p := range bc.pos {
		snap.bits[p] = r.bits[p]
	}
	if bc.whole {
		snap.overlay = r.overlay
	}
	return bc
}

func (bc *BitCollection) lookupSnapshot(name string) (*snapshot, error) {
	snap, ok := bc.reg.snapshots[name]
	if !ok {
		return nil, fmt.Errorf("%w %q on %s", ErrNoSnapshot, name, bc.reg.Name)
	}
	return snap, nil
}

// IsChanged reports whether any bit differs from the named snapshot.
func (bc *BitCollection) IsChanged(name string) (bool, error) {
	snap, err := bc.lookupSnapshot(name)
	if err != nil {
		return false, err
	}
	for _, p := range bc.pos {
		if !bc.reg.bits[p].sameState(&snap.bits[p]) {
			return true, nil
		}
	}
	return false, nil
}

// Rollback restores the bits in the view from the named snapshot.
func (bc *BitCollection) Rollback(name string) error {
	snap, err := bc.lookupSnapshot(name)
	if err != nil {
		return err
	}
	for _, p := range bc.pos {
		bc.reg.bits[p].copyState(&snap.bits[p])
	}
	if bc.whole {
		bc.reg.overlay = snap.overlay
	}
	return nil
}
