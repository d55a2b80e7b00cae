package kernel

import "fmt"

// Identity exchange.
//
// Every handle routes through a bag master, so swapping the masters' cell
// pointers redirects all outstanding handles to both objects at once. The
// objects trade contents, tags, flags and regions; the handles themselves
// never change.

// IsIdentical reports whether two handles denote the same object. For bag
// handles this is master identity, which survives identity exchange.
func IsIdentical(a, b Value) bool {
	return a == b
}

// SwitchObj exchanges the identities of two objects. The caller must hold
// at least one of the two regions; a second call with the same arguments
// undoes the first.
func (k *Kernel) SwitchObj(a, b Value) error {
	ba, ok := BagOf(a)
	if !ok {
		return fmt.Errorf("SwitchObj: %s: %w", k.TnumOf(a).Name(), ErrImmediate)
	}
	bb, ok := BagOf(b)
	if !ok {
		return fmt.Errorf("SwitchObj: %s: %w", k.TnumOf(b).Name(), ErrImmediate)
	}
	if !ba.Region().writableByCaller() && !bb.Region().writableByCaller() {
		return &RegionError{Op: "SwitchObj", Region: ba.Region()}
	}
	k.switchBags(ba, bb)
	return nil
}

// ForceSwitchObj exchanges identities without any region check. It exists
// for checkpoint restoration, where the restoring goroutine legitimately
// touches regions it does not hold.
func (k *Kernel) ForceSwitchObj(a, b Value) error {
	ba, ok := BagOf(a)
	if !ok {
		return fmt.Errorf("ForceSwitchObj: %s: %w", k.TnumOf(a).Name(), ErrImmediate)
	}
	bb, ok := BagOf(b)
	if !ok {
		return fmt.Errorf("ForceSwitchObj: %s: %w", k.TnumOf(b).Name(), ErrImmediate)
	}
	k.switchBags(ba, bb)
	return nil
}

func (k *Kernel) switchBags(a, b *Bag) {
	k.bagsMu.Lock()
	a.c, b.c = b.c, a.c
	k.bagsMu.Unlock()
	k.changed.Add(2)
}

// CloneObj replaces dst's contents with a copy of src, in place: every
// handle to dst sees the new contents. A mutable src is deep-copied first
// so dst shares no mutable state with it; an immutable src is copied one
// level, sharing its subobjects.
//
// Cloning a mutable src that contains references to itself is not
// supported: those references would point at the intermediate copy, whose
// master is released before returning.
func (k *Kernel) CloneObj(dst, src Value) error {
	db, ok := BagOf(dst)
	if !ok {
		return fmt.Errorf("CloneObj: %s: %w", k.TnumOf(dst).Name(), ErrImmediate)
	}
	if _, ok := BagOf(src); !ok {
		return fmt.Errorf("CloneObj: %s: %w", k.TnumOf(src).Name(), ErrImmediate)
	}
	if err := k.CheckWrite("CloneObj", dst); err != nil {
		return err
	}

	from := src
	if k.IsMutable(src) {
		cp, err := k.CopyObj(src, true)
		if err != nil {
			return err
		}
		from = cp
	}
	sb := mustBag(from)

	k.ResizeBag(dst, sb.NumSlots(), sb.RawLen())
	k.RetypeBag(dst, sb.Tnum())
	for i := 0; i < sb.NumSlots(); i++ {
		db.SetSlot(i, sb.Slot(i))
	}
	copy(db.Raw(), sb.Raw())
	db.c.flags = sb.c.flags
	if from != src {
		// The intermediate copy's contents now live in dst; release its
		// master so the sweep can reclaim it.
		k.ReleaseBag(from)
	}
	k.Changed(dst)
	return nil
}
