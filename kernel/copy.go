package kernel

// Structural deep copy.
//
// Copying runs in two phases over the object graph. The copy phase walks the
// graph and, on first visit of each mutable bag, allocates the copy and
// plants a forwarding record in the original: slot 0 is overwritten with a
// two-element plain list holding the displaced slot value and the copy, and
// the bag's tag is offset by Copying. Revisits dispatch on the offset tag
// and return the forwarded copy, so shared subobjects stay shared and
// cycles terminate. The clean phase undoes the forwarding in the same
// order, restoring every original before the entry point returns.
//
// Immutable objects are returned identically: immutability is deep, so a
// copy would be indistinguishable from the original.

// CopyObj returns a structural copy of obj. With mut set, mutable
// subobjects stay mutable in the copy; without it, the copy is immutable
// throughout. The original graph is restored before returning.
func (k *Kernel) CopyObj(obj Value, mut bool) (Value, error) {
	if k.IsMutable(obj) {
		if !k.IsCopyable(obj) {
			kpanic("encountered mutable, non-copyable object of type '%s'", k.TnumOf(obj).Name())
		}
		if err := k.CheckWrite("CopyObj", obj); err != nil {
			return Nil, err
		}
	}
	cp := k.copyValue(obj, mut)
	k.cleanValue(obj)
	return cp, nil
}

// MutableCopy returns a deep copy preserving mutability.
func (k *Kernel) MutableCopy(obj Value) (Value, error) {
	return k.CopyObj(obj, true)
}

// ImmutableCopy returns a deep copy that is immutable throughout.
func (k *Kernel) ImmutableCopy(obj Value) (Value, error) {
	return k.CopyObj(obj, false)
}

func (k *Kernel) copyValue(obj Value, mut bool) Value {
	return k.copyTab[k.TnumOf(obj)](k, obj, mut)
}

func (k *Kernel) cleanValue(obj Value) {
	k.cleanTab[k.TnumOf(obj)](k, obj)
}

// ---------------------------------------------------------------------------
// Forwarding
// ---------------------------------------------------------------------------

// forward plants a forwarding record in b and returns the copy's bag. The
// record keeps the displaced slot 0 value at index 1 and the copy at
// index 2.
func (k *Kernel) forward(obj Value, mut bool) (orig *Bag, cb *Bag, cp Value) {
	orig = mustBag(obj)
	if orig.NumSlots() == 0 {
		kpanic("cannot copy slotless object of type '%s'", orig.Tnum().Name())
	}
	cp = k.newBagLike(orig)
	cb = mustBag(cp)
	if !mut {
		cb.clearMutable()
	}

	fwdv := k.NewPlist(2)
	fwd := mustBag(fwdv)
	fwd.SetSlot(1, orig.Slot(0))
	fwd.SetSlot(2, cp)
	orig.SetSlot(0, fwdv)
	k.RetypeBag(obj, orig.Tnum()+Copying)

	return orig, cb, cp
}

// unforward restores a forwarded bag and returns the displaced slot 0
// value. The forwarding record is released; nothing references it after
// the restore.
func (k *Kernel) unforward(obj Value) {
	b := mustBag(obj)
	fwdv := b.Slot(0)
	fwd := mustBag(fwdv)
	b.SetSlot(0, fwd.Slot(1))
	k.RetypeBag(obj, b.Tnum()-Copying)
	k.ReleaseBag(fwdv)
}

// ---------------------------------------------------------------------------
// Copy bodies
// ---------------------------------------------------------------------------

// copyConstant serves every constant tag: constants never change, so the
// object itself is its own copy.
func copyConstant(k *Kernel, obj Value, mut bool) Value {
	return obj
}

func cleanConstant(k *Kernel, obj Value) {}

// cleanNop serves bags reached by the clean phase after their forwarding
// has already been undone, and immutable bags that were never forwarded.
func cleanNop(k *Kernel, obj Value) {}

// copyObjCopying serves every offset tag: the bag was already copied on an
// earlier visit, so return the forwarded copy.
func copyObjCopying(k *Kernel, obj Value, mut bool) Value {
	fwd := mustBag(mustBag(obj).Slot(0))
	return fwd.Slot(2)
}

// copyPosObj copies a positional object or plain list. Slot 0 (descriptor
// or length) travels verbatim; the remaining slots are copied recursively.
func copyPosObj(k *Kernel, obj Value, mut bool) Value {
	b := mustBag(obj)
	if !b.IsMutableFlag() {
		return obj
	}
	_, cb, cp := k.forward(obj, mut)

	cb.SetSlot(0, mustBag(mustBag(obj).Slot(0)).Slot(1))
	for i := 1; i < b.NumSlots(); i++ {
		cb.SetSlot(i, k.copyValue(b.Slot(i), mut))
	}
	k.Changed(cp)
	return cp
}

func cleanPosObjCopying(k *Kernel, obj Value) {
	// Restore before recursing so revisits along a cycle hit the nop body.
	k.unforward(obj)
	b := mustBag(obj)
	for i := 1; i < b.NumSlots(); i++ {
		k.cleanValue(b.Slot(i))
	}
}

// copyComObj copies a component object or plain record. Slot 0 travels
// verbatim, component names are immediates copied as they are, and only
// the component values are copied recursively.
func copyComObj(k *Kernel, obj Value, mut bool) Value {
	b := mustBag(obj)
	if !b.IsMutableFlag() {
		return obj
	}
	_, cb, cp := k.forward(obj, mut)

	cb.SetSlot(0, mustBag(mustBag(obj).Slot(0)).Slot(1))
	for i := 1; i+1 < b.NumSlots(); i += 2 {
		cb.SetSlot(i, b.Slot(i))
		cb.SetSlot(i+1, k.copyValue(b.Slot(i+1), mut))
	}
	k.Changed(cp)
	return cp
}

func cleanComObjCopying(k *Kernel, obj Value) {
	k.unforward(obj)
	b := mustBag(obj)
	for i := 1; i+1 < b.NumSlots(); i += 2 {
		k.cleanValue(b.Slot(i + 1))
	}
}

// copyDatObj copies a data object or string: descriptor slot verbatim,
// payload bitwise, nothing to recurse into.
func copyDatObj(k *Kernel, obj Value, mut bool) Value {
	b := mustBag(obj)
	if !b.IsMutableFlag() {
		return obj
	}
	_, cb, cp := k.forward(obj, mut)

	cb.SetSlot(0, mustBag(mustBag(obj).Slot(0)).Slot(1))
	copy(cb.Raw(), b.Raw())
	k.Changed(cp)
	return cp
}

func cleanDatObjCopying(k *Kernel, obj Value) {
	k.unforward(obj)
}
