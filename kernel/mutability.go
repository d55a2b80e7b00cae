package kernel

// IsMutable reports whether an object may still change.
func (k *Kernel) IsMutable(obj Value) bool {
	return k.isMutableTab[k.TnumOf(obj)](k, obj)
}

// IsCopyable reports whether CopyObj can produce a fresh object for obj.
// Everything mutable must be copyable; the reverse does not hold.
func (k *Kernel) IsCopyable(obj Value) bool {
	return k.isCopyableTab[k.TnumOf(obj)](k, obj)
}

// ShallowCopy returns a mutable one-level copy of obj. Subobjects are
// shared with the original.
func (k *Kernel) ShallowCopy(obj Value) Value {
	return k.shallowCopyTab[k.TnumOf(obj)](k, obj)
}

// ---------------------------------------------------------------------------
// Bodies
// ---------------------------------------------------------------------------

func isMutableNot(k *Kernel, obj Value) bool { return false }

func isMutableFlag(k *Kernel, obj Value) bool {
	return mustBag(obj).IsMutableFlag()
}

func isMutableDelegate(k *Kernel, obj Value) bool {
	return k.mustDelegate(obj).IsMutable(k, obj)
}

func isCopyableNot(k *Kernel, obj Value) bool { return false }
func isCopyableYes(k *Kernel, obj Value) bool { return true }

func isCopyableDelegate(k *Kernel, obj Value) bool {
	return k.mustDelegate(obj).IsCopyable(k, obj)
}

// shallowCopyConstant returns the object itself. Constants are freely
// shareable, so a copy buys nothing.
func shallowCopyConstant(k *Kernel, obj Value) Value {
	return obj
}

// shallowCopyDefault duplicates the bag one level deep. The copy is
// allocated in the caller's view of the original's region and starts
// mutable regardless of the original's flag.
func shallowCopyDefault(k *Kernel, obj Value) Value {
	b := mustBag(obj)
	cp := k.newBagLike(b)
	cb := mustBag(cp)
	for i := 0; i < b.NumSlots(); i++ {
		cb.SetSlot(i, b.Slot(i))
	}
	copy(cb.Raw(), b.Raw())
	return cp
}

func shallowCopyDelegate(k *Kernel, obj Value) Value {
	return k.mustDelegate(obj).ShallowCopy(k, obj)
}
