package kernel

// MakeImmutable freezes obj in place: every handle to it sees the frozen
// object. Freezing is one level deep; subobjects keep their own flags.
// Already-immutable objects and immediates pass through unchanged.
func (k *Kernel) MakeImmutable(obj Value) error {
	if !k.IsMutable(obj) {
		return nil
	}
	if err := k.CheckWrite("MakeImmutable", obj); err != nil {
		return err
	}
	k.makeImmutableTab[k.TnumOf(obj)](k, obj)
	return nil
}

func makeImmutablePlain(k *Kernel, obj Value) {
	mustBag(obj).clearMutable()
}

// Component and positional objects notify the evaluator after freezing so
// it can update type bookkeeping tied to mutability.
func makeImmutableComObj(k *Kernel, obj Value) {
	mustBag(obj).clearMutable()
	if k.delegate != nil {
		k.delegate.PostMakeImmutable(k, obj)
	}
}

func makeImmutablePosObj(k *Kernel, obj Value) {
	mustBag(obj).clearMutable()
	if k.delegate != nil {
		k.delegate.PostMakeImmutable(k, obj)
	}
}

func makeImmutableDatObj(k *Kernel, obj Value) {
	mustBag(obj).clearMutable()
}
