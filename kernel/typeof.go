package kernel

// Type access for the structural kinds. All three store their type
// descriptor in slot 0; they differ only in how the rest of the bag is laid
// out and in which tag a retype lands on.

// TypeOf returns the type descriptor of an object.
func (k *Kernel) TypeOf(obj Value) Value {
	return k.typeOfTab[k.TnumOf(obj)](k, obj)
}

// SetTypeObj replaces the type descriptor of an object in place.
func (k *Kernel) SetTypeObj(obj, typ Value) {
	k.setTypeTab[k.TnumOf(obj)](k, obj, typ)
}

func typeComObj(k *Kernel, obj Value) Value { return mustBag(obj).Slot(0) }
func typePosObj(k *Kernel, obj Value) Value { return mustBag(obj).Slot(0) }
func typeDatObj(k *Kernel, obj Value) Value { return mustBag(obj).Slot(0) }

func setTypeComObj(k *Kernel, obj, typ Value) {
	mustBag(obj).SetSlot(0, typ)
	k.Changed(obj)
}

func setTypePosObj(k *Kernel, obj, typ Value) {
	mustBag(obj).SetSlot(0, typ)
	k.Changed(obj)
}

func setTypeDatObj(k *Kernel, obj, typ Value) {
	mustBag(obj).SetSlot(0, typ)
	k.Changed(obj)
}

func typeDelegate(k *Kernel, obj Value) Value {
	return k.mustDelegate(obj).TypeOf(k, obj)
}

func setTypeDelegate(k *Kernel, obj, typ Value) {
	k.mustDelegate(obj).SetType(k, obj, typ)
}

// ---------------------------------------------------------------------------
// Structural promotion
// ---------------------------------------------------------------------------

// IsComObj reports whether obj is a component object.
func (k *Kernel) IsComObj(obj Value) bool {
	return k.TnumOf(obj) == TnumComObj
}

// IsPosObj reports whether obj is a positional object.
func (k *Kernel) IsPosObj(obj Value) bool {
	return k.TnumOf(obj) == TnumPosObj
}

// IsDatObj reports whether obj is a data object.
func (k *Kernel) IsDatObj(obj Value) bool {
	return k.TnumOf(obj) == TnumDatObj
}

// SetTypeComObj promotes a plain record into a component object with the
// given type descriptor. The record layout already matches: slot 0 is
// reserved for the descriptor, pairs follow.
func (k *Kernel) SetTypeComObj(obj, typ Value) error {
	if err := k.CheckWrite("SetTypeComObj", obj); err != nil {
		return err
	}
	t := k.TnumOf(obj)
	if t != TnumPlainRec && t != TnumComObj {
		kpanic("cannot promote a %s to a component object", t.Name())
	}
	b := mustBag(obj)
	b.SetSlot(0, typ)
	k.RetypeBag(obj, TnumComObj)
	k.Changed(obj)
	return nil
}

// SetTypePosObj promotes a plain list into a positional object. The list's
// length slot is replaced by the type descriptor; the elements become the
// positional slots.
func (k *Kernel) SetTypePosObj(obj, typ Value) error {
	if err := k.CheckWrite("SetTypePosObj", obj); err != nil {
		return err
	}
	t := k.TnumOf(obj)
	if t != TnumPlainList && t != TnumPosObj {
		kpanic("cannot promote a %s to a positional object", t.Name())
	}
	b := mustBag(obj)
	b.SetSlot(0, typ)
	k.RetypeBag(obj, TnumPosObj)
	k.Changed(obj)
	return nil
}

// SetTypeDatObj promotes a string or data object to a data object with the
// given type descriptor, keeping the raw payload.
func (k *Kernel) SetTypeDatObj(obj, typ Value) error {
	if err := k.CheckWrite("SetTypeDatObj", obj); err != nil {
		return err
	}
	t := k.TnumOf(obj)
	if t != TnumString && t != TnumDatObj {
		kpanic("cannot promote a %s to a data object", t.Name())
	}
	b := mustBag(obj)
	b.SetSlot(0, typ)
	k.RetypeBag(obj, TnumDatObj)
	k.Changed(obj)
	return nil
}

// LenPosObj returns the number of positional slots of a positional object.
func (k *Kernel) LenPosObj(obj Value) int {
	return mustBag(obj).NumSlots() - 1
}
