package kernel

// Plain lists. Slot 0 holds the length as an immediate integer; elements
// occupy slots 1 through length. A Nil element is a hole.

// NewPlist allocates a mutable plain list of length n with all elements
// unbound, in the public region.
func (k *Kernel) NewPlist(n int) Value {
	return k.NewPlistIn(nil, n)
}

// NewPlistIn allocates a plain list in the given region (nil means public).
func (k *Kernel) NewPlistIn(r *Region, n int) Value {
	v := k.NewBagIn(r, TnumPlainList, n+1, 0)
	mustBag(v).SetSlot(0, FromSmallInt(int64(n)))
	return v
}

// PlistLen returns the length of a plain list.
func (k *Kernel) PlistLen(obj Value) int {
	return int(mustBag(obj).Slot(0).SmallInt())
}

// PlistElm returns the element at position i (1-based), Nil for a hole.
func (k *Kernel) PlistElm(obj Value, i int) Value {
	return mustBag(obj).Slot(i)
}

// SetPlistElm assigns the element at position i (1-based).
func (k *Kernel) SetPlistElm(obj Value, i int, v Value) error {
	if err := k.CheckWrite("SetPlistElm", obj); err != nil {
		return err
	}
	b := mustBag(obj)
	if !b.IsMutableFlag() {
		return ErrImmutableWrite
	}
	b.SetSlot(i, v)
	k.Changed(obj)
	return nil
}

// ---------------------------------------------------------------------------
// Print bodies
// ---------------------------------------------------------------------------

func printPlist(p *Printer, obj Value) error {
	b := mustBag(obj)
	n := int(b.Slot(0).SmallInt())
	if n == 0 {
		return p.Printf("[ ]")
	}
	if err := p.Printf("[ "); err != nil {
		return err
	}
	for i := 1; i <= n; i++ {
		if i > 1 {
			if err := p.Printf(","); err != nil {
				return err
			}
		}
		v := b.Slot(i)
		if v.IsNil() {
			continue // hole
		}
		if i > 1 {
			if err := p.Printf(" "); err != nil {
				return err
			}
		}
		p.SetIndex(i)
		if err := p.printSub(v); err != nil {
			return err
		}
	}
	return p.Printf(" ]")
}

func printPathPlist(p *Printer, obj Value, index int) error {
	return p.Printf("[%d]", index)
}

func printPathPosObj(p *Printer, obj Value, index int) error {
	return p.Printf("![%d]", index)
}
