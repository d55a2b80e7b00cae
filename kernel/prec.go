package kernel

// Plain records. Slot 0 is reserved (it becomes the type descriptor if the
// record is promoted to a component object); (name, value) pairs follow,
// the name slot holding an interned record-name id as an immediate integer.

// NewPRec allocates an empty mutable plain record in the public region.
func (k *Kernel) NewPRec() Value {
	return k.NewPRecIn(nil)
}

// NewPRecIn allocates an empty plain record in the given region.
func (k *Kernel) NewPRecIn(r *Region) Value {
	return k.NewBagIn(r, TnumPlainRec, 1, 0)
}

// PRecLen returns the number of components.
func (k *Kernel) PRecLen(obj Value) int {
	return (mustBag(obj).NumSlots() - 1) / 2
}

// PRecNames returns the interned name ids of the components, in insertion
// order.
func (k *Kernel) PRecNames(obj Value) []int {
	b := mustBag(obj)
	names := make([]int, 0, (b.NumSlots()-1)/2)
	for i := 1; i+1 < b.NumSlots(); i += 2 {
		names = append(names, int(b.Slot(i).SmallInt()))
	}
	return names
}

// ElmPRec returns the value bound to the given name id.
func (k *Kernel) ElmPRec(obj Value, rnam int) (Value, bool) {
	b := mustBag(obj)
	for i := 1; i+1 < b.NumSlots(); i += 2 {
		if int(b.Slot(i).SmallInt()) == rnam {
			return b.Slot(i + 1), true
		}
	}
	return Nil, false
}

// AssPRec binds a value to a name, replacing an existing binding or
// appending a new pair.
func (k *Kernel) AssPRec(obj Value, rnam int, val Value) error {
	if err := k.CheckWrite("AssPRec", obj); err != nil {
		return err
	}
	b := mustBag(obj)
	if !b.IsMutableFlag() {
		return ErrImmutableWrite
	}
	for i := 1; i+1 < b.NumSlots(); i += 2 {
		if int(b.Slot(i).SmallInt()) == rnam {
			b.SetSlot(i+1, val)
			k.Changed(obj)
			return nil
		}
	}
	n := b.NumSlots()
	k.ResizeBag(obj, n+2, 0)
	b.SetSlot(n, FromSmallInt(int64(rnam)))
	b.SetSlot(n+1, val)
	k.Changed(obj)
	return nil
}

// ---------------------------------------------------------------------------
// Print bodies
// ---------------------------------------------------------------------------

func printPRec(p *Printer, obj Value) error {
	b := mustBag(obj)
	if b.NumSlots() <= 1 {
		return p.Printf("rec( )")
	}
	if err := p.Printf("rec( "); err != nil {
		return err
	}
	first := true
	for i := 1; i+1 < b.NumSlots(); i += 2 {
		if !first {
			if err := p.Printf(", "); err != nil {
				return err
			}
		}
		first = false
		rnam := int(b.Slot(i).SmallInt())
		if err := p.Printf("%s := ", p.k.RNamName(rnam)); err != nil {
			return err
		}
		p.SetIndex(rnam)
		if err := p.printSub(b.Slot(i + 1)); err != nil {
			return err
		}
	}
	return p.Printf(" )")
}

func printPathPRec(p *Printer, obj Value, index int) error {
	return p.Printf(".%s", p.k.RNamName(index))
}

func printPathComObj(p *Printer, obj Value, index int) error {
	return p.Printf("!.%s", p.k.RNamName(index))
}
