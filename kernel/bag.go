package kernel

// cell is the storage a bag master points at. Identity exchange swaps the
// cell pointer between two masters, so everything that must travel with the
// contents (tag, flags, slots, payload, region) lives here.
type cell struct {
	tnum   Tnum
	flags  uint8
	region *Region
	slots  []Value // handle-valued slots; slot 0 holds the descriptor for structural kinds
	raw    []byte  // uninterpreted payload for data-shaped bags
}

const flagImmutable uint8 = 1 << 0

// Bag is the master reference for a heap object. Handles (Values) carry a
// pointer to the master, never to the cell, so that SwitchObj can redirect
// every outstanding handle at once.
type Bag struct {
	// c is written only under the kernel's registry lock (identity
	// exchange swaps it, ReleaseBag severs it); the sweep goroutine reads
	// it concurrently while scanning the registry.
	c *cell
}

// ---------------------------------------------------------------------------
// Allocation
// ---------------------------------------------------------------------------

// NewBag allocates a bag with the given tag, slot count and payload size in
// the public region. All slots are initialized to Nil. Bags in the record,
// list and external ranges need at least one slot: slot 0 carries the
// length or descriptor and hosts the copying mark mid-copy.
func (k *Kernel) NewBag(t Tnum, nslots, nraw int) Value {
	return k.NewBagIn(nil, t, nslots, nraw)
}

// NewBagIn allocates a bag in the given region (nil means public).
func (k *Kernel) NewBagIn(r *Region, t Tnum, nslots, nraw int) Value {
	if r == nil {
		r = k.public
	}
	c := &cell{tnum: t, region: r}
	if nslots > 0 {
		c.slots = make([]Value, nslots)
		for i := range c.slots {
			c.slots[i] = Nil
		}
	}
	if nraw > 0 {
		c.raw = make([]byte, nraw)
	}
	b := &Bag{c: c}

	// Pin the master so the Go collector cannot reclaim it while handles
	// to it circulate as NaN-boxed integers.
	k.bagsMu.Lock()
	k.bags[b] = struct{}{}
	k.bagsMu.Unlock()

	return FromBag(b)
}

// newBagLike allocates a bag with obj's tag, sizes and region.
func (k *Kernel) newBagLike(b *Bag) Value {
	return k.NewBagIn(b.Region(), b.Tnum(), b.NumSlots(), b.RawLen())
}

// RetypeBag changes the type tag of a bag in place.
func (k *Kernel) RetypeBag(obj Value, t Tnum) {
	mustBag(obj).c.tnum = t
}

// ResizeBag grows or shrinks a bag's slot and payload storage. Surviving
// slots keep their values; new slots are Nil.
func (k *Kernel) ResizeBag(obj Value, nslots, nraw int) {
	c := mustBag(obj).c
	slots := make([]Value, nslots)
	n := copy(slots, c.slots)
	for i := n; i < nslots; i++ {
		slots[i] = Nil
	}
	raw := make([]byte, nraw)
	copy(raw, c.raw)
	c.slots = slots
	c.raw = raw
}

// Changed records that obj's references changed. This is the hook a
// generational or incremental collector uses to track old-to-new edges.
func (k *Kernel) Changed(obj Value) {
	if obj.IsBag() {
		k.changed.Add(1)
	}
}

// ChangedCount returns the number of reference-change notifications seen.
func (k *Kernel) ChangedCount() uint64 {
	return k.changed.Load()
}

// ReleaseBag severs a bag from its storage and queues the master for the
// next registry sweep. The caller asserts no live handle will touch it.
func (k *Kernel) ReleaseBag(obj Value) {
	b, ok := BagOf(obj)
	if !ok {
		return
	}
	k.bagsMu.Lock()
	b.c = nil
	k.bagsMu.Unlock()
}

// ---------------------------------------------------------------------------
// Cell access
// ---------------------------------------------------------------------------

// Tnum returns the bag's type tag.
func (b *Bag) Tnum() Tnum {
	return b.c.tnum
}

// Region returns the bag's owning region.
func (b *Bag) Region() *Region {
	return b.c.region
}

// NumSlots returns the number of handle-valued slots.
func (b *Bag) NumSlots() int {
	return len(b.c.slots)
}

// RawLen returns the payload size in bytes.
func (b *Bag) RawLen() int {
	return len(b.c.raw)
}

// SizeBytes returns the total storage size of the bag in bytes.
func (b *Bag) SizeBytes() int {
	return 8*len(b.c.slots) + len(b.c.raw)
}

// Slot returns the value at the given slot index.
// Panics if index is out of range.
func (b *Bag) Slot(index int) Value {
	return b.c.slots[index]
}

// SetSlot sets the value at the given slot index.
// Panics if index is out of range.
func (b *Bag) SetSlot(index int, v Value) {
	b.c.slots[index] = v
}

// Raw returns the bag's payload. The bytes are shared, not copied.
func (b *Bag) Raw() []byte {
	return b.c.raw
}

// IsMutableFlag reports the bag's mutability flag.
func (b *Bag) IsMutableFlag() bool {
	return b.c.flags&flagImmutable == 0
}

// clearMutable marks the bag immutable in place.
func (b *Bag) clearMutable() {
	b.c.flags |= flagImmutable
}
