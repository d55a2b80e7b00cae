package kernel

// Per-tag serialization.
//
// The kernel does not own a wire format. A snapshot framer hands the
// kernel a Saver or Loader and the kernel streams each object's components
// through it: slot references, unsigned integers, raw payload bytes and
// record names. Load bodies fill bags the framer has already allocated
// from size frames, so no allocation happens while a body runs.

// Saver receives the components of one object during serialization.
type Saver interface {
	// SaveUInt writes an unsigned integer.
	SaveUInt(x uint64)
	// SaveSubObj writes a reference to a subobject, immediate or bag.
	SaveSubObj(obj Value)
	// SaveBytes writes raw payload bytes.
	SaveBytes(b []byte)
	// SaveRNam writes a record name. The framer is responsible for
	// carrying the name text; ids are kernel-local.
	SaveRNam(id int)
}

// Loader yields the components of one object during deserialization, in
// the order the save body wrote them.
type Loader interface {
	LoadUInt() uint64
	LoadSubObj() Value
	// LoadBytes fills the caller's buffer with payload bytes.
	LoadBytes(b []byte)
	// LoadRNam reads a record name and returns its id interned in the
	// loading kernel.
	LoadRNam() int
}

// SaveObjBody streams obj's components through s.
func (k *Kernel) SaveObjBody(s Saver, obj Value) {
	k.saveTab[k.TnumOf(obj)](k, s, obj)
}

// LoadObjBody fills a pre-allocated obj with components read from l.
func (k *Kernel) LoadObjBody(l Loader, obj Value) {
	k.loadTab[k.TnumOf(obj)](k, l, obj)
}

// ---------------------------------------------------------------------------
// Bodies
// ---------------------------------------------------------------------------

// saveComObj serves component objects and plain records: descriptor slot,
// pair count, then (name, value) pairs.
func saveComObj(k *Kernel, s Saver, obj Value) {
	b := mustBag(obj)
	s.SaveSubObj(b.Slot(0))
	s.SaveUInt(uint64((b.NumSlots() - 1) / 2))
	for i := 1; i+1 < b.NumSlots(); i += 2 {
		s.SaveRNam(int(b.Slot(i).SmallInt()))
		s.SaveSubObj(b.Slot(i + 1))
	}
}

func loadComObj(k *Kernel, l Loader, obj Value) {
	b := mustBag(obj)
	b.SetSlot(0, l.LoadSubObj())
	n := int(l.LoadUInt())
	for i := 0; i < n; i++ {
		b.SetSlot(1+2*i, FromSmallInt(int64(l.LoadRNam())))
		b.SetSlot(2+2*i, l.LoadSubObj())
	}
}

// savePosObj serves positional objects and plain lists: slot 0 (descriptor
// or length), slot count, then the slots.
func savePosObj(k *Kernel, s Saver, obj Value) {
	b := mustBag(obj)
	s.SaveSubObj(b.Slot(0))
	s.SaveUInt(uint64(b.NumSlots() - 1))
	for i := 1; i < b.NumSlots(); i++ {
		s.SaveSubObj(b.Slot(i))
	}
}

func loadPosObj(k *Kernel, l Loader, obj Value) {
	b := mustBag(obj)
	b.SetSlot(0, l.LoadSubObj())
	n := int(l.LoadUInt())
	for i := 1; i <= n; i++ {
		b.SetSlot(i, l.LoadSubObj())
	}
}

// saveDatObj serves data objects and strings: descriptor slot, payload
// length, then the payload.
func saveDatObj(k *Kernel, s Saver, obj Value) {
	b := mustBag(obj)
	s.SaveSubObj(b.Slot(0))
	s.SaveUInt(uint64(b.RawLen()))
	s.SaveBytes(b.Raw())
}

func loadDatObj(k *Kernel, l Loader, obj Value) {
	b := mustBag(obj)
	b.SetSlot(0, l.LoadSubObj())
	l.LoadUInt() // length, fixed by the allocation frame
	l.LoadBytes(b.Raw())
}

// saveRawBag serves booleans and characters: payload only.
func saveRawBag(k *Kernel, s Saver, obj Value) {
	b := mustBag(obj)
	s.SaveUInt(uint64(b.RawLen()))
	s.SaveBytes(b.Raw())
}

func loadRawBag(k *Kernel, l Loader, obj Value) {
	b := mustBag(obj)
	l.LoadUInt()
	l.LoadBytes(b.Raw())
}
