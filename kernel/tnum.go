package kernel

// Tnum classifies an object's shape and dispatch behavior. The tag space is
// closed and split into contiguous ranges: constant values, record-shaped
// objects, sequence-shaped objects, and the external range containing the
// three structural kinds plus user-defined tags.
type Tnum int

const (
	// Constant range: values that never change.
	TnumSmallInt Tnum = iota // immediate small integer
	TnumFFE                  // immediate finite field element
	TnumBool                 // boolean constant bag
	TnumChar                 // character constant bag

	// Record range.
	TnumPlainRec // plain record: slot 0 reserved, then (name, value) pairs

	// List range.
	TnumString    // character data, raw payload only
	TnumPlainList // plain list: slot 0 is the length, then elements

	// External range: structural kinds and user-defined tags. The
	// user tags dispatch through the Delegate for every operation.
	TnumComObj // component object: descriptor, then (name, value) pairs
	TnumPosObj // positional object: descriptor, then positional slots
	TnumDatObj // data object: descriptor slot plus raw payload
	TnumUser0
	TnumUser1
)

// Range boundaries. Every tag between FirstRealTnum and LastRealTnum has a
// non-error entry in every applicable dispatch table after NewKernel returns.
const (
	FirstRealTnum     = TnumSmallInt
	FirstConstantTnum = TnumSmallInt
	LastConstantTnum  = TnumChar
	FirstRecordTnum   = TnumPlainRec
	LastRecordTnum    = TnumPlainRec
	FirstListTnum     = TnumString
	LastListTnum      = TnumPlainList
	FirstExternalTnum = TnumComObj
	LastExternalTnum  = TnumUser1
	LastRealTnum      = TnumUser1

	// Copying is the tag offset applied to a bag mid-deep-copy. The copy
	// and clean tables are sized to hold the offset variants as well.
	Copying = LastRealTnum + 1

	numTnums = int(LastRealTnum) + int(Copying) + 1
)

var tnumNames = [numTnums]string{
	TnumSmallInt:  "small integer",
	TnumFFE:       "finite field element",
	TnumBool:      "boolean",
	TnumChar:      "character",
	TnumPlainRec:  "plain record",
	TnumString:    "string",
	TnumPlainList: "plain list",
	TnumComObj:    "object (component)",
	TnumPosObj:    "object (positional)",
	TnumDatObj:    "object (data)",
	TnumUser0:     "user object",
	TnumUser1:     "user object",

	TnumBool + Copying:      "boolean (copying)",
	TnumChar + Copying:      "character (copying)",
	TnumPlainRec + Copying:  "plain record (copying)",
	TnumString + Copying:    "string (copying)",
	TnumPlainList + Copying: "plain list (copying)",
	TnumComObj + Copying:    "object (component,copying)",
	TnumPosObj + Copying:    "object (positional,copying)",
	TnumDatObj + Copying:    "object (data,copying)",
	TnumUser0 + Copying:     "user object (copying)",
	TnumUser1 + Copying:     "user object (copying)",
}

// Name returns the display name for a tag, used in diagnostics.
func (t Tnum) Name() string {
	if t < 0 || int(t) >= numTnums || tnumNames[t] == "" {
		return "unknown"
	}
	return tnumNames[t]
}

// IsCopying reports whether t carries the transient copying offset.
func (t Tnum) IsCopying() bool {
	return t > LastRealTnum
}

// markable reports whether a tag participates in back-reference detection
// while printing. Only record- and sequence-shaped objects are markable.
func (t Tnum) markable() bool {
	return t >= FirstRecordTnum && t <= LastListTnum
}

// TnumOf returns the type tag of any handle, immediate or bag.
func (k *Kernel) TnumOf(obj Value) Tnum {
	switch {
	case obj.IsSmallInt():
		return TnumSmallInt
	case obj.IsFFE():
		return TnumFFE
	case obj.IsBag():
		return mustBag(obj).Tnum()
	default:
		return TnumSmallInt // Nil prints as an empty slot; it has no bag
	}
}
