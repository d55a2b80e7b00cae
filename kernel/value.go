package kernel

import (
	"unsafe"
)

// Value represents a GAP object handle using NaN-boxing.
//
// All handles are 64-bit words. Non-bag values are encoded in the quiet
// NaN space using tag bits to distinguish the immediate kinds.
//
// Encoding scheme:
//   - Bag: Quiet NaN + tagBag + 48-bit pointer to the bag master
//   - SmallInt: Quiet NaN + tagInt + 48-bit signed payload
//   - FFE: Quiet NaN + tagFFE + 16-bit field id + 32-bit element number
//   - Special: Quiet NaN + tagSpecial + special value ID (nil)
type Value uint64

// NaN-boxing constants
const (
	// Quiet NaN prefix: exponent all 1s, quiet bit set, sign bit 0
	nanBits uint64 = 0x7FF8000000000000

	// Tag mask: 3 bits within the NaN mantissa space
	tagMask uint64 = 0x0007000000000000

	// Payload mask: 48 bits for pointer/int/id
	payloadMask uint64 = 0x0000FFFFFFFFFFFF

	// Tag values (shifted into position)
	tagBag     uint64 = 0x0001000000000000 // Heap bag master pointer
	tagInt     uint64 = 0x0002000000000000 // 48-bit signed integer
	tagSpecial uint64 = 0x0003000000000000 // nil
	tagFFE     uint64 = 0x0004000000000000 // Finite field element

	// Sign bit for 48-bit integer sign extension
	intSignBit uint64 = 0x0000800000000000

	// Mask for sign extension
	intSignExtend uint64 = 0xFFFF000000000000
)

// Nil is the empty slot value.
const Nil Value = Value(nanBits | tagSpecial)

// SmallInt range (48-bit signed)
const (
	MaxSmallInt int64 = (1 << 47) - 1
	MinSmallInt int64 = -(1 << 47)
)

// ---------------------------------------------------------------------------
// Type checking
// ---------------------------------------------------------------------------

// IsBag returns true if v references a heap bag.
func (v Value) IsBag() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagBag)
}

// IsSmallInt returns true if v is an immediate small integer.
func (v Value) IsSmallInt() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagInt)
}

// IsFFE returns true if v is an immediate finite field element.
func (v Value) IsFFE() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagFFE)
}

// IsImmediate returns true if v is tag-encoded rather than heap-allocated.
// Immediates have no heap identity: they cannot be cloned or switched.
func (v Value) IsImmediate() bool {
	return v.IsSmallInt() || v.IsFFE()
}

// IsNil returns true if v is the nil value.
func (v Value) IsNil() bool {
	return v == Nil
}

// ---------------------------------------------------------------------------
// SmallInt operations
// ---------------------------------------------------------------------------

// SmallInt returns v as an int64.
// Panics if v is not a small integer.
func (v Value) SmallInt() int64 {
	if !v.IsSmallInt() {
		panic("Value.SmallInt: not a small integer")
	}
	payload := uint64(v) & payloadMask

	// Sign extend from 48 bits to 64 bits
	if (payload & intSignBit) != 0 {
		payload |= intSignExtend
	}
	return int64(payload)
}

// FromSmallInt creates a Value from an int64.
// Panics if n is outside the SmallInt range.
func FromSmallInt(n int64) Value {
	if n > MaxSmallInt || n < MinSmallInt {
		panic("FromSmallInt: value out of range")
	}
	return Value(nanBits | tagInt | (uint64(n) & payloadMask))
}

// ---------------------------------------------------------------------------
// FFE operations
// ---------------------------------------------------------------------------

// FFEField returns the field identifier of a finite field element.
// Panics if v is not an FFE.
func (v Value) FFEField() uint16 {
	if !v.IsFFE() {
		panic("Value.FFEField: not a finite field element")
	}
	return uint16((uint64(v) & payloadMask) >> 32)
}

// FFEElement returns the element number of a finite field element.
// Panics if v is not an FFE.
func (v Value) FFEElement() uint32 {
	if !v.IsFFE() {
		panic("Value.FFEElement: not a finite field element")
	}
	return uint32(uint64(v) & 0xFFFFFFFF)
}

// FromFFE creates an immediate finite field element value.
func FromFFE(field uint16, element uint32) Value {
	payload := (uint64(field) << 32) | uint64(element)
	return Value(nanBits | tagFFE | payload)
}

// ---------------------------------------------------------------------------
// Bag pointer operations
// ---------------------------------------------------------------------------

// bagPtr returns v as a *Bag.
// Panics if v is not a bag handle.
func (v Value) bagPtr() *Bag {
	if !v.IsBag() {
		panic("Value.bagPtr: not a bag")
	}
	ptr := uintptr(uint64(v) & payloadMask)
	return (*Bag)(unsafe.Pointer(ptr))
}

// FromBag creates a Value from a bag master pointer.
// The pointer must fit in 48 bits (true for all current architectures).
func FromBag(b *Bag) Value {
	return Value(nanBits | tagBag | uint64(uintptr(unsafe.Pointer(b))))
}

// BagOf extracts the bag master from a handle.
// Returns nil and false if the value is an immediate.
func BagOf(v Value) (*Bag, bool) {
	if !v.IsBag() {
		return nil, false
	}
	return v.bagPtr(), true
}

// mustBag extracts the bag master from a handle.
// Panics if the value is an immediate.
func mustBag(v Value) *Bag {
	return v.bagPtr()
}
