package kernel

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/petermattis/goid"
)

// Region is an ownership domain. Mutating a bag requires the calling
// goroutine to own the bag's region, or the region to have no exclusive
// owner. Region ownership is the unit of mutual exclusion: there are no
// locks around individual slot writes.
type Region struct {
	id    uuid.UUID
	name  string
	owner atomic.Int64 // goroutine id, 0 = public
}

// NewRegion creates a region owned by the calling goroutine.
func (k *Kernel) NewRegion(name string) *Region {
	r := &Region{id: uuid.New(), name: name}
	r.owner.Store(goid.Get())

	k.regionsMu.Lock()
	k.regions[r.id] = r
	k.regionsMu.Unlock()

	return r
}

// PublicRegion returns the shared ownerless region bags are allocated into
// by default.
func (k *Kernel) PublicRegion() *Region {
	return k.public
}

// ID returns the region's identifier.
func (r *Region) ID() uuid.UUID {
	return r.id
}

// DisplayName returns the region's name, or its identifier if unnamed.
func (r *Region) DisplayName() string {
	if r.name != "" {
		return r.name
	}
	return r.id.String()
}

// Claim transfers ownership of the region to the calling goroutine.
func (r *Region) Claim() {
	r.owner.Store(goid.Get())
}

// MakePublic removes the region's exclusive owner.
func (r *Region) MakePublic() {
	r.owner.Store(0)
}

// ownedByCaller reports whether the calling goroutine holds the region.
func (r *Region) ownedByCaller() bool {
	return r.owner.Load() == goid.Get()
}

// writableByCaller reports whether the calling goroutine may mutate bags
// in the region: it must own the region, or the region must be ownerless.
func (r *Region) writableByCaller() bool {
	o := r.owner.Load()
	return o == 0 || o == goid.Get()
}

// ---------------------------------------------------------------------------
// Access checks
// ---------------------------------------------------------------------------

// RegionError reports a mutation attempted against a region the caller does
// not hold. It is fatal to the requested mutation; the object is left
// unmodified and the operation must not be retried.
type RegionError struct {
	Op     string
	Region *Region
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("%s: cannot write to object's region %s", e.Op, e.Region.DisplayName())
}

// RegionOf returns the region of a bag handle, or nil for immediates.
func (k *Kernel) RegionOf(obj Value) *Region {
	if b, ok := BagOf(obj); ok {
		return b.Region()
	}
	return nil
}

// CheckWrite verifies the caller may mutate obj. Immediates pass: they have
// no region and mutation attempts fail on shape checks instead.
func (k *Kernel) CheckWrite(op string, obj Value) error {
	b, ok := BagOf(obj)
	if !ok {
		return nil
	}
	if !b.Region().writableByCaller() {
		return &RegionError{Op: op, Region: b.Region()}
	}
	return nil
}

// CheckRead verifies the caller may read obj's contents. Reads follow the
// same discipline as writes; an unreadable object prints as an opaque
// placeholder instead of dispatching to its type body.
func (k *Kernel) CheckRead(obj Value) bool {
	b, ok := BagOf(obj)
	if !ok {
		return true
	}
	return b.Region().writableByCaller()
}
