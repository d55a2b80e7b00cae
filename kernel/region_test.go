package kernel

import (
	"errors"
	"testing"
)

func TestPublicRegionWritable(t *testing.T) {
	k := NewKernel()
	l := k.NewPlist(1)
	if err := k.SetPlistElm(l, 1, FromSmallInt(1)); err != nil {
		t.Fatalf("write to public region: %v", err)
	}
	if k.RegionOf(l) != k.PublicRegion() {
		t.Error("default allocation not in public region")
	}
	if k.RegionOf(FromSmallInt(1)) != nil {
		t.Error("immediate has a region")
	}
}

func TestOwnedRegionRejectsOtherGoroutine(t *testing.T) {
	k := NewKernel()
	objCh := make(chan Value)
	go func() {
		r := k.NewRegion("worker")
		objCh <- k.NewPlistIn(r, 1)
	}()
	obj := <-objCh

	err := k.SetPlistElm(obj, 1, FromSmallInt(1))
	var re *RegionError
	if !errors.As(err, &re) {
		t.Fatalf("expected RegionError, got %v", err)
	}
	if re.Op != "SetPlistElm" {
		t.Errorf("RegionError op: %q", re.Op)
	}

	// The object must be untouched after the refusal.
	if !k.PlistElm(obj, 1).IsNil() {
		t.Error("object modified despite region refusal")
	}
}

func TestRegionClaimAndRelease(t *testing.T) {
	k := NewKernel()
	objCh := make(chan Value)
	regCh := make(chan *Region)
	go func() {
		r := k.NewRegion("handoff")
		objCh <- k.NewPlistIn(r, 1)
		regCh <- r
	}()
	obj := <-objCh
	r := <-regCh

	if err := k.SetPlistElm(obj, 1, FromSmallInt(1)); err == nil {
		t.Fatal("write allowed without ownership")
	}

	r.Claim()
	if err := k.SetPlistElm(obj, 1, FromSmallInt(1)); err != nil {
		t.Fatalf("write after Claim: %v", err)
	}

	r.MakePublic()
	done := make(chan error)
	go func() {
		done <- k.SetPlistElm(obj, 1, FromSmallInt(2))
	}()
	if err := <-done; err != nil {
		t.Fatalf("write to public-made region from another goroutine: %v", err)
	}
}

func TestCheckWriteImmediatePasses(t *testing.T) {
	k := NewKernel()
	if err := k.CheckWrite("test", FromSmallInt(1)); err != nil {
		t.Errorf("immediate failed write check: %v", err)
	}
	if !k.CheckRead(FromSmallInt(1)) {
		t.Error("immediate failed read check")
	}
}

func TestRegionDisplayName(t *testing.T) {
	k := NewKernel()
	r := k.NewRegion("named")
	if r.DisplayName() != "named" {
		t.Errorf("DisplayName: %q", r.DisplayName())
	}
	anon := k.NewRegion("")
	if anon.DisplayName() != anon.ID().String() {
		t.Errorf("anonymous DisplayName: %q", anon.DisplayName())
	}
}
