package image

import (
	"bytes"
	"testing"

	"github.com/siphamandlakheswa/gap/kernel"
)

func roundTrip(t *testing.T, k *kernel.Kernel, root kernel.Value) (*kernel.Kernel, kernel.Value, *Manifest) {
	t.Helper()
	var buf bytes.Buffer
	wm, err := NewWriter(k).WriteSnapshot(&buf, root)
	if err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	k2 := kernel.NewKernel()
	loaded, rm, err := ReadSnapshotBytes(k2, buf.Bytes())
	if err != nil {
		t.Fatalf("ReadSnapshotBytes: %v", err)
	}
	if rm.SnapshotID != wm.SnapshotID {
		t.Errorf("manifest id: wrote %q, read %q", wm.SnapshotID, rm.SnapshotID)
	}
	return k2, loaded, rm
}

func TestSnapshotRoundTripList(t *testing.T) {
	k := kernel.NewKernel()
	l := k.NewPlist(3)
	if err := k.SetPlistElm(l, 1, kernel.FromSmallInt(-42)); err != nil {
		t.Fatal(err)
	}
	if err := k.SetPlistElm(l, 3, k.NewString("tail")); err != nil {
		t.Fatal(err)
	}

	k2, got, m := roundTrip(t, k, l)
	if m.ObjectCount != 2 {
		t.Errorf("object count: %d, want 2", m.ObjectCount)
	}
	if k2.PlistLen(got) != 3 {
		t.Errorf("loaded length: %d", k2.PlistLen(got))
	}
	if v := k2.PlistElm(got, 1); v.SmallInt() != -42 {
		t.Errorf("element 1: %v", v)
	}
	if !k2.PlistElm(got, 2).IsNil() {
		t.Error("hole lost")
	}
	if s := k2.StringOf(k2.PlistElm(got, 3)); s != "tail" {
		t.Errorf("element 3: %q", s)
	}
}

func TestSnapshotPreservesSharingAndCycles(t *testing.T) {
	k := kernel.NewKernel()
	shared := k.NewString("once")
	l := k.NewPlist(3)
	if err := k.SetPlistElm(l, 1, shared); err != nil {
		t.Fatal(err)
	}
	if err := k.SetPlistElm(l, 2, shared); err != nil {
		t.Fatal(err)
	}
	if err := k.SetPlistElm(l, 3, l); err != nil {
		t.Fatal(err)
	}

	k2, got, m := roundTrip(t, k, l)
	if m.ObjectCount != 2 {
		t.Errorf("object count: %d, want 2 (shared string collected once)", m.ObjectCount)
	}
	if !kernel.IsIdentical(k2.PlistElm(got, 1), k2.PlistElm(got, 2)) {
		t.Error("sharing lost across snapshot")
	}
	if !kernel.IsIdentical(k2.PlistElm(got, 3), got) {
		t.Error("cycle lost across snapshot")
	}
}

func TestSnapshotRecordNamesRemap(t *testing.T) {
	k := kernel.NewKernel()
	r := k.NewPRec()
	if err := k.AssPRec(r, k.RNam("degree"), kernel.FromSmallInt(5)); err != nil {
		t.Fatal(err)
	}

	// The loading kernel has interned unrelated names first, so the saved
	// numeric ids are wrong there; only the carried text is meaningful.
	var buf bytes.Buffer
	if _, err := NewWriter(k).WriteSnapshot(&buf, r); err != nil {
		t.Fatal(err)
	}
	k2 := kernel.NewKernel()
	k2.RNam("occupied")
	k2.RNam("slots")
	got, _, err := ReadSnapshotBytes(k2, buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}

	v, ok := k2.ElmPRec(got, k2.RNam("degree"))
	if !ok || v.SmallInt() != 5 {
		t.Errorf("component degree after remap: %v %v", v, ok)
	}
}

func TestSnapshotPreservesImmutability(t *testing.T) {
	k := kernel.NewKernel()
	l := k.NewPlist(1)
	frozen := k.NewString("frozen")
	if err := k.MakeImmutable(frozen); err != nil {
		t.Fatal(err)
	}
	if err := k.SetPlistElm(l, 1, frozen); err != nil {
		t.Fatal(err)
	}

	k2, got, _ := roundTrip(t, k, l)
	if !k2.IsMutable(got) {
		t.Error("mutable root loaded immutable")
	}
	if k2.IsMutable(k2.PlistElm(got, 1)) {
		t.Error("frozen subobject loaded mutable")
	}
}

func TestSnapshotStructuralKinds(t *testing.T) {
	k := kernel.NewKernel()
	d := k.NewString("bits")
	if err := k.SetTypeDatObj(d, kernel.FromSmallInt(7)); err != nil {
		t.Fatal(err)
	}
	l := k.NewPlist(1)
	if err := k.SetPlistElm(l, 1, d); err != nil {
		t.Fatal(err)
	}

	k2, got, _ := roundTrip(t, k, l)
	inner := k2.PlistElm(got, 1)
	if !k2.IsDatObj(inner) {
		t.Fatalf("data object tag lost: %v", k2.TnumOf(inner))
	}
	if k2.TypeOf(inner).SmallInt() != 7 {
		t.Error("descriptor lost")
	}
}

func TestSnapshotRootMustBeHeapObject(t *testing.T) {
	k := kernel.NewKernel()
	var buf bytes.Buffer
	if _, err := NewWriter(k).WriteSnapshot(&buf, kernel.FromSmallInt(1)); err == nil {
		t.Fatal("expected error for immediate root")
	}
}
