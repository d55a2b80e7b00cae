package kernel

import (
	"strings"
	"testing"
)

// testDelegate is a minimal evaluator stand-in for the user tag range.
type testDelegate struct {
	mutable  bool
	copyable bool
	typ      Value
	frozen   int
}

func (d *testDelegate) TypeOf(k *Kernel, obj Value) Value    { return d.typ }
func (d *testDelegate) SetType(k *Kernel, obj, typ Value)    { d.typ = typ }
func (d *testDelegate) IsMutable(k *Kernel, obj Value) bool  { return d.mutable }
func (d *testDelegate) IsCopyable(k *Kernel, obj Value) bool { return d.copyable }
func (d *testDelegate) ShallowCopy(k *Kernel, obj Value) Value {
	return shallowCopyDefault(k, obj)
}
func (d *testDelegate) Print(p *Printer, obj Value) error {
	return p.Printf("<user object>")
}
func (d *testDelegate) View(p *Printer, obj Value) error {
	return p.Printf("<u>")
}
func (d *testDelegate) PostMakeImmutable(k *Kernel, obj Value) { d.frozen++ }

func TestUserTagWithoutDelegatePanics(t *testing.T) {
	k := NewKernel()
	obj := k.NewBag(TnumUser0, 1, 0)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic dispatching user tag without delegate")
		}
		if _, ok := r.(*Panic); !ok {
			t.Fatalf("panic value: %T", r)
		}
	}()
	k.IsMutable(obj)
}

func TestUserTagDelegates(t *testing.T) {
	k := NewKernel()
	d := &testDelegate{mutable: true, copyable: true, typ: FromSmallInt(99)}
	k.SetDelegate(d)
	obj := k.NewBag(TnumUser0, 1, 0)

	if !k.IsMutable(obj) {
		t.Error("IsMutable not delegated")
	}
	if !k.IsCopyable(obj) {
		t.Error("IsCopyable not delegated")
	}
	if got := k.TypeOf(obj); got.SmallInt() != 99 {
		t.Errorf("TypeOf not delegated: %v", got)
	}
	k.SetTypeObj(obj, FromSmallInt(100))
	if got := k.TypeOf(obj); got.SmallInt() != 100 {
		t.Errorf("SetType not delegated: %v", got)
	}

	var sb strings.Builder
	if err := k.PrintObj(&sb, obj); err != nil {
		t.Fatalf("PrintObj: %v", err)
	}
	if sb.String() != "<user object>" {
		t.Errorf("delegated print: %q", sb.String())
	}
	sb.Reset()
	if err := k.ViewObj(&sb, obj); err != nil {
		t.Fatalf("ViewObj: %v", err)
	}
	if sb.String() != "<u>" {
		t.Errorf("delegated view: %q", sb.String())
	}
}

func TestInstallBodies(t *testing.T) {
	k := NewKernel()
	k.InstallPrintBody(TnumUser1, func(p *Printer, obj Value) error {
		return p.Printf("custom")
	})
	k.InstallViewBody(TnumUser1, func(p *Printer, obj Value) error {
		return p.Printf("c")
	})
	obj := k.NewBag(TnumUser1, 0, 0)

	var sb strings.Builder
	if err := k.PrintObj(&sb, obj); err != nil {
		t.Fatal(err)
	}
	if sb.String() != "custom" {
		t.Errorf("installed print body: %q", sb.String())
	}
	sb.Reset()
	if err := k.ViewObj(&sb, obj); err != nil {
		t.Fatal(err)
	}
	if sb.String() != "c" {
		t.Errorf("installed view body: %q", sb.String())
	}
}

func TestUnknownSaveBodyPanics(t *testing.T) {
	k := NewKernel()
	obj := k.NewBag(TnumUser0, 0, 0)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic saving a tag without a save body")
		}
	}()
	k.SaveObjBody(nil, obj)
}
