package kernel

import (
	"fmt"
	"io"
)

// Print and view traversal.
//
// A Printer carries the traversal context for one top-level Print or View
// call: the ancestor stack for back-reference detection, the index trail
// for selector paths, and the mode of the enclosing call. Container bodies
// recurse through the same Printer, so a self-referential object prints as
// "~" followed by the selector path from the top-level object down to the
// repeated ancestor instead of recursing forever.

type pvMode int

const (
	pvNone pvMode = iota
	pvPrint
	pvView
)

// Printer is the traversal context of a print or view call.
type Printer struct {
	k       *Kernel
	w       io.Writer
	this    []Value // ancestor stack
	indices []int   // indices[d] locates this[d] inside this[d-1]
	index   int     // index the current container body is descending into
	last    pvMode
}

// NewPrinter creates a printer writing to w.
func (k *Kernel) NewPrinter(w io.Writer) *Printer {
	return &Printer{k: k, w: w}
}

// Kernel returns the kernel the printer dispatches through.
func (p *Printer) Kernel() *Kernel {
	return p.k
}

// Printf writes formatted output to the printer's destination.
func (p *Printer) Printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(p.w, format, args...)
	return err
}

// SetIndex records the selector index a container body is about to descend
// into, so back-references can name the path to the repeated ancestor.
func (p *Printer) SetIndex(i int) {
	p.index = i
}

// Print renders obj in full form.
func (p *Printer) Print(obj Value) error {
	return p.run(obj, pvPrint)
}

// View renders obj in abbreviated form. Tags without a distinct view body
// fall back to their print body.
func (p *Printer) View(obj Value) error {
	return p.run(obj, pvView)
}

// printSub renders a subobject in the mode of the enclosing call, so a
// view of a container views its elements too.
func (p *Printer) printSub(obj Value) error {
	if p.last == pvView {
		return p.View(obj)
	}
	return p.Print(obj)
}

func (p *Printer) run(obj Value, mode pvMode) error {
	if p.k.interrupted.Load() {
		return ErrInterrupted
	}
	if obj.IsNil() {
		return nil
	}

	if !p.k.CheckRead(obj) {
		b := mustBag(obj)
		return p.Printf("<object in inaccessible region: %s>", b.Region().DisplayName())
	}

	t := p.k.TnumOf(obj)

	// A view body that falls back to printing the same object must not
	// count as a new traversal level.
	fromview := mode == pvPrint && p.last == pvView &&
		len(p.this) > 0 && p.this[len(p.this)-1] == obj

	// Back-reference: a markable ancestor seen again prints as "~" plus
	// the selector path leading to it.
	if !fromview && t.markable() {
		for i := range p.this {
			if p.this[i] == obj {
				if err := p.Printf("~"); err != nil {
					return err
				}
				for j := 0; j < i; j++ {
					anc := p.this[j]
					pf := p.k.printPathTab[p.k.TnumOf(anc)]
					if err := pf(p, anc, p.indices[j+1]); err != nil {
						return err
					}
				}
				return nil
			}
		}
	}

	if len(p.this) >= p.k.maxPrintDepth {
		return p.Printf("\nprinting stopped, too many recursion levels!\n")
	}

	if !fromview {
		p.this = append(p.this, obj)
		p.indices = append(p.indices, p.index)
	}
	prev := p.last
	p.last = mode

	var err error
	if mode == pvView {
		err = p.k.viewTab[t](p, obj)
	} else {
		err = p.k.printTab[t](p, obj)
	}

	p.last = prev
	if !fromview {
		p.this = p.this[:len(p.this)-1]
		p.indices = p.indices[:len(p.indices)-1]
	}
	return err
}

// ---------------------------------------------------------------------------
// Entry points
// ---------------------------------------------------------------------------

// PrintObj renders obj in full form to w using a fresh traversal context.
func (k *Kernel) PrintObj(w io.Writer, obj Value) error {
	return k.NewPrinter(w).Print(obj)
}

// ViewObj renders obj in abbreviated form to w.
func (k *Kernel) ViewObj(w io.Writer, obj Value) error {
	return k.NewPrinter(w).View(obj)
}

// ---------------------------------------------------------------------------
// Constant bodies
// ---------------------------------------------------------------------------

func printSmallInt(p *Printer, obj Value) error {
	return p.Printf("%d", obj.SmallInt())
}

func printFFE(p *Printer, obj Value) error {
	if obj.FFEElement() == 0 {
		return p.Printf("0*Z(%d)", obj.FFEField())
	}
	return p.Printf("Z(%d)^%d", obj.FFEField(), obj.FFEElement())
}

func printDelegate(p *Printer, obj Value) error {
	return p.k.mustDelegate(obj).Print(p, obj)
}

func viewDelegate(p *Printer, obj Value) error {
	return p.k.mustDelegate(obj).View(p, obj)
}
