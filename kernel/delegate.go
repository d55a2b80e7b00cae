package kernel

// Delegate is the evaluator collaborator. The dispatch cells of the
// user-defined tag range all indirect through it, so user-level types can
// override the generic operations without kernel changes. The kernel also
// calls PostMakeImmutable for bookkeeping after freezing component and
// positional objects.
type Delegate interface {
	TypeOf(k *Kernel, obj Value) Value
	SetType(k *Kernel, obj, typ Value)
	IsMutable(k *Kernel, obj Value) bool
	IsCopyable(k *Kernel, obj Value) bool
	ShallowCopy(k *Kernel, obj Value) Value
	Print(p *Printer, obj Value) error
	View(p *Printer, obj Value) error
	PostMakeImmutable(k *Kernel, obj Value)
}

// SetDelegate installs the evaluator collaborator. Until one is installed,
// dispatching a user-defined tag is an internal-consistency failure.
func (k *Kernel) SetDelegate(d Delegate) {
	k.delegate = d
}

// mustDelegate returns the installed delegate or fails fatally naming the
// tag that needed it.
func (k *Kernel) mustDelegate(obj Value) Delegate {
	if k.delegate == nil {
		kpanic("no operations delegate installed for a %s", k.TnumOf(obj).Name())
	}
	return k.delegate
}
