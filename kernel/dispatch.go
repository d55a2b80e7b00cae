package kernel

// Dispatch body signatures, one per generic operation. Every table is
// populated in NewKernel; a cell left at its error default is an
// internal-consistency failure when reached, never a user error.
type (
	typeOfFunc      func(k *Kernel, obj Value) Value
	setTypeFunc     func(k *Kernel, obj, typ Value)
	predicateFunc   func(k *Kernel, obj Value) bool
	shallowCopyFunc func(k *Kernel, obj Value) Value
	copyFunc        func(k *Kernel, obj Value, mut bool) Value
	cleanFunc       func(k *Kernel, obj Value)
	printFunc       func(p *Printer, obj Value) error
	printPathFunc   func(p *Printer, obj Value, index int) error
	saveFunc        func(k *Kernel, s Saver, obj Value)
	loadFunc        func(k *Kernel, l Loader, obj Value)
	freezeFunc      func(k *Kernel, obj Value)
)

// ---------------------------------------------------------------------------
// Error defaults
// ---------------------------------------------------------------------------

func typeOfError(k *Kernel, obj Value) Value {
	kpanic("basic object of type '%s' is unkind", k.TnumOf(obj).Name())
	return Nil
}

func setTypeError(k *Kernel, obj, typ Value) {
	kpanic("cannot change type of object of type '%s'", k.TnumOf(obj).Name())
}

func isMutableError(k *Kernel, obj Value) bool {
	kpanic("tried to test mutability of unknown type '%s'", k.TnumOf(obj).Name())
	return false
}

func isCopyableError(k *Kernel, obj Value) bool {
	kpanic("tried to test copyability of unknown type '%s'", k.TnumOf(obj).Name())
	return false
}

func shallowCopyError(k *Kernel, obj Value) Value {
	kpanic("tried to shallow copy object of unknown type '%s'", k.TnumOf(obj).Name())
	return Nil
}

func copyError(k *Kernel, obj Value, mut bool) Value {
	kpanic("tried to copy object of unknown type '%s'", k.TnumOf(obj).Name())
	return Nil
}

func cleanError(k *Kernel, obj Value) {
	kpanic("tried to clean object of unknown type '%s'", k.TnumOf(obj).Name())
}

func printError(p *Printer, obj Value) error {
	kpanic("tried to print object of unknown type '%s'", p.k.TnumOf(obj).Name())
	return nil
}

func printPathError(p *Printer, obj Value, index int) error {
	kpanic("tried to print a path of unknown type '%s'", p.k.TnumOf(obj).Name())
	return nil
}

func saveError(k *Kernel, s Saver, obj Value) {
	kpanic("tried to save an object of unknown type '%s'", k.TnumOf(obj).Name())
}

func loadError(k *Kernel, l Loader, obj Value) {
	kpanic("tried to load an object of unknown type '%s'", k.TnumOf(obj).Name())
}

func makeImmutableError(k *Kernel, obj Value) {
	kpanic("no make immutable function installed for a %s", k.TnumOf(obj).Name())
}

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------
//
// The tables are written only during initialization; they are read-only
// once NewKernel returns. Container collaborators that live outside this
// package can install their own bodies through these before first use.

// InstallPrintBody installs the print body for a tag.
func (k *Kernel) InstallPrintBody(t Tnum, f func(p *Printer, obj Value) error) {
	k.printTab[t] = f
}

// InstallViewBody installs the view body for a tag.
func (k *Kernel) InstallViewBody(t Tnum, f func(p *Printer, obj Value) error) {
	k.viewTab[t] = f
}

// InstallPrintPathBody installs the selector-path printer for a tag.
func (k *Kernel) InstallPrintPathBody(t Tnum, f func(p *Printer, obj Value, index int) error) {
	k.printPathTab[t] = f
}

// InstallSaveBody installs the save body for a tag.
func (k *Kernel) InstallSaveBody(t Tnum, f func(k *Kernel, s Saver, obj Value)) {
	k.saveTab[t] = f
}

// InstallLoadBody installs the load body for a tag.
func (k *Kernel) InstallLoadBody(t Tnum, f func(k *Kernel, l Loader, obj Value)) {
	k.loadTab[t] = f
}
