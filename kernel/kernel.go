package kernel

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Kernel owns the dispatch tables for the generic object operations, the
// region registry and the bag keep-alive registry. The tables are filled in
// NewKernel and read-only afterwards; a Kernel may be shared by any number
// of goroutines, with region ownership as the only mutation discipline.
type Kernel struct {
	typeOfTab        [numTnums]typeOfFunc
	setTypeTab       [numTnums]setTypeFunc
	isMutableTab     [numTnums]predicateFunc
	isCopyableTab    [numTnums]predicateFunc
	shallowCopyTab   [numTnums]shallowCopyFunc
	copyTab          [numTnums]copyFunc
	cleanTab         [numTnums]cleanFunc
	printTab         [numTnums]printFunc
	viewTab          [numTnums]printFunc
	printPathTab     [numTnums]printPathFunc
	saveTab          [numTnums]saveFunc
	loadTab          [numTnums]loadFunc
	makeImmutableTab [numTnums]freezeFunc

	delegate Delegate

	public    *Region
	regions   map[uuid.UUID]*Region
	regionsMu sync.RWMutex

	// Keep-alive registry: bag masters circulate as NaN-boxed integers,
	// so Go's collector needs a visible reference to each of them.
	bags   map[*Bag]struct{}
	bagsMu sync.Mutex

	// Record-name intern table.
	rnamNames []string
	rnamIndex map[string]int
	rnamMu    sync.RWMutex

	interrupted   atomic.Bool
	changed       atomic.Uint64
	maxPrintDepth int
}

// DefaultMaxPrintDepth bounds the ancestor stack of the print engine.
const DefaultMaxPrintDepth = 1024

// NewKernel creates a kernel with every dispatch table populated. Cells not
// covered by a range below keep their error defaults, which fail fatally if
// ever reached.
func NewKernel() *Kernel {
	k := &Kernel{
		regions:       make(map[uuid.UUID]*Region),
		bags:          make(map[*Bag]struct{}),
		rnamIndex:     make(map[string]int),
		maxPrintDepth: DefaultMaxPrintDepth,
	}
	k.public = &Region{id: uuid.New(), name: "public"}
	k.regions[k.public.id] = k.public

	// Error defaults everywhere first.
	for t := 0; t < numTnums; t++ {
		k.typeOfTab[t] = typeOfError
		k.setTypeTab[t] = setTypeError
		k.isMutableTab[t] = isMutableError
		k.isCopyableTab[t] = isCopyableError
		k.shallowCopyTab[t] = shallowCopyError
		k.copyTab[t] = copyError
		k.cleanTab[t] = cleanError
		k.printTab[t] = printError
		k.viewTab[t] = printError
		k.printPathTab[t] = printPathError
		k.saveTab[t] = saveError
		k.loadTab[t] = loadError
		k.makeImmutableTab[t] = makeImmutableError
	}

	// Mutability and copyability per range. Constants are never mutable;
	// everything heap-shaped carries a flag; user tags ask the delegate.
	for t := FirstConstantTnum; t <= LastConstantTnum; t++ {
		k.isMutableTab[t] = isMutableNot
		k.isCopyableTab[t] = isCopyableNot
	}
	for t := FirstRecordTnum; t <= LastListTnum; t++ {
		k.isMutableTab[t] = isMutableFlag
		k.isMutableTab[t+Copying] = isMutableFlag
		k.isCopyableTab[t] = isCopyableYes
		k.isCopyableTab[t+Copying] = isCopyableYes
	}
	for t := TnumComObj; t <= TnumDatObj; t++ {
		k.isMutableTab[t] = isMutableFlag
		k.isMutableTab[t+Copying] = isMutableFlag
		k.isCopyableTab[t] = isCopyableYes
		k.isCopyableTab[t+Copying] = isCopyableYes
	}
	for t := TnumUser0; t <= LastExternalTnum; t++ {
		k.isMutableTab[t] = isMutableDelegate
		k.isCopyableTab[t] = isCopyableDelegate
	}

	// Shallow copy: constants are freely shareable, containers get the
	// default bitwise body, the external range asks the delegate.
	for t := FirstConstantTnum; t <= LastConstantTnum; t++ {
		k.shallowCopyTab[t] = shallowCopyConstant
	}
	for t := FirstRecordTnum; t <= LastListTnum; t++ {
		k.shallowCopyTab[t] = shallowCopyDefault
	}
	for t := FirstExternalTnum; t <= LastExternalTnum; t++ {
		k.shallowCopyTab[t] = shallowCopyDelegate
	}

	// Type access. Each structural tag stores its descriptor in slot 0 but
	// retags differently, so the bodies are installed individually.
	k.typeOfTab[TnumComObj] = typeComObj
	k.typeOfTab[TnumPosObj] = typePosObj
	k.typeOfTab[TnumDatObj] = typeDatObj
	k.setTypeTab[TnumComObj] = setTypeComObj
	k.setTypeTab[TnumPosObj] = setTypePosObj
	k.setTypeTab[TnumDatObj] = setTypeDatObj
	for t := TnumUser0; t <= LastExternalTnum; t++ {
		k.typeOfTab[t] = typeDelegate
		k.setTypeTab[t] = setTypeDelegate
	}

	// Deep copy and clean.
	for t := FirstConstantTnum; t <= LastConstantTnum; t++ {
		k.copyTab[t] = copyConstant
		k.cleanTab[t] = cleanConstant
	}
	installCopyPair := func(t Tnum, c copyFunc, cc copyFunc, cl cleanFunc, clc cleanFunc) {
		k.copyTab[t] = c
		k.copyTab[t+Copying] = cc
		k.cleanTab[t] = cl
		k.cleanTab[t+Copying] = clc
	}
	installCopyPair(TnumPlainList, copyPosObj, copyObjCopying, cleanNop, cleanPosObjCopying)
	installCopyPair(TnumPosObj, copyPosObj, copyObjCopying, cleanNop, cleanPosObjCopying)
	installCopyPair(TnumPlainRec, copyComObj, copyObjCopying, cleanNop, cleanComObjCopying)
	installCopyPair(TnumComObj, copyComObj, copyObjCopying, cleanNop, cleanComObjCopying)
	installCopyPair(TnumString, copyDatObj, copyObjCopying, cleanNop, cleanDatObjCopying)
	installCopyPair(TnumDatObj, copyDatObj, copyObjCopying, cleanNop, cleanDatObjCopying)

	// Print and view. Containers and constants have kernel bodies; the
	// external range delegates so user types can override.
	k.printTab[TnumSmallInt] = printSmallInt
	k.printTab[TnumFFE] = printFFE
	k.printTab[TnumBool] = printBool
	k.printTab[TnumChar] = printChar
	k.printTab[TnumString] = printString
	k.printTab[TnumPlainList] = printPlist
	k.printTab[TnumPlainRec] = printPRec
	for t := FirstExternalTnum; t <= LastExternalTnum; t++ {
		k.printTab[t] = printDelegate
	}
	for t := FirstRealTnum; t <= LastRealTnum; t++ {
		k.viewTab[t] = k.printTab[t]
	}
	for t := FirstExternalTnum; t <= LastExternalTnum; t++ {
		k.viewTab[t] = viewDelegate
	}
	k.printPathTab[TnumPlainList] = printPathPlist
	k.printPathTab[TnumPosObj] = printPathPosObj
	k.printPathTab[TnumPlainRec] = printPathPRec
	k.printPathTab[TnumComObj] = printPathComObj

	// Save and load.
	k.saveTab[TnumBool] = saveRawBag
	k.saveTab[TnumChar] = saveRawBag
	k.saveTab[TnumString] = saveDatObj
	k.saveTab[TnumPlainList] = savePosObj
	k.saveTab[TnumPlainRec] = saveComObj
	k.saveTab[TnumComObj] = saveComObj
	k.saveTab[TnumPosObj] = savePosObj
	k.saveTab[TnumDatObj] = saveDatObj
	k.loadTab[TnumBool] = loadRawBag
	k.loadTab[TnumChar] = loadRawBag
	k.loadTab[TnumString] = loadDatObj
	k.loadTab[TnumPlainList] = loadPosObj
	k.loadTab[TnumPlainRec] = loadComObj
	k.loadTab[TnumComObj] = loadComObj
	k.loadTab[TnumPosObj] = loadPosObj
	k.loadTab[TnumDatObj] = loadDatObj

	// Freezing.
	for t := FirstRecordTnum; t <= LastListTnum; t++ {
		k.makeImmutableTab[t] = makeImmutablePlain
	}
	k.makeImmutableTab[TnumComObj] = makeImmutableComObj
	k.makeImmutableTab[TnumPosObj] = makeImmutablePosObj
	k.makeImmutableTab[TnumDatObj] = makeImmutableDatObj

	return k
}

// SetMaxPrintDepth bounds the print engine's ancestor stack. It must be
// called before the kernel is shared between goroutines.
func (k *Kernel) SetMaxPrintDepth(depth int) {
	if depth > 0 {
		k.maxPrintDepth = depth
	}
}

// Interrupt requests that any in-flight print or view traversal unwind at
// its next object boundary. Safe to call from any goroutine.
func (k *Kernel) Interrupt() {
	k.interrupted.Store(true)
}

// ClearInterrupt resets the interrupt flag so printing can be retried.
func (k *Kernel) ClearInterrupt() {
	k.interrupted.Store(false)
}
