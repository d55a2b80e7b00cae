package kernel

import (
	"errors"
	"fmt"
)

// Panic reports an internal-consistency failure: an unregistered dispatch
// entry, a mutable object with no copy body, an unknown tag during save or
// load. These indicate a missing type registration, never bad input, so
// they are raised as Go panics and carry the offending type's name.
type Panic struct {
	msg string
}

func (p *Panic) Error() string {
	return "panic: " + p.msg
}

// kpanic raises an internal-consistency failure.
func kpanic(format string, args ...interface{}) {
	panic(&Panic{msg: fmt.Sprintf(format, args...)})
}

// Usage failures: recoverable conditions that let the caller skip the
// operation and continue.
var (
	// ErrImmediate is wrapped by clone/switch failures on tag-encoded
	// values, which have no heap identity to redirect.
	ErrImmediate = errors.New("immediate value has no heap identity")

	// ErrInterrupted unwinds an in-flight print or view traversal. The
	// caller may clear the interrupt and retry printing.
	ErrInterrupted = errors.New("user interrupt while printing")

	// ErrImmutableWrite rejects element assignment into a frozen container.
	ErrImmutableWrite = errors.New("object is immutable")
)
