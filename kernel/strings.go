package kernel

// Strings, characters and booleans. Strings carry their bytes in the raw
// payload with slot 0 reserved for a descriptor; characters and booleans
// are one-byte constant bags.

// NewString allocates a mutable string holding s, in the public region.
func (k *Kernel) NewString(s string) Value {
	return k.NewStringIn(nil, s)
}

// NewStringIn allocates a string in the given region.
func (k *Kernel) NewStringIn(r *Region, s string) Value {
	v := k.NewBagIn(r, TnumString, 1, len(s))
	copy(mustBag(v).Raw(), s)
	return v
}

// StringOf returns the contents of a string object.
func (k *Kernel) StringOf(obj Value) string {
	return string(mustBag(obj).Raw())
}

// NewChar allocates a character constant.
func (k *Kernel) NewChar(c byte) Value {
	v := k.NewBag(TnumChar, 0, 1)
	mustBag(v).Raw()[0] = c
	return v
}

// CharValue returns the byte of a character constant.
func (k *Kernel) CharValue(obj Value) byte {
	return mustBag(obj).Raw()[0]
}

// NewBool allocates a boolean constant.
func (k *Kernel) NewBool(t bool) Value {
	v := k.NewBag(TnumBool, 0, 1)
	if t {
		mustBag(v).Raw()[0] = 1
	}
	return v
}

// BoolValue returns the truth value of a boolean constant.
func (k *Kernel) BoolValue(obj Value) bool {
	return mustBag(obj).Raw()[0] != 0
}

// ---------------------------------------------------------------------------
// Print bodies
// ---------------------------------------------------------------------------

func printString(p *Printer, obj Value) error {
	if err := p.Printf(`"`); err != nil {
		return err
	}
	for _, c := range mustBag(obj).Raw() {
		var err error
		switch c {
		case '"':
			err = p.Printf(`\"`)
		case '\\':
			err = p.Printf(`\\`)
		case '\n':
			err = p.Printf(`\n`)
		case '\t':
			err = p.Printf(`\t`)
		default:
			err = p.Printf("%c", c)
		}
		if err != nil {
			return err
		}
	}
	return p.Printf(`"`)
}

func printChar(p *Printer, obj Value) error {
	c := mustBag(obj).Raw()[0]
	switch c {
	case '\'':
		return p.Printf(`'\''`)
	case '\\':
		return p.Printf(`'\\'`)
	case '\n':
		return p.Printf(`'\n'`)
	case '\t':
		return p.Printf(`'\t'`)
	default:
		return p.Printf("'%c'", c)
	}
}

func printBool(p *Printer, obj Value) error {
	if mustBag(obj).Raw()[0] != 0 {
		return p.Printf("true")
	}
	return p.Printf("false")
}
