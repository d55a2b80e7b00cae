package kernel

// Record names are interned: each distinct component name gets a small
// positive id, and name lookup during record access is an integer compare.
// Ids are kernel-local; serialization carries the name strings and
// re-interns on load.

// RNam interns a record name and returns its id.
func (k *Kernel) RNam(name string) int {
	k.rnamMu.RLock()
	id, ok := k.rnamIndex[name]
	k.rnamMu.RUnlock()
	if ok {
		return id
	}

	k.rnamMu.Lock()
	defer k.rnamMu.Unlock()
	if id, ok := k.rnamIndex[name]; ok {
		return id
	}
	k.rnamNames = append(k.rnamNames, name)
	id = len(k.rnamNames)
	k.rnamIndex[name] = id
	return id
}

// RNamName returns the name for an interned id.
func (k *Kernel) RNamName(id int) string {
	k.rnamMu.RLock()
	defer k.rnamMu.RUnlock()
	if id < 1 || id > len(k.rnamNames) {
		return "?"
	}
	return k.rnamNames[id-1]
}
