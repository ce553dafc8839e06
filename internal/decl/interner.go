package decl

import "slices"

// Names provides stable StringIDs for trait and method names.
type Names struct {
	byID  []string // byID[0] = "" for NoStringID
	index map[string]StringID
}

// NewNames creates an interner with the NoStringID sentinel reserved.
func NewNames() *Names {
	return &Names{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern inserts the string and returns its ID.
// Returns the existing ID when the string is already present.
func (n *Names) Intern(s string) StringID {
	if id, ok := n.index[s]; ok {
		return id
	}
	// Own copy, so the interner does not pin the caller's buffer.
	cpy := string([]byte(s))
	id := StringID(len(n.byID))
	n.byID = append(n.byID, cpy)
	n.index[cpy] = id
	return id
}

// Lookup returns the string for an ID, or false when the ID is invalid.
func (n *Names) Lookup(id StringID) (string, bool) {
	if int(id) >= len(n.byID) {
		return "", false
	}
	return n.byID[id], true
}

// MustLookup panics when id is invalid.
func (n *Names) MustLookup(id StringID) string {
	s, ok := n.Lookup(id)
	if !ok {
		panic("decl: invalid string ID")
	}
	return s
}

// Len returns the number of interned strings, sentinel included.
func (n *Names) Len() int { return len(n.byID) }

// Snapshot returns a copy of all interned strings.
func (n *Names) Snapshot() []string {
	return slices.Clone(n.byID)
}
