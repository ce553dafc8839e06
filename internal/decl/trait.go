package decl

import (
	"fmt"

	"fortio.org/safecast"
)

// Method is one method signature owned by a trait.
// Sig is the full interned signature string; binding resolution matches on it.
type Method struct {
	Name StringID
	Sig  StringID
}

// Trait is the immutable descriptor of one interface.
//
// Supers is the canonical order of direct supertraits: total, stable, fixed at
// declaration time. Layout generation and cross-unit offset agreement both
// depend on this order never changing after ingestion.
type Trait struct {
	Name       StringID
	Supers     []TraitID
	Methods    []Method
	ObjectSafe bool
}

// Traits stores all ingested trait descriptors in a compact slice-based arena.
type Traits struct {
	data    []Trait
	byName  map[StringID]TraitID
	Strings *Names
}

// NewTraits creates an arena with optional capacity hint.
func NewTraits(capacity uint32) *Traits {
	if capacity == 0 {
		capacity = 32
	}
	return &Traits{
		data:    make([]Trait, 1, capacity+1), // index 0 reserved for NoTraitID
		byName:  make(map[StringID]TraitID, capacity),
		Strings: NewNames(),
	}
}

// New allocates a trait descriptor and returns its ID.
func (t *Traits) New(tr Trait) TraitID {
	value, err := safecast.Conv[uint32](len(t.data))
	if err != nil {
		panic(fmt.Errorf("trait arena overflow: %w", err))
	}
	id := TraitID(value)
	t.data = append(t.data, tr)
	if tr.Name != NoStringID {
		t.byName[tr.Name] = id
	}
	return id
}

// Get returns the trait pointer or nil if the ID is invalid.
func (t *Traits) Get(id TraitID) *Trait {
	if !id.IsValid() || int(id) >= len(t.data) {
		return nil
	}
	return &t.data[id]
}

// MustGet panics when id is invalid.
func (t *Traits) MustGet(id TraitID) *Trait {
	tr := t.Get(id)
	if tr == nil {
		panic("decl: invalid trait ID")
	}
	return tr
}

// ByName returns the trait ID for an interned name.
func (t *Traits) ByName(name StringID) (TraitID, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Lookup returns the trait ID for a raw name string.
func (t *Traits) Lookup(name string) (TraitID, bool) {
	id, ok := t.byName[t.Strings.Intern(name)]
	return id, ok
}

// NameOf returns the display name of a trait.
func (t *Traits) NameOf(id TraitID) string {
	tr := t.Get(id)
	if tr == nil {
		return fmt.Sprintf("trait#%d", id)
	}
	return t.Strings.MustLookup(tr.Name)
}

// Len reports the number of traits excluding the sentinel.
func (t *Traits) Len() int { return len(t.data) - 1 }

// All iterates trait IDs in allocation order.
func (t *Traits) All(fn func(TraitID, *Trait) bool) {
	for i := 1; i < len(t.data); i++ {
		if !fn(TraitID(i), &t.data[i]) {
			return
		}
	}
}
