package decl

// TraitID uniquely identifies a trait inside the arena.
type TraitID uint32

// NoTraitID marks the absence of a trait.
const NoTraitID TraitID = 0

// IsValid reports whether the ID refers to an allocated trait.
func (id TraitID) IsValid() bool { return id != NoTraitID }

// StringID identifies an interned name.
type StringID uint32

// NoStringID marks the absence of a name.
const NoStringID StringID = 0
