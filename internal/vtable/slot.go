package vtable

import (
	"fmt"

	"dyntab/internal/decl"
)

// SlotKind enumerates what one vtable word holds.
type SlotKind uint8

const (
	// SlotDtor is the destructor pointer of a metadata triple.
	SlotDtor SlotKind = iota + 1
	// SlotSize is the object size word of a metadata triple.
	SlotSize
	// SlotAlign is the object alignment word of a metadata triple.
	SlotAlign
	// SlotMethod is one bound method pointer.
	SlotMethod
)

func (k SlotKind) String() string {
	switch k {
	case SlotDtor:
		return "dtor"
	case SlotSize:
		return "size"
	case SlotAlign:
		return "align"
	case SlotMethod:
		return "method"
	default:
		return fmt.Sprintf("SlotKind(%d)", k)
	}
}

// Slot is one word of a layout template. Trait names the trait the slot
// belongs to: the owning trait for method slots, the no-supertrait leaf that
// emitted the triple for metadata slots. Method indexes into the owning
// trait's own-method list and is meaningful for SlotMethod only.
type Slot struct {
	Kind   SlotKind
	Trait  decl.TraitID
	Method int
}

// Layout is the type-independent vtable template of one trait: the metadata
// triple and method slots of every embedded supertrait, in canonical order,
// followed by the trait's own method slots. It is a pure function of the
// trait's declaration, so every implementing type shares the same template.
type Layout struct {
	Trait decl.TraitID
	Slots []Slot
}

// Words returns the template length in pointer-sized words.
func (l *Layout) Words() int {
	if l == nil {
		return 0
	}
	return len(l.Slots)
}
