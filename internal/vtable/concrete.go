package vtable

import (
	"dyntab/internal/decl"
)

// Impl is the slice of the type/implementation database the instantiator
// consumes: per-type metadata and per-signature method bindings. A missing
// binding is that collaborator's error, surfaced through the returned error
// before any vtable is published.
type Impl interface {
	// Metadata returns the destructor symbol, byte size and alignment of a
	// concrete type.
	Metadata(typeName string) (dtor string, size, align uint64, err error)
	// Binding returns the implementation symbol a concrete type binds to a
	// trait method signature.
	Binding(typeName, traitName, sig string) (string, error)
}

// Bound is one materialized vtable word: a symbol for dtor and method slots,
// a plain value for size and align slots.
type Bound struct {
	Kind   SlotKind
	Symbol string
	Value  uint64
}

// Concrete is the materialized vtable of one (implementing type, root trait)
// pair: the root's layout template with every slot bound to that type.
type Concrete struct {
	Type  string
	Root  decl.TraitID
	Slots []Bound
}

// Words returns the vtable length in pointer-sized words.
func (c *Concrete) Words() int {
	if c == nil {
		return 0
	}
	return len(c.Slots)
}

// Materialize binds the layout template of root to the implementing type's
// method implementations and metadata. At most one Concrete is built per
// (type, root) pair; later requests return the published instance. Identity
// of the returned pointer across different construction paths is not
// guaranteed beyond that single engine's cache.
func (e *Engine) Materialize(impl Impl, typeName string, root decl.TraitID) (*Concrete, error) {
	key := concreteKey{Type: typeName, Root: root}
	if cached, ok := e.cache.concreteVtable(key); ok {
		return cached, nil
	}

	tr := e.Traits.Get(root)
	if tr == nil {
		return nil, &Error{Kind: ErrUnknownTrait, Trait: root}
	}
	if !tr.ObjectSafe {
		return nil, &Error{Kind: ErrNotObjectSafe, Trait: root}
	}

	layout, err := e.LayoutOf(root)
	if err != nil {
		return nil, err
	}

	dtor, size, align, err := impl.Metadata(typeName)
	if err != nil {
		return nil, err
	}

	out := &Concrete{
		Type:  typeName,
		Root:  root,
		Slots: make([]Bound, 0, len(layout.Slots)),
	}
	for _, slot := range layout.Slots {
		switch slot.Kind {
		case SlotDtor:
			out.Slots = append(out.Slots, Bound{Kind: SlotDtor, Symbol: dtor})
		case SlotSize:
			out.Slots = append(out.Slots, Bound{Kind: SlotSize, Value: size})
		case SlotAlign:
			out.Slots = append(out.Slots, Bound{Kind: SlotAlign, Value: align})
		case SlotMethod:
			owner := e.Traits.MustGet(slot.Trait)
			sig := e.Traits.Strings.MustLookup(owner.Methods[slot.Method].Sig)
			symbol, err := impl.Binding(typeName, e.Traits.NameOf(slot.Trait), sig)
			if err != nil {
				return nil, err
			}
			out.Slots = append(out.Slots, Bound{Kind: SlotMethod, Symbol: symbol})
		}
	}

	return e.cache.publishConcrete(key, out), nil
}
