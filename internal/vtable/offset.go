package vtable

import (
	"dyntab/internal/decl"
)

// Offset returns the slot offset from the start of t's vtable to the
// embedded vtable of ancestor s. The table behind it is keyed purely by
// trait pairs, never by implementing type, and is reused by every type and
// every compilation unit.
//
// offset(T, T) = 0 and offset(T, S1) = 0 for the first canonical supertrait;
// later supertraits sit after the accumulated sizes of the ones before them.
// When a diamond embeds an ancestor more than once, the offset names the
// first embedding in canonical order, matching the layout traversal's
// first-visit rule.
func (e *Engine) Offset(t, s decl.TraitID) (int, error) {
	table, err := e.offsetsOf(t)
	if err != nil {
		return 0, err
	}
	off, ok := table[s]
	if !ok {
		return 0, &Error{Kind: ErrNotEmbedded, Trait: t, Ancestor: s}
	}
	return off, nil
}

// ByteOffset is Offset converted to the target's byte addressing.
func (e *Engine) ByteOffset(t, s decl.TraitID) (int, error) {
	off, err := e.Offset(t, s)
	if err != nil {
		return 0, err
	}
	return e.Target.Bytes(off), nil
}

// Ancestors returns every trait embedded in t's layout (t included), i.e.
// the valid upcast targets from t.
func (e *Engine) Ancestors(t decl.TraitID) ([]decl.TraitID, error) {
	table, err := e.offsetsOf(t)
	if err != nil {
		return nil, err
	}
	out := make([]decl.TraitID, 0, len(table))
	for id := range table {
		out = append(out, id)
	}
	return out, nil
}

// offsetsOf computes the full ancestor-offset table of one trait, derived
// from the same layout templates the generator produced.
func (e *Engine) offsetsOf(t decl.TraitID) (map[decl.TraitID]int, error) {
	if cached, ok := e.cache.offsetTable(t); ok {
		return cached, nil
	}
	tr := e.Traits.Get(t)
	if tr == nil {
		return nil, &Error{Kind: ErrUnknownTrait, Trait: t}
	}
	// Forcing the layout first runs its cycle check, so the recursion below
	// only ever walks an already-validated acyclic region.
	if _, err := e.LayoutOf(t); err != nil {
		return nil, err
	}

	table := map[decl.TraitID]int{t: 0}
	running := 0
	for _, super := range tr.Supers {
		sub, err := e.offsetsOf(super)
		if err != nil {
			return nil, err
		}
		for ancestor, off := range sub {
			// First embedding in canonical order wins; a diamond's second
			// path keeps its slots but is not the canonical upcast target.
			if _, seen := table[ancestor]; !seen {
				table[ancestor] = running + off
			}
		}
		words, err := e.Words(super)
		if err != nil {
			return nil, err
		}
		running += words
	}
	return e.cache.publishOffsetTable(t, table), nil
}
