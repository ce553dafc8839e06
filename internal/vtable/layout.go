package vtable

import (
	"dyntab/internal/decl"
)

// Engine computes vtable layouts, upcast offsets and concrete vtables over
// one trait arena. Results are cached for the life of the engine and are
// value-identical on recomputation; the engine is safe for concurrent use.
type Engine struct {
	Target Target
	Traits *decl.Traits

	cache *cache
}

// New creates an engine for the given target and trait arena.
func New(target Target, traits *decl.Traits) *Engine {
	return &Engine{
		Target: target,
		Traits: traits,
		cache:  newCache(),
	}
}

// traversalState tracks the depth-first walk of one layout request, for
// cycle detection. Nodes currently on the stack are "in progress"; hitting
// one again closes a cycle.
type traversalState struct {
	stack []decl.TraitID
	index map[decl.TraitID]int
}

func newTraversalState() *traversalState {
	return &traversalState{
		index: make(map[decl.TraitID]int, 16),
	}
}

// LayoutOf computes and caches the layout template of a trait.
//
// The template follows the embedding rule: a trait without supertraits lays
// out [dtor, size, align] followed by its own methods; a trait with
// supertraits concatenates their full layouts in canonical order, then its
// own methods. Every ancestor's layout therefore appears as one contiguous
// sub-sequence, which is what makes constant-offset upcasting valid.
func (e *Engine) LayoutOf(id decl.TraitID) (*Layout, error) {
	if cached, ok := e.cache.layout(id); ok {
		return cached, nil
	}
	l, err := e.layoutOf(id, newTraversalState())
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (e *Engine) layoutOf(id decl.TraitID, state *traversalState) (*Layout, *Error) {
	if cached, ok := e.cache.layout(id); ok {
		return cached, nil
	}
	tr := e.Traits.Get(id)
	if tr == nil {
		return nil, &Error{Kind: ErrUnknownTrait, Trait: id}
	}

	if idx, ok := state.index[id]; ok {
		cycle := append([]decl.TraitID(nil), state.stack[idx:]...)
		cycle = append(cycle, id)
		return nil, &Error{Kind: ErrCycleDetected, Trait: id, Cycle: cycle}
	}
	state.index[id] = len(state.stack)
	state.stack = append(state.stack, id)

	l, err := e.computeLayout(id, tr, state)

	state.stack = state.stack[:len(state.stack)-1]
	delete(state.index, id)
	if err != nil {
		return nil, err
	}
	return e.cache.publishLayout(id, l), nil
}

func (e *Engine) computeLayout(id decl.TraitID, tr *decl.Trait, state *traversalState) (*Layout, *Error) {
	l := &Layout{Trait: id}

	if len(tr.Supers) == 0 {
		l.Slots = append(l.Slots,
			Slot{Kind: SlotDtor, Trait: id},
			Slot{Kind: SlotSize, Trait: id},
			Slot{Kind: SlotAlign, Trait: id},
		)
	} else {
		for _, super := range tr.Supers {
			sub, err := e.layoutOf(super, state)
			if err != nil {
				return nil, err
			}
			l.Slots = append(l.Slots, sub.Slots...)
		}
	}

	for i := range tr.Methods {
		l.Slots = append(l.Slots, Slot{Kind: SlotMethod, Trait: id, Method: i})
	}
	return l, nil
}

// Words returns the slot count of a trait's layout.
func (e *Engine) Words(id decl.TraitID) (int, error) {
	l, err := e.LayoutOf(id)
	if err != nil {
		return 0, err
	}
	return l.Words(), nil
}

// SizeAlign returns the byte size and alignment of a trait's materialized
// vtable on the engine's target, for embedding as static data.
func (e *Engine) SizeAlign(id decl.TraitID) (size, align int, err error) {
	words, err := e.Words(id)
	if err != nil {
		return 0, 0, err
	}
	return e.Target.Bytes(words), e.Target.PtrAlign, nil
}
