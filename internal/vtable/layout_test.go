package vtable_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"dyntab/internal/decl"
	"dyntab/internal/vtable"
)

func ingest(t *testing.T, decls []decl.TraitDecl) *decl.Traits {
	t.Helper()
	traits, err := decl.Ingest(decls)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	return traits
}

func id(t *testing.T, traits *decl.Traits, name string) decl.TraitID {
	t.Helper()
	tid, ok := traits.Lookup(name)
	if !ok {
		t.Fatalf("trait %q not found", name)
	}
	return tid
}

func newEngine(t *testing.T, decls []decl.TraitDecl) (*vtable.Engine, *decl.Traits) {
	t.Helper()
	traits := ingest(t, decls)
	return vtable.New(vtable.X86_64LinuxGNU(), traits), traits
}

func methods(n int) []decl.MethodDecl {
	names := []string{"alpha", "beta", "gamma", "delta"}
	out := make([]decl.MethodDecl, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, decl.MethodDecl{Name: names[i], Sig: names[i] + "(&self)"})
	}
	return out
}

func TestLayout_NoSupertraits(t *testing.T) {
	eng, traits := newEngine(t, []decl.TraitDecl{
		{Name: "Display", Methods: methods(2), ObjectSafe: true},
	})

	l, err := eng.LayoutOf(id(t, traits, "Display"))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if l.Words() != 5 {
		t.Fatalf("expected 5 words (3 metadata + 2 methods), got %d", l.Words())
	}
	wantKinds := []vtable.SlotKind{
		vtable.SlotDtor, vtable.SlotSize, vtable.SlotAlign,
		vtable.SlotMethod, vtable.SlotMethod,
	}
	for i, want := range wantKinds {
		if l.Slots[i].Kind != want {
			t.Fatalf("slot %d: expected %v, got %v", i, want, l.Slots[i].Kind)
		}
	}
}

func TestLayout_LinearChainNineWords(t *testing.T) {
	// A -> B -> C, 2 methods each: 3 metadata + 2+2+2 methods = 9 words at
	// the root of the chain.
	eng, traits := newEngine(t, []decl.TraitDecl{
		{Name: "C", Methods: methods(2), ObjectSafe: true},
		{Name: "B", Supers: []string{"C"}, Methods: methods(2), ObjectSafe: true},
		{Name: "A", Supers: []string{"B"}, Methods: methods(2), ObjectSafe: true},
	})

	words, err := eng.Words(id(t, traits, "A"))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if words != 9 {
		t.Fatalf("expected 9 words for the chain root, got %d", words)
	}

	// The metadata triple appears exactly once, at the head.
	l, _ := eng.LayoutOf(id(t, traits, "A"))
	for i, slot := range l.Slots {
		isMeta := slot.Kind != vtable.SlotMethod
		if isMeta != (i < 3) {
			t.Fatalf("metadata misplaced at slot %d: %v", i, slot.Kind)
		}
	}
}

func TestLayout_ThreeParentsSeventeenWords(t *testing.T) {
	// Three independent parents with 2 methods each embed sequentially into
	// the child: 3*(3+2) + 2 = 17 words.
	eng, traits := newEngine(t, []decl.TraitDecl{
		{Name: "P1", Methods: methods(2), ObjectSafe: true},
		{Name: "P2", Methods: methods(2), ObjectSafe: true},
		{Name: "P3", Methods: methods(2), ObjectSafe: true},
		{Name: "Child", Supers: []string{"P1", "P2", "P3"}, Methods: methods(2), ObjectSafe: true},
	})

	words, err := eng.Words(id(t, traits, "Child"))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if words != 17 {
		t.Fatalf("expected 17 words, got %d", words)
	}
}

func TestLayout_EmbeddingIsContiguous(t *testing.T) {
	eng, traits := newEngine(t, []decl.TraitDecl{
		{Name: "P1", Methods: methods(2), ObjectSafe: true},
		{Name: "P2", Methods: methods(1), ObjectSafe: true},
		{Name: "Child", Supers: []string{"P1", "P2"}, Methods: methods(2), ObjectSafe: true},
	})

	child, _ := eng.LayoutOf(id(t, traits, "Child"))
	for _, parent := range []string{"P1", "P2"} {
		pl, _ := eng.LayoutOf(id(t, traits, parent))
		off, err := eng.Offset(id(t, traits, "Child"), id(t, traits, parent))
		if err != nil {
			t.Fatalf("offset: %v", err)
		}
		sub := child.Slots[off : off+pl.Words()]
		if !reflect.DeepEqual(sub, pl.Slots) {
			t.Fatalf("%s layout not embedded contiguously at offset %d", parent, off)
		}
	}
}

func TestLayout_DiamondDuplicatesCommonAncestor(t *testing.T) {
	// Base's method slots appear once per sibling path: no packing across
	// divergent paths.
	eng, traits := newEngine(t, []decl.TraitDecl{
		{Name: "Base", Methods: methods(2), ObjectSafe: true},
		{Name: "Left", Supers: []string{"Base"}, Methods: methods(2), ObjectSafe: true},
		{Name: "Right", Supers: []string{"Base"}, Methods: methods(2), ObjectSafe: true},
		{Name: "Top", Supers: []string{"Left", "Right"}, Methods: methods(2), ObjectSafe: true},
	})

	l, err := eng.LayoutOf(id(t, traits, "Top"))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	// Left = Right = 3+2+2 = 7 words; Top = 7+7+2 = 16 words.
	if l.Words() != 16 {
		t.Fatalf("expected 16 words, got %d", l.Words())
	}

	base := id(t, traits, "Base")
	baseMethodSlots := 0
	for _, slot := range l.Slots {
		if slot.Kind == vtable.SlotMethod && slot.Trait == base {
			baseMethodSlots++
		}
	}
	if baseMethodSlots != 4 {
		t.Fatalf("expected Base's 2 methods duplicated per path (4 slots), got %d", baseMethodSlots)
	}
}

func TestLayout_PureFunctionOfDeclaration(t *testing.T) {
	decls := []decl.TraitDecl{
		{Name: "Base", Methods: methods(2), ObjectSafe: true},
		{Name: "Top", Supers: []string{"Base"}, Methods: methods(1), ObjectSafe: true},
	}
	engA, traitsA := newEngine(t, decls)
	engB, traitsB := newEngine(t, decls)

	la, err := engA.LayoutOf(id(t, traitsA, "Top"))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	lb, err := engB.LayoutOf(id(t, traitsB, "Top"))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if !reflect.DeepEqual(la.Slots, lb.Slots) {
		t.Fatal("independent engines disagree on layout from identical declarations")
	}
}

func TestLayout_CycleDetected(t *testing.T) {
	traits := ingest(t, []decl.TraitDecl{
		{Name: "A", Supers: []string{"B"}, ObjectSafe: true},
		{Name: "B", Supers: []string{"A"}, ObjectSafe: true},
	})
	eng := vtable.New(vtable.X86_64LinuxGNU(), traits)

	_, err := eng.LayoutOf(id(t, traits, "A"))
	if err == nil {
		t.Fatal("expected cycle error, got nil")
	}
	var verr *vtable.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *vtable.Error, got %T (%v)", err, err)
	}
	if verr.Kind != vtable.ErrCycleDetected {
		t.Fatalf("expected ErrCycleDetected, got kind=%d", verr.Kind)
	}
	if len(verr.Cycle) == 0 {
		t.Fatal("expected non-empty cycle path")
	}
}

func TestLayout_UnknownTrait(t *testing.T) {
	eng, _ := newEngine(t, []decl.TraitDecl{{Name: "A", ObjectSafe: true}})
	_, err := eng.LayoutOf(decl.TraitID(42))
	var verr *vtable.Error
	if !errors.As(err, &verr) || verr.Kind != vtable.ErrUnknownTrait {
		t.Fatalf("expected ErrUnknownTrait, got %v", err)
	}
}

func TestLayout_ConcurrentComputationConverges(t *testing.T) {
	eng, traits := newEngine(t, []decl.TraitDecl{
		{Name: "Base", Methods: methods(2), ObjectSafe: true},
		{Name: "Left", Supers: []string{"Base"}, Methods: methods(2), ObjectSafe: true},
		{Name: "Right", Supers: []string{"Base"}, Methods: methods(2), ObjectSafe: true},
		{Name: "Top", Supers: []string{"Left", "Right"}, Methods: methods(2), ObjectSafe: true},
	})
	top := id(t, traits, "Top")

	const workers = 16
	results := make([]*vtable.Layout, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l, err := eng.LayoutOf(top)
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			results[i] = l
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if !reflect.DeepEqual(results[0].Slots, results[i].Slots) {
			t.Fatalf("worker %d observed a different layout", i)
		}
	}
}
