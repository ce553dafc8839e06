package export_test

import (
	"errors"
	"path/filepath"
	"testing"

	"dyntab/internal/decl"
	"dyntab/internal/export"
	"dyntab/internal/vtable"
)

func newEngine(t *testing.T, decls []decl.TraitDecl) *vtable.Engine {
	t.Helper()
	traits, err := decl.Ingest(decls)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	return vtable.New(vtable.X86_64LinuxGNU(), traits)
}

func sampleDecls() []decl.TraitDecl {
	return []decl.TraitDecl{
		{Name: "Draw", Methods: []decl.MethodDecl{
			{Name: "draw", Sig: "draw(&self)"},
		}, ObjectSafe: true},
		{Name: "Shape", Supers: []string{"Draw"}, Methods: []decl.MethodDecl{
			{Name: "area", Sig: "area(&self)->f64"},
		}, ObjectSafe: true},
	}
}

func TestDescribe_ShapesAreNameKeyed(t *testing.T) {
	eng := newEngine(t, sampleDecls())

	a, err := export.Describe(eng)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if len(a.Traits) != 2 {
		t.Fatalf("expected 2 shapes, got %d", len(a.Traits))
	}
	// Sorted by name: Draw before Shape.
	if a.Traits[0].Name != "Draw" || a.Traits[1].Name != "Shape" {
		t.Fatalf("unexpected order: %s, %s", a.Traits[0].Name, a.Traits[1].Name)
	}
	shape := a.Traits[1]
	if len(shape.Supers) != 1 || shape.Supers[0] != "Draw" {
		t.Fatalf("Shape supers = %v", shape.Supers)
	}
	// dtor, size, align, draw, area.
	if len(shape.SlotKinds) != 5 {
		t.Fatalf("Shape slot kinds = %v", shape.SlotKinds)
	}
}

func TestDigest_StableAcrossUnits(t *testing.T) {
	engA := newEngine(t, sampleDecls())
	engB := newEngine(t, sampleDecls())

	a, err := export.Describe(engA)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	b, err := export.Describe(engB)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	for i := range a.Traits {
		da, err := a.Traits[i].Digest()
		if err != nil {
			t.Fatalf("digest: %v", err)
		}
		db, err := b.Traits[i].Digest()
		if err != nil {
			t.Fatalf("digest: %v", err)
		}
		if da != db {
			t.Fatalf("trait %q digests diverge across identical units", a.Traits[i].Name)
		}
	}
}

func TestWriteRead_Roundtrip(t *testing.T) {
	eng := newEngine(t, sampleDecls())
	a, err := export.Describe(eng)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}

	path := filepath.Join(t.TempDir(), "unit.dtab")
	if err := export.Write(path, a); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, ok, err := export.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !ok {
		t.Fatal("artifact missing after write")
	}
	if err := export.Verify(a, got); err != nil {
		t.Fatalf("roundtripped artifact disagrees: %v", err)
	}
}

func TestRead_MissingFile(t *testing.T) {
	_, ok, err := export.Read(filepath.Join(t.TempDir(), "absent.dtab"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a missing artifact")
	}
}

func TestVerify_DetectsLayoutDisagreement(t *testing.T) {
	engA := newEngine(t, sampleDecls())
	// Same trait names, but Shape's method list differs: a unit compiled
	// against a stale declaration.
	engB := newEngine(t, []decl.TraitDecl{
		{Name: "Draw", Methods: []decl.MethodDecl{
			{Name: "draw", Sig: "draw(&self)"},
		}, ObjectSafe: true},
		{Name: "Shape", Supers: []string{"Draw"}, Methods: []decl.MethodDecl{
			{Name: "area", Sig: "area(&self)->f64"},
			{Name: "perimeter", Sig: "perimeter(&self)->f64"},
		}, ObjectSafe: true},
	})

	a, err := export.Describe(engA)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	b, err := export.Describe(engB)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}

	err = export.Verify(a, b)
	if err == nil {
		t.Fatal("expected layout mismatch, got nil")
	}
	var eerr *export.Error
	if !errors.As(err, &eerr) || eerr.Kind != export.ErrLayoutMismatch {
		t.Fatalf("expected ErrLayoutMismatch, got %v", err)
	}
	if eerr.Trait != "Shape" {
		t.Fatalf("mismatch attributed to %q, want Shape", eerr.Trait)
	}
}

func TestVerify_DisjointTraitsAgree(t *testing.T) {
	engA := newEngine(t, []decl.TraitDecl{{Name: "OnlyInA", ObjectSafe: true}})
	engB := newEngine(t, []decl.TraitDecl{{Name: "OnlyInB", ObjectSafe: true}})

	a, err := export.Describe(engA)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	b, err := export.Describe(engB)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if err := export.Verify(a, b); err != nil {
		t.Fatalf("disjoint units must verify cleanly: %v", err)
	}
}

func TestVerify_TargetMismatch(t *testing.T) {
	a := &export.Artifact{Target: "x86_64-linux-gnu"}
	b := &export.Artifact{Target: "aarch64-linux-gnu"}
	err := export.Verify(a, b)
	var eerr *export.Error
	if !errors.As(err, &eerr) || eerr.Kind != export.ErrTargetMismatch {
		t.Fatalf("expected ErrTargetMismatch, got %v", err)
	}
}
