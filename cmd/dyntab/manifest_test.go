package main

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleManifest = `target = "x86_64-linux-gnu"

[[trait]]
name = "Draw"

  [[trait.method]]
  name = "draw"
  sig = "draw(&self)"

[[trait]]
name = "Shape"
supers = ["Draw"]

  [[trait.method]]
  name = "area"
  sig = "area(&self)->f64"

[[type]]
name = "Circle"
dtor = "Circle::drop"
size = 16
align = 8
implements = ["Shape"]

  [[type.binding]]
  trait = "Draw"
  sig = "draw(&self)"
  symbol = "Circle::draw"

  [[type.binding]]
  trait = "Shape"
  sig = "area(&self)->f64"
  symbol = "Circle::area"
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dyntab.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	m, err := loadManifest(writeManifest(t, sampleManifest))
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}

	if m.Traits.Len() != 2 {
		t.Fatalf("expected 2 traits, got %d", m.Traits.Len())
	}
	shape, ok := m.Traits.Lookup("Shape")
	if !ok {
		t.Fatal("Shape not ingested")
	}
	tr := m.Traits.MustGet(shape)
	if len(tr.Supers) != 1 || m.Traits.NameOf(tr.Supers[0]) != "Draw" {
		t.Fatalf("Shape supers wrong: %v", tr.Supers)
	}
	if !tr.ObjectSafe {
		t.Fatal("object_safe should default to true")
	}

	symbol, err := m.DB.Binding("Circle", "Shape", "area(&self)->f64")
	if err != nil {
		t.Fatalf("binding: %v", err)
	}
	if symbol != "Circle::area" {
		t.Fatalf("binding = %q", symbol)
	}
}

func TestLoadManifest_UnsupportedTarget(t *testing.T) {
	content := `target = "riscv64-unknown-elf"

[[trait]]
name = "A"
`
	if _, err := loadManifest(writeManifest(t, content)); err == nil {
		t.Fatal("expected unsupported-target error")
	}
}

func TestLoadManifest_BadDeclarations(t *testing.T) {
	content := `[[trait]]
name = "A"
supers = ["Missing"]
`
	if _, err := loadManifest(writeManifest(t, content)); err == nil {
		t.Fatal("expected ingest error for unknown supertrait")
	}
}
