// Package export persists each trait's externally visible layout description.
// Separately compiled units never exchange layouts at build time; they each
// derive them from the trait's own declaration and compare the persisted
// descriptions at link time. A divergence is a build-system consistency
// failure, reported as ErrLayoutMismatch.
package export

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"dyntab/internal/decl"
	"dyntab/internal/vtable"
)

// Current schema version - increment when the artifact format changes
const artifactSchemaVersion uint16 = 1

// TraitShape is the externally visible layout description of one trait:
// everything a separately compiled consumer needs to compute identical
// offsets. All references are by name, so two units with differently
// numbered arenas still produce byte-identical shapes.
type TraitShape struct {
	Name      string
	Supers    []string // canonical supertrait order
	Methods   []string // own method signatures in declaration order
	SlotKinds []uint8  // full layout, one kind per word
}

// Artifact is the persisted layout description of one compilation unit.
type Artifact struct {
	Schema uint16
	Target string
	Traits []TraitShape // sorted by trait name
}

// Describe exports the layout description of every trait in the engine's
// arena.
func Describe(eng *vtable.Engine) (*Artifact, error) {
	a := &Artifact{
		Schema: artifactSchemaVersion,
		Target: eng.Target.Triple,
	}

	var walkErr error
	eng.Traits.All(func(id decl.TraitID, tr *decl.Trait) bool {
		shape, err := describeTrait(eng, id, tr)
		if err != nil {
			walkErr = err
			return false
		}
		a.Traits = append(a.Traits, shape)
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(a.Traits, func(i, j int) bool {
		return a.Traits[i].Name < a.Traits[j].Name
	})
	return a, nil
}

func describeTrait(eng *vtable.Engine, id decl.TraitID, tr *decl.Trait) (TraitShape, error) {
	layout, err := eng.LayoutOf(id)
	if err != nil {
		return TraitShape{}, err
	}

	shape := TraitShape{
		Name:      eng.Traits.NameOf(id),
		SlotKinds: make([]uint8, 0, len(layout.Slots)),
	}
	for _, super := range tr.Supers {
		shape.Supers = append(shape.Supers, eng.Traits.NameOf(super))
	}
	for _, m := range tr.Methods {
		shape.Methods = append(shape.Methods, eng.Traits.Strings.MustLookup(m.Sig))
	}
	for _, slot := range layout.Slots {
		shape.SlotKinds = append(shape.SlotKinds, uint8(slot.Kind))
	}
	return shape, nil
}

// Digest returns the sha256 of a shape's msgpack encoding, hex-encoded.
func (s TraitShape) Digest() (string, error) {
	raw, err := msgpack.Marshal(s)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
