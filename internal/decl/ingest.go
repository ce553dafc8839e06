package decl

import (
	"fmt"

	"fortio.org/safecast"
)

// TraitDecl is the raw declaration shape handed over by the declaration
// resolver. Supers and Methods keep source order; that order becomes canonical
// at ingestion and is never reordered afterwards.
type TraitDecl struct {
	Name       string
	Supers     []string
	Methods    []MethodDecl
	ObjectSafe bool
}

// MethodDecl is one raw method signature.
type MethodDecl struct {
	Name string
	Sig  string
}

// Ingest validates raw declarations and populates a trait arena.
//
// Declarations may reference each other in any order; IDs are assigned in
// declaration order so that recomputing from identical input yields identical
// IDs. Supertrait lists are checked for totality and stability here: a
// duplicate entry or a self reference is rejected, cycles are left to the
// graph builder.
func Ingest(decls []TraitDecl) (*Traits, error) {
	capacity, err := safecast.Conv[uint32](len(decls))
	if err != nil {
		panic(fmt.Errorf("declaration count overflow: %w", err))
	}
	traits := NewTraits(capacity)

	// First pass: allocate every trait so forward references resolve.
	ids := make(map[string]TraitID, len(decls))
	for _, d := range decls {
		if _, dup := ids[d.Name]; dup {
			return nil, &Error{Kind: ErrDuplicateTrait, Trait: d.Name}
		}
		id := traits.New(Trait{
			Name:       traits.Strings.Intern(d.Name),
			ObjectSafe: d.ObjectSafe,
		})
		ids[d.Name] = id
	}

	// Second pass: resolve supertrait references and own methods.
	for _, d := range decls {
		id := ids[d.Name]
		tr := traits.MustGet(id)

		seenSupers := make(map[TraitID]struct{}, len(d.Supers))
		for _, superName := range d.Supers {
			superID, ok := ids[superName]
			if !ok {
				return nil, &Error{Kind: ErrUnknownSupertrait, Trait: d.Name, Detail: superName}
			}
			if superID == id {
				return nil, &Error{Kind: ErrUnstableOrder, Trait: d.Name, Detail: "trait lists itself as a supertrait"}
			}
			if _, dup := seenSupers[superID]; dup {
				return nil, &Error{Kind: ErrUnstableOrder, Trait: d.Name, Detail: "duplicate supertrait " + superName}
			}
			seenSupers[superID] = struct{}{}
			tr.Supers = append(tr.Supers, superID)
		}

		seenSigs := make(map[StringID]struct{}, len(d.Methods))
		for _, m := range d.Methods {
			sig := traits.Strings.Intern(m.Sig)
			if _, dup := seenSigs[sig]; dup {
				return nil, &Error{Kind: ErrDuplicateMethod, Trait: d.Name, Detail: m.Name}
			}
			seenSigs[sig] = struct{}{}
			tr.Methods = append(tr.Methods, Method{
				Name: traits.Strings.Intern(m.Name),
				Sig:  sig,
			})
		}
	}

	return traits, nil
}
