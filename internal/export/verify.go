package export

import "fmt"

// ErrorKind enumerates artifact failures.
type ErrorKind uint8

const (
	// ErrLayoutMismatch indicates two units disagree on a trait's layout.
	ErrLayoutMismatch ErrorKind = iota + 1
	// ErrTargetMismatch indicates artifacts built for different targets.
	ErrTargetMismatch
	// ErrSchema indicates an artifact with an unsupported schema version.
	ErrSchema
)

// Error reports an artifact inconsistency.
type Error struct {
	Kind   ErrorKind
	Trait  string
	Detail string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrLayoutMismatch:
		return fmt.Sprintf("layout mismatch for trait %q: %s", e.Trait, e.Detail)
	case ErrTargetMismatch:
		return fmt.Sprintf("target mismatch: %s", e.Detail)
	case ErrSchema:
		return fmt.Sprintf("unsupported artifact schema: %s", e.Detail)
	default:
		return fmt.Sprintf("artifact error kind=%d trait=%q", e.Kind, e.Trait)
	}
}

// Verify compares two units' layout descriptions, the link-time consistency
// check. Traits present in both must have identical shapes; traits present
// in only one unit are fine, upcasts across units only ever touch shared
// traits.
func Verify(a, b *Artifact) error {
	if a.Target != b.Target {
		return &Error{
			Kind:   ErrTargetMismatch,
			Detail: fmt.Sprintf("%q vs %q", a.Target, b.Target),
		}
	}

	byName := make(map[string]TraitShape, len(a.Traits))
	for _, shape := range a.Traits {
		byName[shape.Name] = shape
	}
	for _, shape := range b.Traits {
		other, shared := byName[shape.Name]
		if !shared {
			continue
		}
		digestA, err := other.Digest()
		if err != nil {
			return err
		}
		digestB, err := shape.Digest()
		if err != nil {
			return err
		}
		if digestA != digestB {
			return &Error{
				Kind:  ErrLayoutMismatch,
				Trait: shape.Name,
				Detail: fmt.Sprintf("digest %s vs %s", shortDigest(digestA),
					shortDigest(digestB)),
			}
		}
	}
	return nil
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
