package decl

import "fmt"

// ErrorKind enumerates declaration-ingestion failures.
type ErrorKind uint8

const (
	// ErrDuplicateTrait indicates two declarations with the same name.
	ErrDuplicateTrait ErrorKind = iota + 1
	// ErrUnknownSupertrait indicates a supertrait reference with no declaration.
	ErrUnknownSupertrait
	// ErrUnstableOrder indicates a supertrait list that is not a total, stable
	// order: duplicate entries or a trait listing itself.
	ErrUnstableOrder
	// ErrDuplicateMethod indicates two own methods with the same signature.
	ErrDuplicateMethod
)

// Error reports a rejected declaration.
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
	case ErrDuplicateTrait:
		return fmt.Sprintf("duplicate trait declaration %q", e.Trait)
	case ErrUnknownSupertrait:
		return fmt.Sprintf("trait %q extends unknown trait %q", e.Trait, e.Detail)
	case ErrUnstableOrder:
		return fmt.Sprintf("trait %q has an unstable supertrait order: %s", e.Trait, e.Detail)
	case ErrDuplicateMethod:
		return fmt.Sprintf("trait %q declares method %q twice", e.Trait, e.Detail)
	default:
		return fmt.Sprintf("declaration error kind=%d trait=%q", e.Kind, e.Trait)
	}
}
