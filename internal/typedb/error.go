package typedb

import "fmt"

// ErrorKind enumerates implementation-database failures.
type ErrorKind uint8

const (
	// ErrUnknownType indicates a lookup for an unregistered type.
	ErrUnknownType ErrorKind = iota + 1
	// ErrMissingBinding indicates a type with no implementation for a
	// requested trait method signature.
	ErrMissingBinding
	// ErrUnknownTrait indicates a type declaring a trait with no
	// declaration in the arena.
	ErrUnknownTrait
)

// Error reports a failed database lookup.
type Error struct {
	Kind   ErrorKind
	Type   string
	Detail string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrUnknownType:
		return fmt.Sprintf("unknown type %q", e.Type)
	case ErrMissingBinding:
		return fmt.Sprintf("type %q has no implementation for %s", e.Type, e.Detail)
	case ErrUnknownTrait:
		return fmt.Sprintf("type %q implements unknown trait %q", e.Type, e.Detail)
	default:
		return fmt.Sprintf("typedb error kind=%d type=%q", e.Kind, e.Type)
	}
}
