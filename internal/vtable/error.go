package vtable

import (
	"fmt"
	"strings"

	"dyntab/internal/decl"
)

// ErrorKind enumerates vtable construction errors.
type ErrorKind uint8

const (
	// ErrCycleDetected indicates a supertrait cycle hit during layout
	// traversal. Upstream acyclicity validation makes this an internal
	// invariant violation, not an expected input condition.
	ErrCycleDetected ErrorKind = iota + 1
	// ErrUnknownTrait indicates a TraitID with no arena entry.
	ErrUnknownTrait
	// ErrNotEmbedded indicates an offset query for a trait pair with no
	// embedding relation: the target is not an ancestor of the source.
	ErrNotEmbedded
	// ErrNotObjectSafe indicates a materialization request for a trait whose
	// object-safety verdict is negative.
	ErrNotObjectSafe
)

// Error reports a failed layout, offset or materialization request.
type Error struct {
	Kind     ErrorKind
	Trait    decl.TraitID
	Ancestor decl.TraitID   // for ErrNotEmbedded
	Cycle    []decl.TraitID // for ErrCycleDetected
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrCycleDetected:
		if len(e.Cycle) == 0 {
			return fmt.Sprintf("supertrait cycle involving trait#%d", e.Trait)
		}
		parts := make([]string, 0, len(e.Cycle))
		for _, id := range e.Cycle {
			parts = append(parts, fmt.Sprintf("trait#%d", id))
		}
		return fmt.Sprintf("supertrait cycle during layout: %s", strings.Join(parts, " -> "))
	case ErrUnknownTrait:
		return fmt.Sprintf("unknown trait#%d", e.Trait)
	case ErrNotEmbedded:
		return fmt.Sprintf("trait#%d is not an ancestor of trait#%d", e.Ancestor, e.Trait)
	case ErrNotObjectSafe:
		return fmt.Sprintf("trait#%d is not object safe", e.Trait)
	default:
		return fmt.Sprintf("vtable error kind=%d trait#%d", e.Kind, e.Trait)
	}
}
