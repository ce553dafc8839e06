package graph

import (
	"fmt"
	"strings"

	"dyntab/internal/decl"
)

// ErrorKind enumerates graph construction and pruning failures.
// Both kinds are internal invariant violations: upstream validation is
// supposed to make them impossible, but they must never loop or silently
// produce a wrong graph.
type ErrorKind uint8

const (
	// ErrCycleDetected indicates a supertrait cycle.
	ErrCycleDetected ErrorKind = iota + 1
	// ErrRootMissing indicates a root trait absent from the pruned graph.
	ErrRootMissing
)

// Error reports a graph invariant violation.
type Error struct {
	Kind  ErrorKind
	Trait decl.TraitID
	Cycle []decl.TraitID // for ErrCycleDetected
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
		return fmt.Sprintf("supertrait cycle: %s", strings.Join(parts, " -> "))
	case ErrRootMissing:
		return fmt.Sprintf("root trait#%d missing from pruned graph", e.Trait)
	default:
		return fmt.Sprintf("graph error kind=%d trait#%d", e.Kind, e.Trait)
	}
}
