package vtable

import (
	"fmt"

	"fortio.org/safecast"

	"dyntab/internal/decl"
)

// DynObject models the two-word representation of a trait object handed to
// the code generator: a data pointer and a vtable pointer, both as plain
// addresses.
type DynObject struct {
	Data   uint64
	Vtable uint64
}

// Upcast converts a trait object of trait `from` to ancestor trait `to`.
// The data pointer is unchanged; the vtable pointer moves by the precomputed
// constant byte offset. One integer addition, no dereference, no branch.
func (e *Engine) Upcast(obj DynObject, from, to decl.TraitID) (DynObject, error) {
	off, err := e.ByteOffset(from, to)
	if err != nil {
		return DynObject{}, err
	}
	delta, convErr := safecast.Conv[uint64](off)
	if convErr != nil {
		panic(fmt.Errorf("upcast offset overflow: %w", convErr))
	}
	return DynObject{
		Data:   obj.Data,
		Vtable: obj.Vtable + delta,
	}, nil
}
