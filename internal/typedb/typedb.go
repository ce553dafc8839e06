// Package typedb is the in-memory face of the type/implementation database:
// for each concrete type, the traits it implements and the symbol bound to
// each trait method signature. The vtable instantiator consumes it through
// the vtable.Impl interface; binding failures are reported here, before any
// vtable is materialized.
package typedb

import (
	"fmt"
	"sort"
)

// TypeInfo describes one concrete implementing type.
type TypeInfo struct {
	Name       string
	Dtor       string // destructor symbol
	Size       uint64 // bytes
	Align      uint64 // bytes
	Implements []string
	// Bindings maps trait name -> method signature -> implementation symbol.
	Bindings map[string]map[string]string
}

// DB holds implementing types keyed by name.
type DB struct {
	types map[string]*TypeInfo
}

// New creates an empty database.
func New() *DB {
	return &DB{types: make(map[string]*TypeInfo, 16)}
}

// Add registers a type, replacing any previous entry with the same name.
func (db *DB) Add(info *TypeInfo) {
	db.types[info.Name] = info
}

// Get returns the record for a type name.
func (db *DB) Get(typeName string) (*TypeInfo, bool) {
	info, ok := db.types[typeName]
	return info, ok
}

// TypeNames returns every registered type in sorted order.
func (db *DB) TypeNames() []string {
	names := make([]string, 0, len(db.types))
	for name := range db.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Implements returns the trait names a type declares, in declaration order.
func (db *DB) Implements(typeName string) ([]string, error) {
	info, ok := db.types[typeName]
	if !ok {
		return nil, &Error{Kind: ErrUnknownType, Type: typeName}
	}
	return info.Implements, nil
}

// Metadata returns the destructor symbol, size and alignment of a type.
func (db *DB) Metadata(typeName string) (dtor string, size, align uint64, err error) {
	info, ok := db.types[typeName]
	if !ok {
		return "", 0, 0, &Error{Kind: ErrUnknownType, Type: typeName}
	}
	return info.Dtor, info.Size, info.Align, nil
}

// Binding returns the implementation symbol a type binds to a trait method
// signature.
func (db *DB) Binding(typeName, traitName, sig string) (string, error) {
	info, ok := db.types[typeName]
	if !ok {
		return "", &Error{Kind: ErrUnknownType, Type: typeName}
	}
	symbol, ok := info.Bindings[traitName][sig]
	if !ok {
		return "", &Error{
			Kind:   ErrMissingBinding,
			Type:   typeName,
			Detail: fmt.Sprintf("%s::%s", traitName, sig),
		}
	}
	return symbol, nil
}
