package vtable

import (
	"sync"

	"dyntab/internal/decl"
)

// cache holds the process-wide, lazily populated layout, offset and concrete
// vtable tables. Layouts and offsets are pure functions of immutable
// declaration data, so concurrent first-time computation is at most redundant
// work: whichever result publishes first wins, any later identical result is
// discarded. That makes a publish-if-absent write sufficient; no lock is held
// while computing.
type cache struct {
	mu       sync.RWMutex
	layouts  map[decl.TraitID]*Layout
	offsets  map[decl.TraitID]map[decl.TraitID]int
	concrete map[concreteKey]*Concrete
}

type concreteKey struct {
	Type string
	Root decl.TraitID
}

func newCache() *cache {
	return &cache{
		layouts:  make(map[decl.TraitID]*Layout, 64),
		offsets:  make(map[decl.TraitID]map[decl.TraitID]int, 64),
		concrete: make(map[concreteKey]*Concrete, 16),
	}
}

func (c *cache) layout(id decl.TraitID) (*Layout, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.layouts[id]
	return l, ok
}

// publishLayout installs l unless a layout for id is already present, and
// returns the installed value either way.
func (c *cache) publishLayout(id decl.TraitID, l *Layout) *Layout {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.layouts[id]; ok {
		return prev
	}
	c.layouts[id] = l
	return l
}

func (c *cache) offsetTable(id decl.TraitID) (map[decl.TraitID]int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.offsets[id]
	return t, ok
}

func (c *cache) publishOffsetTable(id decl.TraitID, t map[decl.TraitID]int) map[decl.TraitID]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.offsets[id]; ok {
		return prev
	}
	c.offsets[id] = t
	return t
}

func (c *cache) concreteVtable(key concreteKey) (*Concrete, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.concrete[key]
	return v, ok
}

func (c *cache) publishConcrete(key concreteKey, v *Concrete) *Concrete {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.concrete[key]; ok {
		return prev
	}
	c.concrete[key] = v
	return v
}
