package graph

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"dyntab/internal/decl"
)

// NodeID is a dense local index into one graph instance.
// Dense indices keep adjacency as slices, so pruning operates on ints rather
// than on a recursive tree walk.
type NodeID uint32

// Index maps between arena TraitIDs and the dense node space of one graph.
type Index struct {
	TraitToNode map[decl.TraitID]NodeID
	NodeToTrait []decl.TraitID
}

// buildIndex collects every trait reachable over supertrait edges from the
// declared set and assigns dense IDs in ascending TraitID order, so two
// builds over the same declarations agree on node numbering.
func buildIndex(traits *decl.Traits, declared []decl.TraitID) Index {
	uniq := make(map[decl.TraitID]struct{}, len(declared))
	stack := make([]decl.TraitID, 0, len(declared))
	for _, id := range declared {
		if !id.IsValid() {
			continue
		}
		if _, ok := uniq[id]; ok {
			continue
		}
		uniq[id] = struct{}{}
		stack = append(stack, id)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		tr := traits.Get(id)
		if tr == nil {
			continue
		}
		for _, super := range tr.Supers {
			if _, ok := uniq[super]; ok {
				continue
			}
			uniq[super] = struct{}{}
			stack = append(stack, super)
		}
	}

	ids := make([]decl.TraitID, 0, len(uniq))
	for id := range uniq {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	traitToNode := make(map[decl.TraitID]NodeID, len(ids))
	for i, id := range ids {
		node, err := safecast.Conv[NodeID](i)
		if err != nil {
			panic(fmt.Errorf("node id overflow: %w", err))
		}
		traitToNode[id] = node
	}
	return Index{
		TraitToNode: traitToNode,
		NodeToTrait: ids,
	}
}
