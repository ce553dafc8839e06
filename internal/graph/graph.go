package graph

import (
	"dyntab/internal/decl"
)

// Graph is the supertrait graph for one implementing type: one node per
// trait transitively reachable from the declared set, one edge per declared
// direct-supertrait relation. Edges[from] keeps the canonical supertrait
// order of the trait at `from`.
type Graph struct {
	Idx     Index
	Edges   [][]NodeID
	Present []bool // cleared by pruning, never by Build

	traits *decl.Traits
}

// Build constructs the graph for the declared trait set.
//
// The supertrait relation is validated acyclic upstream; a cycle found here
// is a fatal invariant violation reported as ErrCycleDetected rather than an
// unbounded traversal.
func Build(traits *decl.Traits, declared []decl.TraitID) (*Graph, error) {
	idx := buildIndex(traits, declared)
	nodeCount := len(idx.NodeToTrait)

	g := &Graph{
		Idx:     idx,
		Edges:   make([][]NodeID, nodeCount),
		Present: make([]bool, nodeCount),
		traits:  traits,
	}
	for node, traitID := range idx.NodeToTrait {
		g.Present[node] = true
		tr := traits.Get(traitID)
		if tr == nil || len(tr.Supers) == 0 {
			continue
		}
		edges := make([]NodeID, 0, len(tr.Supers))
		for _, super := range tr.Supers {
			// buildIndex closed over the same supertrait lists, so every
			// target is present in the index.
			edges = append(edges, idx.TraitToNode[super])
		}
		g.Edges[node] = edges
	}

	if err := g.checkAcyclic(); err != nil {
		return nil, err
	}
	return g, nil
}

// Traits returns the arena this graph was built against.
func (g *Graph) Traits() *decl.Traits { return g.traits }

// TraitOf returns the arena ID for a node.
func (g *Graph) TraitOf(node NodeID) decl.TraitID {
	return g.Idx.NodeToTrait[node]
}

// NodeOf returns the node for an arena ID, or false when the trait is not in
// this graph.
func (g *Graph) NodeOf(id decl.TraitID) (NodeID, bool) {
	node, ok := g.Idx.TraitToNode[id]
	return node, ok
}

const (
	colorUnvisited uint8 = iota
	colorInProgress
	colorDone
)

// checkAcyclic runs a tri-color depth-first walk over every node.
// An in-progress node seen again closes a cycle; the cycle path is recovered
// from the walk stack for the error message.
func (g *Graph) checkAcyclic() error {
	color := make([]uint8, len(g.Edges))
	stack := make([]NodeID, 0, len(g.Edges))

	var walk func(node NodeID) *Error
	walk = func(node NodeID) *Error {
		color[node] = colorInProgress
		stack = append(stack, node)
		for _, to := range g.Edges[node] {
			switch color[to] {
			case colorUnvisited:
				if err := walk(to); err != nil {
					return err
				}
			case colorInProgress:
				cycle := make([]decl.TraitID, 0, len(stack)+1)
				start := 0
				for i, n := range stack {
					if n == to {
						start = i
						break
					}
				}
				for _, n := range stack[start:] {
					cycle = append(cycle, g.TraitOf(n))
				}
				cycle = append(cycle, g.TraitOf(to))
				return &Error{Kind: ErrCycleDetected, Trait: g.TraitOf(to), Cycle: cycle}
			}
		}
		stack = stack[:len(stack)-1]
		color[node] = colorDone
		return nil
	}

	for node := range g.Edges {
		if color[node] != colorUnvisited {
			continue
		}
		if err := walk(NodeID(node)); err != nil {
			return err
		}
	}
	return nil
}
