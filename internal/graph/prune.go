package graph

import (
	"dyntab/internal/decl"
)

// Prune reduces the graph to what the given roots need, in two passes:
//
//  1. Dead-node elimination: keep exactly the nodes reachable from some root
//     over supertrait edges, drop all others.
//  2. Redundant-edge elimination: drop a direct edge A->B when a retained
//     path of length >= 2 still connects A to B. The longer path's
//     intermediate nodes are retained for their own sake, so keeping its
//     edges and dropping the direct one preserves every upcast chain.
//
// Reachability from the roots is identical before and after. Every root must
// be a node of the graph; a missing root is a fatal invariant violation.
func (g *Graph) Prune(roots []decl.TraitID) error {
	rootNodes := make([]NodeID, 0, len(roots))
	for _, id := range roots {
		node, ok := g.NodeOf(id)
		if !ok || !g.Present[node] {
			return &Error{Kind: ErrRootMissing, Trait: id}
		}
		rootNodes = append(rootNodes, node)
	}

	g.dropDeadNodes(rootNodes)
	g.dropRedundantEdges()
	return nil
}

// dropDeadNodes clears Present for every node no root reaches and removes
// edges touching dropped nodes.
func (g *Graph) dropDeadNodes(roots []NodeID) {
	reachable := g.reachableFrom(roots)
	for node := range g.Present {
		g.Present[node] = reachable[node]
	}
	for from := range g.Edges {
		if !g.Present[from] {
			g.Edges[from] = nil
			continue
		}
		kept := g.Edges[from][:0]
		for _, to := range g.Edges[from] {
			if g.Present[to] {
				kept = append(kept, to)
			}
		}
		g.Edges[from] = kept
	}
}

// dropRedundantEdges removes every direct edge that a longer retained path
// duplicates. Nodes are processed in index order and successors in canonical
// order, so the surviving edge set is deterministic.
func (g *Graph) dropRedundantEdges() {
	for from := range g.Edges {
		if !g.Present[from] || len(g.Edges[from]) < 2 {
			continue
		}
		kept := make([]NodeID, 0, len(g.Edges[from]))
		for i, to := range g.Edges[from] {
			if g.coveredByOther(NodeID(from), i, to) {
				continue
			}
			kept = append(kept, to)
		}
		g.Edges[from] = kept
	}
}

// coveredByOther reports whether `to` is reachable from some other successor
// of `from`, i.e. whether the direct edge from->to duplicates a longer path.
func (g *Graph) coveredByOther(from NodeID, edgeIdx int, to NodeID) bool {
	for i, other := range g.Edges[from] {
		if i == edgeIdx {
			continue
		}
		if g.reaches(other, to) {
			return true
		}
	}
	return false
}

// reaches reports whether target is reachable from start over current edges.
func (g *Graph) reaches(start, target NodeID) bool {
	if start == target {
		return true
	}
	seen := make([]bool, len(g.Edges))
	stack := []NodeID{start}
	seen[start] = true
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, to := range g.Edges[node] {
			if to == target {
				return true
			}
			if !seen[to] {
				seen[to] = true
				stack = append(stack, to)
			}
		}
	}
	return false
}

// reachableFrom marks every node some start reaches, starts included.
func (g *Graph) reachableFrom(starts []NodeID) []bool {
	reachable := make([]bool, len(g.Edges))
	stack := make([]NodeID, 0, len(starts))
	for _, node := range starts {
		if !reachable[node] {
			reachable[node] = true
			stack = append(stack, node)
		}
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, to := range g.Edges[node] {
			if !reachable[to] {
				reachable[to] = true
				stack = append(stack, to)
			}
		}
	}
	return reachable
}

// ReachableTraits returns the trait set reachable from the given roots,
// for callers that need the retained-node view (ordering follows node index,
// which is ascending TraitID).
func (g *Graph) ReachableTraits(roots []decl.TraitID) []decl.TraitID {
	rootNodes := make([]NodeID, 0, len(roots))
	for _, id := range roots {
		if node, ok := g.NodeOf(id); ok && g.Present[node] {
			rootNodes = append(rootNodes, node)
		}
	}
	reachable := g.reachableFrom(rootNodes)
	out := make([]decl.TraitID, 0, len(reachable))
	for node, ok := range reachable {
		if ok && g.Present[node] {
			out = append(out, g.TraitOf(NodeID(node)))
		}
	}
	return out
}
