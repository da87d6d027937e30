package connectivity

import (
	"github.com/resilinet/bridgeopt/core/model"
)

// Path is one independent pathway between a node pair.
type Path struct {
	Nodes []model.NodeID
	Links []string
	// ADT is the pathway capacity, taken as the bottleneck average daily
	// traffic along the path.
	ADT float64
}

// PairKey identifies an unordered node pair; U is always the smaller ID.
type PairKey struct {
	U, V model.NodeID
}

// NewPairKey returns the canonical key for the pair.
func NewPairKey(a, b model.NodeID) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{U: a, V: b}
}

// Pathways maps every connected node pair to its ordered sequence of
// edge-disjoint shortest paths.
type Pathways map[PairKey][]Path

// IndependentPathways enumerates, for every node pair, the sequence of
// edge-disjoint shortest paths by hop count: find a shortest path, remove
// its edges, repeat until the pair disconnects. The number of paths for a
// pair is bounded by min(degree(u), degree(v)), but the loop terminates
// naturally when no path remains rather than enforcing that bound.
//
// Paths are found on the full edge set regardless of damage; damage only
// affects the service level of a pathway, never its existence.
func IndependentPathways(net *model.Network) Pathways {
	nodes := net.Nodes()
	pw := make(Pathways)
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			u, v := nodes[i], nodes[j]
			removed := make(map[string]bool)
			var paths []Path
			for {
				edges, ok := hopShortestPath(net, u, v, removed)
				if !ok {
					break
				}
				paths = append(paths, buildPath(u, edges))
				for _, e := range edges {
					removed[e.LinkID] = true
				}
			}
			if len(paths) > 0 {
				pw[NewPairKey(u, v)] = paths
			}
		}
	}
	return pw
}

// hopShortestPath runs a breadth-first search from u to v over the edges
// not yet removed. Parallel links are distinct edges here: removing one of
// them leaves its twins available to later pathways, which is why this
// search works on the raw edge list instead of a simplified graph.
func hopShortestPath(net *model.Network, u, v model.NodeID, removed map[string]bool) ([]*model.Edge, bool) {
	type hop struct {
		node model.NodeID
		via  *model.Edge
		prev *hop
	}
	visited := map[model.NodeID]bool{u: true}
	queue := []*hop{{node: u}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.node == v {
			var edges []*model.Edge
			for h := cur; h.via != nil; h = h.prev {
				edges = append(edges, h.via)
			}
			reverse(edges)
			return edges, true
		}
		for _, e := range net.Adjacent(cur.node) {
			if removed[e.LinkID] {
				continue
			}
			next := e.Other(cur.node)
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, &hop{node: next, via: e, prev: cur})
		}
	}
	return nil, false
}

func reverse(edges []*model.Edge) {
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
}

func buildPath(start model.NodeID, edges []*model.Edge) Path {
	p := Path{Nodes: []model.NodeID{start}}
	cur := start
	adt := 0.0
	for i, e := range edges {
		cur = e.Other(cur)
		p.Nodes = append(p.Nodes, cur)
		p.Links = append(p.Links, e.LinkID)
		if i == 0 || e.ADT < adt {
			adt = e.ADT
		}
	}
	p.ADT = adt
	return p
}

// ServiceLevel is the residual serviceability of a pathway under the
// overlay: the product over its links of (1 - status/4). A single destroyed
// link zeroes the pathway.
func ServiceLevel(ov model.Overlay, p Path) float64 {
	s := 1.0
	for _, link := range p.Links {
		s *= 1 - float64(ov.Status(link))/float64(model.MaxDamageStatus)
	}
	return s
}

// TIPWIndex aggregates the traffic-weighted service level of all pathways
// into one scalar. For each pair, every pathway is weighted by its share of
// the pair's total capacity scaled by the pathway count; per node the pair
// contributions are averaged over the other n-1 nodes, and the node values
// are averaged over all nodes.
func TIPWIndex(net *model.Network, pw Pathways, ov model.Overlay) float64 {
	nodes := net.Nodes()
	n := len(nodes)
	if n < 2 {
		return 0
	}
	total := 0.0
	for _, u := range nodes {
		acc := 0.0
		for _, v := range nodes {
			if u == v {
				continue
			}
			paths := pw[NewPairKey(u, v)]
			if len(paths) == 0 {
				continue
			}
			sumADT := 0.0
			for _, p := range paths {
				sumADT += p.ADT
			}
			if sumADT == 0 {
				continue
			}
			for _, p := range paths {
				w := float64(len(paths)) * p.ADT / sumADT
				acc += w * ServiceLevel(ov, p)
			}
		}
		total += acc / float64(n-1)
	}
	return total / float64(n)
}
