package model

import (
	"fmt"
	"sort"
)

// NodeID identifies a network node.
type NodeID string

// Edge is one undirected road link. Damage is tracked separately through an
// Overlay so that concurrent evaluations never share mutable state.
type Edge struct {
	LinkID        string
	From, To      NodeID
	Length        float64
	FreeFlowSpeed float64
	// ADT is the average daily traffic on the link. Links without an
	// associated bridge inherit the maximum ADT observed across all
	// bridges; this is a policy choice of the upstream methodology, not a
	// general-purpose default.
	ADT float64
}

// Other returns the endpoint opposite to n.
func (e *Edge) Other(n NodeID) NodeID {
	if e.From == n {
		return e.To
	}
	return e.From
}

// EdgeSpec is one row of the link table used to build a Network.
type EdgeSpec struct {
	LinkID        string
	From, To      NodeID
	Length        float64
	FreeFlowSpeed float64
}

// Network is the undirected road graph for one scenario. It is immutable
// after construction; all damage is expressed through Overlay values.
type Network struct {
	nodes    []NodeID
	nodeIdx  map[NodeID]int
	edges    []*Edge
	byLink   map[string]*Edge
	adjacent map[NodeID][]*Edge
	bridges  map[string]Bridge // keyed by bridge ID
}

// NewNetwork builds a Network from the node, link and bridge tables.
// Construction is all-or-nothing: an edge referencing an unknown node or a
// bridge referencing an unknown link fails the whole build.
func NewNetwork(nodes []NodeID, links []EdgeSpec, bridges []Bridge) (*Network, error) {
	n := &Network{
		nodeIdx:  make(map[NodeID]int, len(nodes)),
		byLink:   make(map[string]*Edge, len(links)),
		adjacent: make(map[NodeID][]*Edge, len(nodes)),
		bridges:  make(map[string]Bridge, len(bridges)),
	}
	for _, id := range nodes {
		if _, ok := n.nodeIdx[id]; ok {
			return nil, fmt.Errorf("duplicate node %s", id)
		}
		n.nodeIdx[id] = len(n.nodes)
		n.nodes = append(n.nodes, id)
	}

	adtByLink := make(map[string]float64, len(bridges))
	maxADT := 0.0
	for _, b := range bridges {
		if err := b.Validate(); err != nil {
			return nil, err
		}
		if _, ok := n.bridges[b.ID]; ok {
			return nil, fmt.Errorf("duplicate bridge %s", b.ID)
		}
		n.bridges[b.ID] = b
		adtByLink[b.LinkID] = b.ADT
		if b.ADT > maxADT {
			maxADT = b.ADT
		}
	}

	for _, spec := range links {
		if _, ok := n.nodeIdx[spec.From]; !ok {
			return nil, fmt.Errorf("link %s: unknown node %s", spec.LinkID, spec.From)
		}
		if _, ok := n.nodeIdx[spec.To]; !ok {
			return nil, fmt.Errorf("link %s: unknown node %s", spec.LinkID, spec.To)
		}
		if _, ok := n.byLink[spec.LinkID]; ok {
			return nil, fmt.Errorf("duplicate link %s", spec.LinkID)
		}
		adt, ok := adtByLink[spec.LinkID]
		if !ok {
			adt = maxADT
		}
		e := &Edge{
			LinkID:        spec.LinkID,
			From:          spec.From,
			To:            spec.To,
			Length:        spec.Length,
			FreeFlowSpeed: spec.FreeFlowSpeed,
			ADT:           adt,
		}
		n.edges = append(n.edges, e)
		n.byLink[e.LinkID] = e
		n.adjacent[e.From] = append(n.adjacent[e.From], e)
		n.adjacent[e.To] = append(n.adjacent[e.To], e)
	}

	for id, b := range n.bridges {
		if _, ok := n.byLink[b.LinkID]; !ok {
			return nil, fmt.Errorf("bridge %s: unknown link %s", id, b.LinkID)
		}
	}
	return n, nil
}

// Nodes returns the node IDs in insertion order.
func (n *Network) Nodes() []NodeID { return n.nodes }

// NodeIndex returns the dense index of the node, for graph libraries that
// address nodes by integer ID.
func (n *Network) NodeIndex(id NodeID) (int, bool) {
	i, ok := n.nodeIdx[id]
	return i, ok
}

// Edges returns all edges.
func (n *Network) Edges() []*Edge { return n.edges }

// EdgeByLink returns the edge with the given link ID.
func (n *Network) EdgeByLink(link string) (*Edge, bool) {
	e, ok := n.byLink[link]
	return e, ok
}

// Adjacent returns the edges incident to the node.
func (n *Network) Adjacent(id NodeID) []*Edge { return n.adjacent[id] }

// Degree returns the number of edges incident to the node.
func (n *Network) Degree(id NodeID) int { return len(n.adjacent[id]) }

// Bridge returns the bridge with the given ID.
func (n *Network) Bridge(id string) (Bridge, bool) {
	b, ok := n.bridges[id]
	return b, ok
}

// DamagedBridges returns the bridges needing repair, in a deterministic
// order (sorted by bridge ID).
func (n *Network) DamagedBridges() []Bridge {
	out := make([]Bridge, 0, len(n.bridges))
	for _, b := range n.bridges {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
