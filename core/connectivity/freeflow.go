package connectivity

import (
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/resilinet/bridgeopt/core/model"
)

// Damage slows traffic on passable links: at status 2 travel takes twice as
// long, at status 1 a third longer. Links above status 2 are impassable.
const (
	slightSpeedFactor   = 0.75
	moderateSpeedFactor = 0.5
)

// TravelEfficiency computes the free-flow travel efficiency of the network
// under the damage overlay: the sum of inverse shortest-path distances over
// all ordered node pairs. Unreachable pairs contribute zero, so a graph cut
// apart by damage yields a finite, possibly zero, value.
func TravelEfficiency(net *model.Network, ov model.Overlay) float64 {
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for _, id := range net.Nodes() {
		i, _ := net.NodeIndex(id)
		g.AddNode(simple.Node(i))
	}
	for _, e := range net.Edges() {
		status := ov.Status(e.LinkID)
		if status > 2 {
			continue
		}
		w := e.Length
		switch status {
		case 2:
			w /= moderateSpeedFactor
		case 1:
			w /= slightSpeedFactor
		}
		ui, _ := net.NodeIndex(e.From)
		vi, _ := net.NodeIndex(e.To)
		if ui == vi {
			continue
		}
		// Parallel links collapse to the fastest one; only the shortest
		// can ever appear on a shortest path.
		if prev := g.WeightedEdge(int64(ui), int64(vi)); prev != nil && prev.Weight() <= w {
			continue
		}
		g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(ui), T: simple.Node(vi), W: w})
	}

	all := path.DijkstraAllPaths(g)
	sum := 0.0
	n := len(net.Nodes())
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			if u == v {
				continue
			}
			d := all.Weight(int64(u), int64(v))
			if math.IsInf(d, 1) || d <= 0 {
				continue
			}
			sum += 1 / d
		}
	}
	return sum
}
