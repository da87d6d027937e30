package connectivity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resilinet/bridgeopt/core/model"
)

// diamond builds a 4-node network with two edge-disjoint routes between a
// and c: a-b-c and a-d-c.
func diamond(t *testing.T) *model.Network {
	t.Helper()
	net, err := model.NewNetwork(
		[]model.NodeID{"a", "b", "c", "d"},
		[]model.EdgeSpec{
			{LinkID: "ab", From: "a", To: "b", Length: 1, FreeFlowSpeed: 60},
			{LinkID: "bc", From: "b", To: "c", Length: 1, FreeFlowSpeed: 60},
			{LinkID: "ad", From: "a", To: "d", Length: 1, FreeFlowSpeed: 60},
			{LinkID: "dc", From: "d", To: "c", Length: 1, FreeFlowSpeed: 60},
		},
		[]model.Bridge{
			{ID: "b1", LinkID: "ab", ADT: 300, State: model.Complete},
			{ID: "b2", LinkID: "dc", ADT: 100, State: model.Slight},
		},
	)
	require.NoError(t, err)
	return net
}

func TestIndependentPathwaysEdgeDisjoint(t *testing.T) {
	net := diamond(t)
	pw := IndependentPathways(net)

	paths := pw[NewPairKey("a", "c")]
	require.Len(t, paths, 2)

	used := make(map[string]int)
	for _, p := range paths {
		assert.Len(t, p.Links, 2, "shortest routes in the diamond have two hops")
		for _, link := range p.Links {
			used[link]++
		}
	}
	for link, count := range used {
		assert.Equal(t, 1, count, "link %s reused across pathways", link)
	}
}

func TestIndependentPathwaysIgnoreDamage(t *testing.T) {
	// Pathway existence depends only on topology; the destroyed ab link
	// still appears in a pathway.
	net := diamond(t)
	pw := IndependentPathways(net)
	found := false
	for _, p := range pw[NewPairKey("a", "c")] {
		for _, link := range p.Links {
			if link == "ab" {
				found = true
			}
		}
	}
	assert.True(t, found, "destroyed link missing from pathways")
}

func TestServiceLevel(t *testing.T) {
	net := diamond(t)
	ov := net.DamageOverlay()
	pw := IndependentPathways(net)

	for _, p := range pw[NewPairKey("a", "c")] {
		lvl := ServiceLevel(ov, p)
		switch {
		case contains(p.Links, "ab"):
			// Complete damage zeroes the whole pathway.
			assert.Zero(t, lvl)
		case contains(p.Links, "dc"):
			// Slight damage: 1 * (1 - 1/4).
			assert.InDelta(t, 0.75, lvl, 1e-12)
		default:
			assert.Equal(t, 1.0, lvl)
		}
	}
}

func TestTIPWIndexBounds(t *testing.T) {
	net := diamond(t)
	pw := IndependentPathways(net)

	undamaged := TIPWIndex(net, pw, model.Overlay{})
	damaged := TIPWIndex(net, pw, net.DamageOverlay())

	assert.Greater(t, undamaged, 0.0)
	assert.Less(t, damaged, undamaged)
}

func TestTIPWIndexMonotonicUnderRepair(t *testing.T) {
	net := diamond(t)
	pw := IndependentPathways(net)
	ov := net.DamageOverlay()

	prev := TIPWIndex(net, pw, ov)
	for _, link := range []string{"ab", "dc"} {
		ov.Repair(link)
		cur := TIPWIndex(net, pw, ov)
		assert.GreaterOrEqual(t, cur, prev, "index dropped after repairing %s", link)
		prev = cur
	}
}

func TestNewMetric(t *testing.T) {
	net := diamond(t)
	for _, m := range []Metric{WIPW, FreeFlow} {
		fn, err := New(m, net)
		require.NoError(t, err)
		assert.Greater(t, fn(model.Overlay{}), 0.0)
	}
	_, err := New(Metric("bogus"), net)
	require.Error(t, err)
}

func contains(links []string, link string) bool {
	for _, l := range links {
		if l == link {
			return true
		}
	}
	return false
}
