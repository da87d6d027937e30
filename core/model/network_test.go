package model

import "testing"

func testBridges() []Bridge {
	return []Bridge{
		{ID: "b1", LinkID: "l1", ADT: 100, State: Moderate},
		{ID: "b2", LinkID: "l2", ADT: 500, State: Complete},
	}
}

func testLinks() []EdgeSpec {
	return []EdgeSpec{
		{LinkID: "l1", From: "n1", To: "n2", Length: 10, FreeFlowSpeed: 60},
		{LinkID: "l2", From: "n2", To: "n3", Length: 5, FreeFlowSpeed: 60},
		{LinkID: "l3", From: "n1", To: "n3", Length: 8, FreeFlowSpeed: 60},
	}
}

func TestNewNetwork(t *testing.T) {
	net, err := NewNetwork([]NodeID{"n1", "n2", "n3"}, testLinks(), testBridges())
	if err != nil {
		t.Fatalf("build network: %v", err)
	}
	if len(net.Nodes()) != 3 || len(net.Edges()) != 3 {
		t.Fatalf("unexpected sizes: %d nodes %d edges", len(net.Nodes()), len(net.Edges()))
	}
	if net.Degree("n1") != 2 {
		t.Fatalf("expected degree 2 for n1, got %d", net.Degree("n1"))
	}
}

func TestBridgelessEdgeInheritsMaxADT(t *testing.T) {
	net, err := NewNetwork([]NodeID{"n1", "n2", "n3"}, testLinks(), testBridges())
	if err != nil {
		t.Fatalf("build network: %v", err)
	}
	e, ok := net.EdgeByLink("l3")
	if !ok {
		t.Fatalf("missing edge l3")
	}
	if e.ADT != 500 {
		t.Fatalf("expected inherited ADT 500, got %g", e.ADT)
	}
}

func TestNewNetworkUnknownNode(t *testing.T) {
	links := []EdgeSpec{{LinkID: "l1", From: "n1", To: "nX", Length: 1, FreeFlowSpeed: 1}}
	if _, err := NewNetwork([]NodeID{"n1", "n2"}, links, nil); err == nil {
		t.Fatalf("expected unknown node error")
	}
}

func TestNewNetworkUnknownLink(t *testing.T) {
	bridges := []Bridge{{ID: "b1", LinkID: "nope", ADT: 1, State: Slight}}
	if _, err := NewNetwork([]NodeID{"n1", "n2"}, testLinks()[:1], bridges); err == nil {
		t.Fatalf("expected unknown link error")
	}
}

func TestNewNetworkInvalidDamageState(t *testing.T) {
	bridges := []Bridge{{ID: "b1", LinkID: "l1", ADT: 1, State: DamageState(7)}}
	if _, err := NewNetwork([]NodeID{"n1", "n2"}, testLinks()[:1], bridges); err == nil {
		t.Fatalf("expected invalid damage state error")
	}
}

func TestDamageOverlay(t *testing.T) {
	net, err := NewNetwork([]NodeID{"n1", "n2", "n3"}, testLinks(), testBridges())
	if err != nil {
		t.Fatalf("build network: %v", err)
	}
	ov := net.DamageOverlay()
	if ov.Status("l1") != DamageStatus(Moderate) {
		t.Fatalf("expected moderate damage on l1, got %d", ov.Status("l1"))
	}
	if ov.Status("l3") != 0 {
		t.Fatalf("expected l3 undamaged, got %d", ov.Status("l3"))
	}
	ov.Repair("l1")
	if ov.Status("l1") != 0 {
		t.Fatalf("repair did not clear damage")
	}
	// A clone must not leak repairs back.
	cl := net.DamageOverlay().Clone()
	cl.Repair("l2")
	if net.DamageOverlay().Status("l2") == 0 {
		t.Fatalf("clone mutated the source overlay")
	}
}

func TestRepairDurations(t *testing.T) {
	cases := map[DamageState]float64{
		Slight:    0.6,
		Moderate:  2.5,
		Extensive: 75,
		Complete:  230,
	}
	for state, want := range cases {
		if got := state.RepairDuration(); got != want {
			t.Fatalf("%s: expected %g, got %g", state, want, got)
		}
	}
}

func TestDamagedBridgesSorted(t *testing.T) {
	bridges := []Bridge{
		{ID: "z", LinkID: "l1", ADT: 1, State: Slight},
		{ID: "a", LinkID: "l2", ADT: 1, State: Slight},
	}
	net, err := NewNetwork([]NodeID{"n1", "n2", "n3"}, testLinks(), bridges)
	if err != nil {
		t.Fatalf("build network: %v", err)
	}
	got := net.DamagedBridges()
	if got[0].ID != "a" || got[1].ID != "z" {
		t.Fatalf("bridges not sorted: %v", got)
	}
}
