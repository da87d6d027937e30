package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/resilinet/bridgeopt/core/model"
)

func writeTable(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write table: %v", err)
	}
	return path
}

func TestLoadNodes(t *testing.T) {
	path := writeTable(t, "nodes.csv", "node_id\nn1\nn2\nn3\n")
	nodes, err := LoadNodes(path)
	if err != nil {
		t.Fatalf("load nodes: %v", err)
	}
	if len(nodes) != 3 || nodes[0] != "n1" {
		t.Fatalf("unexpected nodes: %v", nodes)
	}
}

func TestLoadLinks(t *testing.T) {
	path := writeTable(t, "links.csv",
		"link_id,from_node,to_node,length,freeflow_speed\nl1,n1,n2,12.5,60\n")
	links, err := LoadLinks(path)
	if err != nil {
		t.Fatalf("load links: %v", err)
	}
	want := model.EdgeSpec{LinkID: "l1", From: "n1", To: "n2", Length: 12.5, FreeFlowSpeed: 60}
	if links[0] != want {
		t.Fatalf("expected %+v, got %+v", want, links[0])
	}
}

func TestLoadBridges(t *testing.T) {
	path := writeTable(t, "bridges.csv",
		"bridge_id,link_id,adt,damage_state\nb1,l1,1500,3\n")
	bridges, err := LoadBridges(path)
	if err != nil {
		t.Fatalf("load bridges: %v", err)
	}
	b := bridges[0]
	if b.ID != "b1" || b.State != model.Extensive || b.ADT != 1500 {
		t.Fatalf("unexpected bridge: %+v", b)
	}
}

func TestLoadBridgesRejectsBadState(t *testing.T) {
	path := writeTable(t, "bridges.csv",
		"bridge_id,link_id,adt,damage_state\nb1,l1,1500,9\n")
	if _, err := LoadBridges(path); err == nil {
		t.Fatalf("expected damage state error")
	}
}

func TestLoadRejectsColumnMismatch(t *testing.T) {
	path := writeTable(t, "links.csv",
		"link_id,from_node,to_node,length,freeflow_speed\nl1,n1,n2,12.5\n")
	if _, err := LoadLinks(path); err == nil {
		t.Fatalf("expected column count error")
	}
}

func TestLoadRejectsEmptyTable(t *testing.T) {
	path := writeTable(t, "nodes.csv", "")
	if _, err := LoadNodes(path); err == nil {
		t.Fatalf("expected empty table error")
	}
}
