package app

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/resilinet/bridgeopt/config"
	"github.com/resilinet/bridgeopt/core/nsga"
)

func writeFileT(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testScenario(t *testing.T, dir, name string) config.Scenario {
	t.Helper()
	return config.Scenario{
		Name:      name,
		NodesFile: writeFileT(t, dir, name+"_nodes.csv", "node_id\nn1\nn2\nn3\nn4\n"),
		LinksFile: writeFileT(t, dir, name+"_links.csv",
			"link_id,from_node,to_node,length,freeflow_speed\n"+
				"l1,n1,n2,2,60\nl2,n2,n3,2,60\nl3,n3,n4,2,60\nl4,n4,n1,2,60\n"),
		BridgesFile: writeFileT(t, dir, name+"_bridges.csv",
			"bridge_id,link_id,adt,damage_state\nb1,l1,500,4\nb2,l3,200,2\n"),
		Metric: "free_flow",
		Crews:  1,
		NSGA: nsga.Options{
			PopulationSize: 6,
			Generations:    3,
			CrossoverRate:  0.8,
			MutationRate:   0.2,
		},
	}
}

func TestServiceRunProducesOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Seed:      42,
		OutputDir: dir,
		Scenarios: []config.Scenario{testScenario(t, dir, "small")},
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}

	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	sched := readCSV(t, filepath.Join(dir, "small_schedule.csv"))
	if len(sched) != 3 {
		t.Fatalf("expected header plus 2 schedule rows, got %d", len(sched))
	}
	prev := -1.0
	for _, row := range sched[1:] {
		end, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			t.Fatalf("bad completion time %q", row[2])
		}
		if end < prev {
			t.Fatalf("schedule not ordered by completion time")
		}
		prev = end
	}

	traj := readCSV(t, filepath.Join(dir, "small_trajectory.csv"))
	if len(traj) < 3 {
		t.Fatalf("expected baseline plus event rows, got %d", len(traj))
	}
	max := 0.0
	for _, row := range traj[1:] {
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			t.Fatalf("bad efficiency %q", row[1])
		}
		if v > max {
			max = v
		}
	}
	if max != 1.0 {
		t.Fatalf("expected normalized trajectory max 1.0, got %g", max)
	}
}

func TestServiceScenarioFailureDoesNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	good := testScenario(t, dir, "good")
	bad := testScenario(t, dir, "bad")
	bad.NodesFile = filepath.Join(dir, "missing.csv")

	cfg := &config.Config{
		Seed:      1,
		OutputDir: dir,
		Scenarios: []config.Scenario{bad, good},
	}
	cfg.SetDefaults()

	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := svc.Run(context.Background()); err == nil {
		t.Fatalf("expected batch error for failing scenario")
	}
	if _, err := os.Stat(filepath.Join(dir, "good_schedule.csv")); err != nil {
		t.Fatalf("good scenario output missing: %v", err)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}
