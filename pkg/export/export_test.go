package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/resilinet/bridgeopt/core/scheduler"
)

var schedule = []scheduler.Assignment{
	{BridgeID: "b2", Start: 0, End: 0.6},
	{BridgeID: "b1", Start: 0.6, End: 230.6},
}

var trajectory = []scheduler.TrajectoryPoint{
	{Time: 0, Efficiency: 0.25},
	{Time: 230.6, Efficiency: 1},
}

func TestWriteScheduleCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteScheduleCSV(&buf, schedule); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "bridge_id,start,completion_time" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if lines[1] != "b2,0,0.6" || lines[2] != "b1,0.6,230.6" {
		t.Fatalf("unexpected rows: %v", lines[1:])
	}
}

func TestWriteScheduleJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteScheduleJSON(&buf, schedule); err != nil {
		t.Fatalf("write: %v", err)
	}
	var got []scheduler.Assignment
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[1].End != 230.6 {
		t.Fatalf("unexpected schedule: %+v", got)
	}
}

func TestWriteTrajectoryCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTrajectoryCSV(&buf, trajectory); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "event_time,normalized_travel_efficiency" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if lines[2] != "230.6,1" {
		t.Fatalf("unexpected row: %s", lines[2])
	}
}
