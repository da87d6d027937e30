// Package export writes the winning repair schedule and recovery trajectory
// in formats downstream tooling consumes.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/resilinet/bridgeopt/core/scheduler"
)

// WriteScheduleJSON writes the repair schedule to w in JSON format.
func WriteScheduleJSON(w io.Writer, schedule []scheduler.Assignment) error {
	enc := json.NewEncoder(w)
	return enc.Encode(schedule)
}

// WriteScheduleCSV writes the repair schedule to w as CSV.
func WriteScheduleCSV(w io.Writer, schedule []scheduler.Assignment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"bridge_id", "start", "completion_time"}); err != nil {
		return err
	}
	for _, a := range schedule {
		rec := []string{
			a.BridgeID,
			formatFloat(a.Start),
			formatFloat(a.End),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTrajectoryJSON writes the recovery trajectory to w in JSON format.
func WriteTrajectoryJSON(w io.Writer, points []scheduler.TrajectoryPoint) error {
	enc := json.NewEncoder(w)
	return enc.Encode(points)
}

// WriteTrajectoryCSV writes the recovery trajectory to w as CSV.
func WriteTrajectoryCSV(w io.Writer, points []scheduler.TrajectoryPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"event_time", "normalized_travel_efficiency"}); err != nil {
		return err
	}
	for _, p := range points {
		rec := []string{
			formatFloat(p.Time),
			formatFloat(p.Efficiency),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
