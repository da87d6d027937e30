// Package scheduler turns a repair-order permutation into a crew-constrained
// repair schedule and scores the resulting recovery trajectory.
package scheduler

import (
	"fmt"
	"sort"

	"github.com/resilinet/bridgeopt/core/connectivity"
	"github.com/resilinet/bridgeopt/core/model"
)

// Assignment is the repair window of one bridge.
type Assignment struct {
	BridgeID string  `json:"bridge_id"`
	Start    float64 `json:"start"`
	End      float64 `json:"completion_time"`
}

// TrajectoryPoint is one sample of the network performance over time.
type TrajectoryPoint struct {
	Time       float64 `json:"event_time"`
	Efficiency float64 `json:"efficiency"`
}

// Result holds the outcome of evaluating one repair order.
type Result struct {
	// TotalRecoveryTime is the completion time of the last repair.
	TotalRecoveryTime float64
	// TrajectorySkewness is the time-weighted mean event time of the
	// recovery curve, the second minimization objective. Lower values mean
	// useful connectivity returns earlier.
	TrajectorySkewness float64
	// Degenerate is set when the trajectory carried zero total weighted
	// efficiency and the skewness could not be formed; the reported value
	// is the last valid one and must be treated cautiously.
	Degenerate bool
	Schedule   []Assignment
	Trajectory []TrajectoryPoint
}

// Evaluator scores repair-order permutations for one scenario. It is not
// safe for concurrent use; each worker owns its own Evaluator.
type Evaluator struct {
	net        *model.Network
	candidates []model.Bridge
	crews      int
	metric     connectivity.Func
}

// NewEvaluator builds an Evaluator over the scenario's damaged bridges.
// crews is the maximum number of bridges under repair at once.
func NewEvaluator(net *model.Network, candidates []model.Bridge, crews int, metric connectivity.Func) (*Evaluator, error) {
	if crews < 1 {
		return nil, fmt.Errorf("crew count must be at least 1, got %d", crews)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no damaged bridges to schedule")
	}
	for _, b := range candidates {
		if _, ok := net.EdgeByLink(b.LinkID); !ok {
			return nil, fmt.Errorf("bridge %s: unknown link %s", b.ID, b.LinkID)
		}
	}
	return &Evaluator{net: net, candidates: candidates, crews: crews, metric: metric}, nil
}

// Candidates returns the damaged bridges being scheduled.
func (ev *Evaluator) Candidates() []model.Bridge { return ev.candidates }

// Evaluate schedules the bridges in the given priority order and replays
// the repair timeline against a private damage overlay. order must be a
// permutation of [0, len(candidates)).
func (ev *Evaluator) Evaluate(order []int) (Result, error) {
	if len(order) != len(ev.candidates) {
		return Result{}, fmt.Errorf("order length %d does not match %d candidates", len(order), len(ev.candidates))
	}

	// List scheduling: crew availability times, kept ascending. The first
	// `crews` bridges start at zero, each later one when the earliest crew
	// frees up.
	avail := make([]float64, ev.crews)
	schedule := make([]Assignment, 0, len(order))
	total := 0.0
	for _, idx := range order {
		if idx < 0 || idx >= len(ev.candidates) {
			return Result{}, fmt.Errorf("order index %d out of range", idx)
		}
		b := ev.candidates[idx]
		start := avail[0]
		avail = avail[1:]
		end := start + b.State.RepairDuration()
		i := sort.SearchFloat64s(avail, end)
		avail = append(avail, 0)
		copy(avail[i+1:], avail[i:])
		avail[i] = end
		schedule = append(schedule, Assignment{BridgeID: b.ID, Start: start, End: end})
		if end > total {
			total = end
		}
	}

	res := Result{TotalRecoveryTime: total, Schedule: schedule}
	ev.replay(&res)
	return res, nil
}

// replay walks the distinct completion-time events in ascending order,
// repairing every bridge finished by each event on a fresh overlay and
// re-evaluating the performance metric.
func (ev *Evaluator) replay(res *Result) {
	events := make([]float64, 0, len(res.Schedule))
	seen := make(map[float64]bool, len(res.Schedule))
	for _, a := range res.Schedule {
		if !seen[a.End] {
			seen[a.End] = true
			events = append(events, a.End)
		}
	}
	sort.Float64s(events)

	ov := ev.net.DamageOverlay()
	endByBridge := make(map[string]float64, len(res.Schedule))
	for _, a := range res.Schedule {
		endByBridge[a.BridgeID] = a.End
	}

	res.Trajectory = append(res.Trajectory, TrajectoryPoint{Time: 0, Efficiency: ev.metric(ov)})

	num, den := 0.0, 0.0
	prev := 0.0
	for _, t := range events {
		for _, b := range ev.candidates {
			if endByBridge[b.ID] <= t {
				ov.Repair(b.LinkID)
			}
		}
		te := ev.metric(ov)
		res.Trajectory = append(res.Trajectory, TrajectoryPoint{Time: t, Efficiency: te})
		dt := t - prev
		num += te * t * dt
		den += te * dt
		prev = t
	}
	if den == 0 {
		// Zero weighted efficiency across the whole horizon; keep the last
		// valid skewness (zero) rather than dividing by zero.
		res.Degenerate = true
		return
	}
	res.TrajectorySkewness = num / den
}

// NormalizedTrajectory returns the trajectory scaled so that its maximum
// efficiency is exactly 1. A trajectory with no positive efficiency is
// returned unchanged.
func NormalizedTrajectory(points []TrajectoryPoint) []TrajectoryPoint {
	max := 0.0
	for _, p := range points {
		if p.Efficiency > max {
			max = p.Efficiency
		}
	}
	out := make([]TrajectoryPoint, len(points))
	copy(out, points)
	if max == 0 {
		return out
	}
	for i := range out {
		out[i].Efficiency /= max
	}
	return out
}
