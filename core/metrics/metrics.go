package metrics

import "time"

// GenerationRecord captures the outcome of one NSGA-II generation step.
type GenerationRecord struct {
	RunID       string
	Scenario    string
	Generation  int
	FrontSize   int
	Evaluations int
	// BestRecoveryTime and BestSkewness are the objectives of the current
	// front member with the lowest total recovery time.
	BestRecoveryTime float64
	BestSkewness     float64
	Time             time.Time
}

// ScenarioRecord summarizes one optimized damage scenario.
type ScenarioRecord struct {
	RunID        string
	Scenario     string
	Metric       string
	Bridges      int
	RecoveryTime float64
	Skewness     float64
	FrontSize    int
	Degenerate   bool
	Duration     time.Duration
	Time         time.Time
}

// TrajectoryRecord is one point of a winning schedule's recovery curve.
type TrajectoryRecord struct {
	RunID      string
	Scenario   string
	EventTime  float64
	Efficiency float64
	Normalized float64
	Time       time.Time
}

// Sink records optimizer events for observability purposes.
type Sink interface {
	RecordGeneration(rec GenerationRecord) error
	RecordScenario(rec ScenarioRecord) error
	RecordTrajectory(recs []TrajectoryRecord) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordGeneration(GenerationRecord) error   { return nil }
func (NopSink) RecordScenario(ScenarioRecord) error       { return nil }
func (NopSink) RecordTrajectory([]TrajectoryRecord) error { return nil }
