package metrics

import "errors"

// MultiSink forwards records to several sinks, collecting their errors.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines the sinks into one.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordGeneration(rec GenerationRecord) error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.RecordGeneration(rec))
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordScenario(rec ScenarioRecord) error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.RecordScenario(rec))
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordTrajectory(recs []TrajectoryRecord) error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.RecordTrajectory(recs))
	}
	return errors.Join(errs...)
}
