package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	coremetrics "github.com/resilinet/bridgeopt/core/metrics"
)

// PromSink records optimizer events in Prometheus metrics.
type PromSink struct {
	generations  *prometheus.CounterVec
	evaluations  *prometheus.GaugeVec
	recoveryTime *prometheus.GaugeVec
	duration     prometheus.Histogram
	scenarios    *prometheus.CounterVec
}

// NewPromSink registers optimizer metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	generations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_generations_total",
		Help: "Total number of NSGA-II generation steps",
	}, []string{"scenario"})
	evaluations := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "optimizer_evaluations",
		Help: "Fitness evaluations performed per scenario",
	}, []string{"scenario"})
	recoveryTime := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "optimizer_best_recovery_time",
		Help: "Best total recovery time on the current Pareto front",
	}, []string{"scenario"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_scenario_duration_seconds",
		Help:    "Wall-clock time spent optimizing one scenario",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})
	scenarios := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_scenarios_total",
		Help: "Total number of optimized scenarios",
	}, []string{"metric", "degenerate"})

	collectors := []prometheus.Collector{generations, evaluations, recoveryTime, duration, scenarios}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	return &PromSink{
		generations:  collectors[0].(*prometheus.CounterVec),
		evaluations:  collectors[1].(*prometheus.GaugeVec),
		recoveryTime: collectors[2].(*prometheus.GaugeVec),
		duration:     collectors[3].(prometheus.Histogram),
		scenarios:    collectors[4].(*prometheus.CounterVec),
	}, nil
}

// RecordGeneration updates the per-scenario generation metrics.
func (s *PromSink) RecordGeneration(rec coremetrics.GenerationRecord) error {
	s.generations.WithLabelValues(rec.Scenario).Inc()
	s.evaluations.WithLabelValues(rec.Scenario).Set(float64(rec.Evaluations))
	s.recoveryTime.WithLabelValues(rec.Scenario).Set(rec.BestRecoveryTime)
	return nil
}

// RecordScenario counts the finished scenario and observes its duration.
func (s *PromSink) RecordScenario(rec coremetrics.ScenarioRecord) error {
	s.scenarios.WithLabelValues(rec.Metric, boolLabel(rec.Degenerate)).Inc()
	s.duration.Observe(rec.Duration.Seconds())
	return nil
}

// RecordTrajectory is a no-op: trajectory points are time series, not
// aggregates, and belong in the Influx sink.
func (s *PromSink) RecordTrajectory([]coremetrics.TrajectoryRecord) error { return nil }

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
