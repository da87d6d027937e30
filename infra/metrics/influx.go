package metrics

import (
	"context"
	"math"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/resilinet/bridgeopt/core/metrics"
	"github.com/resilinet/bridgeopt/infra/logger"
)

// InfluxSink writes optimizer events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured from cfg.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns
// a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordGeneration writes one generation step as a point.
func (s *InfluxSink) RecordGeneration(rec coremetrics.GenerationRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("optimizer_generation").
		AddTag("run_id", rec.RunID).
		AddTag("scenario", rec.Scenario).
		AddField("generation", rec.Generation).
		AddField("front_size", rec.FrontSize).
		AddField("evaluations", rec.Evaluations).
		AddField("best_recovery_time", round3(rec.BestRecoveryTime)).
		AddField("best_skewness", round3(rec.BestSkewness)).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordScenario writes the scenario summary.
func (s *InfluxSink) RecordScenario(rec coremetrics.ScenarioRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("optimizer_scenario").
		AddTag("run_id", rec.RunID).
		AddTag("scenario", rec.Scenario).
		AddTag("metric", rec.Metric).
		AddTag("degenerate", strconv.FormatBool(rec.Degenerate)).
		AddField("bridges", rec.Bridges).
		AddField("recovery_time", round3(rec.RecoveryTime)).
		AddField("skewness", round3(rec.Skewness)).
		AddField("front_size", rec.FrontSize).
		AddField("duration_seconds", rec.Duration.Seconds()).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordTrajectory writes the winning schedule's recovery curve as points.
func (s *InfluxSink) RecordTrajectory(recs []coremetrics.TrajectoryRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range recs {
		p := write.NewPointWithMeasurement("recovery_point").
			AddTag("run_id", r.RunID).
			AddTag("scenario", r.Scenario).
			AddField("event_time", round3(r.EventTime)).
			AddField("efficiency", r.Efficiency).
			AddField("normalized", r.Normalized).
			SetTime(r.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
