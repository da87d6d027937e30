// Package app wires configuration, metrics and logging around the
// optimizer core and drives one batch of damage scenarios.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/resilinet/bridgeopt/config"
	"github.com/resilinet/bridgeopt/core/connectivity"
	coremetrics "github.com/resilinet/bridgeopt/core/metrics"
	"github.com/resilinet/bridgeopt/core/model"
	"github.com/resilinet/bridgeopt/core/nsga"
	"github.com/resilinet/bridgeopt/core/scheduler"
	"github.com/resilinet/bridgeopt/infra/input"
	"github.com/resilinet/bridgeopt/infra/logger"
	"github.com/resilinet/bridgeopt/infra/metrics"
	"github.com/resilinet/bridgeopt/internal/eventbus"
	"github.com/resilinet/bridgeopt/pkg/export"
)

// ProgressEvent reports scenario progress on the service event bus.
type ProgressEvent struct {
	Scenario   string
	Stage      string // "started", "generation", "completed", "failed"
	Generation int
	Best       nsga.Objectives
	Err        error
}

// Service orchestrates one optimization batch. Scenarios are independent:
// each owns its network, population and RNG, so they fan out over worker
// goroutines with no shared mutable state.
type Service struct {
	cfg   *config.Config
	log   logger.Logger
	sink  coremetrics.Sink
	bus   *eventbus.Bus[ProgressEvent]
	runID string
	seed  int64
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	sink, err := metrics.NewSink(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Service{
		cfg:   cfg,
		log:   logger.New("service"),
		sink:  sink,
		bus:   eventbus.New[ProgressEvent](),
		runID: uuid.NewString(),
		seed:  seed,
	}, nil
}

// Events exposes the progress bus for external consumers.
func (s *Service) Events() *eventbus.Bus[ProgressEvent] { return s.bus }

// Run optimizes all configured scenarios and blocks until they finish or
// ctx is cancelled. A failing scenario is logged and recorded but never
// aborts the rest of the batch.
func (s *Service) Run(ctx context.Context) error {
	s.log.Infof("run %s: %d scenarios, seed %d", s.runID, len(s.cfg.Scenarios), s.seed)
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	events := s.bus.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			s.logEvent(ev)
		}
	}()

	sem := make(chan struct{}, s.cfg.Workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed int
	for i, sc := range s.cfg.Scenarios {
		wg.Add(1)
		go func(idx int, sc config.Scenario) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if err := s.runScenario(ctx, idx, sc); err != nil {
				s.bus.Publish(ProgressEvent{Scenario: sc.Name, Stage: "failed", Err: err})
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(i, sc)
	}
	wg.Wait()
	s.bus.Close()
	<-done

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(s.cfg.Scenarios))
	}
	return nil
}

func (s *Service) logEvent(ev ProgressEvent) {
	switch ev.Stage {
	case "generation":
		s.log.Debugw("generation", map[string]any{
			"scenario":      ev.Scenario,
			"generation":    ev.Generation,
			"recovery_time": ev.Best[0],
			"skewness":      ev.Best[1],
		})
	case "failed":
		s.log.Errorf("scenario %s failed: %v", ev.Scenario, ev.Err)
	default:
		s.log.Infof("scenario %s %s", ev.Scenario, ev.Stage)
	}
}

// runScenario loads the scenario tables, runs the evolutionary search and
// emits the winning schedule and recovery trajectory.
func (s *Service) runScenario(ctx context.Context, idx int, sc config.Scenario) error {
	start := time.Now()
	s.bus.Publish(ProgressEvent{Scenario: sc.Name, Stage: "started"})

	net, err := s.loadNetwork(sc)
	if err != nil {
		return err
	}
	candidates := net.DamagedBridges()
	if len(candidates) == 0 {
		return fmt.Errorf("scenario %s: no damaged bridges", sc.Name)
	}

	metricFn, err := connectivity.New(connectivity.Metric(sc.Metric), net)
	if err != nil {
		return err
	}
	eval, err := scheduler.NewEvaluator(net, candidates, sc.Crews, metricFn)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(s.seed + int64(idx)))
	engine, err := nsga.New(sc.NSGA, nsga.EvaluatorFunc(func(order []int) (nsga.Objectives, error) {
		res, err := eval.Evaluate(order)
		if err != nil {
			return nsga.Objectives{}, err
		}
		return nsga.Objectives{res.TotalRecoveryTime, res.TrajectorySkewness}, nil
	}), rng, logger.New("nsga-"+sc.Name))
	if err != nil {
		return err
	}
	engine.Progress = func(ev nsga.GenerationEvent) {
		s.bus.Publish(ProgressEvent{
			Scenario:   sc.Name,
			Stage:      "generation",
			Generation: ev.Generation,
			Best:       ev.Best,
		})
		if err := s.sink.RecordGeneration(coremetrics.GenerationRecord{
			RunID:            s.runID,
			Scenario:         sc.Name,
			Generation:       ev.Generation,
			FrontSize:        ev.FrontSize,
			Evaluations:      ev.Evaluations,
			BestRecoveryTime: ev.Best[0],
			BestSkewness:     ev.Best[1],
			Time:             time.Now(),
		}); err != nil {
			s.log.Warnf("record generation: %v", err)
		}
	}

	front, err := engine.Run(ctx, len(candidates))
	if err != nil && !errors.Is(err, nsga.ErrBudgetExceeded) {
		return err
	}
	if errors.Is(err, nsga.ErrBudgetExceeded) {
		s.log.Warnf("scenario %s: returning partial Pareto front", sc.Name)
	}
	if len(front) == 0 {
		return fmt.Errorf("scenario %s: empty Pareto front", sc.Name)
	}

	winner := front[len(front)-1]
	res, err := eval.Evaluate(winner.Order)
	if err != nil {
		return err
	}
	if res.Degenerate {
		s.log.Warnf("scenario %s: degenerate trajectory, skewness objective unreliable", sc.Name)
	}

	if err := s.writeOutputs(sc, res); err != nil {
		return err
	}
	s.recordScenario(sc, res, len(candidates), len(front), time.Since(start))
	s.bus.Publish(ProgressEvent{Scenario: sc.Name, Stage: "completed"})
	return nil
}

func (s *Service) loadNetwork(sc config.Scenario) (*model.Network, error) {
	nodes, err := input.LoadNodes(sc.NodesFile)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	links, err := input.LoadLinks(sc.LinksFile)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	bridges, err := input.LoadBridges(sc.BridgesFile)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	net, err := model.NewNetwork(nodes, links, bridges)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	return net, nil
}

func (s *Service) writeOutputs(sc config.Scenario, res scheduler.Result) error {
	schedule := append([]scheduler.Assignment(nil), res.Schedule...)
	sort.Slice(schedule, func(i, j int) bool { return schedule[i].End < schedule[j].End })
	trajectory := scheduler.NormalizedTrajectory(res.Trajectory)

	ext := s.cfg.OutputFormat
	schedPath := filepath.Join(s.cfg.OutputDir, sc.Name+"_schedule."+ext)
	trajPath := filepath.Join(s.cfg.OutputDir, sc.Name+"_trajectory."+ext)

	if err := writeFile(schedPath, func(f *os.File) error {
		if ext == "json" {
			return export.WriteScheduleJSON(f, schedule)
		}
		return export.WriteScheduleCSV(f, schedule)
	}); err != nil {
		return fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	if err := writeFile(trajPath, func(f *os.File) error {
		if ext == "json" {
			return export.WriteTrajectoryJSON(f, trajectory)
		}
		return export.WriteTrajectoryCSV(f, trajectory)
	}); err != nil {
		return fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Service) recordScenario(sc config.Scenario, res scheduler.Result, bridges, frontSize int, dur time.Duration) {
	now := time.Now()
	if err := s.sink.RecordScenario(coremetrics.ScenarioRecord{
		RunID:        s.runID,
		Scenario:     sc.Name,
		Metric:       sc.Metric,
		Bridges:      bridges,
		RecoveryTime: res.TotalRecoveryTime,
		Skewness:     res.TrajectorySkewness,
		FrontSize:    frontSize,
		Degenerate:   res.Degenerate,
		Duration:     dur,
		Time:         now,
	}); err != nil {
		s.log.Warnf("record scenario: %v", err)
	}
	normalized := scheduler.NormalizedTrajectory(res.Trajectory)
	recs := make([]coremetrics.TrajectoryRecord, 0, len(res.Trajectory))
	for i, p := range res.Trajectory {
		recs = append(recs, coremetrics.TrajectoryRecord{
			RunID:      s.runID,
			Scenario:   sc.Name,
			EventTime:  p.Time,
			Efficiency: p.Efficiency,
			Normalized: normalized[i].Efficiency,
			Time:       now,
		})
	}
	if err := s.sink.RecordTrajectory(recs); err != nil {
		s.log.Warnf("record trajectory: %v", err)
	}
}
