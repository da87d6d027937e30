package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/resilinet/bridgeopt/core/connectivity"
	"github.com/resilinet/bridgeopt/core/metrics"
	"github.com/resilinet/bridgeopt/core/nsga"
)

// Config is the root configuration of an optimization run.
type Config struct {
	// Seed seeds the run's random generators; 0 selects a time-based seed.
	Seed int64 `json:"seed"`
	// Workers bounds how many scenarios are optimized concurrently.
	// Defaults to the number of scenarios.
	Workers int `json:"workers"`
	// OutputDir receives the per-scenario schedule and trajectory files.
	OutputDir string `json:"output_dir"`
	// OutputFormat is "csv" or "json".
	OutputFormat string         `json:"output_format"`
	Metrics      metrics.Config `json:"metrics"`
	Scenarios    []Scenario     `json:"scenarios"`
}

// Scenario describes one damage scenario to optimize.
type Scenario struct {
	Name        string `json:"name"`
	NodesFile   string `json:"nodes_file"`
	LinksFile   string `json:"links_file"`
	BridgesFile string `json:"bridges_file"`
	// Metric selects the performance index: "wipw" or "free_flow".
	Metric string `json:"performance_metric"`
	// Crews is the maximum number of concurrent repair crews (simax).
	Crews int          `json:"crew_count"`
	NSGA  nsga.Options `json:"nsga"`
}

// Load reads the configuration file, applying BRIDGEOPT_ environment
// overrides on top.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("BRIDGEOPT_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "bridgeopt_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.OutputFormat == "" {
		c.OutputFormat = "csv"
	}
	if c.Workers == 0 {
		c.Workers = len(c.Scenarios)
	}
	c.Metrics.SetDefaults()
	for i := range c.Scenarios {
		s := &c.Scenarios[i]
		if s.Metric == "" {
			s.Metric = string(connectivity.FreeFlow)
		}
		if s.Crews == 0 {
			s.Crews = 1
		}
		s.NSGA.SetDefaults()
	}
}

// Validate checks the whole configuration before any optimization starts.
func (c Config) Validate() error {
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("at least one scenario is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" {
		return fmt.Errorf("unsupported output format %q", c.OutputFormat)
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	names := make(map[string]bool, len(c.Scenarios))
	for _, s := range c.Scenarios {
		if err := s.Validate(); err != nil {
			return err
		}
		if names[s.Name] {
			return fmt.Errorf("duplicate scenario name %q", s.Name)
		}
		names[s.Name] = true
	}
	return nil
}

// Validate checks one scenario block.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if s.NodesFile == "" || s.LinksFile == "" || s.BridgesFile == "" {
		return fmt.Errorf("scenario %s: nodes_file, links_file and bridges_file are required", s.Name)
	}
	if !connectivity.Metric(s.Metric).Valid() {
		return fmt.Errorf("scenario %s: unknown performance metric %q", s.Name, s.Metric)
	}
	if s.Crews < 1 {
		return fmt.Errorf("scenario %s: crew_count must be positive, got %d", s.Name, s.Crews)
	}
	if err := s.NSGA.Validate(); err != nil {
		return fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return nil
}
