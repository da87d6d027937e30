package nsga

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Options defines the evolutionary search parameters loaded from
// configuration.
type Options struct {
	// InitialPopulationSize is the number of chromosomes generated at
	// start-up; defaults to PopulationSize when zero.
	InitialPopulationSize int `json:"initial_population_size" yaml:"initial_population_size"`
	// PopulationSize is the fixed population size across generations.
	PopulationSize int `json:"population_size" yaml:"population_size"`
	// Generations is the number of generation steps to run.
	Generations int `json:"generations" yaml:"generations"`
	// CrossoverRate is the probability an offspring is bred by crossover
	// rather than cloned from its first parent.
	CrossoverRate float64 `json:"crossover_rate" yaml:"crossover_rate"`
	// MutationRate is the probability an offspring receives one swap
	// mutation.
	MutationRate float64 `json:"mutation_rate" yaml:"mutation_rate"`
	// BudgetSeconds bounds the wall-clock time of one run; checked
	// cooperatively between generations. Zero means no budget.
	BudgetSeconds int `json:"budget_seconds" yaml:"budget_seconds"`
}

// SetDefaults applies sane defaults.
func (o *Options) SetDefaults() {
	if o.PopulationSize == 0 {
		o.PopulationSize = 100
	}
	if o.InitialPopulationSize == 0 {
		o.InitialPopulationSize = o.PopulationSize
	}
	if o.Generations == 0 {
		o.Generations = 100
	}
}

// Validate checks parameter ranges.
func (o Options) Validate() error {
	if o.PopulationSize < 2 {
		return fmt.Errorf("population_size must be at least 2, got %d", o.PopulationSize)
	}
	if o.InitialPopulationSize < o.PopulationSize {
		return fmt.Errorf("initial_population_size %d smaller than population_size %d",
			o.InitialPopulationSize, o.PopulationSize)
	}
	if o.Generations < 1 {
		return fmt.Errorf("generations must be positive, got %d", o.Generations)
	}
	if o.CrossoverRate < 0 || o.CrossoverRate > 1 {
		return fmt.Errorf("crossover_rate must be in [0,1], got %g", o.CrossoverRate)
	}
	if o.MutationRate < 0 || o.MutationRate > 1 {
		return fmt.Errorf("mutation_rate must be in [0,1], got %g", o.MutationRate)
	}
	if o.BudgetSeconds < 0 {
		return fmt.Errorf("budget_seconds must not be negative, got %d", o.BudgetSeconds)
	}
	return nil
}

// Budget returns the wall-clock budget, zero when unbounded.
func (o Options) Budget() time.Duration {
	return time.Duration(o.BudgetSeconds) * time.Second
}

// DecodeOptions reads from r to decode Options in the given format.
func DecodeOptions(r io.Reader, format string) (Options, error) {
	var o Options
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&o); err != nil {
			return o, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&o); err != nil {
			return o, err
		}
	default:
		return o, fmt.Errorf("unsupported format: %s", format)
	}
	return o, nil
}
