package nsga

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/resilinet/bridgeopt/core/logger"
)

// Evaluator scores a repair-order permutation with two minimization
// objectives.
type Evaluator interface {
	Objectives(order []int) (Objectives, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(order []int) (Objectives, error)

func (f EvaluatorFunc) Objectives(order []int) (Objectives, error) { return f(order) }

// GenerationEvent reports the progress of one generation step.
type GenerationEvent struct {
	Generation int
	FrontSize  int
	// Best holds the objectives of the chromosome with the lowest total
	// recovery time on the current first front.
	Best        Objectives
	Evaluations int
}

// ErrEmptyFront indicates population bookkeeping produced an empty front; a
// precondition violation inside the engine, surfaced to the driver instead
// of crashing.
var ErrEmptyFront = errors.New("nsga: empty front during generation")

// ErrBudgetExceeded indicates the wall-clock budget ran out before the
// generation budget did. The partial result returned with it is still a
// valid Pareto set of the work done so far.
var ErrBudgetExceeded = errors.New("nsga: generation budget exceeded")

// Engine runs the NSGA-II search. Construct it with New; the zero value is
// not usable.
type Engine struct {
	opts Options
	eval Evaluator
	rng  *rand.Rand
	log  logger.Logger
	// Progress, when set, is invoked after every generation step.
	Progress func(GenerationEvent)

	memo        map[string]Objectives
	evaluations int
}

// New creates an Engine. The caller seeds the RNG; the engine never
// reseeds, so identical seeds reproduce identical runs.
func New(opts Options, eval Evaluator, rng *rand.Rand, log logger.Logger) (*Engine, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if eval == nil {
		return nil, errors.New("nsga: evaluator is required")
	}
	if rng == nil {
		return nil, errors.New("nsga: rng is required")
	}
	return &Engine{
		opts: opts,
		eval: eval,
		rng:  rng,
		log:  log,
		memo: make(map[string]Objectives),
	}, nil
}

// Evaluations returns the number of fitness evaluations performed so far,
// excluding memoized hits.
func (e *Engine) Evaluations() int { return e.evaluations }

// Run evolves permutations of [0, size) and returns the first front of the
// final combined parent and offspring population, sorted by total recovery
// time. It stops early when ctx is cancelled or the wall-clock budget is
// exhausted; in the budget case the accumulated front is returned together
// with ErrBudgetExceeded.
func (e *Engine) Run(ctx context.Context, size int) ([]*Chromosome, error) {
	if size < 1 {
		return nil, fmt.Errorf("nsga: permutation size must be positive, got %d", size)
	}
	start := time.Now()

	parents := make([]*Chromosome, 0, e.opts.InitialPopulationSize)
	for i := 0; i < e.opts.InitialPopulationSize; i++ {
		c := &Chromosome{Order: e.rng.Perm(size)}
		if err := e.evaluate(c); err != nil {
			return nil, err
		}
		parents = append(parents, c)
	}

	var offspring []*Chromosome
	budget := e.opts.Budget()
	for gen := 1; gen <= e.opts.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if budget > 0 && time.Since(start) > budget {
			e.log.Warnf("budget exhausted after %d generations", gen-1)
			front := firstFront(append(parents, offspring...))
			return front, ErrBudgetExceeded
		}

		combined := append(append([]*Chromosome(nil), parents...), offspring...)
		fronts := fastNondominatedSort(combined)

		next := make([]*Chromosome, 0, e.opts.PopulationSize)
		for _, front := range fronts {
			if len(front) == 0 {
				return nil, ErrEmptyFront
			}
			crowdingDistance(front)
			if len(next)+len(front) <= e.opts.PopulationSize {
				next = append(next, front...)
				continue
			}
			sortCrowded(front)
			next = append(next, front[:e.opts.PopulationSize-len(next)]...)
			break
		}
		parents = next

		var err error
		offspring, err = e.reproduce(parents)
		if err != nil {
			return nil, err
		}

		if e.Progress != nil {
			e.Progress(e.generationEvent(gen, fronts[0]))
		}
	}

	return firstFront(append(parents, offspring...)), nil
}

func (e *Engine) generationEvent(gen int, front []*Chromosome) GenerationEvent {
	best := front[0].Objectives
	for _, c := range front[1:] {
		if c.Objectives[0] < best[0] {
			best = c.Objectives
		}
	}
	return GenerationEvent{
		Generation:  gen,
		FrontSize:   len(front),
		Best:        best,
		Evaluations: e.evaluations,
	}
}

// firstFront re-ranks the set and returns its Pareto front ordered by the
// first objective.
func firstFront(pop []*Chromosome) []*Chromosome {
	fronts := fastNondominatedSort(pop)
	if len(fronts) == 0 {
		return nil
	}
	front := fronts[0]
	crowdingDistance(front)
	sortByObjective(front, 0)
	return front
}

// reproduce breeds one offspring population of the same size as the parent
// population using binary tournament selection, order crossover and swap
// mutation.
func (e *Engine) reproduce(parents []*Chromosome) ([]*Chromosome, error) {
	offspring := make([]*Chromosome, 0, len(parents))
	for len(offspring) < len(parents) {
		p1 := e.tournament(parents)
		p2 := e.tournament(parents)
		var order []int
		if e.rng.Float64() < e.opts.CrossoverRate {
			order = orderCrossover(e.rng, p1.Order, p2.Order)
		} else {
			order = append([]int(nil), p1.Order...)
		}
		if e.rng.Float64() < e.opts.MutationRate {
			swapMutate(e.rng, order)
		}
		c := &Chromosome{Order: order}
		if err := e.evaluate(c); err != nil {
			return nil, err
		}
		offspring = append(offspring, c)
	}
	return offspring, nil
}

// tournament picks two population members at random and returns the winner
// of the crowded comparison; ties go to the first pick.
func (e *Engine) tournament(pop []*Chromosome) *Chromosome {
	a := pop[e.rng.Intn(len(pop))]
	b := pop[e.rng.Intn(len(pop))]
	if crowdedLess(b, a) {
		return b
	}
	return a
}

func (e *Engine) evaluate(c *Chromosome) error {
	key := c.key()
	if obj, ok := e.memo[key]; ok {
		c.Objectives = obj
		return nil
	}
	obj, err := e.eval.Objectives(c.Order)
	if err != nil {
		return fmt.Errorf("evaluate chromosome: %w", err)
	}
	c.Objectives = obj
	e.memo[key] = obj
	e.evaluations++
	return nil
}

// orderCrossover copies a random segment from the first parent and fills
// the remaining positions with the second parent's genes in their relative
// order.
func orderCrossover(rng *rand.Rand, p1, p2 []int) []int {
	n := len(p1)
	if n < 2 {
		return append([]int(nil), p1...)
	}
	lo := rng.Intn(n)
	hi := rng.Intn(n)
	if lo > hi {
		lo, hi = hi, lo
	}
	child := make([]int, n)
	taken := make(map[int]bool, hi-lo+1)
	for i := range child {
		child[i] = -1
	}
	for i := lo; i <= hi; i++ {
		child[i] = p1[i]
		taken[p1[i]] = true
	}
	pos := (hi + 1) % n
	for i := 0; i < n; i++ {
		gene := p2[(hi+1+i)%n]
		if taken[gene] {
			continue
		}
		child[pos] = gene
		pos = (pos + 1) % n
		for pos >= lo && pos <= hi {
			pos = (pos + 1) % n
		}
	}
	return child
}

// swapMutate exchanges two randomly chosen positions, applied once per
// mutated child.
func swapMutate(rng *rand.Rand, order []int) {
	if len(order) < 2 {
		return
	}
	i := rng.Intn(len(order))
	j := rng.Intn(len(order))
	for j == i {
		j = rng.Intn(len(order))
	}
	order[i], order[j] = order[j], order[i]
}
