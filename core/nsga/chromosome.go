package nsga

import (
	"math"
	"strconv"
	"strings"
)

// Objectives holds the two minimization objectives of a solution:
// total recovery time and trajectory skewness.
type Objectives [2]float64

// Chromosome is one candidate solution: a repair-priority permutation over
// the damaged-bridge indices plus its evaluated objectives and the
// bookkeeping NSGA-II needs.
type Chromosome struct {
	// Order is a permutation of [0, n); position in the slice is repair
	// priority.
	Order      []int
	Objectives Objectives
	// Rank is the non-domination front number, 1 being the Pareto front of
	// the current population.
	Rank int
	// Crowding is the crowding distance within the chromosome's front;
	// boundary members carry +Inf.
	Crowding float64
}

// Dominates reports whether c is no worse than o in both objectives and
// strictly better in at least one.
func (c *Chromosome) Dominates(o *Chromosome) bool {
	better := false
	for i := range c.Objectives {
		if c.Objectives[i] > o.Objectives[i] {
			return false
		}
		if c.Objectives[i] < o.Objectives[i] {
			better = true
		}
	}
	return better
}

// key is the memoization key for the chromosome's permutation. Keying by
// the permutation itself, not by the objective pair, keeps two distinct
// orders with coincidentally equal objectives apart.
func (c *Chromosome) key() string {
	var b strings.Builder
	for i, v := range c.Order {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// crowdedLess is the crowded-comparison operator: lower rank wins, and
// within a rank the larger crowding distance wins.
func crowdedLess(a, b *Chromosome) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.Crowding > b.Crowding
}

// crowdingDistance assigns crowding distances within one front. For each
// objective the front is sorted and boundary members get +Inf; interior
// members accumulate the gap between their neighbours.
func crowdingDistance(front []*Chromosome) {
	n := len(front)
	for _, c := range front {
		c.Crowding = 0
	}
	for m := 0; m < len(front[0].Objectives); m++ {
		sortByObjective(front, m)
		front[0].Crowding = math.Inf(1)
		front[n-1].Crowding = math.Inf(1)
		for i := 1; i < n-1; i++ {
			front[i].Crowding += front[i+1].Objectives[m] - front[i-1].Objectives[m]
		}
	}
}
