package nsga

import "sort"

// fastNondominatedSort partitions the population into fronts of equal
// non-domination rank and stamps each chromosome's Rank. Front 1 holds the
// chromosomes no one dominates; later fronts are peeled off as their
// dominators are removed.
func fastNondominatedSort(pop []*Chromosome) [][]*Chromosome {
	n := len(pop)
	domCount := make([]int, n)
	dominated := make([][]int, n)
	var first []int
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if pop[i].Dominates(pop[j]) {
				dominated[i] = append(dominated[i], j)
			} else if pop[j].Dominates(pop[i]) {
				domCount[i]++
			}
		}
		if domCount[i] == 0 {
			first = append(first, i)
		}
	}

	var fronts [][]*Chromosome
	current := first
	for rank := 1; len(current) > 0; rank++ {
		front := make([]*Chromosome, 0, len(current))
		var next []int
		for _, i := range current {
			pop[i].Rank = rank
			front = append(front, pop[i])
			for _, j := range dominated[i] {
				domCount[j]--
				if domCount[j] == 0 {
					next = append(next, j)
				}
			}
		}
		fronts = append(fronts, front)
		current = next
	}
	return fronts
}

func sortByObjective(front []*Chromosome, m int) {
	sort.SliceStable(front, func(i, j int) bool {
		return front[i].Objectives[m] < front[j].Objectives[m]
	})
}

func sortCrowded(cs []*Chromosome) {
	sort.SliceStable(cs, func(i, j int) bool { return crowdedLess(cs[i], cs[j]) })
}
