// Package nsga implements the NSGA-II multi-objective evolutionary
// optimizer over repair-order permutations.
//
// A population of permutations is evolved for a fixed number of
// generations. Each step ranks the combined parent and offspring set into
// non-domination fronts, preserves diversity through crowding distances,
// and breeds the next offspring set by binary tournament selection, order
// crossover and swap mutation. Both objectives are minimized. The engine is
// generic over the fitness function: anything that scores a permutation
// with two objectives can drive it.
//
// All randomness flows through an explicit *rand.Rand supplied by the
// caller, so runs are reproducible from a seed.
package nsga
