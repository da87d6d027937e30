// Package connectivity computes network performance metrics over a damaged
// road graph. Two interchangeable metrics are provided: the weighted
// independent pathway (WIPW) serviceability index, built from edge-disjoint
// shortest paths, and a free-flow travel efficiency index built from
// all-pairs shortest paths with damage-degraded edge weights.
//
// Both metrics read damage exclusively through a model.Overlay, so the
// underlying Network can be shared read-only across concurrent evaluations.
package connectivity
