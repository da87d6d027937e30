package connectivity

import (
	"fmt"

	"github.com/resilinet/bridgeopt/core/model"
)

// Metric selects which performance index an evaluation uses.
type Metric string

const (
	// WIPW is the weighted independent pathway serviceability index.
	WIPW Metric = "wipw"
	// FreeFlow is the free-flow travel efficiency index.
	FreeFlow Metric = "free_flow"
)

// Valid reports whether the metric is a known one.
func (m Metric) Valid() bool { return m == WIPW || m == FreeFlow }

// Func evaluates the network performance under the given damage overlay.
// Implementations must be safe for concurrent calls with distinct overlays.
type Func func(ov model.Overlay) float64

// New returns the metric function for the network. For WIPW the independent
// pathways are enumerated once up front; they depend only on the graph
// structure, not on damage, so they are shared by all evaluations.
func New(m Metric, net *model.Network) (Func, error) {
	switch m {
	case WIPW:
		pw := IndependentPathways(net)
		return func(ov model.Overlay) float64 {
			return TIPWIndex(net, pw, ov)
		}, nil
	case FreeFlow:
		return func(ov model.Overlay) float64 {
			return TravelEfficiency(net, ov)
		}, nil
	}
	return nil, fmt.Errorf("unknown metric %q", m)
}
