package model

import "fmt"

// DamageStatus is the discrete damage level carried by a network edge.
// 0 means undamaged, 4 means destroyed.
type DamageStatus int

// MaxDamageStatus is the highest edge damage level; a single edge at this
// level zeroes the service of every path through it.
const MaxDamageStatus DamageStatus = 4

// DamageState is the severity level of a damaged bridge derived from the
// upstream damage analysis. Unlike DamageStatus it never takes the value 0:
// a bridge only appears in a scenario because it is damaged.
type DamageState int

const (
	Slight DamageState = iota + 1
	Moderate
	Extensive
	Complete
)

// repairDurations maps a damage state to the time needed to repair one
// bridge in that state. Units are abstract duration units.
var repairDurations = map[DamageState]float64{
	Slight:    0.6,
	Moderate:  2.5,
	Extensive: 75,
	Complete:  230,
}

// RepairDuration returns the repair duration for the state.
func (s DamageState) RepairDuration() float64 {
	return repairDurations[s]
}

// Valid reports whether the state is one of the four known severities.
func (s DamageState) Valid() bool {
	return s >= Slight && s <= Complete
}

func (s DamageState) String() string {
	switch s {
	case Slight:
		return "slight"
	case Moderate:
		return "moderate"
	case Extensive:
		return "extensive"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("DamageState(%d)", int(s))
}

// Bridge is a repairable asset mapped to exactly one network edge.
type Bridge struct {
	ID     string
	LinkID string
	// ADT is the average daily traffic crossing the bridge.
	ADT   float64
	State DamageState
}

// Validate checks that the bridge row is sound.
func (b Bridge) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("bridge id is required")
	}
	if b.LinkID == "" {
		return fmt.Errorf("bridge %s: link id is required", b.ID)
	}
	if !b.State.Valid() {
		return fmt.Errorf("bridge %s: invalid damage state %d", b.ID, int(b.State))
	}
	return nil
}
