package domain

import (
	"fmt"
	"strings"
)

// SpeedBasis selects which time column divides distance when deriving speed
// and pace.
type SpeedBasis int

const (
	BasisMovingTime SpeedBasis = iota
	BasisRecordedTime
)

func (b SpeedBasis) String() string {
	if b == BasisRecordedTime {
		return "recorded"
	}
	return "moving"
}

// ParseSpeedBasis maps "moving" or "recorded" to a SpeedBasis.
func ParseSpeedBasis(s string) (SpeedBasis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "moving", "":
		return BasisMovingTime, nil
	case "recorded":
		return BasisRecordedTime, nil
	}
	return BasisMovingTime, fmt.Errorf("unknown speed basis: %q", s)
}

// Reducer turns raw Totals into Stats. The basis is fixed when the reducer
// is built so a single reduction never mixes two settings.
type Reducer struct {
	basis SpeedBasis
}

// NewReducer returns a reducer using the given time basis.
func NewReducer(basis SpeedBasis) Reducer {
	return Reducer{basis: basis}
}

// Basis returns the configured time basis.
func (r Reducer) Basis() SpeedBasis {
	return r.basis
}

// Reduce derives paused time, average speed and average pace. A zero basis
// time yields zero speed and a zero distance yields zero pace.
func (r Reducer) Reduce(t Totals) Stats {
	basis := t.MovingTime
	if r.basis == BasisRecordedTime {
		basis = t.RecordedTime
	}

	s := Stats{
		Totals:     t,
		PausedTime: t.ElapsedTime - t.MovingTime,
	}
	if basis != 0 {
		s.AvgSpeed = 3.6 * t.Distance / float64(basis)
	}
	if t.Distance != 0 {
		s.AvgPace = float64(basis) * 1000 / t.Distance
	}
	return s
}
