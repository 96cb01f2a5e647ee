package domain

import (
	"math/rand/v2"
	"unicode"
)

// Scrambler obscures displayed titles and numbers, for screenshots of real
// data. Each scrambled value is multiplied by a random factor in [0.5, 1.5).
type Scrambler struct {
	rnd *rand.Rand
}

// NewScrambler returns a scrambler with a deterministic seed.
func NewScrambler(seed uint64) *Scrambler {
	return &Scrambler{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// scrambledStats lists every Stats field the scrambler touches.
var scrambledStats = []struct {
	name  string
	apply func(s *Stats, f func(float64) float64)
}{
	{"distance", func(s *Stats, f func(float64) float64) { s.Distance = f(s.Distance) }},
	{"elapsed_time", func(s *Stats, f func(float64) float64) { s.ElapsedTime = int64(f(float64(s.ElapsedTime))) }},
	{"moving_time", func(s *Stats, f func(float64) float64) { s.MovingTime = int64(f(float64(s.MovingTime))) }},
	{"recorded_time", func(s *Stats, f func(float64) float64) { s.RecordedTime = int64(f(float64(s.RecordedTime))) }},
	{"paused_time", func(s *Stats, f func(float64) float64) { s.PausedTime = int64(f(float64(s.PausedTime))) }},
	{"altitude_up", func(s *Stats, f func(float64) float64) { s.AltitudeUp = int64(f(float64(s.AltitudeUp))) }},
	{"altitude_down", func(s *Stats, f func(float64) float64) { s.AltitudeDown = int64(f(float64(s.AltitudeDown))) }},
	{"max_altitude", func(s *Stats, f func(float64) float64) { s.MaxAltitude = f(s.MaxAltitude) }},
	{"max_speed", func(s *Stats, f func(float64) float64) { s.MaxSpeed = f(s.MaxSpeed) }},
	{"max_pulse", func(s *Stats, f func(float64) float64) { s.MaxPulse = f(s.MaxPulse) }},
	{"avg_pulse", func(s *Stats, f func(float64) float64) { s.AvgPulse = f(s.AvgPulse) }},
	{"avg_cadence", func(s *Stats, f func(float64) float64) { s.AvgCadence = f(s.AvgCadence) }},
	{"avg_temperature", func(s *Stats, f func(float64) float64) { s.AvgTemperature = f(s.AvgTemperature) }},
	{"avg_speed", func(s *Stats, f func(float64) float64) { s.AvgSpeed = f(s.AvgSpeed) }},
	{"avg_pace", func(s *Stats, f func(float64) float64) { s.AvgPace = f(s.AvgPace) }},
}

// Stats scrambles every numeric field except the tour count.
func (s *Scrambler) Stats(st *Stats) {
	for _, field := range scrambledStats {
		field.apply(st, s.number)
	}
}

func (s *Scrambler) number(v float64) float64 {
	return v * (0.5 + s.rnd.Float64())
}

// Text replaces every letter and digit with a random one of the same class.
// Spaces and punctuation are kept so the shape of the text survives.
func (s *Scrambler) Text(text string) string {
	out := []rune(text)
	for i, r := range out {
		switch {
		case unicode.IsUpper(r):
			out[i] = 'A' + rune(s.rnd.IntN(26))
		case unicode.IsLower(r):
			out[i] = 'a' + rune(s.rnd.IntN(26))
		case unicode.IsDigit(r):
			out[i] = '0' + rune(s.rnd.IntN(10))
		}
	}
	return string(out)
}
