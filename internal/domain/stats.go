package domain

// Totals is one raw statistics row as produced by the repository, before
// derived values are computed. Times are in seconds, distance in meters.
type Totals struct {
	Distance       float64
	ElapsedTime    int64
	MovingTime     int64
	AltitudeUp     int64
	AltitudeDown   int64
	MaxPulse       float64
	MaxAltitude    float64
	MaxSpeed       float64
	AvgPulse       float64
	AvgCadence     float64
	AvgTemperature float64
	RecordedTime   int64

	// Number of tours behind each sensor average. Detail rows carry 1 or 0.
	PulseSamples       int64
	CadenceSamples     int64
	TemperatureSamples int64

	TourCount int64
}

// Columns returns scan destinations in repository column order. The sample
// counts follow the twelve measured fields. The tour count is the trailing
// column of aggregate rows only.
func (t *Totals) Columns(withCount bool) []any {
	cols := []any{
		&t.Distance,
		&t.ElapsedTime,
		&t.MovingTime,
		&t.AltitudeUp,
		&t.AltitudeDown,
		&t.MaxPulse,
		&t.MaxAltitude,
		&t.MaxSpeed,
		&t.AvgPulse,
		&t.AvgCadence,
		&t.AvgTemperature,
		&t.RecordedTime,
		&t.PulseSamples,
		&t.CadenceSamples,
		&t.TemperatureSamples,
	}
	if withCount {
		cols = append(cols, &t.TourCount)
	}
	return cols
}

// Stats is the aggregate record carried by every non-root node.
type Stats struct {
	Totals
	PausedTime int64
	AvgSpeed   float64 // km/h
	AvgPace    float64 // seconds per km
}

// Combine rolls child totals up into the totals of their parent. Additive
// fields are summed and max fields keep the maximum. Each sensor average is
// weighted by its sample count, so the result equals the mean over the tours
// with a non-zero reading. A child that carries an average but no sample
// count weighs as its tour count.
func Combine(children []Totals) Totals {
	var out Totals
	var pulse, cadence, temperature weightedMean

	for _, c := range children {
		out.Distance += c.Distance
		out.ElapsedTime += c.ElapsedTime
		out.MovingTime += c.MovingTime
		out.AltitudeUp += c.AltitudeUp
		out.AltitudeDown += c.AltitudeDown
		out.RecordedTime += c.RecordedTime
		out.TourCount += c.TourCount

		out.MaxPulse = max(out.MaxPulse, c.MaxPulse)
		out.MaxAltitude = max(out.MaxAltitude, c.MaxAltitude)
		out.MaxSpeed = max(out.MaxSpeed, c.MaxSpeed)

		pulse.add(c.AvgPulse, sampleWeight(c.PulseSamples, c))
		cadence.add(c.AvgCadence, sampleWeight(c.CadenceSamples, c))
		temperature.add(c.AvgTemperature, sampleWeight(c.TemperatureSamples, c))
	}

	out.AvgPulse, out.PulseSamples = pulse.value(), pulse.samples()
	out.AvgCadence, out.CadenceSamples = cadence.value(), cadence.samples()
	out.AvgTemperature, out.TemperatureSamples = temperature.value(), temperature.samples()
	return out
}

func sampleWeight(samples int64, c Totals) int64 {
	if samples > 0 {
		return samples
	}
	return max(c.TourCount, 1)
}

type weightedMean struct {
	sum    float64
	weight int64
}

func (m *weightedMean) add(v float64, w int64) {
	if v == 0 {
		return
	}
	m.sum += v * float64(w)
	m.weight += w
}

func (m *weightedMean) value() float64 {
	if m.weight == 0 {
		return 0
	}
	return m.sum / float64(m.weight)
}

func (m *weightedMean) samples() int64 {
	return m.weight
}
