// Package format renders node statistics for the terminal front ends.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"tourtags/internal/application/tagtree"
	"tourtags/internal/domain"
)

// Distance formats meters as kilometers with one decimal.
func Distance(m float64) string {
	return humanize.CommafWithDigits(m/1000, 1) + " km"
}

// Duration formats seconds as h:mm:ss.
func Duration(sec int64) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", sec/3600, sec/60%60, sec%60)
}

// Speed formats km/h with one decimal.
func Speed(kmh float64) string {
	return fmt.Sprintf("%.1f km/h", kmh)
}

// Pace formats seconds per kilometer as m:ss /km.
func Pace(secPerKm float64) string {
	if secPerKm <= 0 {
		return "-"
	}
	s := int64(secPerKm + 0.5)
	return fmt.Sprintf("%d:%02d /km", s/60, s%60)
}

// Count formats a tour count.
func Count(n int64) string {
	if n == 1 {
		return "1 tour"
	}
	return humanize.Comma(n) + " tours"
}

// Label is the first column of a node: tour leaves show their start date.
func Label(v tagtree.NodeView) string {
	if v.Tour != nil {
		return v.Tour.Start.Format(time.DateOnly) + "  " + v.Name
	}
	return v.Name
}

// Summary is the statistics column of a node.
func Summary(v tagtree.NodeView) string {
	st := v.Stats
	parts := make([]string, 0, 4)
	if v.Tour == nil {
		parts = append(parts, Count(st.TourCount))
	}
	parts = append(parts, Distance(st.Distance), Duration(st.MovingTime))
	if st.Distance > 0 {
		parts = append(parts, Speed(st.AvgSpeed))
	}
	return strings.Join(parts, "  ")
}

// Details lists every statistic of a node, one name/value pair per entry.
func Details(st domain.Stats) [][2]string {
	return [][2]string{
		{"Tours", humanize.Comma(st.TourCount)},
		{"Distance", Distance(st.Distance)},
		{"Elapsed", Duration(st.ElapsedTime)},
		{"Moving", Duration(st.MovingTime)},
		{"Recorded", Duration(st.RecordedTime)},
		{"Paused", Duration(st.PausedTime)},
		{"Ascent", humanize.Comma(st.AltitudeUp) + " m"},
		{"Descent", humanize.Comma(st.AltitudeDown) + " m"},
		{"Max altitude", fmt.Sprintf("%.0f m", st.MaxAltitude)},
		{"Avg speed", Speed(st.AvgSpeed)},
		{"Max speed", Speed(st.MaxSpeed)},
		{"Avg pace", Pace(st.AvgPace)},
		{"Avg pulse", fmt.Sprintf("%.0f bpm", st.AvgPulse)},
		{"Max pulse", fmt.Sprintf("%.0f bpm", st.MaxPulse)},
		{"Avg cadence", fmt.Sprintf("%.0f", st.AvgCadence)},
		{"Avg temperature", fmt.Sprintf("%.1f °C", st.AvgTemperature)},
	}
}

// Expander is the affordance shown before a node name.
func Expander(v tagtree.NodeView) string {
	switch {
	case !v.HasChildren():
		return " "
	case v.Expanded:
		return "▾"
	default:
		return "▸"
	}
}
