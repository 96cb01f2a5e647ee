package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tourtags/internal/application/tagtree"
	"tourtags/internal/domain"
)

func TestScalars(t *testing.T) {
	assert.Equal(t, "12,345.6 km", Distance(12345600))
	assert.Equal(t, "1:01:05", Duration(3665))
	assert.Equal(t, "0:00:00", Duration(-4))
	assert.Equal(t, "5:30 /km", Pace(330))
	assert.Equal(t, "-", Pace(0))
	assert.Equal(t, "1 tour", Count(1))
	assert.Equal(t, "1,200 tours", Count(1200))
}

func TestNodeColumns(t *testing.T) {
	tag := tagtree.NodeView{
		Key:  domain.TagKey(3),
		Name: "Commute",
		Stats: domain.Stats{
			Totals:   domain.Totals{Distance: 15000, MovingTime: 5400, TourCount: 2},
			AvgSpeed: 10,
		},
	}
	assert.Equal(t, "Commute", Label(tag))
	assert.Equal(t, "2 tours  15 km  1:30:00  10.0 km/h", Summary(tag))
	assert.Equal(t, "▸", Expander(tag))

	tag.Fetched = true
	assert.Equal(t, " ", Expander(tag), "fetched without children")

	tour := tagtree.NodeView{
		Key:  domain.TourKey(101),
		Name: "Morning",
		Tour: &domain.TourSummary{ID: 101, Start: time.Date(2022, 3, 5, 8, 0, 0, 0, time.UTC)},
	}
	assert.Equal(t, "2022-03-05  Morning", Label(tour))
	assert.Equal(t, "0 km  0:00:00", Summary(tour))
	assert.Equal(t, " ", Expander(tour))
}
