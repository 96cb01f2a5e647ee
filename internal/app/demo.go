package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"tourtags/internal/application/commands"
	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

type demoTag struct {
	name       string
	category   string
	expandType domain.ExpandType
}

var demoCategories = []struct {
	name   string
	parent string
}{
	{name: "Sport"},
	{name: "Running", parent: "Sport"},
	{name: "Places"},
}

var demoTags = []demoTag{
	{name: "Commute", expandType: domain.ExpandYearMonthDay},
	{name: "Races", category: "Running", expandType: domain.ExpandFlat},
	{name: "Intervals", category: "Running", expandType: domain.ExpandYearDay},
	{name: "Bike", category: "Sport", expandType: domain.ExpandYearMonthDay},
	{name: "Alps", category: "Places", expandType: domain.ExpandYearDay},
	{name: "Favorites", expandType: domain.ExpandFlat},
}

// SeedDemo fills an empty store with a small deterministic tag structure
// and tours tours spread over the last three years.
func SeedDemo(ctx context.Context, store ports.TourStore, tours int) error {
	catIDs := make(map[string]int64)
	for _, c := range demoCategories {
		res, err := commands.NewCreateCategoryCommand(store, c.name, catIDs[c.parent]).Execute(ctx)
		if err != nil {
			return err
		}
		catIDs[c.name] = res.Category.ID
	}

	tagIDs := make([]int64, 0, len(demoTags))
	for _, t := range demoTags {
		res, err := commands.NewCreateTagCommand(store, t.name, catIDs[t.category], t.expandType).Execute(ctx)
		if err != nil {
			return err
		}
		tagIDs = append(tagIDs, res.Tag.ID)
	}

	rnd := rand.New(rand.NewPCG(1, 2))
	first := time.Date(time.Now().Year()-2, time.January, 1, 7, 0, 0, 0, time.UTC)
	for i := range tours {
		start := first.Add(time.Duration(rnd.IntN(3*365*24)) * time.Hour)
		moving := int64(1200 + rnd.IntN(3*3600))
		rec := domain.TourRecord{
			ID:     int64(i + 1),
			Start:  start,
			Title:  fmt.Sprintf("Tour %d", i+1),
			TypeID: int64(1 + rnd.IntN(3)),
			Totals: domain.Totals{
				Distance:     float64(moving) * (2 + rnd.Float64()*6),
				MovingTime:   moving,
				ElapsedTime:  moving + int64(rnd.IntN(900)),
				RecordedTime: moving + int64(rnd.IntN(300)),
				AltitudeUp:   int64(rnd.IntN(1500)),
				AltitudeDown: int64(rnd.IntN(1500)),
				MaxPulse:     float64(150 + rnd.IntN(40)),
				AvgPulse:     float64(120 + rnd.IntN(40)),
				AvgCadence:   float64(70 + rnd.IntN(30)),
				MaxSpeed:     float64(20 + rnd.IntN(40)),
				MaxAltitude:  float64(200 + rnd.IntN(2500)),
			},
		}

		var tags []int64
		for _, id := range tagIDs {
			if rnd.IntN(3) == 0 {
				tags = append(tags, id)
			}
		}
		if _, err := commands.NewAddTourCommand(store, rec, tags).Execute(ctx); err != nil {
			return err
		}
	}
	return nil
}
