package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

func openTestStore(t testing.TB) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tours.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// seed writes:
//
//	Sport (category 1)
//	  Running (category 2)
//	    Races (tag 10, flat): 101, 103
//	  Bike (tag 12, year-day): 103
//	Commute (tag 3): 101, 102
func seed(t testing.TB, s *Store) {
	t.Helper()
	ctx := context.Background()
	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)

	require.NoError(t, tx.CreateCategory(&domain.Category{ID: 1, Name: "Sport"}, 0))
	require.NoError(t, tx.CreateCategory(&domain.Category{ID: 2, Name: "Running"}, 1))
	require.NoError(t, tx.CreateTag(&domain.Tag{ID: 3, Name: "Commute"}, 0))
	require.NoError(t, tx.CreateTag(&domain.Tag{ID: 10, Name: "Races", ExpandType: domain.ExpandFlat}, 2))
	require.NoError(t, tx.CreateTag(&domain.Tag{ID: 12, Name: "Bike", ExpandType: domain.ExpandYearDay}, 1))

	tours := []domain.TourRecord{
		{ID: 101, Start: time.Date(2022, 3, 5, 8, 0, 0, 0, time.UTC), Title: "Morning", TypeID: 1,
			Totals: domain.Totals{Distance: 10000, ElapsedTime: 4000, MovingTime: 3600, RecordedTime: 3700, AvgPulse: 140, MaxSpeed: 30}},
		{ID: 102, Start: time.Date(2022, 3, 20, 8, 0, 0, 0, time.UTC), Title: "Evening", TypeID: 2,
			Totals: domain.Totals{Distance: 5000, ElapsedTime: 1900, MovingTime: 1800, RecordedTime: 1850, MaxSpeed: 25}},
		{ID: 103, Start: time.Date(2023, 7, 1, 8, 0, 0, 0, time.UTC), Title: "Half Marathon", TypeID: 1,
			Totals: domain.Totals{Distance: 21000, ElapsedTime: 7500, MovingTime: 7200, RecordedTime: 7300, AvgPulse: 160, MaxSpeed: 18}},
	}
	for i := range tours {
		require.NoError(t, tx.UpsertTour(&tours[i]))
	}
	require.NoError(t, tx.TagTours(3, []int64{101, 102}))
	require.NoError(t, tx.TagTours(10, []int64{101, 103}))
	require.NoError(t, tx.TagTours(12, []int64{103}))
	require.NoError(t, tx.Commit())
}

func TestStructureQueries(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	seed(t, s)

	cats, err := s.RootCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{{ID: 1, Name: "Sport", IsRoot: true}}, cats)

	tags, err := s.RootTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Commute", tags[0].Name)

	all, err := s.AllTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bike", "Commute", "Races"}, []string{all[0].Name, all[1].Name, all[2].Name})

	sub, err := s.SubCategories(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{{ID: 2, Name: "Running"}}, sub)

	catTags, err := s.CategoryTags(ctx, 2)
	require.NoError(t, err)
	require.Len(t, catTags, 1)
	assert.Equal(t, domain.ExpandFlat, catTags[0].ExpandType)
}

func TestAggregate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	seed(t, s)

	t.Run("category counts distinct tours", func(t *testing.T) {
		rows, err := s.Aggregate(ctx, ports.AggregateQuery{Level: domain.VariantCategory, CategoryIDs: []int64{1, 2}})
		require.NoError(t, err)
		byID := map[int64]domain.Totals{}
		for _, r := range rows {
			byID[r.CategoryID] = r.Totals
		}
		assert.Equal(t, int64(2), byID[1].TourCount, "103 is tagged twice below Sport")
		assert.Equal(t, 31000.0, byID[1].Distance)
		assert.Equal(t, int64(2), byID[2].TourCount)
	})

	t.Run("tag", func(t *testing.T) {
		rows, err := s.Aggregate(ctx, ports.AggregateQuery{Level: domain.VariantTag, TagIDs: []int64{3}})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		got := rows[0].Totals
		assert.Equal(t, int64(3), rows[0].TagID)
		assert.Equal(t, 15000.0, got.Distance)
		assert.Equal(t, int64(5900), got.ElapsedTime)
		assert.Equal(t, int64(5400), got.MovingTime)
		assert.Equal(t, 30.0, got.MaxSpeed)
		assert.Equal(t, 140.0, got.AvgPulse, "tours without pulse are skipped")
		assert.Equal(t, int64(1), got.PulseSamples)
		assert.Equal(t, int64(0), got.TemperatureSamples)
		assert.Equal(t, int64(2), got.TourCount)
	})

	t.Run("years and months", func(t *testing.T) {
		years, err := s.Aggregate(ctx, ports.AggregateQuery{Level: domain.VariantYear, TagID: 10})
		require.NoError(t, err)
		require.Len(t, years, 2)
		assert.Equal(t, 2022, years[0].Year)
		assert.Equal(t, 2023, years[1].Year)

		months, err := s.Aggregate(ctx, ports.AggregateQuery{Level: domain.VariantMonth, TagID: 3, Year: 2022})
		require.NoError(t, err)
		require.Len(t, months, 1)
		assert.Equal(t, 3, months[0].Month)
		assert.Equal(t, int64(2), months[0].Totals.TourCount)
	})

	t.Run("filter", func(t *testing.T) {
		rows, err := s.Aggregate(ctx, ports.AggregateQuery{
			Level:  domain.VariantTag,
			TagIDs: []int64{3, 10},
			Filter: domain.Filter{TourTypeIDs: []int64{1}},
		})
		require.NoError(t, err)
		counts := map[int64]int64{}
		for _, r := range rows {
			counts[r.TagID] = r.Totals.TourCount
		}
		assert.Equal(t, map[int64]int64{3: 1, 10: 2}, counts, "102 is of another tour type")

		rows, err = s.Aggregate(ctx, ports.AggregateQuery{
			Level:  domain.VariantTag,
			TagIDs: []int64{10},
			Filter: domain.Filter{From: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 21000.0, rows[0].Totals.Distance)
	})

	t.Run("empty tag has no row", func(t *testing.T) {
		rows, err := s.Aggregate(ctx, ports.AggregateQuery{Level: domain.VariantTag, TagIDs: []int64{999}})
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestDetails(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	seed(t, s)

	rows, err := s.Details(ctx, ports.DetailQuery{TagID: 10})
	require.NoError(t, err)

	// 101 carries tags 3 and 10, 103 carries 10 and 12
	require.Len(t, rows, 4)
	assert.Equal(t, []int64{101, 101, 103, 103}, []int64{rows[0].TourID, rows[1].TourID, rows[2].TourID, rows[3].TourID})
	assert.Equal(t, []int64{3, 10, 10, 12}, []int64{rows[0].TagID, rows[1].TagID, rows[2].TagID, rows[3].TagID})
	assert.Equal(t, time.Date(2022, 3, 5, 8, 0, 0, 0, time.UTC), rows[0].Start)
	assert.Equal(t, "Morning", rows[0].Title)
	assert.Equal(t, 10000.0, rows[0].Totals.Distance)

	rows, err = s.Details(ctx, ports.DetailQuery{TagID: 3, Year: 2022, Month: 3, TourIDs: []int64{102}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(102), rows[0].TourID)
}

func TestTourTx(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	seed(t, s)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UntagTours(10, []int64{101}))
	require.NoError(t, tx.TagTours(12, []int64{101, 103}))
	require.NoError(t, tx.RetitleTour(102, "Night"))
	require.NoError(t, tx.DeleteTours([]int64{103}))
	require.NoError(t, tx.Commit())

	tours, err := s.Tours(ctx, []int64{101, 102, 103})
	require.NoError(t, err)
	require.Len(t, tours, 2)
	assert.Equal(t, []int64{3, 12}, tours[0].TagIDs)
	assert.Equal(t, "Night", tours[1].Title)

	tx, err = s.BeginTx(ctx)
	require.NoError(t, err)
	assert.Error(t, tx.RetitleTour(999, "Ghost"))
	require.NoError(t, tx.Rollback())
}

func TestCreateAssignsIDs(t *testing.T) {
	s := openTestStore(t)
	tx, err := s.BeginTx(context.Background())
	require.NoError(t, err)

	cat := &domain.Category{Name: "Travel"}
	require.NoError(t, tx.CreateCategory(cat, 0))
	tag := &domain.Tag{Name: "Alps"}
	require.NoError(t, tx.CreateTag(tag, cat.ID))
	require.NoError(t, tx.Commit())

	assert.NotZero(t, cat.ID)
	assert.NotZero(t, tag.ID)
	assert.True(t, cat.IsRoot)
	assert.False(t, tag.IsRoot)
}
