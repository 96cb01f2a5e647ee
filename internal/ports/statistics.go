package ports

import (
	"context"
	"time"

	"tourtags/internal/domain"
)

// StatisticsRepository answers the structural and aggregate queries the tag
// tree issues while it is lazily built. Results must be deterministic for an
// unchanged store: structural lists are ordered by name, calendar rows by
// ascending value and detail rows by tour start time.
type StatisticsRepository interface {
	// Structure
	RootCategories(ctx context.Context) ([]domain.Category, error)
	RootTags(ctx context.Context) ([]domain.Tag, error)
	AllTags(ctx context.Context) ([]domain.Tag, error)
	SubCategories(ctx context.Context, categoryID int64) ([]domain.Category, error)
	CategoryTags(ctx context.Context, categoryID int64) ([]domain.Tag, error)

	// Statistics
	Aggregate(ctx context.Context, q AggregateQuery) ([]AggregateRow, error)
	Details(ctx context.Context, q DetailQuery) ([]DetailRow, error)
}

// AggregateQuery asks for one Totals row per group at the given level.
//
//	VariantCategory: one row per id in CategoryIDs, over distinct tours tagged
//	                 anywhere below the category
//	VariantTag:      one row per id in TagIDs
//	VariantYear:     one row per start year of tours tagged TagID
//	VariantMonth:    one row per start month within Year of tours tagged TagID
type AggregateQuery struct {
	Level       domain.Variant
	CategoryIDs []int64
	TagIDs      []int64
	TagID       int64
	Year        int
	TourIDs     []int64 // restricts the tours considered when non-empty
	Filter      domain.Filter
}

// AggregateRow is one group of an aggregate query. Only the field matching
// the query level is set besides Totals.
type AggregateRow struct {
	CategoryID int64
	TagID      int64
	Year       int
	Month      int
	Totals     domain.Totals
}

// DetailQuery asks for the tours tagged TagID, optionally narrowed to a year
// and month (zero means any).
type DetailQuery struct {
	TagID   int64
	Year    int
	Month   int
	TourIDs []int64
	Filter  domain.Filter
}

// DetailRow is one (tour, tag) pair. A tour with several tags yields several
// contiguous rows carrying the same per-tour columns.
type DetailRow struct {
	TourID int64
	Start  time.Time
	Title  string
	TypeID int64
	TagID  int64
	Totals domain.Totals
}
