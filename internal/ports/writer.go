package ports

import (
	"context"

	"tourtags/internal/domain"
)

// TourStore mutates tours and the tag structure. Every change goes through a
// transaction; the caller turns the committed change into a domain.Event.
type TourStore interface {
	BeginTx(ctx context.Context) (TourTx, error)

	// Tours returns the current descriptive fields of the given tours.
	Tours(ctx context.Context, ids []int64) ([]domain.TourUpdate, error)
}

// TourTx represents a transaction for atomic store updates
type TourTx interface {
	// Structure
	CreateCategory(c *domain.Category, parentID int64) error
	CreateTag(t *domain.Tag, categoryID int64) error

	// Tours
	UpsertTour(rec *domain.TourRecord) error
	DeleteTours(ids []int64) error
	RetitleTour(id int64, title string) error

	// Tagging
	TagTours(tagID int64, tourIDs []int64) error
	UntagTours(tagID int64, tourIDs []int64) error

	// Transaction control
	Commit() error
	Rollback() error
}
