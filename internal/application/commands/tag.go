package commands

import (
	"context"
	"fmt"
	"slices"

	"tourtags/internal/application"
	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

// TagToursResult contains the committed tagging change
type TagToursResult struct {
	Event   domain.TagChange
	Message string
}

// TagToursCommand adds a tag to tours or removes it from them
type TagToursCommand struct {
	store   ports.TourStore
	TagID   int64
	TourIDs []int64
	Added   bool
}

// NewTagToursCommand creates a command that tags the given tours
func NewTagToursCommand(store ports.TourStore, tagID int64, tourIDs []int64) *TagToursCommand {
	return &TagToursCommand{
		store:   store,
		TagID:   tagID,
		TourIDs: tourIDs,
		Added:   true,
	}
}

// NewUntagToursCommand creates a command that removes the tag from the given
// tours
func NewUntagToursCommand(store ports.TourStore, tagID int64, tourIDs []int64) *TagToursCommand {
	return &TagToursCommand{
		store:   store,
		TagID:   tagID,
		TourIDs: tourIDs,
	}
}

// Validate checks if the tagging operation is valid
func (c *TagToursCommand) Validate() error {
	if err := application.ValidateID("tagID", c.TagID); err != nil {
		return err
	}
	return application.ValidateIDs("tourIDs", c.TourIDs)
}

// Execute runs the tagging command
func (c *TagToursCommand) Execute(ctx context.Context) (*TagToursResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	ids := slices.Compact(slices.Sorted(slices.Values(c.TourIDs)))
	verb, done := "untag", "Untagged"
	if c.Added {
		verb, done = "tag", "Tagged"
	}

	err := inTx(ctx, c.store, func(tx ports.TourTx) error {
		if c.Added {
			return tx.TagTours(c.TagID, ids)
		}
		return tx.UntagTours(c.TagID, ids)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to %s tours with %d: %w", verb, c.TagID, err)
	}

	return &TagToursResult{
		Event:   domain.TagChange{TagID: c.TagID, TourIDs: ids, Added: c.Added},
		Message: fmt.Sprintf("%s %d tours with tag %d", done, len(ids), c.TagID),
	}, nil
}
