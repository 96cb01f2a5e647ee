package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"tourtags/internal/application"
	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

// DeleteToursResult contains the committed deletion
type DeleteToursResult struct {
	Event   domain.TourDelete
	Message string
}

// DeleteToursCommand removes tours and their tag links
type DeleteToursCommand struct {
	store   ports.TourStore
	TourIDs []int64
}

// NewDeleteToursCommand creates a new DeleteToursCommand
func NewDeleteToursCommand(store ports.TourStore, tourIDs []int64) *DeleteToursCommand {
	return &DeleteToursCommand{
		store:   store,
		TourIDs: tourIDs,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteToursCommand) Validate() error {
	return application.ValidateIDs("tourIDs", c.TourIDs)
}

// Execute runs the delete command
func (c *DeleteToursCommand) Execute(ctx context.Context) (*DeleteToursResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	ids := slices.Compact(slices.Sorted(slices.Values(c.TourIDs)))
	err := inTx(ctx, c.store, func(tx ports.TourTx) error {
		return tx.DeleteTours(ids)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete tours: %w", err)
	}

	return &DeleteToursResult{
		Event:   domain.TourDelete{TourIDs: ids},
		Message: fmt.Sprintf("Deleted %d tours", len(ids)),
	}, nil
}

// RetitleTourResult contains the committed edit
type RetitleTourResult struct {
	Event   domain.TourChange
	Message string
}

// RetitleTourCommand changes a tour's title
type RetitleTourCommand struct {
	store  ports.TourStore
	TourID int64
	Title  string
}

// NewRetitleTourCommand creates a new RetitleTourCommand
func NewRetitleTourCommand(store ports.TourStore, tourID int64, title string) *RetitleTourCommand {
	return &RetitleTourCommand{
		store:  store,
		TourID: tourID,
		Title:  title,
	}
}

// Validate checks if the retitle operation is valid
func (c *RetitleTourCommand) Validate() error {
	if err := application.ValidateID("tourID", c.TourID); err != nil {
		return err
	}
	return application.ValidateRequired("title", c.Title)
}

// Execute renames the tour and reads back its descriptive fields so the
// event carries the complete tag set.
func (c *RetitleTourCommand) Execute(ctx context.Context) (*RetitleTourResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(c.Title)
	err := inTx(ctx, c.store, func(tx ports.TourTx) error {
		return tx.RetitleTour(c.TourID, title)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retitle tour %d: %w", c.TourID, err)
	}

	tours, err := c.store.Tours(ctx, []int64{c.TourID})
	if err != nil {
		return nil, fmt.Errorf("failed to read tour %d: %w", c.TourID, err)
	}
	if len(tours) == 0 {
		return nil, fmt.Errorf("tour %d: %w", c.TourID, application.ErrNotFound)
	}

	return &RetitleTourResult{
		Event:   domain.TourChange{Tours: tours},
		Message: fmt.Sprintf("Retitled tour %d to %q", c.TourID, title),
	}, nil
}

// AddTourResult contains the stored tour and the tagging events it caused
type AddTourResult struct {
	TourID  int64
	Events  []domain.Event
	Message string
}

// AddTourCommand stores a tour and attaches its tags in one transaction
type AddTourCommand struct {
	store  ports.TourStore
	Record domain.TourRecord
	TagIDs []int64
}

// NewAddTourCommand creates a new AddTourCommand
func NewAddTourCommand(store ports.TourStore, rec domain.TourRecord, tagIDs []int64) *AddTourCommand {
	return &AddTourCommand{
		store:  store,
		Record: rec,
		TagIDs: tagIDs,
	}
}

// Validate checks if the tour can be stored
func (c *AddTourCommand) Validate() error {
	if err := application.ValidateID("tourID", c.Record.ID); err != nil {
		return err
	}
	if c.Record.Start.IsZero() {
		return &application.ValidationError{
			Field:   "start",
			Message: "start time is required",
		}
	}
	for _, id := range c.TagIDs {
		if err := application.ValidateID("tagID", id); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the add command
func (c *AddTourCommand) Execute(ctx context.Context) (*AddTourResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	rec := c.Record
	tags := slices.Compact(slices.Sorted(slices.Values(c.TagIDs)))
	err := inTx(ctx, c.store, func(tx ports.TourTx) error {
		if err := tx.UpsertTour(&rec); err != nil {
			return err
		}
		for _, tag := range tags {
			if err := tx.TagTours(tag, []int64{rec.ID}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add tour: %w", err)
	}

	events := make([]domain.Event, 0, len(tags))
	for _, tag := range tags {
		events = append(events, domain.TagChange{TagID: tag, TourIDs: []int64{rec.ID}, Added: true})
	}

	return &AddTourResult{
		TourID:  rec.ID,
		Events:  events,
		Message: fmt.Sprintf("Added tour %d with %d tags", rec.ID, len(tags)),
	}, nil
}
