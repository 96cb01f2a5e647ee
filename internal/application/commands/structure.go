package commands

import (
	"context"
	"fmt"
	"strings"

	"tourtags/internal/application"
	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

// CreateTagResult contains the created tag
type CreateTagResult struct {
	Tag     domain.Tag
	Event   domain.TagStructureChange
	Message string
}

// CreateTagCommand creates a tag at the root or inside a category
type CreateTagCommand struct {
	store      ports.TourStore
	Name       string
	CategoryID int64
	ExpandType domain.ExpandType
}

// NewCreateTagCommand creates a new CreateTagCommand. A zero categoryID
// creates a root tag.
func NewCreateTagCommand(store ports.TourStore, name string, categoryID int64, expandType domain.ExpandType) *CreateTagCommand {
	return &CreateTagCommand{
		store:      store,
		Name:       name,
		CategoryID: categoryID,
		ExpandType: expandType,
	}
}

// Validate checks if the tag can be created
func (c *CreateTagCommand) Validate() error {
	if err := application.ValidateRequired("name", c.Name); err != nil {
		return err
	}
	if c.CategoryID < 0 {
		return application.ValidateID("categoryID", c.CategoryID)
	}
	switch c.ExpandType {
	case domain.ExpandYearMonthDay, domain.ExpandFlat, domain.ExpandYearDay:
	default:
		return &application.ValidationError{
			Field:   "expandType",
			Message: fmt.Sprintf("unknown expand type: %d", c.ExpandType),
		}
	}
	return nil
}

// Execute runs the create command
func (c *CreateTagCommand) Execute(ctx context.Context) (*CreateTagResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	tag := domain.Tag{Name: strings.TrimSpace(c.Name), ExpandType: c.ExpandType}
	err := inTx(ctx, c.store, func(tx ports.TourTx) error {
		return tx.CreateTag(&tag, c.CategoryID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tag %q: %w", tag.Name, err)
	}

	return &CreateTagResult{
		Tag:     tag,
		Message: fmt.Sprintf("Created tag %d %s (%s)", tag.ID, tag.Name, tag.ExpandType),
	}, nil
}

// CreateCategoryResult contains the created category
type CreateCategoryResult struct {
	Category domain.Category
	Event    domain.TagStructureChange
	Message  string
}

// CreateCategoryCommand creates a category at the root or inside another
// category
type CreateCategoryCommand struct {
	store    ports.TourStore
	Name     string
	ParentID int64
}

// NewCreateCategoryCommand creates a new CreateCategoryCommand. A zero
// parentID creates a root category.
func NewCreateCategoryCommand(store ports.TourStore, name string, parentID int64) *CreateCategoryCommand {
	return &CreateCategoryCommand{
		store:    store,
		Name:     name,
		ParentID: parentID,
	}
}

// Validate checks if the category can be created
func (c *CreateCategoryCommand) Validate() error {
	if err := application.ValidateRequired("name", c.Name); err != nil {
		return err
	}
	if c.ParentID < 0 {
		return application.ValidateID("categoryID", c.ParentID)
	}
	return nil
}

// Execute runs the create command
func (c *CreateCategoryCommand) Execute(ctx context.Context) (*CreateCategoryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cat := domain.Category{Name: strings.TrimSpace(c.Name)}
	err := inTx(ctx, c.store, func(tx ports.TourTx) error {
		return tx.CreateCategory(&cat, c.ParentID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create category %q: %w", cat.Name, err)
	}

	return &CreateCategoryResult{
		Category: cat,
		Message:  fmt.Sprintf("Created category %d %s", cat.ID, cat.Name),
	}, nil
}
