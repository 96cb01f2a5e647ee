package commands

import (
	"context"
	"errors"
	"fmt"

	"tourtags/internal/application"
	"tourtags/internal/application/tagtree"
	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

// OpenViewResult contains the restored tree of a view
type OpenViewResult struct {
	Tree     *tagtree.Tree
	State    domain.ViewState
	Restored int
	Warnings []string
	Message  string
}

// OpenViewCommand builds a tree and restores the view's persisted layout and
// expand state into it
type OpenViewCommand struct {
	repo  ports.StatisticsRepository
	state ports.StateStore
	View  string

	// Layout overrides the persisted layout when set
	Layout  *domain.Layout
	Options []tagtree.Option
}

// NewOpenViewCommand creates a new OpenViewCommand
func NewOpenViewCommand(repo ports.StatisticsRepository, state ports.StateStore, view string, opts ...tagtree.Option) *OpenViewCommand {
	return &OpenViewCommand{
		repo:    repo,
		state:   state,
		View:    view,
		Options: opts,
	}
}

// Validate checks if the view can be opened
func (c *OpenViewCommand) Validate() error {
	return application.ValidateRequired("view", c.View)
}

// Execute builds the root level and re-expands the persisted paths. An
// unreadable state, a malformed expand stream or a failed root fetch still
// yields a usable tree and is reported as a warning.
func (c *OpenViewCommand) Execute(ctx context.Context) (*OpenViewResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result := &OpenViewResult{}

	st, err := c.state.Load(c.View)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("view state discarded: %v", err))
		st = domain.DefaultViewState()
	}
	if c.Layout != nil {
		st.Layout = *c.Layout
	}
	result.State = st

	opts := append([]tagtree.Option{}, c.Options...)
	opts = append(opts, tagtree.WithLayout(st.Layout))
	tree := tagtree.New(c.repo, opts...)
	result.Tree = tree

	if err := tree.Build(ctx); err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	}

	restored, err := tree.RestoreExpandState(ctx, st.Expanded)
	var defect *domain.DecodeError
	switch {
	case errors.As(err, &defect):
		result.Warnings = append(result.Warnings, fmt.Sprintf("view state partially restored: %v", defect))
	case err != nil:
		return nil, fmt.Errorf("failed to restore view %s: %w", c.View, err)
	}
	result.Restored = restored
	result.Message = fmt.Sprintf("Opened view %s (%s, %d paths restored)", c.View, st.Layout, restored)

	return result, nil
}

// SaveViewStateResult contains the state written for a view
type SaveViewStateResult struct {
	State   domain.ViewState
	Message string
}

// SaveViewStateCommand persists a tree's layout and expand state
type SaveViewStateCommand struct {
	state ports.StateStore
	View  string
	Tree  *tagtree.Tree
}

// NewSaveViewStateCommand creates a new SaveViewStateCommand
func NewSaveViewStateCommand(state ports.StateStore, view string, tree *tagtree.Tree) *SaveViewStateCommand {
	return &SaveViewStateCommand{
		state: state,
		View:  view,
		Tree:  tree,
	}
}

// Validate checks if the save operation is valid
func (c *SaveViewStateCommand) Validate() error {
	if err := application.ValidateRequired("view", c.View); err != nil {
		return err
	}
	if c.Tree == nil {
		return &application.ValidationError{
			Field:   "tree",
			Message: "tree is required",
		}
	}
	return nil
}

// Execute runs the save command
func (c *SaveViewStateCommand) Execute(ctx context.Context) (*SaveViewStateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	st := domain.ViewState{
		Layout:   c.Tree.Layout(),
		Expanded: c.Tree.ExpandState(),
	}
	if err := c.state.Save(c.View, st); err != nil {
		return nil, fmt.Errorf("failed to save view %s: %w", c.View, err)
	}

	return &SaveViewStateResult{
		State:   st,
		Message: fmt.Sprintf("Saved view %s", c.View),
	}, nil
}

// ClearViewStateResult contains the result of clearing a view
type ClearViewStateResult struct {
	Message string
}

// ClearViewStateCommand forgets a view's persisted state
type ClearViewStateCommand struct {
	state ports.StateStore
	View  string
}

// NewClearViewStateCommand creates a new ClearViewStateCommand
func NewClearViewStateCommand(state ports.StateStore, view string) *ClearViewStateCommand {
	return &ClearViewStateCommand{
		state: state,
		View:  view,
	}
}

// Validate checks if the clear operation is valid
func (c *ClearViewStateCommand) Validate() error {
	return application.ValidateRequired("view", c.View)
}

// Execute runs the clear command
func (c *ClearViewStateCommand) Execute(ctx context.Context) (*ClearViewStateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.state.Delete(c.View); err != nil {
		return nil, fmt.Errorf("failed to clear view %s: %w", c.View, err)
	}

	return &ClearViewStateResult{
		Message: fmt.Sprintf("Cleared view %s", c.View),
	}, nil
}

// ShowViewStateResult contains a view's decoded state
type ShowViewStateResult struct {
	View    string
	State   domain.ViewState
	Paths   [][]domain.Segment
	Defect  error
	Message string
}

// ShowViewStateCommand decodes a view's persisted state without building a
// tree
type ShowViewStateCommand struct {
	state ports.StateStore
	View  string
}

// NewShowViewStateCommand creates a new ShowViewStateCommand
func NewShowViewStateCommand(state ports.StateStore, view string) *ShowViewStateCommand {
	return &ShowViewStateCommand{
		state: state,
		View:  view,
	}
}

// Validate checks if the show operation is valid
func (c *ShowViewStateCommand) Validate() error {
	return application.ValidateRequired("view", c.View)
}

// Execute runs the show command. A malformed token stream is reported in
// Defect alongside the paths read before it.
func (c *ShowViewStateCommand) Execute(ctx context.Context) (*ShowViewStateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	st, err := c.state.Load(c.View)
	if err != nil {
		return nil, fmt.Errorf("failed to load view %s: %w", c.View, err)
	}

	paths, defect := domain.DecodeExpandState(st.Expanded)
	return &ShowViewStateResult{
		View:    c.View,
		State:   st,
		Paths:   paths,
		Defect:  defect,
		Message: fmt.Sprintf("View %s: %s layout, %d expanded paths", c.View, st.Layout, len(paths)),
	}, nil
}
