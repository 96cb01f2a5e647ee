package commands

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"tourtags/internal/application"
	"tourtags/internal/domain"
)

func TestTagToursCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tagID   int64
		tourIDs []int64
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid",
			tagID:   3,
			tourIDs: []int64{1, 2},
			wantErr: false,
		},
		{
			name:    "zero tag",
			tagID:   0,
			tourIDs: []int64{1},
			wantErr: true,
			errMsg:  "tag ID must be positive",
		},
		{
			name:    "no tours",
			tagID:   3,
			wantErr: true,
			errMsg:  "at least one tour ID is required",
		},
		{
			name:    "negative tour",
			tagID:   3,
			tourIDs: []int64{4, -1},
			wantErr: true,
			errMsg:  "tour ID must be positive, got: -1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewTagToursCommand(newFakeStore(), tt.tagID, tt.tourIDs)
			err := cmd.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() expected error, got nil")
					return
				}
				if tt.errMsg != "" && !contains(err.Error(), tt.errMsg) {
					t.Errorf("Validate() error = %q, want containing %q", err.Error(), tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestTagToursCommand_Execute(t *testing.T) {
	store := newFakeStore()
	result, err := NewTagToursCommand(store, 3, []int64{9, 4, 9}).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := domain.TagChange{TagID: 3, TourIDs: []int64{4, 9}, Added: true}
	if result.Event.TagID != want.TagID || !slices.Equal(result.Event.TourIDs, want.TourIDs) || !result.Event.Added {
		t.Errorf("Event = %+v, want %+v", result.Event, want)
	}
	if !slices.Equal(store.committed, []string{"TagTours"}) {
		t.Errorf("committed = %v", store.committed)
	}
	if !contains(result.Message, "Tagged 2 tours") {
		t.Errorf("Message = %q", result.Message)
	}

	result, err = NewUntagToursCommand(store, 3, []int64{4}).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Event.Added {
		t.Error("untag event reports Added")
	}
	if !contains(result.Message, "Untagged 1 tours") {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestTagToursCommand_RollsBackOnFailure(t *testing.T) {
	store := newFakeStore()
	store.failOn = "TagTours"

	_, err := NewTagToursCommand(store, 3, []int64{4}).Execute(context.Background())
	if err == nil {
		t.Fatal("Execute() expected error")
	}
	if store.rolledBack != 1 {
		t.Errorf("rolledBack = %d, want 1", store.rolledBack)
	}
	if len(store.committed) != 0 {
		t.Errorf("committed = %v, want nothing", store.committed)
	}
}

func TestDeleteToursCommand(t *testing.T) {
	if err := NewDeleteToursCommand(newFakeStore(), nil).Validate(); err == nil {
		t.Error("Validate() accepted an empty id list")
	}

	store := newFakeStore()
	result, err := NewDeleteToursCommand(store, []int64{5, 2, 5}).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !slices.Equal(result.Event.TourIDs, []int64{2, 5}) {
		t.Errorf("TourIDs = %v", result.Event.TourIDs)
	}
	if !slices.Equal(store.committed, []string{"DeleteTours"}) {
		t.Errorf("committed = %v", store.committed)
	}
}

func TestRetitleTourCommand(t *testing.T) {
	tests := []struct {
		name    string
		tourID  int64
		title   string
		wantErr error
	}{
		{name: "blank title", tourID: 7, title: "  "},
		{name: "bad id", tourID: 0, title: "New"},
		{name: "unknown tour", tourID: 99, title: "New", wantErr: application.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRetitleTourCommand(newFakeStore(), tt.tourID, tt.title).Execute(context.Background())
			if err == nil {
				t.Fatal("Execute() expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	result, err := NewRetitleTourCommand(newFakeStore(), 7, " Renamed ").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(result.Event.Tours) != 1 {
		t.Fatalf("Tours = %v", result.Event.Tours)
	}
	got := result.Event.Tours[0]
	if got.Title != "Renamed" || !slices.Equal(got.TagIDs, []int64{1, 2}) {
		t.Errorf("tour = %+v", got)
	}
}

func TestAddTourCommand(t *testing.T) {
	start := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)

	if err := NewAddTourCommand(newFakeStore(), domain.TourRecord{ID: 1}, nil).Validate(); err == nil {
		t.Error("Validate() accepted a tour without start time")
	}

	store := newFakeStore()
	result, err := NewAddTourCommand(store, domain.TourRecord{ID: 12, Start: start}, []int64{4, 2, 4}).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !slices.Equal(store.committed, []string{"UpsertTour", "TagTours", "TagTours"}) {
		t.Errorf("committed = %v", store.committed)
	}
	if len(result.Events) != 2 {
		t.Fatalf("Events = %v", result.Events)
	}
	first, ok := result.Events[0].(domain.TagChange)
	if !ok || first.TagID != 2 || !slices.Equal(first.TourIDs, []int64{12}) {
		t.Errorf("first event = %+v", result.Events[0])
	}
}

func TestCreateTagCommand_Validate(t *testing.T) {
	tests := []struct {
		name       string
		tagName    string
		categoryID int64
		expandType domain.ExpandType
		wantErr    bool
		errMsg     string
	}{
		{name: "root tag", tagName: "Commute", wantErr: false},
		{name: "in category", tagName: "Races", categoryID: 2, expandType: domain.ExpandFlat, wantErr: false},
		{name: "empty name", tagName: " ", wantErr: true, errMsg: "name is required"},
		{name: "negative category", tagName: "x", categoryID: -2, wantErr: true, errMsg: "category ID must be positive"},
		{name: "unknown expand type", tagName: "x", expandType: 7, wantErr: true, errMsg: "unknown expand type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCreateTagCommand(newFakeStore(), tt.tagName, tt.categoryID, tt.expandType).Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() expected error, got nil")
					return
				}
				if !contains(err.Error(), tt.errMsg) {
					t.Errorf("Validate() error = %q, want containing %q", err.Error(), tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestCreateStructureCommands_Execute(t *testing.T) {
	store := newFakeStore()

	cat, err := NewCreateCategoryCommand(store, "Sport", 0).Execute(context.Background())
	if err != nil {
		t.Fatalf("CreateCategory error: %v", err)
	}
	if cat.Category.ID != 100 {
		t.Errorf("category ID = %d, want 100", cat.Category.ID)
	}

	tag, err := NewCreateTagCommand(store, " Races ", cat.Category.ID, domain.ExpandFlat).Execute(context.Background())
	if err != nil {
		t.Fatalf("CreateTag error: %v", err)
	}
	if tag.Tag.ID != 101 || tag.Tag.Name != "Races" {
		t.Errorf("tag = %+v", tag.Tag)
	}
	if !contains(tag.Message, "Created tag 101 Races (flat)") {
		t.Errorf("Message = %q", tag.Message)
	}
}

func TestViewStateCommands(t *testing.T) {
	ctx := context.Background()
	state := newMemState()

	opened, err := NewOpenViewCommand(stubRepo{}, state, "tags").Execute(ctx)
	if err != nil {
		t.Fatalf("OpenView error: %v", err)
	}
	if opened.Restored != 0 || len(opened.Warnings) != 0 {
		t.Errorf("fresh view: restored=%d warnings=%v", opened.Restored, opened.Warnings)
	}

	tree := opened.Tree
	tag, ok := tree.Locate(ctx, domain.TagKey(1))
	if !ok {
		t.Fatal("tag 1 not found")
	}
	tree.Expand(ctx, tree.Parent(tag))
	tree.Expand(ctx, tag)

	if _, err := NewSaveViewStateCommand(state, "tags", tree).Execute(ctx); err != nil {
		t.Fatalf("SaveViewState error: %v", err)
	}

	shown, err := NewShowViewStateCommand(state, "tags").Execute(ctx)
	if err != nil {
		t.Fatalf("ShowViewState error: %v", err)
	}
	wantPath := []domain.Segment{{Type: domain.StateCategory, Value: 5}, {Type: domain.StateTag, Value: 1}}
	if len(shown.Paths) != 1 || !slices.Equal(shown.Paths[0], wantPath) {
		t.Errorf("Paths = %v, want [%v]", shown.Paths, wantPath)
	}

	reopened, err := NewOpenViewCommand(stubRepo{}, state, "tags").Execute(ctx)
	if err != nil {
		t.Fatalf("OpenView error: %v", err)
	}
	if reopened.Restored != 1 {
		t.Errorf("Restored = %d, want 1", reopened.Restored)
	}
	if got := len(reopened.Tree.Visible()); got != 4 {
		t.Errorf("visible rows = %d, want 4", got)
	}

	if _, err := NewClearViewStateCommand(state, "tags").Execute(ctx); err != nil {
		t.Fatalf("ClearViewState error: %v", err)
	}
	if _, ok := state.views["tags"]; ok {
		t.Error("view state still stored after clear")
	}
}

func TestOpenViewCommand_LayoutOverride(t *testing.T) {
	state := newMemState()
	state.views["tags"] = domain.ViewState{Layout: domain.LayoutHierarchical}

	flat := domain.LayoutFlat
	cmd := NewOpenViewCommand(stubRepo{}, state, "tags")
	cmd.Layout = &flat

	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Tree.Layout() != domain.LayoutFlat {
		t.Errorf("Layout = %v, want flat", result.Tree.Layout())
	}
}

func TestOpenViewCommand_CorruptStateFallsBack(t *testing.T) {
	state := newMemState()
	state.loadErr = errors.New("corrupt view state")

	result, err := NewOpenViewCommand(stubRepo{}, state, "tags").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one", result.Warnings)
	}
	if result.State.Layout != domain.LayoutHierarchical {
		t.Errorf("Layout = %v, want hierarchical", result.State.Layout)
	}
}

func TestOpenViewCommand_MalformedExpandStateWarns(t *testing.T) {
	state := newMemState()
	state.views["tags"] = domain.ViewState{
		Layout:   domain.LayoutHierarchical,
		Expanded: []int64{-1, -1, 1, 5, -1, -1, 9, 1},
	}

	result, err := NewOpenViewCommand(stubRepo{}, state, "tags").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Restored != 1 {
		t.Errorf("Restored = %d, want 1", result.Restored)
	}
	if len(result.Warnings) != 1 || !contains(result.Warnings[0], "unknown item type 9 at token 6") {
		t.Errorf("Warnings = %v, want the decode defect", result.Warnings)
	}
}

func TestShowViewStateCommand_ReportsDefect(t *testing.T) {
	state := newMemState()
	state.views["tags"] = domain.ViewState{
		Layout:   domain.LayoutFlat,
		Expanded: []int64{-1, -1, 2, 3, -1, -1, 9, 1},
	}

	result, err := NewShowViewStateCommand(state, "tags").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Defect == nil {
		t.Error("Defect = nil, want decode error")
	}
	if len(result.Paths) != 1 {
		t.Errorf("Paths = %v, want the readable prefix", result.Paths)
	}
}

func TestCollectToursCommand(t *testing.T) {
	ctx := context.Background()
	opened, err := NewOpenViewCommand(stubRepo{}, newMemState(), "tags").Execute(ctx)
	if err != nil {
		t.Fatalf("OpenView error: %v", err)
	}

	if err := NewCollectToursCommand(opened.Tree, nil).Validate(); err == nil {
		t.Error("Validate() accepted no keys")
	}

	result, err := NewCollectToursCommand(opened.Tree, []domain.Key{domain.TagKey(1), domain.TagKey(42)}).Execute(ctx)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !slices.Equal(result.TourIDs, []int64{7, 8}) {
		t.Errorf("TourIDs = %v", result.TourIDs)
	}
	if !slices.Equal(result.Missing, []domain.Key{domain.TagKey(42)}) {
		t.Errorf("Missing = %v", result.Missing)
	}

	_, err = NewCollectToursCommand(opened.Tree, []domain.Key{domain.TagKey(42)}).Execute(ctx)
	if !errors.Is(err, application.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
