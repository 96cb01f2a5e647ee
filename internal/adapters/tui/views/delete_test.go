package views

import (
	"context"
	"slices"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

// recStore records committed deletions.
type recStore struct {
	deleted []int64
}

func (s *recStore) BeginTx(ctx context.Context) (ports.TourTx, error) { return &recTx{store: s}, nil }
func (s *recStore) Tours(ctx context.Context, ids []int64) ([]domain.TourUpdate, error) {
	return nil, nil
}

type recTx struct {
	store   *recStore
	pending []int64
}

func (tx *recTx) CreateCategory(c *domain.Category, parentID int64) error { return nil }
func (tx *recTx) CreateTag(t *domain.Tag, categoryID int64) error         { return nil }
func (tx *recTx) UpsertTour(rec *domain.TourRecord) error                 { return nil }
func (tx *recTx) RetitleTour(id int64, title string) error                { return nil }
func (tx *recTx) TagTours(tagID int64, tourIDs []int64) error             { return nil }
func (tx *recTx) UntagTours(tagID int64, tourIDs []int64) error           { return nil }
func (tx *recTx) Rollback() error                                         { return nil }

func (tx *recTx) DeleteTours(ids []int64) error {
	tx.pending = append(tx.pending, ids...)
	return nil
}

func (tx *recTx) Commit() error {
	tx.store.deleted = append(tx.store.deleted, tx.pending...)
	return nil
}

func typeKeys(m *DeleteModel, s string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return cmd
}

func TestDeleteConfirm(t *testing.T) {
	store := &recStore{}
	m := NewDeleteModel(store)
	m.SetTarget(Target{Key: domain.TagKey(1), Name: "Runs", TourIDs: []int64{8, 7}})

	if cmd := typeKeys(m, "x"); cmd != nil {
		t.Fatal("unbound key should do nothing")
	}

	cmd := typeKeys(m, "y")
	if cmd == nil {
		t.Fatal("confirm produced no command")
	}
	msg, ok := cmd().(EventMsg)
	if !ok {
		t.Fatalf("got %T, want EventMsg", cmd())
	}
	evt, ok := msg.Event.(domain.TourDelete)
	if !ok || !slices.Equal(evt.TourIDs, []int64{7, 8}) {
		t.Errorf("event = %#v", msg.Event)
	}
	if !slices.Equal(store.deleted, []int64{7, 8}) {
		t.Errorf("deleted = %v", store.deleted)
	}
}

func TestDeleteCancel(t *testing.T) {
	m := NewDeleteModel(&recStore{})
	m.SetTarget(Target{Key: domain.TourKey(7), TourIDs: []int64{7}})

	cmd := typeKeys(m, "n")
	if _, ok := cmd().(SwitchToBrowserMsg); !ok {
		t.Errorf("cancel should return to the browser")
	}
}

func TestBulkDeleteNeedsCount(t *testing.T) {
	store := &recStore{}
	ids := make([]int64, 25)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	m := NewDeleteModel(store)
	m.SetTarget(Target{Key: domain.TagKey(1), Name: "Runs", TourIDs: ids})

	typeKeys(m, "y") // goes into the input
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || !m.MessageErr {
		t.Fatalf("wrong count accepted, message %q", m.Message)
	}

	m.count.Reset("25")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("typed count should confirm")
	}
	if _, ok := cmd().(EventMsg); !ok {
		t.Fatalf("got %T, want EventMsg", cmd())
	}
	if len(store.deleted) != 25 {
		t.Errorf("deleted %d tours, want 25", len(store.deleted))
	}
}

func TestIDPreview(t *testing.T) {
	if got := idPreview([]int64{1, 2}); got != "1, 2" {
		t.Errorf("idPreview = %q", got)
	}
	got := idPreview([]int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	if got != "1, 2, 3, 4, 5, 6, 7, 8, and 2 more" {
		t.Errorf("idPreview = %q", got)
	}
}
