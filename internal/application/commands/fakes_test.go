package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

// fakeStore records what a transaction did once it commits.
type fakeStore struct {
	committed  []string
	rolledBack int
	failOn     string
	nextID     int64
	tours      map[int64]domain.TourUpdate
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID: 100,
		tours: map[int64]domain.TourUpdate{
			7: {ID: 7, Title: "Old", TypeID: 1, TagIDs: []int64{1, 2}},
		},
	}
}

func (s *fakeStore) BeginTx(ctx context.Context) (ports.TourTx, error) {
	return &fakeTx{store: s}, nil
}

func (s *fakeStore) Tours(ctx context.Context, ids []int64) ([]domain.TourUpdate, error) {
	var out []domain.TourUpdate
	for _, id := range ids {
		if t, ok := s.tours[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeTx struct {
	store *fakeStore
	ops   []string
}

func (t *fakeTx) op(name string) error {
	if t.store.failOn == name {
		return errors.New("boom")
	}
	t.ops = append(t.ops, name)
	return nil
}

func (t *fakeTx) CreateCategory(c *domain.Category, parentID int64) error {
	c.ID = t.store.nextID
	t.store.nextID++
	return t.op("CreateCategory")
}

func (t *fakeTx) CreateTag(tag *domain.Tag, categoryID int64) error {
	tag.ID = t.store.nextID
	t.store.nextID++
	return t.op("CreateTag")
}

func (t *fakeTx) UpsertTour(rec *domain.TourRecord) error { return t.op("UpsertTour") }
func (t *fakeTx) DeleteTours(ids []int64) error           { return t.op("DeleteTours") }

func (t *fakeTx) RetitleTour(id int64, title string) error {
	if err := t.op("RetitleTour"); err != nil {
		return err
	}
	tour := t.store.tours[id]
	tour.Title = title
	t.store.tours[id] = tour
	return nil
}

func (t *fakeTx) TagTours(tagID int64, tourIDs []int64) error   { return t.op("TagTours") }
func (t *fakeTx) UntagTours(tagID int64, tourIDs []int64) error { return t.op("UntagTours") }

func (t *fakeTx) Commit() error {
	t.store.committed = append(t.store.committed, t.ops...)
	return nil
}

func (t *fakeTx) Rollback() error {
	t.store.rolledBack++
	return nil
}

// memState is an in-memory StateStore.
type memState struct {
	views   map[string]domain.ViewState
	loadErr error
}

func newMemState() *memState {
	return &memState{views: make(map[string]domain.ViewState)}
}

func (m *memState) Load(view string) (domain.ViewState, error) {
	if m.loadErr != nil {
		return domain.DefaultViewState(), m.loadErr
	}
	st, ok := m.views[view]
	if !ok {
		return domain.DefaultViewState(), nil
	}
	return st, nil
}

func (m *memState) Save(view string, st domain.ViewState) error {
	m.views[view] = st
	return nil
}

func (m *memState) Delete(view string) error {
	delete(m.views, view)
	return nil
}

func (m *memState) Views() ([]string, error) {
	var out []string
	for v := range m.views {
		out = append(out, v)
	}
	return out, nil
}

func (m *memState) Close() error { return nil }

// stubRepo serves one root category holding the flat tag 1 "Runs" with
// tours 7 and 8.
type stubRepo struct{}

func (stubRepo) RootCategories(ctx context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 5, Name: "Sport", IsRoot: true}}, nil
}

func (stubRepo) RootTags(ctx context.Context) ([]domain.Tag, error) { return nil, nil }

func (stubRepo) AllTags(ctx context.Context) ([]domain.Tag, error) {
	return []domain.Tag{{ID: 1, Name: "Runs", ExpandType: domain.ExpandFlat}}, nil
}

func (stubRepo) SubCategories(ctx context.Context, categoryID int64) ([]domain.Category, error) {
	return nil, nil
}

func (stubRepo) CategoryTags(ctx context.Context, categoryID int64) ([]domain.Tag, error) {
	if categoryID != 5 {
		return nil, nil
	}
	return []domain.Tag{{ID: 1, Name: "Runs", ExpandType: domain.ExpandFlat}}, nil
}

func (stubRepo) Aggregate(ctx context.Context, q ports.AggregateQuery) ([]ports.AggregateRow, error) {
	totals := domain.Totals{Distance: 15000, MovingTime: 5400, TourCount: 2}
	switch q.Level {
	case domain.VariantCategory:
		return []ports.AggregateRow{{CategoryID: 5, Totals: totals}}, nil
	case domain.VariantTag:
		return []ports.AggregateRow{{TagID: 1, Totals: totals}}, nil
	}
	return nil, nil
}

func (stubRepo) Details(ctx context.Context, q ports.DetailQuery) ([]ports.DetailRow, error) {
	if q.TagID != 1 {
		return nil, nil
	}
	start := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	return []ports.DetailRow{
		{TourID: 7, Start: start, Title: "Easy", TagID: 1, Totals: domain.Totals{Distance: 5000, MovingTime: 1800}},
		{TourID: 8, Start: start.AddDate(0, 0, 1), Title: "Tempo", TagID: 1, Totals: domain.Totals{Distance: 10000, MovingTime: 3600}},
	}, nil
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
