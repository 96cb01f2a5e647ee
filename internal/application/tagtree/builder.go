package tagtree

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"tourtags/internal/application"
	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

// FetchChildren returns a node's children, querying the repository on first
// access. A failed query is logged and leaves the node with no children.
func (t *Tree) FetchChildren(ctx context.Context, id NodeID) []NodeID {
	n := t.get(id)
	if n == nil {
		return nil
	}
	if !n.fetched {
		_ = t.fetch(ctx, id)
	}
	return slices.Clone(n.children)
}

// Invalidate drops a node's cached children so the next access queries
// again. The expanded flag is kept.
func (t *Tree) Invalidate(id NodeID) {
	n := t.get(id)
	if n == nil || !n.fetched {
		return
	}
	t.dropChildren(id)
	t.observer.NodesLive(t.live)
}

// fetch loads and attaches the children of an unfetched node.
func (t *Tree) fetch(ctx context.Context, id NodeID) error {
	n := t.nodes[id]
	if n.key.IsLeaf() {
		n.fetched = true
		return nil
	}

	start := time.Now()
	children, err := t.load(ctx, n)
	t.observer.FetchDone(n.key.Variant, time.Since(start), err)
	n.fetched = true

	if err != nil {
		t.log.Error().Err(err).Str("node", n.key.String()).Msg("failed to fetch children")
		return &application.FetchError{Key: n.key, Err: err}
	}

	for _, c := range children {
		t.attach(id, c)
	}
	t.observer.NodesLive(t.live)
	t.log.Debug().Str("node", n.key.String()).Int("children", len(children)).Msg("fetched children")
	return nil
}

// load runs the child query matching the node's variant and expand type.
func (t *Tree) load(ctx context.Context, n *node) ([]*node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch n.key.Variant {
	case domain.VariantRoot:
		return t.loadRoot(ctx)

	case domain.VariantCategory:
		cats, err := t.repo.SubCategories(ctx, n.key.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list sub-categories: %w", err)
		}
		tags, err := t.repo.CategoryTags(ctx, n.key.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list category tags: %w", err)
		}
		return t.structureNodes(ctx, cats, tags)

	case domain.VariantTag:
		if n.expandType == domain.ExpandFlat {
			return t.tourNodes(ctx, ports.DetailQuery{TagID: n.key.ID})
		}
		return t.yearNodes(ctx, n.key.ID, n.expandType)

	case domain.VariantYear:
		if n.expandType == domain.ExpandYearDay {
			return t.tourNodes(ctx, ports.DetailQuery{TagID: n.key.ID, Year: n.key.Year})
		}
		return t.monthNodes(ctx, n.key.ID, n.key.Year)

	case domain.VariantMonth:
		return t.tourNodes(ctx, ports.DetailQuery{TagID: n.key.ID, Year: n.key.Year, Month: n.key.Month})
	}

	return nil, fmt.Errorf("%w: %s has no children", application.ErrInvalidOperation, n.key)
}

func (t *Tree) loadRoot(ctx context.Context) ([]*node, error) {
	if t.layout == domain.LayoutFlat {
		tags, err := t.repo.AllTags(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tags: %w", err)
		}
		return t.structureNodes(ctx, nil, tags)
	}

	cats, err := t.repo.RootCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list root categories: %w", err)
	}
	tags, err := t.repo.RootTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list root tags: %w", err)
	}
	return t.structureNodes(ctx, cats, tags)
}

// structureNodes builds category nodes followed by tag nodes, each with its
// aggregate totals. Categories or tags with no matching tours get zero stats.
func (t *Tree) structureNodes(ctx context.Context, cats []domain.Category, tags []domain.Tag) ([]*node, error) {
	out := make([]*node, 0, len(cats)+len(tags))

	if len(cats) > 0 {
		ids := make([]int64, len(cats))
		for i, c := range cats {
			ids[i] = c.ID
		}
		rows, err := t.repo.Aggregate(ctx, ports.AggregateQuery{
			Level:       domain.VariantCategory,
			CategoryIDs: ids,
			Filter:      t.filter,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate categories: %w", err)
		}
		totals := make(map[int64]domain.Totals, len(rows))
		for _, r := range rows {
			totals[r.CategoryID] = r.Totals
		}
		for _, c := range cats {
			out = append(out, &node{
				key:   domain.CategoryKey(c.ID),
				name:  t.title(c.Name),
				stats: t.reduce(totals[c.ID]),
			})
		}
	}

	if len(tags) > 0 {
		totals, err := t.tagTotals(ctx, tagIDs(tags)...)
		if err != nil {
			return nil, err
		}
		for _, tag := range tags {
			out = append(out, &node{
				key:        domain.TagKey(tag.ID),
				name:       t.title(tag.Name),
				expandType: tag.ExpandType,
				stats:      t.reduce(totals[tag.ID]),
			})
		}
	}

	return out, nil
}

func (t *Tree) tagTotals(ctx context.Context, ids ...int64) (map[int64]domain.Totals, error) {
	rows, err := t.repo.Aggregate(ctx, ports.AggregateQuery{
		Level:  domain.VariantTag,
		TagIDs: ids,
		Filter: t.filter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tags: %w", err)
	}
	totals := make(map[int64]domain.Totals, len(rows))
	for _, r := range rows {
		totals[r.TagID] = r.Totals
	}
	return totals, nil
}

// yearNodes builds one node per start year. Year nodes inherit the tag's
// expand type so they know whether months sit below them.
func (t *Tree) yearNodes(ctx context.Context, tagID int64, expandType domain.ExpandType) ([]*node, error) {
	rows, err := t.repo.Aggregate(ctx, ports.AggregateQuery{
		Level:  domain.VariantYear,
		TagID:  tagID,
		Filter: t.filter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate years: %w", err)
	}

	out := make([]*node, 0, len(rows))
	for _, r := range rows {
		out = append(out, &node{
			key:        domain.YearKey(tagID, r.Year),
			name:       strconv.Itoa(r.Year),
			expandType: expandType,
			stats:      t.reduce(r.Totals),
		})
	}
	return out, nil
}

func (t *Tree) monthNodes(ctx context.Context, tagID int64, year int) ([]*node, error) {
	rows, err := t.repo.Aggregate(ctx, ports.AggregateQuery{
		Level:  domain.VariantMonth,
		TagID:  tagID,
		Year:   year,
		Filter: t.filter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate months: %w", err)
	}

	out := make([]*node, 0, len(rows))
	for _, r := range rows {
		out = append(out, &node{
			key:   domain.MonthKey(tagID, year, r.Month),
			name:  time.Month(r.Month).String(),
			stats: t.reduce(r.Totals),
		})
	}
	return out, nil
}

// tourNodes folds detail rows into tour leaves. Rows of one tour arrive
// contiguously, one per tag the tour carries.
func (t *Tree) tourNodes(ctx context.Context, q ports.DetailQuery) ([]*node, error) {
	q.Filter = t.filter
	rows, err := t.repo.Details(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to load tours: %w", err)
	}

	var out []*node
	var last *node
	for _, r := range rows {
		if last != nil && last.key.ID == r.TourID {
			if !last.tour.HasTag(r.TagID) {
				last.tour.TagIDs = append(last.tour.TagIDs, r.TagID)
			}
			continue
		}

		totals := r.Totals
		totals.TourCount = 1
		title := t.title(r.Title)
		last = &node{
			key:   domain.TourKey(r.TourID),
			name:  title,
			stats: t.reduce(totals),
			tour: &domain.TourSummary{
				ID:     r.TourID,
				Title:  title,
				TypeID: r.TypeID,
				Start:  r.Start,
				TagIDs: []int64{r.TagID},
			},
		}
		out = append(out, last)
	}
	return out, nil
}

func (t *Tree) reduce(totals domain.Totals) domain.Stats {
	s := t.reducer.Reduce(totals)
	if t.scrambler != nil {
		t.scrambler.Stats(&s)
	}
	return s
}

func (t *Tree) title(s string) string {
	if t.scrambler != nil {
		return t.scrambler.Text(s)
	}
	return s
}

func tagIDs(tags []domain.Tag) []int64 {
	ids := make([]int64, len(tags))
	for i, tag := range tags {
		ids[i] = tag.ID
	}
	return ids
}
