package tagtree

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"tourtags/internal/application"
	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

// Apply patches the tree for one data-layer event. Events must be applied in
// the order they were delivered. Events naming nodes that are not
// materialized are ignored.
func (t *Tree) Apply(ctx context.Context, evt domain.Event) error {
	var err error
	switch e := evt.(type) {
	case domain.TagChange:
		t.applyTagChange(ctx, e)
	case *domain.TagChange:
		t.applyTagChange(ctx, *e)
	case domain.TourChange:
		t.applyTourChange(e)
	case *domain.TourChange:
		t.applyTourChange(*e)
	case domain.TourDelete:
		t.applyTourDelete(e)
	case *domain.TourDelete:
		t.applyTourDelete(*e)
	case domain.TagStructureChange, *domain.TagStructureChange:
		err = t.Reload(ctx)
	default:
		return fmt.Errorf("%w: unsupported event %T", application.ErrInvalidOperation, evt)
	}

	t.observer.Patched(evt.EventName())
	return err
}

// Reload rebuilds the tree from the repository and re-expands the paths that
// were expanded before.
func (t *Tree) Reload(ctx context.Context) error {
	state := t.ExpandState()

	t.dropChildren(RootID)
	t.observer.NodesLive(t.live)

	err := t.Build(ctx)
	if _, rerr := t.RestoreExpandState(ctx, state); rerr != nil && err == nil {
		err = rerr
	}
	t.emitUpdated(RootID)
	return err
}

// SetLayout switches the root layout and reloads.
func (t *Tree) SetLayout(ctx context.Context, l domain.Layout) error {
	if l == t.layout && t.nodes[RootID].fetched {
		return nil
	}
	t.layout = l
	return t.Reload(ctx)
}

func (t *Tree) applyTagChange(ctx context.Context, e domain.TagChange) {
	ids := t.Find(domain.TagKey(e.TagID))
	if len(ids) == 0 {
		t.log.Debug().Int64("tag", e.TagID).Msg("tag change for unloaded tag ignored")
		return
	}

	for _, id := range ids {
		n := t.get(id)
		if n == nil {
			continue
		}
		if !n.fetched {
			t.refreshTagTotals(ctx, id)
		} else if n.expandType == domain.ExpandFlat {
			t.patchFlatTag(ctx, id, e)
		} else {
			t.refetchCalendar(ctx, id)
		}
		t.emitUpdated(id)
	}
}

// refreshTagTotals re-queries the totals of a tag whose children are not
// loaded.
func (t *Tree) refreshTagTotals(ctx context.Context, id NodeID) {
	n := t.nodes[id]
	totals, err := t.tagTotals(ctx, n.key.ID)
	if err != nil {
		t.log.Error().Err(err).Str("node", n.key.String()).Msg("failed to refresh tag totals")
		return
	}
	n.stats = t.reduce(totals[n.key.ID])
}

// patchFlatTag adds or removes tour leaves directly below a flat tag.
// Adding a tour that is already present and removing one that is absent are
// both no-ops.
func (t *Tree) patchFlatTag(ctx context.Context, id NodeID, e domain.TagChange) {
	n := t.nodes[id]

	present := make(map[int64]struct{}, len(n.children))
	for _, c := range n.children {
		present[t.nodes[c].key.ID] = struct{}{}
	}

	if e.Added {
		var delta []int64
		for _, tourID := range e.TourIDs {
			if _, ok := present[tourID]; !ok {
				present[tourID] = struct{}{}
				delta = append(delta, tourID)
			}
		}
		if len(delta) == 0 {
			return
		}

		leaves, err := t.tourNodes(ctx, ports.DetailQuery{TagID: n.key.ID, TourIDs: delta})
		if err != nil {
			t.log.Error().Err(err).Str("node", n.key.String()).Msg("failed to load tagged tours")
			return
		}
		added := make([]NodeID, 0, len(leaves))
		for _, leaf := range leaves {
			added = append(added, t.attach(id, leaf))
		}
		t.sortTours(id)
		for _, c := range added {
			t.emitAdded(c)
		}
	} else {
		removed := make(map[int64]struct{}, len(e.TourIDs))
		for _, tourID := range e.TourIDs {
			removed[tourID] = struct{}{}
		}
		kept := n.children[:0:0]
		for _, c := range n.children {
			key := t.nodes[c].key
			if _, ok := removed[key.ID]; !ok {
				kept = append(kept, c)
				continue
			}
			t.release(c)
			t.emitRemoved(id, key)
		}
		n.children = kept
	}

	t.recompute(id)
	t.observer.NodesLive(t.live)
}

// refetchCalendar replaces the year children of a tag wholesale and
// re-expands whatever was expanded below it.
func (t *Tree) refetchCalendar(ctx context.Context, id NodeID) {
	expanded := t.expandedBelow(id)

	for _, key := range t.dropChildren(id) {
		t.emitRemoved(id, key)
	}
	if err := t.fetch(ctx, id); err != nil {
		return
	}

	n := t.nodes[id]
	for _, c := range n.children {
		t.emitAdded(c)
	}
	for _, path := range expanded {
		t.expandPath(ctx, id, path)
	}
	t.recompute(id)
}

func (t *Tree) applyTourChange(e domain.TourChange) {
	for _, upd := range e.Tours {
		for _, id := range t.Find(domain.TourKey(upd.ID)) {
			n := t.nodes[id]
			title := t.title(upd.Title)
			n.name = title
			n.tour.Title = title
			n.tour.TypeID = upd.TypeID
			n.tour.TagIDs = slices.Clone(upd.TagIDs)
			t.emitUpdated(id)
		}
	}
}

// applyTourDelete removes the tour leaves and recomputes the aggregates of
// their immediate parents.
func (t *Tree) applyTourDelete(e domain.TourDelete) {
	var parents []NodeID

	for _, tourID := range e.TourIDs {
		for _, id := range t.Find(domain.TourKey(tourID)) {
			n := t.nodes[id]
			parent := n.parent
			p := t.nodes[parent]
			if i := slices.Index(p.children, id); i >= 0 {
				p.children = slices.Delete(p.children, i, i+1)
			}
			key := n.key
			t.release(id)
			t.emitRemoved(parent, key)
			if !slices.Contains(parents, parent) {
				parents = append(parents, parent)
			}
		}
	}

	for _, p := range parents {
		t.recompute(p)
		t.emitUpdated(p)
	}
	t.observer.NodesLive(t.live)
}

// recompute derives a node's stats from its fetched children.
func (t *Tree) recompute(id NodeID) {
	n := t.nodes[id]
	totals := make([]domain.Totals, 0, len(n.children))
	for _, c := range n.children {
		totals = append(totals, t.nodes[c].stats.Totals)
	}
	n.stats = t.reducer.Reduce(domain.Combine(totals))
}

func (t *Tree) sortTours(id NodeID) {
	n := t.nodes[id]
	slices.SortStableFunc(n.children, func(a, b NodeID) int {
		ta, tb := t.nodes[a].tour, t.nodes[b].tour
		if ta == nil || tb == nil {
			return 0
		}
		if c := ta.Start.Compare(tb.Start); c != 0 {
			return c
		}
		return cmp.Compare(ta.ID, tb.ID)
	})
}
