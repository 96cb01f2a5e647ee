package tagtree

import (
	"context"
	"slices"

	"tourtags/internal/domain"
)

// ExpandedPaths returns one key path per deepest expanded node that is
// visible, that is whose ancestors are all expanded.
func (t *Tree) ExpandedPaths() [][]domain.Key {
	return t.expandedBelow(RootID)
}

// ExpandState encodes the expanded paths as a token stream for persistence.
func (t *Tree) ExpandState() []int64 {
	paths := t.ExpandedPaths()
	segs := make([][]domain.Segment, 0, len(paths))

	for _, path := range paths {
		seg := make([]domain.Segment, 0, len(path))
		for _, key := range path {
			s, ok := domain.SegmentForKey(key)
			if !ok {
				break
			}
			seg = append(seg, s)
		}
		segs = append(segs, seg)
	}
	return domain.EncodeExpandState(segs)
}

// RestoreExpandState re-expands the persisted paths, fetching children as it
// descends. Paths that no longer match the data are skipped. A malformed
// stream restores whatever was readable before the defect and then returns
// the *domain.DecodeError. Cancellation is checked between paths and wins
// over a decode defect. It returns how many paths matched completely.
func (t *Tree) RestoreExpandState(ctx context.Context, tokens []int64) (int, error) {
	paths, decodeErr := domain.DecodeExpandState(tokens)
	if decodeErr != nil {
		t.log.Warn().Err(decodeErr).Int("paths", len(paths)).Msg("expand state partially decoded")
	}

	restored := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return restored, err
		}
		if t.restorePath(ctx, path) {
			restored++
		}
	}
	return restored, decodeErr
}

// restorePath expands each matching segment from the root down. A segment
// with no matching child abandons the rest of the path; the prefix already
// matched stays expanded.
func (t *Tree) restorePath(ctx context.Context, path []domain.Segment) bool {
	cur := RootID
	for _, seg := range path {
		next := NoNode
		for _, c := range t.FetchChildren(ctx, cur) {
			if seg.Matches(t.nodes[c].key) {
				next = c
				break
			}
		}
		if next == NoNode {
			t.log.Debug().Stringer("segment", seg).Msg("expand path no longer matches")
			return false
		}
		t.Expand(ctx, next)
		cur = next
	}
	return true
}

// expandedBelow returns key paths relative to id, one per deepest visible
// expanded descendant.
func (t *Tree) expandedBelow(id NodeID) [][]domain.Key {
	var out [][]domain.Key

	var walk func(id NodeID, prefix []domain.Key)
	walk = func(id NodeID, prefix []domain.Key) {
		deeper := false
		for _, c := range t.nodes[id].children {
			cn := t.nodes[c]
			if !cn.expanded {
				continue
			}
			deeper = true
			walk(c, append(slices.Clone(prefix), cn.key))
		}
		if !deeper && len(prefix) > 0 {
			out = append(out, prefix)
		}
	}
	walk(id, nil)
	return out
}

// expandPath expands the nodes along a key path relative to from.
func (t *Tree) expandPath(ctx context.Context, from NodeID, path []domain.Key) bool {
	cur := from
	for _, key := range path {
		next := NoNode
		for _, c := range t.FetchChildren(ctx, cur) {
			if t.nodes[c].key == key {
				next = c
				break
			}
		}
		if next == NoNode {
			return false
		}
		t.Expand(ctx, next)
		cur = next
	}
	return true
}
