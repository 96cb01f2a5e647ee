package tagtree

import (
	"context"

	"tourtags/internal/domain"
)

// Locate returns a node with the given key, fetching the levels above it as
// needed. Categories and tags are searched breadth first through the
// structure; calendar keys are reached through their tag. Tour keys are only
// found once materialized since a tour may sit below any of its tags.
func (t *Tree) Locate(ctx context.Context, key domain.Key) (NodeID, bool) {
	if key == domain.RootKey {
		return RootID, true
	}
	if ids := t.index[key]; len(ids) > 0 {
		return ids[0], true
	}

	switch key.Variant {
	case domain.VariantCategory, domain.VariantTag:
		return t.locateStructure(ctx, key)
	case domain.VariantYear:
		tag, ok := t.Locate(ctx, domain.TagKey(key.ID))
		if !ok {
			return NoNode, false
		}
		return t.childWithKey(ctx, tag, key)
	case domain.VariantMonth:
		year, ok := t.Locate(ctx, domain.YearKey(key.ID, key.Year))
		if !ok {
			return NoNode, false
		}
		return t.childWithKey(ctx, year, key)
	}
	return NoNode, false
}

func (t *Tree) locateStructure(ctx context.Context, key domain.Key) (NodeID, bool) {
	queue := []NodeID{RootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, c := range t.FetchChildren(ctx, id) {
			ck := t.nodes[c].key
			if ck == key {
				return c, true
			}
			if ck.Variant == domain.VariantCategory {
				queue = append(queue, c)
			}
		}
	}
	return NoNode, false
}

func (t *Tree) childWithKey(ctx context.Context, parent NodeID, key domain.Key) (NodeID, bool) {
	for _, c := range t.FetchChildren(ctx, parent) {
		if t.nodes[c].key == key {
			return c, true
		}
	}
	return NoNode, false
}
