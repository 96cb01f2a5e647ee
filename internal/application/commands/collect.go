package commands

import (
	"context"
	"fmt"

	"tourtags/internal/application"
	"tourtags/internal/application/tagtree"
	"tourtags/internal/domain"
)

// CollectToursResult contains the tours found below the requested nodes
type CollectToursResult struct {
	TourIDs []int64
	Missing []domain.Key
	Message string
}

// CollectToursCommand gathers the distinct tour ids below a set of nodes
type CollectToursCommand struct {
	tree *tagtree.Tree
	Keys []domain.Key
}

// NewCollectToursCommand creates a new CollectToursCommand
func NewCollectToursCommand(tree *tagtree.Tree, keys []domain.Key) *CollectToursCommand {
	return &CollectToursCommand{
		tree: tree,
		Keys: keys,
	}
}

// Validate checks if the collect operation is valid
func (c *CollectToursCommand) Validate() error {
	if len(c.Keys) == 0 {
		return &application.ValidationError{
			Field:   "keys",
			Message: "at least one node key is required",
		}
	}
	return nil
}

// Execute locates each key and collects the tours below it. Keys that do
// not resolve to a node are listed in Missing.
func (c *CollectToursCommand) Execute(ctx context.Context) (*CollectToursResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result := &CollectToursResult{}
	var ids []tagtree.NodeID
	for _, key := range c.Keys {
		id, ok := c.tree.Locate(ctx, key)
		if !ok {
			result.Missing = append(result.Missing, key)
			continue
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, &application.NodeNotFoundError{Key: c.Keys[0]}
	}

	result.TourIDs = c.tree.CollectTourIDs(ctx, ids...)
	result.Message = fmt.Sprintf("Collected %d tours from %d nodes", len(result.TourIDs), len(ids))
	return result, nil
}
