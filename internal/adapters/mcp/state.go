package mcp

import (
	"context"
	"fmt"

	"tourtags/internal/application/commands"
	"tourtags/internal/application/tagtree"
	"tourtags/internal/ports"
)

// SaveView writes the layout and expand state of the session's tree under
// view. It runs as a session job, after every event posted before it.
func SaveView(ctx context.Context, session *tagtree.Session, state ports.StateStore, view string) error {
	var saveErr error
	err := session.Do(ctx, func(tree *tagtree.Tree) {
		_, saveErr = commands.NewSaveViewStateCommand(state, view, tree).Execute(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to save view %s: %w", view, err)
	}
	return saveErr
}
