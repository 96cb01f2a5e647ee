package commands

import (
	"context"
	"fmt"

	"tourtags/internal/ports"
)

// inTx runs fn inside a store transaction, committing on success and rolling
// back on any error.
func inTx(ctx context.Context, store ports.TourStore, fn func(ports.TourTx) error) error {
	tx, err := store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
