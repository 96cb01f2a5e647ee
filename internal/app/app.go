// Package app opens the stores and builds the tree options every binary
// shares.
package app

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"tourtags/internal/adapters/boltstate"
	"tourtags/internal/adapters/sqlite"
	"tourtags/internal/application/tagtree"
	"tourtags/internal/config"
	"tourtags/internal/domain"
	"tourtags/internal/logging"
	"tourtags/internal/metrics"
)

// App holds the opened stores of one process.
type App struct {
	Config  *config.Config
	Tours   *sqlite.Store
	State   *boltstate.Store
	Metrics *metrics.Collector
	Log     zerolog.Logger
}

// Open initializes logging from cfg and opens the tour database and the
// view state file.
func Open(cfg *config.Config) (*App, error) {
	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	log := logging.With("app")

	tours, err := sqlite.Open(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tour database: %w", err)
	}

	state, err := boltstate.Open(cfg.State.Path)
	if err != nil {
		tours.Close()
		return nil, fmt.Errorf("failed to open view state: %w", err)
	}

	log.Debug().
		Str("db", tours.Path()).
		Str("state", cfg.State.Path).
		Msg("stores opened")

	return &App{
		Config:  cfg,
		Tours:   tours,
		State:   state,
		Metrics: metrics.NewCollector(),
		Log:     log,
	}, nil
}

// TreeOptions translates the configuration into tree options. The layout is
// left to the persisted view state.
func (a *App) TreeOptions() ([]tagtree.Option, error) {
	filter, err := a.Config.TourFilter()
	if err != nil {
		return nil, err
	}

	opts := []tagtree.Option{
		tagtree.WithReducer(a.Config.SpeedReducer()),
		tagtree.WithFilter(filter),
		tagtree.WithLogger(logging.With("tagtree")),
		tagtree.WithObserver(a.Metrics),
	}
	if a.Config.Scramble {
		opts = append(opts, tagtree.WithScrambler(domain.NewScrambler(uint64(time.Now().UnixNano()))))
	}
	return opts, nil
}

// LayoutOverride returns the configured layout, or nil when the saved one
// applies.
func (a *App) LayoutOverride() *domain.Layout {
	if l, ok := a.Config.Layout(); ok {
		return &l
	}
	return nil
}

// Close closes both stores and reports every failure.
func (a *App) Close() error {
	if a == nil {
		return nil
	}

	var errm *multierror.Error
	errm = multierror.Append(errm, a.State.Close())
	errm = multierror.Append(errm, a.Tours.Close())
	return errm.ErrorOrNil()
}
