package ports

import "tourtags/internal/domain"

// StateStore persists per-view layout and expand state between sessions.
type StateStore interface {
	Load(view string) (domain.ViewState, error)
	Save(view string, st domain.ViewState) error
	Delete(view string) error
	Views() ([]string, error)
	Close() error
}
