// Package boltstate persists per-view tree state in a bbolt file.
package boltstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ugorji/go/codec"
	bolt "go.etcd.io/bbolt"

	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

const viewsBucket = "views"

// ErrCorruptState is returned when a stored view state cannot be decoded.
var ErrCorruptState = errors.New("corrupt view state")

// Store implements ports.StateStore. Each view name maps to one
// Binc-encoded domain.ViewState.
type Store struct {
	db *bolt.DB
	ch codec.Handle
}

var _ ports.StateStore = (*Store)(nil)

// Open opens or creates the state file at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, errc := tx.CreateBucketIfNotExists([]byte(viewsBucket))

		return errc
	})
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Store{db: db, ch: new(codec.BincHandle)}, nil
}

// Load returns the saved state of a view, or the default state when none
// was saved.
func (s *Store) Load(view string) (domain.ViewState, error) {
	st := domain.DefaultViewState()

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(viewsBucket)).Get([]byte(view))
		if v == nil {
			return nil
		}

		if err := codec.NewDecoderBytes(v, s.ch).Decode(&st); err != nil {
			return fmt.Errorf("%w %q: %w", ErrCorruptState, view, err)
		}

		return nil
	})
	if err != nil {
		return domain.DefaultViewState(), err
	}

	return st, nil
}

// Save replaces the saved state of a view.
func (s *Store) Save(view string, st domain.ViewState) error {
	var encoded []byte
	if err := codec.NewEncoderBytes(&encoded, s.ch).Encode(st); err != nil {
		return fmt.Errorf("failed to encode view state: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(viewsBucket)).Put([]byte(view), encoded)
	})
}

// Delete forgets the saved state of a view.
func (s *Store) Delete(view string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(viewsBucket)).Delete([]byte(view))
	})
}

// Views lists the names of all views with saved state.
func (s *Store) Views() ([]string, error) {
	var names []string

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(viewsBucket)).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))

			return nil
		})
	})

	return names, err
}

// Close closes the state file.
func (s *Store) Close() error {
	return s.db.Close()
}
