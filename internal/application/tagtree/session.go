package tagtree

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tourtags/internal/application"
	"tourtags/internal/domain"
)

// Session owns a Tree on a single goroutine. Events posted from any goroutine
// are applied strictly in the order Post was called; Do runs arbitrary reads
// or mutations on the owning goroutine between events.
type Session struct {
	ID uuid.UUID

	tree   *Tree
	events chan domain.Event
	jobs   chan job
	done   chan struct{}
	log    zerolog.Logger
}

type job struct {
	fn   func(*Tree)
	done chan struct{}
}

// NewSession wraps tree. buffer bounds how many events may queue before Post
// blocks.
func NewSession(tree *Tree, buffer int, log zerolog.Logger) *Session {
	id := uuid.New()
	return &Session{
		ID:     id,
		tree:   tree,
		events: make(chan domain.Event, buffer),
		jobs:   make(chan job),
		done:   make(chan struct{}),
		log:    log.With().Str("session", id.String()).Logger(),
	}
}

// Run applies events and jobs until ctx is cancelled. It must be called
// exactly once.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	s.log.Debug().Msg("session started")

	for {
		select {
		case <-ctx.Done():
			s.log.Debug().Msg("session stopped")
			return ctx.Err()

		case evt := <-s.events:
			s.apply(ctx, evt)

		case j := <-s.jobs:
			for len(s.events) > 0 {
				s.apply(ctx, <-s.events)
			}
			j.fn(s.tree)
			close(j.done)
		}
	}
}

func (s *Session) apply(ctx context.Context, evt domain.Event) {
	if err := s.tree.Apply(ctx, evt); err != nil {
		s.log.Warn().Err(err).Str("event", evt.EventName()).Msg("event applied with errors")
	}
}

// Post queues an event. It blocks while the queue is full.
func (s *Session) Post(ctx context.Context, evt domain.Event) error {
	select {
	case s.events <- evt:
		return nil
	case <-s.done:
		return application.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the owning goroutine and waits for it to return. Events whose
// Post returned before Do was called are applied first.
func (s *Session) Do(ctx context.Context, fn func(*Tree)) error {
	j := job{fn: fn, done: make(chan struct{})}
	select {
	case s.jobs <- j:
	case <-s.done:
		return application.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-j.done:
		return nil
	case <-s.done:
		return application.ErrSessionClosed
	}
}
