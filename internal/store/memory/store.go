// Package memory holds the live snapshot. Writers are serialized; readers load
// the committed snapshot without locking.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/unistay/internal/domain"
	"github.com/gosuda/unistay/internal/events"
	"github.com/gosuda/unistay/internal/ledger"
	"github.com/gosuda/unistay/internal/metrics"
)

// EventPublisher receives a notification after each committed mutation.
type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event) error
}

// Store is the single writer of domain.State.
type Store struct {
	mu      sync.Mutex // serializes Dispatch
	current atomic.Pointer[domain.State]

	reducer   *ledger.Reducer
	metrics   *metrics.Recorder
	publisher EventPublisher
	now       func() time.Time
}

type Option func(*Store)

func WithReducer(r *ledger.Reducer) Option {
	return func(s *Store) { s.reducer = r }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Store) { s.metrics = m }
}

func WithPublisher(p EventPublisher) Option {
	return func(s *Store) { s.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store holding initial.
func New(initial *domain.State, opts ...Option) (*Store, error) {
	if initial == nil {
		return nil, errors.New("memory.New: initial state is required")
	}
	s := &Store{
		reducer: ledger.NewReducer(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(initial)
	s.metrics.SetVersion(initial.Version)
	return s, nil
}

// Snapshot returns the committed state. Callers must treat it as read-only.
func (s *Store) Snapshot() *domain.State {
	return s.current.Load()
}

// Dispatch applies cmd to the current snapshot. On success the new snapshot
// is committed and returned; on rejection the current snapshot is returned
// unchanged along with the error.
func (s *Store) Dispatch(ctx context.Context, cmd ledger.Command) (*domain.State, error) {
	if err := ctx.Err(); err != nil {
		return s.Snapshot(), fmt.Errorf("memory.Store.Dispatch: %w", err)
	}

	name := cmd.CommandName()

	s.mu.Lock()
	cur := s.current.Load()
	next, err := s.reducer.Apply(cur, cmd)
	if err == nil {
		s.current.Store(next)
	}
	s.mu.Unlock()

	s.metrics.ObserveMutation(name, err)

	if err != nil {
		var rej *domain.Rejection
		if errors.As(err, &rej) {
			log.Info().Str("command", name).Str("reason", rej.Reason).Msg("command rejected")
		} else {
			log.Error().Err(err).Str("command", name).Msg("command failed")
		}
		return cur, fmt.Errorf("memory.Store.Dispatch: %w", err)
	}

	s.metrics.SetVersion(next.Version)
	log.Debug().Str("command", name).Uint64("version", next.Version).Msg("command applied")

	s.publish(ctx, events.Event{
		Type:    events.TypeStateChanged,
		Command: name,
		Version: next.Version,
		At:      s.now().UTC(),
	})
	return next, nil
}

func (s *Store) publish(ctx context.Context, ev events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("command", ev.Command).Uint64("version", ev.Version).Msg("publish state event")
	}
}
