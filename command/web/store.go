package web

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stage-dashboard/domain/progress"
)

// Loader produces a full replacement row set for one dataset.
type Loader func(ctx context.Context) ([]progress.NormalizedRow, error)

// Store holds the rows on display for every dataset. Reloads replace rows wholesale;
// when two reloads of a dataset overlap, the one started last wins.
type Store struct {
	mu     sync.Mutex
	order  []string
	states map[string]progress.LoadState
	policy progress.FailurePolicy
	now    func() time.Time
}

func NewStore(ids []string, policy progress.FailurePolicy) *Store {
	s := &Store{
		order:  append([]string{}, ids...),
		states: make(map[string]progress.LoadState, len(ids)),
		policy: policy,
		now:    time.Now,
	}
	for _, id := range ids {
		s.states[id] = progress.LoadState{}
	}
	return s
}

// IDs lists datasets in configuration order.
func (s *Store) IDs() []string {
	return append([]string{}, s.order...)
}

func (s *Store) Get(id string) (progress.LoadState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	return st, ok
}

// Reload runs load for dataset id outside the lock and applies the outcome. It returns the
// state after the attempt and load's error. A superseded attempt returns the current state
// and a nil error since its outcome was discarded. The boolean is false for unknown datasets.
func (s *Store) Reload(ctx context.Context, id, source string, load Loader) (progress.LoadState, bool, error) {
	s.mu.Lock()
	st, ok := s.states[id]
	if !ok {
		s.mu.Unlock()
		return progress.LoadState{}, false, nil
	}
	st, attempt := st.Begin(source)
	s.states[id] = st
	s.mu.Unlock()

	slog.Info("dataset.reload.start", "dataset", id, "source", source, "attempt", attempt)
	rows, err := load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.states[id]
	if !cur.Current(attempt) {
		slog.Info("dataset.reload.superseded", "dataset", id, "attempt", attempt, "error", err)
		return cur, true, nil
	}
	if err != nil {
		slog.Warn("dataset.reload.error", "dataset", id, "source", source, "error", err)
		cur = cur.Fail(attempt, err, s.policy)
	} else {
		slog.Info("dataset.reload.done", "dataset", id, "source", source, "rows", len(rows))
		cur = cur.Complete(attempt, rows, s.now())
	}
	s.states[id] = cur
	return cur, true, err
}
