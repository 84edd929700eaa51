package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore. It backs the
// journal when journal.backend is "memory" and lives as long as the process.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.RunReport
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.RunReport),
	}
}

// Save stores or replaces a run.
func (s *RunStore) Save(_ context.Context, report *domain.RunReport) error {
	if report == nil || report.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[report.ID] = cloneRun(*report)
	return nil
}

// Get retrieves a run by ID.
func (s *RunStore) Get(_ context.Context, id string) (*domain.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneRun(r)
	return &out, nil
}

// List returns the most recent runs first.
func (s *RunStore) List(_ context.Context, limit int) ([]domain.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(limit), nil
}

// Latest returns the most recent run.
func (s *RunStore) Latest(_ context.Context) (*domain.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := s.sorted(1)
	if len(runs) == 0 {
		return nil, domain.ErrNotFound
	}
	return &runs[0], nil
}

// Prune removes all but the most recent keep runs.
func (s *RunStore) Prune(_ context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	runs := s.sorted(0)
	removed := 0
	for _, r := range runs[min(keep, len(runs)):] {
		delete(s.runs, r.ID)
		removed++
	}
	return removed, nil
}

// sorted returns copies ordered newest first (caller must hold lock).
func (s *RunStore) sorted(limit int) []domain.RunReport {
	out := make([]domain.RunReport, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, cloneRun(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func cloneRun(r domain.RunReport) domain.RunReport {
	r.Outcomes = append([]domain.FileOutcome(nil), r.Outcomes...)
	return r
}
