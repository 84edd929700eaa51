package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
	"github.com/custodia-labs/annlib/internal/core/ports/driving"
	"github.com/custodia-labs/annlib/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService reads the run journal.
type HistoryService struct {
	store driven.RunStore
}

// NewHistoryService creates a history service. store may be nil when the
// journal is disabled.
func NewHistoryService(store driven.RunStore) *HistoryService {
	return &HistoryService{store: store}
}

func (s *HistoryService) journal() (driven.RunStore, error) {
	if s.store == nil {
		return nil, errors.New("run journal not configured")
	}
	return s.store, nil
}

// List returns recent runs, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.RunReport, error) {
	store, err := s.journal()
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidInput)
	}
	return store.List(ctx, limit)
}

// Get returns a run by full ID or by a prefix matching exactly one run.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.RunReport, error) {
	store, err := s.journal()
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: run id required", domain.ErrInvalidInput)
	}

	report, err := store.Get(ctx, id)
	if err == nil || !errors.Is(err, domain.ErrNotFound) {
		return report, err
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	var match *domain.RunReport
	for i := range runs {
		if !strings.HasPrefix(runs[i].ID, id) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%w: run id prefix %q is ambiguous", domain.ErrInvalidInput, id)
		}
		match = &runs[i]
	}
	if match == nil {
		return nil, fmt.Errorf("run %s: %w", id, domain.ErrNotFound)
	}
	return store.Get(ctx, match.ID)
}

// Latest returns the most recent run.
func (s *HistoryService) Latest(ctx context.Context) (*domain.RunReport, error) {
	store, err := s.journal()
	if err != nil {
		return nil, err
	}
	return store.Latest(ctx)
}

// Prune deletes all but the most recent keep runs.
func (s *HistoryService) Prune(ctx context.Context, keep int) (int, error) {
	store, err := s.journal()
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		return 0, fmt.Errorf("%w: keep must not be negative", domain.ErrInvalidInput)
	}
	n, err := store.Prune(ctx, keep)
	if err != nil {
		return 0, err
	}
	logger.Debug("pruned %d runs, kept %d", n, keep)
	return n, nil
}
