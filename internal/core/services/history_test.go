package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

func seededHistory(t *testing.T) (*HistoryService, *mockRunStore) {
	t.Helper()
	store := newMockRunStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a1b2c3d4-0000", "a1b2ffff-0000", "9f000000-0000"} {
		require.NoError(t, store.Save(context.Background(), &domain.RunReport{
			ID:        id,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	return NewHistoryService(store), store
}

func TestHistoryService_List(t *testing.T) {
	service, _ := seededHistory(t)

	runs, err := service.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "9f000000-0000", runs[0].ID, "newest first")

	runs, err = service.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	_, err = service.List(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryService_Get(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    string
		wantErr error
	}{
		{name: "full id", id: "a1b2c3d4-0000", want: "a1b2c3d4-0000"},
		{name: "unique prefix", id: "a1b2c", want: "a1b2c3d4-0000"},
		{name: "trimmed", id: "  9f  ", want: "9f000000-0000"},
		{name: "ambiguous prefix", id: "a1b2", wantErr: domain.ErrInvalidInput},
		{name: "unknown", id: "zz", wantErr: domain.ErrNotFound},
		{name: "empty", id: " ", wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := seededHistory(t)

			got, err := service.Get(context.Background(), tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestHistoryService_GetStoreFailure(t *testing.T) {
	service, store := seededHistory(t)
	store.getErr = errors.New("database is locked")

	_, err := service.Get(context.Background(), "a1b2c3d4-0000")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestHistoryService_Latest(t *testing.T) {
	service, _ := seededHistory(t)

	got, err := service.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "9f000000-0000", got.ID)

	_, err = NewHistoryService(newMockRunStore()).Latest(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryService_Prune(t *testing.T) {
	service, store := seededHistory(t)

	n, err := service.Prune(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	runs, _ := store.List(context.Background(), 0)
	require.Len(t, runs, 1)
	assert.Equal(t, "9f000000-0000", runs[0].ID)

	_, err = service.Prune(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryService_NoJournal(t *testing.T) {
	service := NewHistoryService(nil)

	_, err := service.List(context.Background(), 0)
	assert.Error(t, err)
	_, err = service.Get(context.Background(), "x")
	assert.Error(t, err)
	_, err = service.Latest(context.Background())
	assert.Error(t, err)
	_, err = service.Prune(context.Background(), 1)
	assert.Error(t, err)
}
