package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save stores a run and replaces its outcomes.
func (s *runStore) Save(ctx context.Context, report *domain.RunReport) error {
	if report == nil || report.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, project, dry_run, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project = excluded.project,
			dry_run = excluded.dry_run,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, report.ID, report.Project, boolToInt(report.DryRun),
		formatTime(report.StartedAt), formatTime(report.FinishedAt))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM outcomes WHERE run_id = ?", report.ID); err != nil {
		return fmt.Errorf("clearing outcomes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO outcomes (run_id, seq, element, annotation, path, status, message, diff)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing outcome insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range report.Outcomes {
		if _, err := stmt.ExecContext(ctx, report.ID, i, o.Element, string(o.Annotation), o.Path,
			string(o.Status), nullString(o.Message), nullString(o.Diff)); err != nil {
			return fmt.Errorf("saving outcome %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// Get retrieves a run with its outcomes.
func (s *runStore) Get(ctx context.Context, id string) (*domain.RunReport, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, project, dry_run, started_at, finished_at
		FROM runs WHERE id = ?
	`, id)

	report, err := scanRun(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadOutcomes(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// List returns the most recent runs first, without their outcomes' diffs.
func (s *runStore) List(ctx context.Context, limit int) ([]domain.RunReport, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, project, dry_run, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunReport //nolint:prealloc // size unknown from query
	for rows.Next() {
		report, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		if err := s.loadOutcomes(ctx, &runs[i]); err != nil {
			return nil, err
		}
		for j := range runs[i].Outcomes {
			runs[i].Outcomes[j].Diff = ""
		}
	}
	return runs, nil
}

// Latest returns the most recent run.
func (s *runStore) Latest(ctx context.Context) (*domain.RunReport, error) {
	var id string
	err := s.store.db.QueryRowContext(ctx, "SELECT id FROM runs ORDER BY started_at DESC LIMIT 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest run: %w", err)
	}
	return s.Get(ctx, id)
}

// Prune removes all but the most recent keep runs.
func (s *runStore) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, domain.ErrInvalidInput
	}
	res, err := s.store.db.ExecContext(ctx, `
		DELETE FROM runs
		WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	return int(n), nil
}

func (s *runStore) loadOutcomes(ctx context.Context, report *domain.RunReport) error {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT element, annotation, path, status, message, diff
		FROM outcomes
		WHERE run_id = ?
		ORDER BY seq
	`, report.ID)
	if err != nil {
		return fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o domain.FileOutcome
		var annotation, status string
		var message, diff sql.NullString
		if err := rows.Scan(&o.Element, &annotation, &o.Path, &status, &message, &diff); err != nil {
			return fmt.Errorf("scanning outcome: %w", err)
		}
		o.Annotation = domain.AnnotationKind(annotation)
		o.Status = domain.OutcomeStatus(status)
		o.Message = message.String
		o.Diff = diff.String
		report.Outcomes = append(report.Outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating outcomes: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

type scanner interface {
	Scan(dest ...any) error
}

// scanRun scans a single runs row.
func scanRun(row scanner) (*domain.RunReport, error) {
	var report domain.RunReport
	var dryRun int
	var startedAt, finishedAt string

	if err := row.Scan(&report.ID, &report.Project, &dryRun, &startedAt, &finishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	report.DryRun = dryRun == 1
	report.StartedAt = parseTime(startedAt)
	report.FinishedAt = parseTime(finishedAt)
	return &report, nil
}

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
