package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driving"
	"github.com/custodia-labs/annlib/internal/logger"
)

// LockFile is created in the project directory while a run writes files.
const LockFile = ".annlib.lock"

const lockRetryDelay = 100 * time.Millisecond

// lockedProcessor serialises runs across processes with a file lock.
type lockedProcessor struct {
	inner driving.Processor
	lock  *flock.Flock
}

var _ driving.Processor = (*lockedProcessor)(nil)

func withProjectLock(p driving.Processor, dir string) *lockedProcessor {
	return &lockedProcessor{inner: p, lock: flock.New(filepath.Join(dir, LockFile))}
}

// Run waits for the project lock, then runs the processor.
func (l *lockedProcessor) Run(ctx context.Context, opts domain.RunOptions) (*domain.RunReport, error) {
	locked, err := l.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking project: %w", err)
	}
	if !locked {
		logger.Info("waiting for another annlib run on %s", l.lock.Path())
		locked, err = l.lock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return nil, fmt.Errorf("locking project: %w", err)
		}
		if !locked {
			return nil, fmt.Errorf("locking project: %s is held", l.lock.Path())
		}
	}
	defer func() {
		if err := l.lock.Unlock(); err != nil {
			logger.Warn("unlocking project: %v", err)
		}
	}()

	return l.inner.Run(ctx, opts)
}

// Kinds returns the wrapped processor's kinds.
func (l *lockedProcessor) Kinds() []domain.AnnotationKind {
	return l.inner.Kinds()
}
