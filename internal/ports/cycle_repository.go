package ports

import (
	"context"
	"errors"
	"time"

	"assetverify/internal/domain/verification"
)

var (
	ErrCycleNotFound = errors.New("verification cycle not found")
	// ErrActiveCycleConflict is returned when the storage-level single-active
	// constraint rejects an insert.
	ErrActiveCycleConflict = errors.New("another verification cycle is already active")
)

type CycleReadRepository interface {
	GetCycle(ctx context.Context, cycleID uint64) (verification.Cycle, error)
	// GetActiveCycle returns found=false when no cycle is active.
	GetActiveCycle(ctx context.Context) (verification.Cycle, bool, error)
	// LatestCycle returns the most recently started cycle, active or not.
	LatestCycle(ctx context.Context) (verification.Cycle, bool, error)
	// ListCycles orders by start date descending, ties by id descending.
	ListCycles(ctx context.Context) ([]verification.Cycle, error)
}

type CycleRepository interface {
	CycleReadRepository
	CreateCycle(ctx context.Context, cycle verification.Cycle) (verification.Cycle, error)
	// CloseCycle closes the cycle only if it is still active; closed=false means
	// nothing changed.
	CloseCycle(ctx context.Context, cycleID uint64, closedBy string, closedAt time.Time) (closed bool, err error)
	// TouchActiveCycle marks a submission against the cycle only if it is still
	// active; ok=false means the cycle is closed or missing.
	TouchActiveCycle(ctx context.Context, cycleID uint64, at time.Time) (ok bool, err error)
}
