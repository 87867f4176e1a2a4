package ports

import (
	"context"

	"assetverify/internal/domain/verification"
)

// RecordRepository is append-only; a later record supersedes earlier ones for the
// same (cycle, employee, asset).
type RecordRepository interface {
	AppendRecord(ctx context.Context, record verification.Record) (verification.Record, error)
	ListCycleRecords(ctx context.Context, cycleID uint64) ([]verification.Record, error)
	// ListEmployeeRecords lists one employee's records; cycleID 0 means every cycle.
	ListEmployeeRecords(ctx context.Context, employeeID string, cycleID uint64) ([]verification.Record, error)
}
