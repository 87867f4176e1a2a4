package ports

import (
	"context"
	"errors"

	"assetverify/internal/domain/inventory"
)

var (
	ErrAssetNotFound    = errors.New("asset not found")
	ErrEmployeeNotFound = errors.New("employee not found")
)

// Read ports over collaborator snapshots. The engine never writes through them.

type AssetReader interface {
	ListAssets(ctx context.Context) ([]inventory.Asset, error)
	GetAsset(ctx context.Context, tag string) (inventory.Asset, error)
	ListAssetsByAssignee(ctx context.Context, employeeID string) ([]inventory.Asset, error)
}

type EmployeeReader interface {
	ListEmployees(ctx context.Context) ([]inventory.Employee, error)
	GetEmployee(ctx context.Context, empID string) (inventory.Employee, error)
}

type LicenseReader interface {
	ListLicenses(ctx context.Context) ([]inventory.License, error)
}

type WorkspaceReader interface {
	ListDesks(ctx context.Context) ([]inventory.Desk, error)
}

// SnapshotWriter replaces the whole imported snapshot at once.
type SnapshotWriter interface {
	ReplaceSnapshot(ctx context.Context, snapshot inventory.Snapshot) error
}
