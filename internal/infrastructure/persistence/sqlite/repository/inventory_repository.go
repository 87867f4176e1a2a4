package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"assetverify/internal/domain/inventory"
	"assetverify/internal/errs"
	"assetverify/internal/infrastructure/persistence/sqlite/model"
	"assetverify/internal/ports"
)

const snapshotBatchSize = 200

// InventoryRepository serves the collaborator read ports from the imported snapshot tables.
type InventoryRepository struct {
	db *gorm.DB
}

var (
	_ ports.AssetReader     = (*InventoryRepository)(nil)
	_ ports.EmployeeReader  = (*InventoryRepository)(nil)
	_ ports.LicenseReader   = (*InventoryRepository)(nil)
	_ ports.WorkspaceReader = (*InventoryRepository)(nil)
	_ ports.SnapshotWriter  = (*InventoryRepository)(nil)
)

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) ListAssets(ctx context.Context) ([]inventory.Asset, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return findAssets(db)
}

func (r *InventoryRepository) GetAsset(ctx context.Context, tag string) (inventory.Asset, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return inventory.Asset{}, err
	}

	var row model.SnapshotAsset
	if err := db.Where("tag = ?", strings.TrimSpace(tag)).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inventory.Asset{}, ports.ErrAssetNotFound
		}
		return inventory.Asset{}, errs.Wrap(err, "query asset")
	}
	return mapAsset(row)
}

func (r *InventoryRepository) ListAssetsByAssignee(ctx context.Context, employeeID string) ([]inventory.Asset, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return findAssets(db.Where("assigned_employee_id = ?", strings.TrimSpace(employeeID)))
}

func (r *InventoryRepository) ListEmployees(ctx context.Context) ([]inventory.Employee, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.SnapshotEmployee
	if err := db.Order("emp_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query employees")
	}

	employees := make([]inventory.Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, mapEmployee(row))
	}
	return employees, nil
}

func (r *InventoryRepository) GetEmployee(ctx context.Context, empID string) (inventory.Employee, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return inventory.Employee{}, err
	}

	var row model.SnapshotEmployee
	if err := db.Where("emp_id = ?", strings.TrimSpace(empID)).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inventory.Employee{}, ports.ErrEmployeeNotFound
		}
		return inventory.Employee{}, errs.Wrap(err, "query employee")
	}
	return mapEmployee(row), nil
}

func (r *InventoryRepository) ListLicenses(ctx context.Context) ([]inventory.License, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.SnapshotLicense
	if err := db.Order("software_name asc").Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query licenses")
	}

	licenses := make([]inventory.License, 0, len(rows))
	for _, row := range rows {
		expiry, err := parseTimePtr(row.ExpiryDate)
		if err != nil {
			return nil, err
		}
		licenses = append(licenses, inventory.License{
			SoftwareName: row.SoftwareName,
			SeatsLimit:   row.SeatsLimit,
			UsedSeats:    row.UsedSeats,
			ExpiryDate:   expiry,
		})
	}
	return licenses, nil
}

func (r *InventoryRepository) ListDesks(ctx context.Context) ([]inventory.Desk, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.SnapshotDesk
	if err := db.Order("desk_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query desks")
	}

	desks := make([]inventory.Desk, 0, len(rows))
	for _, row := range rows {
		desks = append(desks, inventory.Desk{DeskID: row.DeskID, Floor: row.Floor, Status: row.Status})
	}
	return desks, nil
}

// ReplaceSnapshot swaps every snapshot table in one transaction. It joins the
// caller's transaction when ctx carries one.
func (r *InventoryRepository) ReplaceSnapshot(ctx context.Context, snapshot inventory.Snapshot) error {
	if ports.TxFromContext(ctx) == nil {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return r.ReplaceSnapshot(ports.WithTxContext(ctx, tx), snapshot)
		})
	}

	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	for _, table := range []any{&model.SnapshotAsset{}, &model.SnapshotEmployee{}, &model.SnapshotLicense{}, &model.SnapshotDesk{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return errs.Wrap(err, "clear snapshot table")
		}
	}

	assets := make([]model.SnapshotAsset, 0, len(snapshot.Assets))
	for _, asset := range snapshot.Assets {
		assets = append(assets, model.SnapshotAsset{
			Tag:                asset.Tag,
			Name:               asset.Name,
			Type:               asset.Type,
			SerialNumber:       asset.SerialNumber,
			AssignedEmployeeID: asset.AssignedEmployeeID,
			WarrantyExpiry:     formatTimePtr(asset.WarrantyExpiry),
			Status:             asset.Status,
		})
	}
	employees := make([]model.SnapshotEmployee, 0, len(snapshot.Employees))
	for _, employee := range snapshot.Employees {
		employees = append(employees, model.SnapshotEmployee{
			EmpID:      employee.EmpID,
			FullName:   employee.FullName,
			Department: employee.Department,
			IsActive:   employee.IsActive,
		})
	}
	licenses := make([]model.SnapshotLicense, 0, len(snapshot.Licenses))
	for _, license := range snapshot.Licenses {
		licenses = append(licenses, model.SnapshotLicense{
			SoftwareName: license.SoftwareName,
			SeatsLimit:   license.SeatsLimit,
			UsedSeats:    license.UsedSeats,
			ExpiryDate:   formatTimePtr(license.ExpiryDate),
		})
	}
	desks := make([]model.SnapshotDesk, 0, len(snapshot.Desks))
	for _, desk := range snapshot.Desks {
		desks = append(desks, model.SnapshotDesk{DeskID: desk.DeskID, Floor: desk.Floor, Status: desk.Status})
	}

	if len(assets) > 0 {
		if err := db.CreateInBatches(&assets, snapshotBatchSize).Error; err != nil {
			return errs.Wrap(err, "insert snapshot assets")
		}
	}
	if len(employees) > 0 {
		if err := db.CreateInBatches(&employees, snapshotBatchSize).Error; err != nil {
			return errs.Wrap(err, "insert snapshot employees")
		}
	}
	if len(licenses) > 0 {
		if err := db.CreateInBatches(&licenses, snapshotBatchSize).Error; err != nil {
			return errs.Wrap(err, "insert snapshot licenses")
		}
	}
	if len(desks) > 0 {
		if err := db.CreateInBatches(&desks, snapshotBatchSize).Error; err != nil {
			return errs.Wrap(err, "insert snapshot desks")
		}
	}
	return nil
}

func findAssets(query *gorm.DB) ([]inventory.Asset, error) {
	var rows []model.SnapshotAsset
	if err := query.Order("tag asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query assets")
	}

	assets := make([]inventory.Asset, 0, len(rows))
	for _, row := range rows {
		asset, err := mapAsset(row)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func mapAsset(row model.SnapshotAsset) (inventory.Asset, error) {
	expiry, err := parseTimePtr(row.WarrantyExpiry)
	if err != nil {
		return inventory.Asset{}, err
	}
	return inventory.Asset{
		Tag:                row.Tag,
		Name:               row.Name,
		Type:               row.Type,
		SerialNumber:       row.SerialNumber,
		AssignedEmployeeID: row.AssignedEmployeeID,
		WarrantyExpiry:     expiry,
		Status:             row.Status,
	}, nil
}

func mapEmployee(row model.SnapshotEmployee) inventory.Employee {
	return inventory.Employee{
		EmpID:      row.EmpID,
		FullName:   row.FullName,
		Department: row.Department,
		IsActive:   row.IsActive,
	}
}
